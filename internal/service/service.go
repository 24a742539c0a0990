package service

import (
	"context"
	"errors"
	"log"

	"grateful-service/internal/push"
	"grateful-service/internal/store"
)

// ErrInvalidID marks a client-supplied id that is not a valid UUID.
var ErrInvalidID = errors.New("invalid id")

// Uploader is the slice of the storage client the backup job needs.
type Uploader interface {
	Upload(ctx context.Context, key string, content []byte, contentType string) error
}

// Service holds the fan-out, digest, and backup logic. All dependencies come
// in through interfaces so tests can substitute fakes.
type Service struct {
	store          store.Store
	push           push.Dispatcher
	uploader       Uploader
	publicCircleID string
}

func New(st store.Store, dispatcher push.Dispatcher, uploader Uploader, publicCircleID string) *Service {
	return &Service{
		store:          st,
		push:           dispatcher,
		uploader:       uploader,
		publicCircleID: publicCircleID,
	}
}

// displayName resolves a user's display name for message personalization,
// falling back to "Someone" when the profile is missing.
func (s *Service) displayName(ctx context.Context, userID string) string {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil || user == nil || user.DisplayName == "" {
		if err != nil && err != store.ErrNotFound {
			log.Printf("⚠️ Failed to resolve display name for %s: %v", userID, err)
		}
		return "Someone"
	}
	return user.DisplayName
}

// truncate bounds free text for notification previews, appending an ellipsis
// marker when the text was cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
