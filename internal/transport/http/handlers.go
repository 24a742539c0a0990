// internal/transport/http/handlers.go
package http

import (
	"context"
	"io"
	"time"

	"grateful-service/internal/auth"
	"grateful-service/internal/config"
	"grateful-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ImageStore is the slice of the storage client the upload endpoint needs.
type ImageStore interface {
	UploadEntryImage(ctx context.Context, file io.Reader, contentType, userID string) (string, error)
}

// Mailer delivers contact-form messages.
type Mailer interface {
	Configured() bool
	SendContactMessage(ctx context.Context, name, fromEmail, message string) error
}

type Handler struct {
	svc    *service.Service
	cfg    *config.Config
	images ImageStore
	mailer Mailer
}

func NewHandler(svc *service.Service, cfg *config.Config, images ImageStore, mailer Mailer) *Handler {
	return &Handler{svc: svc, cfg: cfg, images: images, mailer: mailer}
}

// actingUser prefers the verified JWT identity over a client-supplied id.
func actingUser(c *fiber.Ctx, bodyID string) string {
	if id := auth.UserID(c); id != "" {
		return id
	}
	return bodyID
}

// contextWithDeliveryTimeout bounds background email delivery, which must
// not borrow the request context (the request finishes first).
func contextWithDeliveryTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
