package service

import (
	"context"
	"fmt"
	"log"

	"grateful-service/internal/push"
	"grateful-service/internal/store"
	"grateful-service/pkg/models"

	"github.com/google/uuid"
)

// Notification previews cut long free text at this many characters.
const previewLimit = 100

// NotifyCircleJoin fans out a "new member" notification to every existing
// member of the circle except the joiner. Joins into the designated public
// circle are not fanned out at all.
func (s *Service) NotifyCircleJoin(ctx context.Context, circleID, newMemberID string) (int, error) {
	if s.publicCircleID != "" && circleID == s.publicCircleID {
		log.Printf("🌐 Join to public circle %s, skipping notifications", circleID)
		return 0, nil
	}

	cid, err := uuid.Parse(circleID)
	if err != nil {
		return 0, store.ErrNotFound
	}
	circle, err := s.store.GetCircle(ctx, cid)
	if err != nil {
		return 0, err
	}

	memberName := s.displayName(ctx, newMemberID)

	memberIDs, err := s.store.CircleMemberIDs(ctx, cid, newMemberID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch circle members: %w", err)
	}
	if len(memberIDs) == 0 {
		return 0, nil
	}

	s.push.SendToUsers(ctx, memberIDs, push.Notification{
		Title: "New Circle Member",
		Body:  fmt.Sprintf("%s joined %s", memberName, circle.Name),
		Data: map[string]string{
			"type":        "circle-join",
			"circleId":    circleID,
			"newMemberId": newMemberID,
		},
	})
	return len(memberIDs), nil
}

// NotifyNewEntry tells the target circle's members (minus the author) about a
// freshly shared entry. The entry itself was created by a separate endpoint;
// this is notification-only.
func (s *Service) NotifyNewEntry(ctx context.Context, entryID, circleID, authorID string) (int, error) {
	eid, err := uuid.Parse(entryID)
	if err != nil {
		return 0, store.ErrNotFound
	}
	entry, err := s.store.GetEntry(ctx, eid)
	if err != nil {
		return 0, err
	}

	cid, err := uuid.Parse(circleID)
	if err != nil {
		return 0, store.ErrNotFound
	}

	authorName := s.displayName(ctx, authorID)

	memberIDs, err := s.store.CircleMemberIDs(ctx, cid, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch circle members: %w", err)
	}
	if len(memberIDs) == 0 {
		return 0, nil
	}

	s.push.SendToUsers(ctx, memberIDs, push.Notification{
		Title: "New Gratitude Entry",
		Body:  fmt.Sprintf("%s says \"%s\"", authorName, truncate(entry.Content, previewLimit)),
		Data: map[string]string{
			"type":     "circle-entry",
			"circleId": circleID,
			"entryId":  entryID,
			"authorId": authorID,
		},
	})
	return len(memberIDs), nil
}

// NotifyComment tells the entry author and every distinct prior commenter
// about a new comment. The author is notified at most once; the commenter
// never notifies themselves.
func (s *Service) NotifyComment(ctx context.Context, entryID, userID, commentContent string) error {
	eid, err := uuid.Parse(entryID)
	if err != nil {
		return store.ErrNotFound
	}
	entry, err := s.store.GetEntry(ctx, eid)
	if err != nil {
		return err
	}

	commenterName := s.displayName(ctx, userID)
	body := "New comment"
	if commentContent != "" {
		body = truncate(commentContent, previewLimit)
	}

	data := map[string]string{
		"type":    "comment",
		"entryId": entryID,
		"userId":  userID,
	}

	if entry.UserID != userID {
		s.push.SendToUsers(ctx, []string{entry.UserID}, push.Notification{
			Title: fmt.Sprintf("%s commented on your entry", commenterName),
			Body:  body,
			Data:  data,
		})
	}

	priorCommenters, err := s.store.PriorCommenterIDs(ctx, eid, userID, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to fetch prior commenters: %w", err)
	}
	if len(priorCommenters) > 0 {
		s.push.SendToUsers(ctx, priorCommenters, push.Notification{
			Title: fmt.Sprintf("%s also commented", commenterName),
			Body:  body,
			Data:  data,
		})
	}
	return nil
}

// React toggles the user's reaction on an entry: the same emoji removes it, a
// different one replaces it, none adds it. The entry author is notified on
// add/update only, and never about their own reaction.
func (s *Service) React(ctx context.Context, entryID, userID, emoji string) (string, error) {
	eid, err := uuid.Parse(entryID)
	if err != nil {
		return "", store.ErrNotFound
	}
	entry, err := s.store.GetEntry(ctx, eid)
	if err != nil {
		return "", err
	}

	existing, err := s.store.ReactionFor(ctx, eid, userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up reaction: %w", err)
	}

	var action string
	switch {
	case existing != nil && existing.Emoji == emoji:
		if err := s.store.DeleteReaction(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("failed to remove reaction: %w", err)
		}
		action = "removed"
	case existing != nil:
		if err := s.store.UpdateReactionEmoji(ctx, existing.ID, emoji); err != nil {
			return "", fmt.Errorf("failed to update reaction: %w", err)
		}
		action = "updated"
	default:
		reaction := &models.EntryReaction{EntryID: eid, UserID: userID, Emoji: emoji}
		if err := s.store.CreateReaction(ctx, reaction); err != nil {
			return "", fmt.Errorf("failed to add reaction: %w", err)
		}
		action = "added"
	}

	if entry.UserID != userID && action != "removed" {
		reactorName := s.displayName(ctx, userID)
		s.push.SendToUsers(ctx, []string{entry.UserID}, push.Notification{
			Title: "New Reaction",
			Body:  fmt.Sprintf("%s reacted %s to your entry", reactorName, emoji),
			Data: map[string]string{
				"type":    "reaction",
				"entryId": entryID,
				"emoji":   emoji,
				"userId":  userID,
			},
		})
	}
	return action, nil
}

// ReactionSummary aggregates per-emoji counts for the given entries plus the
// requesting user's own reaction per entry (nil when they have none).
func (s *Service) ReactionSummary(ctx context.Context, entryIDs []string, userID string) (map[string]map[string]int, map[string]*string, error) {
	ids := make([]uuid.UUID, 0, len(entryIDs))
	for _, raw := range entryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		ids = append(ids, id)
	}

	counts, err := s.store.ReactionCounts(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate reactions: %w", err)
	}

	userReactions := make(map[string]*string, len(ids))
	var own map[string]string
	if userID != "" {
		own, err = s.store.UserReactions(ctx, ids, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch user reactions: %w", err)
		}
	}
	for _, id := range ids {
		key := id.String()
		if counts[key] == nil {
			counts[key] = map[string]int{}
		}
		if emoji, ok := own[key]; ok {
			e := emoji
			userReactions[key] = &e
		} else {
			userReactions[key] = nil
		}
	}
	return counts, userReactions, nil
}

// RegisterPushToken upserts a device token; a token already registered to
// another user is reassigned (last writer wins).
func (s *Service) RegisterPushToken(ctx context.Context, userID, token, platform string, deviceID *string) error {
	if err := s.store.UpsertPushToken(ctx, userID, token, platform, deviceID); err != nil {
		return fmt.Errorf("failed to register push token: %w", err)
	}
	log.Printf("✅ Push token %s registered for user %s (%s)", maskToken(token), userID, platform)
	return nil
}

// maskToken hides all but last 6 chars for logging safety
func maskToken(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}

// CircleByInviteCode resolves a circle from its invite code for the web
// invite page.
func (s *Service) CircleByInviteCode(ctx context.Context, code string) (*models.Circle, error) {
	return s.store.CircleByInviteCode(ctx, code)
}
