// internal/transport/http/social.go
package http

import (
	"errors"
	"log"
	"strings"

	"grateful-service/internal/service"
	"grateful-service/internal/store"
	"grateful-service/pkg/models"

	"github.com/gofiber/fiber/v2"
)

// CircleJoin fans out a "new member" push to the circle the actor joined.
func (h *Handler) CircleJoin(c *fiber.Ctx) error {
	var req struct {
		CircleID    string `json:"circleId"`
		NewMemberID string `json:"newMemberId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.NewMemberID = actingUser(c, req.NewMemberID)

	if req.CircleID == "" || req.NewMemberID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "circleId and newMemberId are required"})
	}

	notified, err := h.svc.NotifyCircleJoin(c.Context(), req.CircleID, req.NewMemberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "circle not found"})
		}
		log.Printf("❌ [CircleJoin] fan-out failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send notifications"})
	}

	if notified == 0 {
		return c.JSON(fiber.Map{"success": true, "message": "No members to notify"})
	}
	return c.JSON(fiber.Map{"success": true, "notified": notified})
}

// NotifyEntry fans out a "new gratitude entry" push to the author's circle.
func (h *Handler) NotifyEntry(c *fiber.Ctx) error {
	var req struct {
		EntryID  string `json:"entryId"`
		CircleID string `json:"circleId"`
		AuthorID string `json:"authorId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.AuthorID = actingUser(c, req.AuthorID)

	if req.EntryID == "" || req.CircleID == "" || req.AuthorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entryId, circleId and authorId are required"})
	}

	notified, err := h.svc.NotifyNewEntry(c.Context(), req.EntryID, req.CircleID, req.AuthorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "entry not found"})
		}
		log.Printf("❌ [NotifyEntry] fan-out failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send notifications"})
	}

	if notified == 0 {
		return c.JSON(fiber.Map{"success": true, "message": "No members to notify"})
	}
	return c.JSON(fiber.Map{"success": true, "notified": notified})
}

// Comment notifies the entry author and prior commenters about a new comment.
// The comment row itself is written by the app's own backend; this endpoint
// only owns the fan-out.
func (h *Handler) Comment(c *fiber.Ctx) error {
	var req struct {
		EntryID        string `json:"entryId"`
		UserID         string `json:"userId"`
		CommentContent string `json:"commentContent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.UserID = actingUser(c, req.UserID)

	if req.EntryID == "" || req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entryId and userId are required"})
	}

	if err := h.svc.NotifyComment(c.Context(), req.EntryID, req.UserID, req.CommentContent); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "entry not found"})
		}
		log.Printf("❌ [Comment] fan-out failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send notifications"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// React toggles the actor's reaction on an entry and notifies its author.
func (h *Handler) React(c *fiber.Ctx) error {
	var req struct {
		EntryID string `json:"entryId"`
		UserID  string `json:"userId"`
		Emoji   string `json:"emoji"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.UserID = actingUser(c, req.UserID)

	if req.EntryID == "" || req.UserID == "" || req.Emoji == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entryId, userId and emoji are required"})
	}
	if !models.IsAllowedEmoji(req.Emoji) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid emoji"})
	}

	action, err := h.svc.React(c.Context(), req.EntryID, req.UserID, req.Emoji)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "entry not found"})
		}
		log.Printf("❌ [React] failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save reaction"})
	}

	resp := fiber.Map{"success": true, "action": action, "emoji": req.Emoji}
	if action == "removed" {
		resp["emoji"] = nil
	}
	return c.JSON(resp)
}

// GetReactions returns per-emoji counts for a batch of entries, plus which
// emoji (if any) the requesting user picked on each.
func (h *Handler) GetReactions(c *fiber.Ctx) error {
	rawIDs := strings.TrimSpace(c.Query("entryIds"))
	if rawIDs == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entryIds query parameter is required"})
	}

	var entryIDs []string
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			entryIDs = append(entryIDs, id)
		}
	}

	userID := actingUser(c, c.Query("userId"))

	counts, userReactions, err := h.svc.ReactionSummary(c.Context(), entryIDs, userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
		}
		log.Printf("❌ [GetReactions] failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load reactions"})
	}

	return c.JSON(fiber.Map{
		"reactions":     counts,
		"userReactions": userReactions,
	})
}

// RegisterPushToken upserts a device push token for the acting user.
func (h *Handler) RegisterPushToken(c *fiber.Ctx) error {
	var req struct {
		UserID   string  `json:"userId"`
		Token    string  `json:"token"`
		Platform string  `json:"platform"`
		DeviceID *string `json:"deviceId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	req.UserID = actingUser(c, req.UserID)

	if req.UserID == "" || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId and token are required"})
	}
	if req.Platform != "ios" && req.Platform != "android" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "platform must be ios or android"})
	}

	if err := h.svc.RegisterPushToken(c.Context(), req.UserID, req.Token, req.Platform, req.DeviceID); err != nil {
		log.Printf("❌ [RegisterPushToken] failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save token"})
	}

	return c.JSON(fiber.Map{"success": true})
}
