// internal/transport/http/jobs.go
package http

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// CronAuth guards the scheduled-job endpoints with a shared bearer secret.
// When no secret is configured the guard is a no-op so local runs work.
func CronAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret != "" && c.Get("Authorization") != "Bearer "+secret {
			log.Printf("⚠️ [CRON] Unauthorized call to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}

// SendLookbacks runs the daily "remember this?" digest for every user with
// lookback notifications enabled.
func (h *Handler) SendLookbacks(c *fiber.Ctx) error {
	stats, err := h.svc.SendLookbacks(c.Context())
	if err != nil {
		log.Printf("❌ [Lookbacks] job failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send lookbacks"})
	}

	if stats.TotalUsers == 0 {
		return c.JSON(fiber.Map{"success": true, "message": "No users with lookbacks enabled", "sent": 0})
	}
	return c.JSON(fiber.Map{
		"success":          true,
		"sent":             stats.Sent,
		"errors":           stats.Errors,
		"skippedNoEntries": stats.SkippedNoEntries,
		"skippedNoTokens":  stats.SkippedNoTokens,
		"totalUsers":       stats.TotalUsers,
	})
}

// SendWeeklyRecap broadcasts the weekly recap push to every registered token.
func (h *Handler) SendWeeklyRecap(c *fiber.Ctx) error {
	stats, err := h.svc.SendWeeklyRecap(c.Context())
	if err != nil {
		log.Printf("❌ [WeeklyRecap] job failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send weekly recap"})
	}

	if stats.Total == 0 {
		return c.JSON(fiber.Map{"success": true, "message": "No push tokens found", "sent": 0})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"sent":    stats.Sent,
		"errors":  stats.Errors,
		"total":   stats.Total,
	})
}

// Backup snapshots every tracked table to object storage as JSONL.
func (h *Handler) Backup(c *fiber.Ctx) error {
	result, err := h.svc.Backup(c.Context())
	if err != nil {
		log.Printf("❌ [Backup] job failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "backup failed",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"filename":  result.Filename,
		"timestamp": result.Timestamp,
		"counts":    result.Counts,
		"totalRows": result.TotalRows,
	})
}
