package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"grateful-service/internal/push"
)

// Lookback previews are shorter than fan-out previews.
const lookbackPreviewLimit = 80

type LookbackStats struct {
	Sent             int `json:"sent"`
	Errors           int `json:"errors"`
	SkippedNoEntries int `json:"skippedNoEntries"`
	SkippedNoTokens  int `json:"skippedNoTokens"`
	TotalUsers       int `json:"totalUsers"`
}

// SendLookbacks resurfaces one random past entry per opted-in user as a
// reminder notification. Skips are counted, not errors; the job never aborts
// on a single user's delivery failure.
func (s *Service) SendLookbacks(ctx context.Context) (LookbackStats, error) {
	userIDs, err := s.store.LookbackUserIDs(ctx)
	if err != nil {
		return LookbackStats{}, fmt.Errorf("failed to fetch lookback users: %w", err)
	}

	stats := LookbackStats{TotalUsers: len(userIDs)}
	for _, userID := range userIDs {
		entry, err := s.store.RandomEntryForUser(ctx, userID)
		if err != nil {
			log.Printf("⚠️ [LOOKBACK] Failed to pick entry for user %s: %v", userID, err)
			stats.Errors++
			continue
		}
		if entry == nil {
			stats.SkippedNoEntries++
			continue
		}

		tokens, err := s.store.TokensForUsers(ctx, []string{userID})
		if err != nil {
			log.Printf("⚠️ [LOOKBACK] Failed to fetch tokens for user %s: %v", userID, err)
			stats.Errors++
			continue
		}
		if len(tokens) == 0 {
			stats.SkippedNoTokens++
			continue
		}

		notification := push.Notification{
			Title: "Remember this?",
			Body:  fmt.Sprintf("%s: %s", formatShortDate(entry.CreatedAt), truncate(entry.Content, lookbackPreviewLimit)),
			Data: map[string]string{
				"type":    "lookback",
				"entryId": entry.ID.String(),
			},
		}
		if entry.ImageURL != nil {
			notification.ImageURL = *entry.ImageURL
		}

		result := s.push.SendToTokens(ctx, tokens, notification)
		if result.Sent == 0 && result.Errors == 0 {
			// every token was malformed
			stats.SkippedNoTokens++
			continue
		}
		stats.Sent += result.Sent
		stats.Errors += result.Errors
	}

	log.Printf("🕰️ Lookbacks sent: %d success, %d errors, %d skipped (no entries), %d skipped (no tokens)",
		stats.Sent, stats.Errors, stats.SkippedNoEntries, stats.SkippedNoTokens)
	return stats, nil
}

type RecapStats struct {
	Sent   int `json:"sent"`
	Errors int `json:"errors"`
	Total  int `json:"total"`
}

// SendWeeklyRecap sends the same "recap is ready" notification to every
// registered device, regardless of per-user preferences.
func (s *Service) SendWeeklyRecap(ctx context.Context) (RecapStats, error) {
	tokens, err := s.store.AllTokens(ctx)
	if err != nil {
		return RecapStats{}, fmt.Errorf("failed to fetch push tokens: %w", err)
	}
	if len(tokens) == 0 {
		return RecapStats{}, nil
	}

	result := s.push.SendToTokens(ctx, tokens, push.Notification{
		Title: "Your week in gratitude",
		Body:  "Your weekly recap is ready.",
		Data:  map[string]string{"type": "weekly-recap"},
	})

	stats := RecapStats{
		Sent:   result.Sent,
		Errors: result.Errors,
		Total:  result.Sent + result.Errors,
	}
	log.Printf("📆 Weekly recap sent: %d success, %d errors", stats.Sent, stats.Errors)
	return stats, nil
}

// formatShortDate renders a millisecond epoch as "Jan 8" style.
func formatShortDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("Jan 2")
}
