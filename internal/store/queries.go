package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grateful-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (d *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetCircle(ctx context.Context, id uuid.UUID) (*models.Circle, error) {
	var circle models.Circle
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&circle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &circle, nil
}

func (d *DB) CircleByInviteCode(ctx context.Context, code string) (*models.Circle, error) {
	var circle models.Circle
	err := d.db.WithContext(ctx).Where("invite_code = ?", code).First(&circle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &circle, nil
}

func (d *DB) GetEntry(ctx context.Context, id uuid.UUID) (*models.GratitudeEntry, error) {
	var entry models.GratitudeEntry
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (d *DB) CircleMemberIDs(ctx context.Context, circleID uuid.UUID, excludeUserID string) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Model(&models.CircleMember{}).
		Where("circle_id = ? AND user_id <> ?", circleID, excludeUserID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (d *DB) PriorCommenterIDs(ctx context.Context, entryID uuid.UUID, excludeUserIDs ...string) ([]string, error) {
	var ids []string
	query := d.db.WithContext(ctx).
		Model(&models.EntryComment{}).
		Distinct("user_id").
		Where("entry_id = ?", entryID)
	if len(excludeUserIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUserIDs)
	}
	err := query.Pluck("user_id", &ids).Error
	return ids, err
}

func (d *DB) ReactionFor(ctx context.Context, entryID uuid.UUID, userID string) (*models.EntryReaction, error) {
	var reaction models.EntryReaction
	err := d.db.WithContext(ctx).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (d *DB) CreateReaction(ctx context.Context, reaction *models.EntryReaction) error {
	return d.db.WithContext(ctx).Create(reaction).Error
}

func (d *DB) UpdateReactionEmoji(ctx context.Context, id uuid.UUID, emoji string) error {
	return d.db.WithContext(ctx).
		Model(&models.EntryReaction{}).
		Where("id = ?", id).
		Update("emoji", emoji).Error
}

func (d *DB) DeleteReaction(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Delete(&models.EntryReaction{}, "id = ?", id).Error
}

func (d *DB) ReactionCounts(ctx context.Context, entryIDs []uuid.UUID) (map[string]map[string]int, error) {
	var rows []struct {
		EntryID uuid.UUID
		Emoji   string
		Count   int
	}
	err := d.db.WithContext(ctx).
		Model(&models.EntryReaction{}).
		Select("entry_id, emoji, count(*) as count").
		Where("entry_id IN ?", entryIDs).
		Group("entry_id, emoji").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]map[string]int)
	for _, row := range rows {
		entryID := row.EntryID.String()
		if counts[entryID] == nil {
			counts[entryID] = make(map[string]int)
		}
		counts[entryID][row.Emoji] = row.Count
	}
	return counts, nil
}

func (d *DB) UserReactions(ctx context.Context, entryIDs []uuid.UUID, userID string) (map[string]string, error) {
	var reactions []models.EntryReaction
	err := d.db.WithContext(ctx).
		Where("entry_id IN ? AND user_id = ?", entryIDs, userID).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(reactions))
	for _, r := range reactions {
		result[r.EntryID.String()] = r.Emoji
	}
	return result, nil
}

func (d *DB) UpsertPushToken(ctx context.Context, userID, token, platform string, deviceID *string) error {
	var existing models.PushToken
	err := d.db.WithContext(ctx).Where("token = ?", token).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"user_id":    userID,
			"platform":   platform,
			"updated_at": time.Now().UnixMilli(),
		}
		if deviceID != nil {
			updates["device_id"] = *deviceID
		}
		return d.db.WithContext(ctx).
			Model(&models.PushToken{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return d.db.WithContext(ctx).Create(&models.PushToken{
			UserID:   userID,
			Token:    token,
			Platform: platform,
			DeviceID: deviceID,
		}).Error
	default:
		return err
	}
}

func (d *DB) TokensForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []string
	err := d.db.WithContext(ctx).
		Model(&models.PushToken{}).
		Where("user_id IN ?", userIDs).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (d *DB) AllTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := d.db.WithContext(ctx).
		Model(&models.PushToken{}).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (d *DB) LookbackUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Model(&models.NotificationPreference{}).
		Where("past_reminder_enabled = ?", true).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (d *DB) RandomEntryForUser(ctx context.Context, userID string) (*models.GratitudeEntry, error) {
	// Prefer entries with an attached image, fall back to any entry.
	var entries []models.GratitudeEntry
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND image_url IS NOT NULL", userID).
		Order("RANDOM()").
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		err = d.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("RANDOM()").
			Limit(1).
			Find(&entries).Error
		if err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (d *DB) Dump(ctx context.Context, table string) ([]any, error) {
	switch table {
	case "users":
		return dumpTable[models.User](ctx, d.db)
	case "circles":
		return dumpTable[models.Circle](ctx, d.db)
	case "circleMembers":
		return dumpTable[models.CircleMember](ctx, d.db)
	case "gratitudeEntries":
		return dumpTable[models.GratitudeEntry](ctx, d.db)
	case "pushTokens":
		return dumpTable[models.PushToken](ctx, d.db)
	case "entryReactions":
		return dumpTable[models.EntryReaction](ctx, d.db)
	case "entryComments":
		return dumpTable[models.EntryComment](ctx, d.db)
	case "notificationPreferences":
		return dumpTable[models.NotificationPreference](ctx, d.db)
	default:
		return nil, fmt.Errorf("unknown backup table %q", table)
	}
}

func dumpTable[T any](ctx context.Context, db *gorm.DB) ([]any, error) {
	var rows []T
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return out, nil
}
