package store

import (
	"context"
	"errors"

	"grateful-service/pkg/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced entity does not exist. Transport
// maps it to 404.
var ErrNotFound = errors.New("not found")

// BackupTables lists every table the backup job dumps. The names double as
// the "table" field of the persisted JSONL lines.
var BackupTables = []string{
	"users",
	"circles",
	"circleMembers",
	"gratitudeEntries",
	"pushTokens",
	"entryReactions",
	"entryComments",
	"notificationPreferences",
}

// Store is the data-access surface the services run against. The production
// implementation is GORM-on-Postgres; tests substitute fakes.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetCircle(ctx context.Context, id uuid.UUID) (*models.Circle, error)
	CircleByInviteCode(ctx context.Context, code string) (*models.Circle, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.GratitudeEntry, error)

	// CircleMemberIDs returns the user ids of all members of the circle,
	// excluding excludeUserID.
	CircleMemberIDs(ctx context.Context, circleID uuid.UUID, excludeUserID string) ([]string, error)

	// PriorCommenterIDs returns the distinct user ids that have commented on
	// the entry, excluding the given user ids.
	PriorCommenterIDs(ctx context.Context, entryID uuid.UUID, excludeUserIDs ...string) ([]string, error)

	// ReactionFor returns the user's reaction on the entry, or (nil, nil) when
	// there is none.
	ReactionFor(ctx context.Context, entryID uuid.UUID, userID string) (*models.EntryReaction, error)
	CreateReaction(ctx context.Context, reaction *models.EntryReaction) error
	UpdateReactionEmoji(ctx context.Context, id uuid.UUID, emoji string) error
	DeleteReaction(ctx context.Context, id uuid.UUID) error

	// ReactionCounts returns entryID → emoji → count for the given entries.
	ReactionCounts(ctx context.Context, entryIDs []uuid.UUID) (map[string]map[string]int, error)
	// UserReactions returns entryID → emoji for the entries the user reacted to.
	UserReactions(ctx context.Context, entryIDs []uuid.UUID, userID string) (map[string]string, error)

	// UpsertPushToken registers a device token, reassigning ownership when the
	// token string is already known (last writer wins).
	UpsertPushToken(ctx context.Context, userID, token, platform string, deviceID *string) error
	TokensForUsers(ctx context.Context, userIDs []string) ([]string, error)
	AllTokens(ctx context.Context) ([]string, error)

	// LookbackUserIDs returns every user with the lookback reminder enabled.
	LookbackUserIDs(ctx context.Context) ([]string, error)
	// RandomEntryForUser picks one random entry for the user, preferring
	// entries with an image; (nil, nil) when the user has no entries.
	RandomEntryForUser(ctx context.Context, userID string) (*models.GratitudeEntry, error)

	// Dump returns every row of the named backup table.
	Dump(ctx context.Context, table string) ([]any, error)
}
