package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grateful-service/internal/push"
	"grateful-service/internal/store"
	"grateful-service/pkg/models"

	"github.com/google/uuid"
)

type sentPush struct {
	userIDs []string
	tokens  []string
	n       push.Notification
}

type fakeDispatcher struct {
	sent   []sentPush
	result push.Result
}

func (f *fakeDispatcher) SendToUsers(_ context.Context, userIDs []string, n push.Notification) push.Result {
	f.sent = append(f.sent, sentPush{userIDs: userIDs, n: n})
	return f.result
}

func (f *fakeDispatcher) SendToTokens(_ context.Context, tokens []string, n push.Notification) push.Result {
	f.sent = append(f.sent, sentPush{tokens: tokens, n: n})
	return f.result
}

type fakeStore struct {
	users      map[string]*models.User
	circles    map[uuid.UUID]*models.Circle
	entries    map[uuid.UUID]*models.GratitudeEntry
	members    map[uuid.UUID][]string
	commenters map[uuid.UUID][]string
	reactions  map[string]*models.EntryReaction
	counts     map[string]map[string]int
	userEmoji  map[string]string
	tokens     map[string][]string
	allTokens  []string
	lookbacks  []string
	randomByID map[string]*models.GratitudeEntry
	dumps      map[string][]any
	dumpErr    map[string]error

	createdReactions []*models.EntryReaction
	updatedReactions map[uuid.UUID]string
	deletedReactions []uuid.UUID
	upsertedTokens   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:            map[string]*models.User{},
		circles:          map[uuid.UUID]*models.Circle{},
		entries:          map[uuid.UUID]*models.GratitudeEntry{},
		members:          map[uuid.UUID][]string{},
		commenters:       map[uuid.UUID][]string{},
		reactions:        map[string]*models.EntryReaction{},
		counts:           map[string]map[string]int{},
		userEmoji:        map[string]string{},
		tokens:           map[string][]string{},
		randomByID:       map[string]*models.GratitudeEntry{},
		dumps:            map[string][]any{},
		dumpErr:          map[string]error{},
		updatedReactions: map[uuid.UUID]string{},
	}
}

func reactionKey(entryID uuid.UUID, userID string) string {
	return entryID.String() + "|" + userID
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetCircle(_ context.Context, id uuid.UUID) (*models.Circle, error) {
	if c, ok := f.circles[id]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CircleByInviteCode(_ context.Context, code string) (*models.Circle, error) {
	for _, c := range f.circles {
		if c.InviteCode == code {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetEntry(_ context.Context, id uuid.UUID) (*models.GratitudeEntry, error) {
	if e, ok := f.entries[id]; ok {
		return e, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CircleMemberIDs(_ context.Context, circleID uuid.UUID, excludeUserID string) ([]string, error) {
	var out []string
	for _, id := range f.members[circleID] {
		if id != excludeUserID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStore) PriorCommenterIDs(_ context.Context, entryID uuid.UUID, excludeUserIDs ...string) ([]string, error) {
	excluded := map[string]bool{}
	for _, id := range excludeUserIDs {
		excluded[id] = true
	}
	var out []string
	for _, id := range f.commenters[entryID] {
		if !excluded[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStore) ReactionFor(_ context.Context, entryID uuid.UUID, userID string) (*models.EntryReaction, error) {
	return f.reactions[reactionKey(entryID, userID)], nil
}

func (f *fakeStore) CreateReaction(_ context.Context, reaction *models.EntryReaction) error {
	f.createdReactions = append(f.createdReactions, reaction)
	return nil
}

func (f *fakeStore) UpdateReactionEmoji(_ context.Context, id uuid.UUID, emoji string) error {
	f.updatedReactions[id] = emoji
	return nil
}

func (f *fakeStore) DeleteReaction(_ context.Context, id uuid.UUID) error {
	f.deletedReactions = append(f.deletedReactions, id)
	return nil
}

func (f *fakeStore) ReactionCounts(_ context.Context, _ []uuid.UUID) (map[string]map[string]int, error) {
	out := map[string]map[string]int{}
	for k, v := range f.counts {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) UserReactions(_ context.Context, _ []uuid.UUID, _ string) (map[string]string, error) {
	return f.userEmoji, nil
}

func (f *fakeStore) UpsertPushToken(_ context.Context, userID, token, _ string, _ *string) error {
	f.upsertedTokens = append(f.upsertedTokens, userID+"|"+token)
	return nil
}

func (f *fakeStore) TokensForUsers(_ context.Context, userIDs []string) ([]string, error) {
	var out []string
	for _, id := range userIDs {
		out = append(out, f.tokens[id]...)
	}
	return out, nil
}

func (f *fakeStore) AllTokens(_ context.Context) ([]string, error) {
	return f.allTokens, nil
}

func (f *fakeStore) LookbackUserIDs(_ context.Context) ([]string, error) {
	return f.lookbacks, nil
}

func (f *fakeStore) RandomEntryForUser(_ context.Context, userID string) (*models.GratitudeEntry, error) {
	return f.randomByID[userID], nil
}

func (f *fakeStore) Dump(_ context.Context, table string) ([]any, error) {
	if err := f.dumpErr[table]; err != nil {
		return nil, err
	}
	return f.dumps[table], nil
}

func newTestService(st *fakeStore, d *fakeDispatcher, publicCircleID string) *Service {
	return New(st, d, nil, publicCircleID)
}

func TestNotifyCircleJoinFansOutToExistingMembers(t *testing.T) {
	st := newFakeStore()
	circleID := uuid.New()
	st.circles[circleID] = &models.Circle{ID: circleID, Name: "Morning Crew"}
	st.members[circleID] = []string{"alice", "bob", "dana"}
	st.users["dana"] = &models.User{ID: "dana", DisplayName: "Dana"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	notified, err := svc.NotifyCircleJoin(context.Background(), circleID.String(), "dana")
	if err != nil {
		t.Fatalf("NotifyCircleJoin: %v", err)
	}
	if notified != 2 {
		t.Fatalf("notified = %d, want 2", notified)
	}
	if len(d.sent) != 1 {
		t.Fatalf("pushes = %d, want 1", len(d.sent))
	}

	got := d.sent[0]
	if len(got.userIDs) != 2 || got.userIDs[0] != "alice" || got.userIDs[1] != "bob" {
		t.Errorf("recipients = %v, want [alice bob]", got.userIDs)
	}
	if got.n.Title != "New Circle Member" {
		t.Errorf("title = %q", got.n.Title)
	}
	if got.n.Body != "Dana joined Morning Crew" {
		t.Errorf("body = %q", got.n.Body)
	}
	if got.n.Data["type"] != "circle-join" {
		t.Errorf("data type = %q", got.n.Data["type"])
	}
}

func TestNotifyCircleJoinSkipsPublicCircle(t *testing.T) {
	st := newFakeStore()
	d := &fakeDispatcher{}
	publicID := uuid.New().String()
	svc := newTestService(st, d, publicID)

	notified, err := svc.NotifyCircleJoin(context.Background(), publicID, "dana")
	if err != nil {
		t.Fatalf("NotifyCircleJoin: %v", err)
	}
	if notified != 0 || len(d.sent) != 0 {
		t.Errorf("public circle join must not fan out (notified=%d, pushes=%d)", notified, len(d.sent))
	}
}

func TestNotifyCircleJoinUnknownCircle(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeDispatcher{}, "")

	for _, circleID := range []string{"not-a-uuid", uuid.New().String()} {
		if _, err := svc.NotifyCircleJoin(context.Background(), circleID, "dana"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("circleID %q: err = %v, want ErrNotFound", circleID, err)
		}
	}
}

func TestNotifyCircleJoinSoleMember(t *testing.T) {
	st := newFakeStore()
	circleID := uuid.New()
	st.circles[circleID] = &models.Circle{ID: circleID, Name: "Solo"}
	st.members[circleID] = []string{"dana"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	notified, err := svc.NotifyCircleJoin(context.Background(), circleID.String(), "dana")
	if err != nil {
		t.Fatalf("NotifyCircleJoin: %v", err)
	}
	if notified != 0 || len(d.sent) != 0 {
		t.Errorf("no other members must mean no push (notified=%d, pushes=%d)", notified, len(d.sent))
	}
}

func TestNotifyNewEntryTruncatesAndFallsBackToSomeone(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	circleID := uuid.New()
	longContent := strings.Repeat("g", 150)
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "ghost", Content: longContent}
	st.members[circleID] = []string{"ghost", "bob"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	notified, err := svc.NotifyNewEntry(context.Background(), entryID.String(), circleID.String(), "ghost")
	if err != nil {
		t.Fatalf("NotifyNewEntry: %v", err)
	}
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}

	wantBody := "Someone says \"" + strings.Repeat("g", 100) + "...\""
	if got := d.sent[0].n.Body; got != wantBody {
		t.Errorf("body = %q, want %q", got, wantBody)
	}
	if d.sent[0].n.Data["type"] != "circle-entry" {
		t.Errorf("data type = %q", d.sent[0].n.Data["type"])
	}
}

func TestNotifyCommentNotifiesAuthorAndPriorCommenters(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "author", Content: "sunsets"}
	st.users["carol"] = &models.User{ID: "carol", DisplayName: "Carol"}
	st.commenters[entryID] = []string{"author", "carol", "dave"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	if err := svc.NotifyComment(context.Background(), entryID.String(), "carol", "love this"); err != nil {
		t.Fatalf("NotifyComment: %v", err)
	}
	if len(d.sent) != 2 {
		t.Fatalf("pushes = %d, want 2 (author + prior commenters)", len(d.sent))
	}

	toAuthor := d.sent[0]
	if len(toAuthor.userIDs) != 1 || toAuthor.userIDs[0] != "author" {
		t.Errorf("first push recipients = %v, want [author]", toAuthor.userIDs)
	}
	if toAuthor.n.Title != "Carol commented on your entry" {
		t.Errorf("author title = %q", toAuthor.n.Title)
	}
	if toAuthor.n.Body != "love this" {
		t.Errorf("author body = %q", toAuthor.n.Body)
	}

	toPrior := d.sent[1]
	if len(toPrior.userIDs) != 1 || toPrior.userIDs[0] != "dave" {
		t.Errorf("prior commenter recipients = %v, want [dave]", toPrior.userIDs)
	}
	if toPrior.n.Title != "Carol also commented" {
		t.Errorf("prior title = %q", toPrior.n.Title)
	}
}

func TestNotifyCommentOnOwnEntrySkipsAuthorPush(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "author", Content: "rain"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	if err := svc.NotifyComment(context.Background(), entryID.String(), "author", ""); err != nil {
		t.Fatalf("NotifyComment: %v", err)
	}
	if len(d.sent) != 0 {
		t.Errorf("commenting on your own entry with no prior commenters must not push, got %d", len(d.sent))
	}
}

func TestNotifyCommentEmptyContentUsesPlaceholderBody(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "author", Content: "rain"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	if err := svc.NotifyComment(context.Background(), entryID.String(), "carol", ""); err != nil {
		t.Fatalf("NotifyComment: %v", err)
	}
	if got := d.sent[0].n.Body; got != "New comment" {
		t.Errorf("body = %q, want %q", got, "New comment")
	}
}

func TestReactToggle(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "author", Content: "coffee"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")
	ctx := context.Background()

	// No existing reaction: add, author notified.
	action, err := svc.React(ctx, entryID.String(), "carol", "❤️")
	if err != nil {
		t.Fatalf("React add: %v", err)
	}
	if action != "added" {
		t.Errorf("action = %q, want added", action)
	}
	if len(st.createdReactions) != 1 {
		t.Fatalf("created = %d, want 1", len(st.createdReactions))
	}
	if len(d.sent) != 1 || d.sent[0].userIDs[0] != "author" {
		t.Fatalf("author must be notified on add")
	}
	if d.sent[0].n.Body != "Someone reacted ❤️ to your entry" {
		t.Errorf("body = %q", d.sent[0].n.Body)
	}

	existing := &models.EntryReaction{ID: uuid.New(), EntryID: entryID, UserID: "carol", Emoji: "❤️"}
	st.reactions[reactionKey(entryID, "carol")] = existing

	// Different emoji: update, author notified again.
	action, err = svc.React(ctx, entryID.String(), "carol", "🎉")
	if err != nil {
		t.Fatalf("React update: %v", err)
	}
	if action != "updated" {
		t.Errorf("action = %q, want updated", action)
	}
	if st.updatedReactions[existing.ID] != "🎉" {
		t.Errorf("updated emoji = %q, want 🎉", st.updatedReactions[existing.ID])
	}
	if len(d.sent) != 2 {
		t.Errorf("pushes = %d, want 2", len(d.sent))
	}

	// Same emoji: remove, no notification.
	action, err = svc.React(ctx, entryID.String(), "carol", "❤️")
	if err != nil {
		t.Fatalf("React remove: %v", err)
	}
	if action != "removed" {
		t.Errorf("action = %q, want removed", action)
	}
	if len(st.deletedReactions) != 1 || st.deletedReactions[0] != existing.ID {
		t.Errorf("deleted = %v, want [%s]", st.deletedReactions, existing.ID)
	}
	if len(d.sent) != 2 {
		t.Errorf("removal must not notify, pushes = %d", len(d.sent))
	}
}

func TestReactOwnEntryNeverNotifies(t *testing.T) {
	st := newFakeStore()
	entryID := uuid.New()
	st.entries[entryID] = &models.GratitudeEntry{ID: entryID, UserID: "carol", Content: "tea"}

	d := &fakeDispatcher{}
	svc := newTestService(st, d, "")

	action, err := svc.React(context.Background(), entryID.String(), "carol", "👍")
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	if action != "added" {
		t.Errorf("action = %q, want added", action)
	}
	if len(d.sent) != 0 {
		t.Errorf("reacting to your own entry must not notify, pushes = %d", len(d.sent))
	}
}

func TestReactionSummaryZeroFillsAndMarksOwnReaction(t *testing.T) {
	st := newFakeStore()
	reacted := uuid.New()
	unreacted := uuid.New()
	st.counts[reacted.String()] = map[string]int{"❤️": 2}
	st.userEmoji[reacted.String()] = "❤️"

	svc := newTestService(st, &fakeDispatcher{}, "")

	counts, userReactions, err := svc.ReactionSummary(context.Background(),
		[]string{reacted.String(), unreacted.String()}, "carol")
	if err != nil {
		t.Fatalf("ReactionSummary: %v", err)
	}

	if counts[reacted.String()]["❤️"] != 2 {
		t.Errorf("counts = %v", counts[reacted.String()])
	}
	if counts[unreacted.String()] == nil || len(counts[unreacted.String()]) != 0 {
		t.Errorf("unreacted entry must get an empty count map, got %v", counts[unreacted.String()])
	}
	if userReactions[reacted.String()] == nil || *userReactions[reacted.String()] != "❤️" {
		t.Errorf("own reaction missing for %s", reacted)
	}
	if userReactions[unreacted.String()] != nil {
		t.Errorf("unreacted entry must map to nil, got %v", *userReactions[unreacted.String()])
	}
}

func TestReactionSummaryRejectsInvalidID(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeDispatcher{}, "")

	_, _, err := svc.ReactionSummary(context.Background(), []string{"nope"}, "carol")
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestRegisterPushToken(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st, &fakeDispatcher{}, "")

	if err := svc.RegisterPushToken(context.Background(), "carol", "ExponentPushToken[abc]", "ios", nil); err != nil {
		t.Fatalf("RegisterPushToken: %v", err)
	}
	if len(st.upsertedTokens) != 1 || st.upsertedTokens[0] != "carol|ExponentPushToken[abc]" {
		t.Errorf("upserts = %v", st.upsertedTokens)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	// Rune-aware: multibyte content must not be cut mid-character.
	long := strings.Repeat("é", 120)
	got := truncate(long, 100)
	if got != strings.Repeat("é", 100)+"..." {
		t.Errorf("truncate multibyte = %q", got)
	}
}
