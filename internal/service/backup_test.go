package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"grateful-service/internal/store"
	"grateful-service/pkg/models"
)

type fakeUploader struct {
	key         string
	content     []byte
	contentType string
	calls       int
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, key string, content []byte, contentType string) error {
	f.calls++
	f.key = key
	f.content = content
	f.contentType = contentType
	return f.err
}

func TestBackupWritesOneJSONLLinePerRow(t *testing.T) {
	st := newFakeStore()
	st.dumps["users"] = []any{
		models.User{ID: "carol", DisplayName: "Carol"},
		models.User{ID: "dave", DisplayName: "Dave"},
	}
	st.dumps["circles"] = []any{models.Circle{Name: "Morning Crew"}}

	up := &fakeUploader{}
	svc := New(st, &fakeDispatcher{}, up, "")

	result, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	if result.TotalRows != 3 {
		t.Errorf("totalRows = %d, want 3", result.TotalRows)
	}
	if result.Counts["users"] != 2 || result.Counts["circles"] != 1 {
		t.Errorf("counts = %v", result.Counts)
	}
	if result.Counts["pushTokens"] != 0 {
		t.Errorf("empty tables must still be counted, counts = %v", result.Counts)
	}
	if len(result.Counts) != len(store.BackupTables) {
		t.Errorf("counts cover %d tables, want %d", len(result.Counts), len(store.BackupTables))
	}

	if up.calls != 1 {
		t.Fatalf("uploads = %d, want 1", up.calls)
	}
	if !strings.HasPrefix(up.key, "dbbackups/backup-") || !strings.HasSuffix(up.key, ".jsonl") {
		t.Errorf("key = %q", up.key)
	}
	if up.contentType != "application/jsonl" {
		t.Errorf("contentType = %q", up.contentType)
	}
	if up.key != result.Filename {
		t.Errorf("result filename %q != uploaded key %q", result.Filename, up.key)
	}
	if strings.ContainsAny(result.Timestamp, ":.") {
		t.Errorf("timestamp %q must not contain characters the key cannot carry", result.Timestamp)
	}

	lines := strings.Split(string(up.content), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	var first struct {
		Table string          `json:"table"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first.Table != "users" {
		t.Errorf("first line table = %q, want users", first.Table)
	}
}

func TestBackupAbortsOnTableError(t *testing.T) {
	st := newFakeStore()
	st.dumps["users"] = []any{models.User{ID: "carol"}}
	st.dumpErr["entryReactions"] = errors.New("relation is on fire")

	up := &fakeUploader{}
	svc := New(st, &fakeDispatcher{}, up, "")

	if _, err := svc.Backup(context.Background()); err == nil {
		t.Fatal("Backup must fail when any table read fails")
	}
	if up.calls != 0 {
		t.Errorf("no partial backup may be uploaded, uploads = %d", up.calls)
	}
}

func TestBackupSurfacesUploadError(t *testing.T) {
	st := newFakeStore()
	up := &fakeUploader{err: errors.New("bucket gone")}
	svc := New(st, &fakeDispatcher{}, up, "")

	if _, err := svc.Backup(context.Background()); err == nil {
		t.Fatal("Backup must surface upload failures")
	}
}

func TestBackupWithoutStorageConfigured(t *testing.T) {
	svc := New(newFakeStore(), &fakeDispatcher{}, nil, "")

	if _, err := svc.Backup(context.Background()); err == nil {
		t.Fatal("Backup must fail when object storage is not configured")
	}
}
