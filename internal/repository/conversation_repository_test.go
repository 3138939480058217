package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestConversationRepo(t *testing.T) (*ConversationRepository, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "conversations.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Conversation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewConversationRepository(db, rdb), mr
}

func appendExchanges(t *testing.T, repo *ConversationRepository, start, n int, base time.Time) {
	t.Helper()
	for i := start; i < start+n; i++ {
		err := repo.Append(&model.Conversation{
			UserID:    1,
			SessionID: fmt.Sprintf("s%d", i),
			Question:  fmt.Sprintf("question %d", i),
			Hint:      fmt.Sprintf("hint %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
}

// A cache key that expires between reads must not be recreated by Append
// with a single entry; the next Recent has to serve the full history from
// MySQL again.
func TestRecentServesFullHistoryAfterCacheExpiry(t *testing.T) {
	repo, mr := newTestConversationRepo(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	appendExchanges(t, repo, 0, 3, base)

	entries, err := repo.Recent(1, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries before expiry, want 3", len(entries))
	}

	mr.FlushAll()

	appendExchanges(t, repo, 3, 1, base)

	entries, err = repo.Recent(1, 10)
	if err != nil {
		t.Fatalf("recent after expiry: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries after expiry, want 4", len(entries))
	}
	if entries[0].Question != "question 3" {
		t.Errorf("newest entry = %q, want question 3", entries[0].Question)
	}
}

func TestAppendExtendsWarmCache(t *testing.T) {
	repo, _ := newTestConversationRepo(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	appendExchanges(t, repo, 0, 2, base)
	if _, err := repo.Recent(1, 10); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	appendExchanges(t, repo, 2, 1, base)

	// Drop the MySQL rows so the next read can only come from the cache.
	if err := repo.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Conversation{}).Error; err != nil {
		t.Fatalf("clear table: %v", err)
	}

	entries, err := repo.Recent(1, 10)
	if err != nil {
		t.Fatalf("recent from cache: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d cached entries, want 3", len(entries))
	}
	if entries[0].Question != "question 2" {
		t.Errorf("newest cached entry = %q, want question 2", entries[0].Question)
	}
}
