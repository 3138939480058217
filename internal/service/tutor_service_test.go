package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/internal/util"
	"github.com/meytoof/MentorAI-sub000/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeConversationStore struct {
	mu         sync.Mutex
	recent     []model.HistoryEntry
	appended   []*model.Conversation
	fetchErr   error
	listLimits []int
}

func (f *fakeConversationStore) Recent(userID uint, limit int) ([]model.HistoryEntry, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.recent, nil
}

func (f *fakeConversationStore) Append(conv *model.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, conv)
	return nil
}

func (f *fakeConversationStore) ListByUser(userID uint, limit int) ([]model.Conversation, error) {
	f.listLimits = append(f.listLimits, limit)
	return nil, nil
}

func (f *fakeConversationStore) waitForAppend(t *testing.T) *model.Conversation {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		n := len(f.appended)
		f.mu.Unlock()
		if n > 0 {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.appended[0]
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("conversation was never appended")
	return nil
}

type fakeLearnerStore struct {
	user *model.User
	err  error
}

func (f *fakeLearnerStore) FindByID(id uint) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeProgressTracker struct {
	mu    sync.Mutex
	calls []int
}

func (f *fakeProgressTracker) RecordActivity(userID uint, xp int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, xp)
	return nil
}

func newTestTutorService(t *testing.T, handler http.HandlerFunc) (*TutorService, *fakeConversationStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AI: config.AIConfig{
			BaseURL:        srv.URL,
			APIKey:         "test-key",
			Model:          "test-model",
			VisionModel:    "test-model",
			RequestTimeout: 500 * time.Millisecond,
		},
		Tutor: config.TutorConfig{
			HistoryFetchLimit:  20,
			HistoryContextSize: 3,
			XPPerQuestion:      10,
		},
	}

	conversations := &fakeConversationStore{}
	learners := &fakeLearnerStore{user: &model.User{Name: "Léa"}}
	svc := NewTutorService(NewAIService(cfg.AI), conversations, learners, &fakeProgressTracker{}, cfg)
	return svc, conversations, srv
}

func goodModelReply() string {
	return `{"choices": [{"message": {"content": "{\"bubbles\": [\"Regarde d'abord les **unités** des deux nombres.\", \"Que donne 7 + 8 ?\"], \"encouragement\": \"Continue !\"}"}}]}`
}

func TestAskHappyPath(t *testing.T) {
	svc, conversations, _ := newTestTutorService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goodModelReply()))
	})

	resp, err := svc.Ask(context.Background(), 1, "Combien font 47 + 28 ?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Fallback {
		t.Fatal("fallback served on a healthy path")
	}
	if len(resp.Bubbles) != 2 {
		t.Fatalf("got %d bubbles, want 2", len(resp.Bubbles))
	}
	if resp.Subject != model.SubjectArithmetic {
		t.Errorf("subject = %q", resp.Subject)
	}

	conv := conversations.waitForAppend(t)
	if conv.Question != "Combien font 47 + 28 ?" {
		t.Errorf("stored question = %q", conv.Question)
	}
	if conv.SessionID == "" {
		t.Error("session id not assigned")
	}
	if !strings.Contains(conv.Hint, "unités") {
		t.Errorf("stored hint = %q", conv.Hint)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc, _, _ := newTestTutorService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("model called for an empty question")
	})

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Ask(context.Background(), 1, q, ""); !errors.Is(err, util.ErrEmptyQuestion) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuestion", q, err)
		}
	}
}

func TestAskUnconfiguredAI(t *testing.T) {
	cfg := &config.Config{Tutor: config.TutorConfig{HistoryFetchLimit: 20, HistoryContextSize: 3}}
	svc := NewTutorService(NewAIService(cfg.AI), &fakeConversationStore{}, &fakeLearnerStore{}, nil, cfg)

	if _, err := svc.Ask(context.Background(), 1, "12 + 7 ?", ""); !errors.Is(err, util.ErrAINotConfigured) {
		t.Fatalf("error = %v, want ErrAINotConfigured", err)
	}
}

func TestAskFallbackIdenticalAcrossCauses(t *testing.T) {
	// Stalled upstream past the deadline.
	release := make(chan struct{})
	defer close(release)
	timeoutSvc, _, _ := newTestTutorService(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})

	// Upstream answers promptly with unparseable prose.
	proseSvc, _, _ := newTestTutorService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "Je ne sais pas faire de JSON."}}]}`))
	})

	q := "Combien font 47 + 28 ?"
	fromTimeout, err := timeoutSvc.Ask(context.Background(), 1, q, "")
	if err != nil {
		t.Fatalf("timeout path error: %v", err)
	}
	fromProse, err := proseSvc.Ask(context.Background(), 1, q, "")
	if err != nil {
		t.Fatalf("prose path error: %v", err)
	}

	if !fromTimeout.Fallback || !fromProse.Fallback {
		t.Fatal("expected fallback on both paths")
	}
	if !reflect.DeepEqual(fromTimeout, fromProse) {
		t.Fatalf("fallbacks differ by cause:\n%+v\n%+v", fromTimeout, fromProse)
	}
}

func TestAskFallbackWithinDeadlineBudget(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	svc, _, _ := newTestTutorService(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})

	start := time.Now()
	resp, err := svc.Ask(context.Background(), 1, "12 + 7 ?", "")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Fallback {
		t.Fatal("expected fallback from a stalled upstream")
	}
	// 500ms configured deadline plus scheduling slack.
	if elapsed > 2*time.Second {
		t.Fatalf("fallback took %v, deadline not honored", elapsed)
	}
}

func TestAskDegradesWhenLookupsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goodModelReply()))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AI: config.AIConfig{
			BaseURL:        srv.URL,
			APIKey:         "k",
			Model:          "m",
			RequestTimeout: 500 * time.Millisecond,
		},
		Tutor: config.TutorConfig{HistoryFetchLimit: 20, HistoryContextSize: 3, XPPerQuestion: 10},
	}

	conversations := &fakeConversationStore{fetchErr: errors.New("redis down")}
	learners := &fakeLearnerStore{err: errors.New("mysql down")}
	svc := NewTutorService(NewAIService(cfg.AI), conversations, learners, nil, cfg)

	resp, err := svc.Ask(context.Background(), 1, "Combien font 47 + 28 ?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Fallback {
		t.Fatal("degraded lookups must not force the fallback")
	}
}

func TestRecordTruncatesPersistedFields(t *testing.T) {
	longQuestion := strings.Repeat("à", 2000)
	longBubble := strings.Repeat("é", 3000)

	conversations := &fakeConversationStore{}
	cfg := &config.Config{Tutor: config.TutorConfig{XPPerQuestion: 10}}
	progress := &fakeProgressTracker{}
	svc := NewTutorService(NewAIService(cfg.AI), conversations, &fakeLearnerStore{}, progress, cfg)

	svc.record(1, longQuestion, &model.AssistantResponse{Bubbles: []string{longBubble}})

	conversations.mu.Lock()
	defer conversations.mu.Unlock()
	if len(conversations.appended) != 1 {
		t.Fatalf("got %d appended conversations, want 1", len(conversations.appended))
	}
	conv := conversations.appended[0]
	if n := utf8.RuneCountInString(conv.Question); n != util.MaxQuestionRunes {
		t.Errorf("stored question has %d runes, want %d", n, util.MaxQuestionRunes)
	}
	if n := utf8.RuneCountInString(conv.Hint); n != util.MaxHintRunes {
		t.Errorf("stored hint has %d runes, want %d", n, util.MaxHintRunes)
	}

	progress.mu.Lock()
	defer progress.mu.Unlock()
	if !reflect.DeepEqual(progress.calls, []int{10}) {
		t.Errorf("progress calls = %v, want [10]", progress.calls)
	}
}

func TestHistoryLimitClamping(t *testing.T) {
	cfg := &config.Config{}
	store := &fakeConversationStore{}
	svc := NewTutorService(NewAIService(cfg.AI), store, &fakeLearnerStore{}, nil, cfg)

	for _, limit := range []int{-1, 0, 51, 1000} {
		if _, err := svc.History(1, limit); err != nil {
			t.Fatalf("History(%d) error: %v", limit, err)
		}
	}
	if _, err := svc.History(1, 5); err != nil {
		t.Fatalf("History(5) error: %v", err)
	}

	want := []int{20, 20, 20, 20, 5}
	if !reflect.DeepEqual(store.listLimits, want) {
		t.Fatalf("effective limits = %v, want %v", store.listLimits, want)
	}
}
