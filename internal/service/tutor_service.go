package service

import (
	"context"
	"strings"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/internal/util"
	"github.com/meytoof/MentorAI-sub000/pkg/logger"
	"github.com/meytoof/MentorAI-sub000/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// conversationStore is the read/write contract the pipeline needs from the
// history collaborator: a bounded most-recent-first read and a best-effort
// append.
type conversationStore interface {
	Recent(userID uint, limit int) ([]model.HistoryEntry, error)
	Append(conv *model.Conversation) error
	ListByUser(userID uint, limit int) ([]model.Conversation, error)
}

// learnerStore provides the profile fields that shape the prompt.
type learnerStore interface {
	FindByID(id uint) (*model.User, error)
}

// progressTracker receives the XP/streak bookkeeping for one completed
// exchange. Invoked off the response path.
type progressTracker interface {
	RecordActivity(userID uint, xp int) error
}

// TutorService runs the tutoring pipeline: classify the question, pull
// same-subject history, assemble the prompt, call the model once under a
// deadline, parse, and degrade to the canned fallback on any failure past
// input validation. Stateless between requests.
type TutorService struct {
	ai            *AIService
	conversations conversationStore
	learners      learnerStore
	progress      progressTracker
	cfg           config.TutorConfig
}

func NewTutorService(ai *AIService, conversations conversationStore, learners learnerStore, progress progressTracker, cfg *config.Config) *TutorService {
	return &TutorService{
		ai:            ai,
		conversations: conversations,
		learners:      learners,
		progress:      progress,
		cfg:           cfg.Tutor,
	}
}

// Ask executes one pipeline run. The only errors returned are input
// validation (empty question) and missing upstream configuration; every
// downstream failure resolves to the fallback response instead.
func (s *TutorService) Ask(ctx context.Context, userID uint, question, imageDataURL string) (*model.AssistantResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, util.ErrEmptyQuestion
	}
	if !s.ai.Configured() {
		logger.Log.Error("tutor pipeline invoked without AI configuration")
		return nil, util.ErrAINotConfigured
	}

	subject := ClassifySubject(question)
	monitoring.TutorRequests.WithLabelValues(string(subject)).Inc()

	var learnerName string
	var easyMode bool
	if learner, err := s.learners.FindByID(userID); err == nil {
		learnerName = learner.Name
		easyMode = learner.EasyMode
	} else {
		logger.Log.Warn("learner profile lookup failed, prompting without profile",
			zap.Uint("userId", userID), zap.Error(err))
	}

	// Continuity is a quality-of-life feature: a failed fetch degrades to
	// an empty context, never to a failed request.
	history, err := s.conversations.Recent(userID, s.cfg.HistoryFetchLimit)
	if err != nil {
		logger.Log.Warn("history fetch failed, continuing without context",
			zap.Uint("userId", userID), zap.Error(err))
		history = nil
	}
	selected := SelectContext(subject, history, s.cfg.HistoryContextSize)

	userMsg := BuildUserMessage(learnerName, easyMode, selected, question, imageDataURL != "")

	var resp *model.AssistantResponse
	raw, err := s.ai.Call(ctx, SystemPrompt(), userMsg, CallOptions{ImageDataURL: imageDataURL})
	if err != nil {
		logger.Log.Warn("model call failed, serving fallback",
			zap.Uint("userId", userID), zap.String("subject", string(subject)), zap.Error(err))
		monitoring.TutorFallbacks.WithLabelValues("model_error").Inc()
		resp = FallbackResponse(subject)
	} else if resp = ParseAssistantReply(raw, subject); resp == nil {
		logger.Log.Warn("model reply unusable, serving fallback",
			zap.Uint("userId", userID), zap.Int("rawLen", len(raw)))
		monitoring.TutorFallbacks.WithLabelValues("parse_error").Inc()
		resp = FallbackResponse(subject)
	}

	// Fire-and-forget: the log write and XP bookkeeping never block or
	// fail the response.
	go s.record(userID, question, resp)

	return resp, nil
}

// History returns the caller's recent exchanges for the client history view.
func (s *TutorService) History(userID uint, limit int) ([]model.Conversation, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.conversations.ListByUser(userID, limit)
}

func (s *TutorService) record(userID uint, question string, resp *model.AssistantResponse) {
	conv := &model.Conversation{
		UserID:        userID,
		SessionID:     uuid.New().String(),
		Question:      truncateRunes(question, util.MaxQuestionRunes),
		Hint:          truncateRunes(JoinHint(resp.Bubbles), util.MaxHintRunes),
		Encouragement: resp.Encouragement,
	}

	if err := s.conversations.Append(conv); err != nil {
		logger.Log.Warn("conversation write dropped", zap.Uint("userId", userID), zap.Error(err))
	}

	if s.progress != nil {
		if err := s.progress.RecordActivity(userID, s.cfg.XPPerQuestion); err != nil {
			logger.Log.Warn("activity bookkeeping failed", zap.Uint("userId", userID), zap.Error(err))
		}
	}
}
