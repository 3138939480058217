package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const maxCachedEntries = 20

// ConversationRepository owns the append-only tutoring log. Writes go to
// MySQL; a per-user redis list caches the most recent entries for the
// history selector, which only ever needs "recent", not the full log.
type ConversationRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewConversationRepository(db *gorm.DB, rdb *redis.Client) *ConversationRepository {
	return &ConversationRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ConversationRepository) cacheKey(userID uint) string {
	return fmt.Sprintf("tutor:history:%d", userID)
}

// Append writes one exchange and refreshes the cache head. The cache update
// is best-effort; only the database error is reported.
func (r *ConversationRepository) Append(conv *model.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}

	if err := r.DB.Create(conv).Error; err != nil {
		return err
	}

	if r.Redis != nil {
		// Extend the list only while it is live. An expired key is left for
		// Recent to repopulate from MySQL; pushing onto it here would leave
		// a one-entry list that reads as the full history.
		n, err := r.Redis.Exists(r.ctx, r.cacheKey(conv.UserID)).Result()
		if err != nil || n == 0 {
			return nil
		}
		entry := model.HistoryEntry{
			Question:  conv.Question,
			Hint:      conv.Hint,
			CreatedAt: conv.CreatedAt,
		}
		if data, err := json.Marshal(entry); err == nil {
			pipe := r.Redis.Pipeline()
			pipe.LPush(r.ctx, r.cacheKey(conv.UserID), data)
			pipe.LTrim(r.ctx, r.cacheKey(conv.UserID), 0, maxCachedEntries-1)
			pipe.Expire(r.ctx, r.cacheKey(conv.UserID), 24*time.Hour)
			pipe.Exec(r.ctx)
		}
	}

	return nil
}

// Recent returns up to limit entries, most recent first, serving from the
// redis list when populated and falling back to MySQL (repopulating the
// cache) otherwise.
func (r *ConversationRepository) Recent(userID uint, limit int) ([]model.HistoryEntry, error) {
	if r.Redis != nil {
		cached, err := r.Redis.LRange(r.ctx, r.cacheKey(userID), 0, int64(limit-1)).Result()
		if err == nil && len(cached) > 0 {
			entries := make([]model.HistoryEntry, 0, len(cached))
			for _, raw := range cached {
				var e model.HistoryEntry
				if json.Unmarshal([]byte(raw), &e) == nil {
					entries = append(entries, e)
				}
			}
			if len(entries) > 0 {
				return entries, nil
			}
		}
	}

	var convs []model.Conversation
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, 0, len(convs))
	for _, c := range convs {
		entries = append(entries, model.HistoryEntry{
			Question:  c.Question,
			Hint:      c.Hint,
			CreatedAt: c.CreatedAt,
		})
	}

	if r.Redis != nil && len(entries) > 0 {
		pipe := r.Redis.Pipeline()
		for i := len(entries) - 1; i >= 0; i-- {
			if data, err := json.Marshal(entries[i]); err == nil {
				pipe.LPush(r.ctx, r.cacheKey(userID), data)
			}
		}
		pipe.LTrim(r.ctx, r.cacheKey(userID), 0, maxCachedEntries-1)
		pipe.Expire(r.ctx, r.cacheKey(userID), 24*time.Hour)
		pipe.Exec(r.ctx)
	}

	return entries, nil
}

// ListByUser returns full records for the client history view.
func (r *ConversationRepository) ListByUser(userID uint, limit int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

// ListAll pages through the whole log for the admin console.
func (r *ConversationRepository) ListAll(page, limit int) ([]model.Conversation, int64, error) {
	var convs []model.Conversation
	var total int64

	query := r.DB.Model(&model.Conversation{})
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&convs).Error

	return convs, total, err
}
