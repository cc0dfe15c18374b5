package service

import (
	"context"
	"database/sql"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-eval-api/internal/models"
)

type messageFinder interface {
	Find(ctx context.Context, key string) (*models.SystemMessage, error)
}

// MessageService resolves internal error keys to user-facing localized text
// with a process-lifetime cache. Missing keys fall back to the supplied
// default; the miss is cached too so each key costs at most one lookup.
type MessageService struct {
	repo   messageFinder
	logger *zap.Logger
	cache  sync.Map
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageFinder, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, logger: logger}
}

// Resolve returns the localized text for key, or fallback when none exists.
func (s *MessageService) Resolve(ctx context.Context, key, fallback string) string {
	if cached, ok := s.cache.Load(key); ok {
		if text := cached.(string); text != "" {
			return text
		}
		return fallback
	}

	msg, err := s.repo.Find(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			s.cache.Store(key, "")
		} else {
			// transient store failure: fall back without poisoning the cache
			s.logger.Warn("message lookup failed", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}

	s.cache.Store(key, msg.MessageText)
	if msg.MessageText == "" {
		return fallback
	}
	return msg.MessageText
}
