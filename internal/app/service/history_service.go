package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
)

const (
	DefaultHistoryLimit = 10
	DefaultHistoryTTL   = 30 * 24 * time.Hour
)

// HistoryEntry is one remembered search.
type HistoryEntry struct {
	Query      string               `json:"query"`
	Filters    domain.SearchFilters `json:"filters"`
	SearchedAt time.Time            `json:"searched_at"`
}

// HistoryService keeps the recent searches of each client session in a
// key-value store. Store failures degrade to an empty history.
type HistoryService struct {
	store  domain.KVStore
	limit  int
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewHistoryService creates a history service. Non-positive limit or ttl use
// the defaults.
func NewHistoryService(store domain.KVStore, limit int, ttl time.Duration, logger *zap.Logger) *HistoryService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	return &HistoryService{
		store:  store,
		limit:  limit,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Record adds a search to the front of the session history. A query already
// present (ignoring case and accents) moves to the front. Blank queries are
// ignored.
func (h *HistoryService) Record(ctx context.Context, sessionID, query string, filters domain.SearchFilters) error {
	query = strings.TrimSpace(query)
	if sessionID == "" || query == "" {
		return nil
	}

	entries := h.load(ctx, sessionID)
	key := domain.Normalize(query)

	out := make([]HistoryEntry, 0, h.limit)
	out = append(out, HistoryEntry{Query: query, Filters: filters.Canonical(), SearchedAt: h.now()})
	for _, e := range entries {
		if len(out) == h.limit {
			break
		}
		if domain.Normalize(e.Query) == key {
			continue
		}
		out = append(out, e)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.store.Set(ctx, historyKey(sessionID), data, h.ttl); err != nil {
		h.logger.Warn("failed to save search history",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Recent returns the session history, most recent first.
func (h *HistoryService) Recent(ctx context.Context, sessionID string) []HistoryEntry {
	if sessionID == "" {
		return []HistoryEntry{}
	}
	return h.load(ctx, sessionID)
}

// Clear forgets the session history.
func (h *HistoryService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := h.store.Delete(ctx, historyKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// ClearAll forgets the history of every session.
func (h *HistoryService) ClearAll(ctx context.Context) error {
	if err := h.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear all history: %w", err)
	}
	return nil
}

func (h *HistoryService) load(ctx context.Context, sessionID string) []HistoryEntry {
	data, err := h.store.Get(ctx, historyKey(sessionID))
	if err != nil {
		h.logger.Warn("failed to load search history",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return []HistoryEntry{}
	}
	if data == nil {
		return []HistoryEntry{}
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		h.logger.Warn("discarding corrupt search history",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return []HistoryEntry{}
	}
	return entries
}

func historyKey(sessionID string) string {
	return "history:" + sessionID
}
