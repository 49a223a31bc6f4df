package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iburimskiy/particle-field/internal/content"
	"github.com/iburimskiy/particle-field/internal/theme"
)

// shelf loads carousel sections in the background and hands the results to
// the draw loop.
type shelf struct {
	ctx    context.Context
	client *content.Client
	logger *slog.Logger

	mu       sync.RWMutex
	sections map[theme.Category][]content.Section
	loading  map[theme.Category]bool
}

func newShelf(ctx context.Context, client *content.Client, logger *slog.Logger) *shelf {
	return &shelf{
		ctx:      ctx,
		client:   client,
		logger:   logger,
		sections: map[theme.Category][]content.Section{},
		loading:  map[theme.Category]bool{},
	}
}

// request starts loading cat unless it is loaded or in flight.
func (s *shelf) request(cat theme.Category) {
	if s.client == nil {
		return
	}
	s.mu.Lock()
	if _, ok := s.sections[cat]; ok || s.loading[cat] {
		s.mu.Unlock()
		return
	}
	s.loading[cat] = true
	s.mu.Unlock()

	go func() {
		sections, err := s.client.LoadCategory(s.ctx, cat)
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.loading, cat)
		if err != nil {
			s.logger.Warn("content not loaded", "category", cat, "error", err)
			return
		}
		s.sections[cat] = sections
	}()
}

// get returns the loaded sections of cat.
func (s *shelf) get(cat theme.Category) ([]content.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sections, ok := s.sections[cat]
	return sections, ok
}

func (s *shelf) pending(cat theme.Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[cat]
}
