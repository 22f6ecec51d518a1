// Package memory implements the link store as an in-process map. Data does
// not survive a restart; it is meant for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vadimbarashkov/linkshrink/internal/database"
	"github.com/vadimbarashkov/linkshrink/internal/models"
)

type LinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	lastID int64
	now    func() time.Time
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{
		links: make(map[string]*models.Link),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (r *LinkRepository) Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error) {
	const op = "database.memory.LinkRepository.Create"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, database.ErrUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[shortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
	}

	r.lastID++
	link := &models.Link{
		ID:        r.lastID,
		ShortCode: shortCode,
		TargetURL: targetURL,
		CreatedAt: r.now(),
	}
	r.links[shortCode] = link

	cp := *link
	return &cp, nil
}

func (r *LinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.memory.LinkRepository.GetByShortCode"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, database.ErrUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	// Copies keep callers away from the shared counter.
	cp := *link
	return &cp, nil
}

func (r *LinkRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	const op = "database.memory.LinkRepository.Exists"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, database.ErrUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.links[shortCode]
	return ok, nil
}

func (r *LinkRepository) RecordClick(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.memory.LinkRepository.RecordClick"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, database.ErrUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.links[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	link.Clicks++

	cp := *link
	return &cp, nil
}

// Len returns the number of stored links.
func (r *LinkRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.links)
}
