package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/linkshrink/internal/models"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error) {
	args := r.Called(ctx, shortCode, targetURL)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	args := r.Called(ctx, shortCode)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	args := r.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (r *MockLinkRepository) RecordClick(ctx context.Context, shortCode string) (*models.Link, error) {
	args := r.Called(ctx, shortCode)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

// sequenceGenerator hands out codes in order and then repeats the last one.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}

	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}

	return code, nil
}

type recordingSink struct {
	mu        sync.Mutex
	created   int
	redirects int
	notFound  int
	latencies map[string]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{latencies: make(map[string]int)}
}

func (s *recordingSink) IncCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
}

func (s *recordingSink) IncRedirects() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirects++
}

func (s *recordingSink) IncNotFound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notFound++
}

func (s *recordingSink) ObserveLatency(operation string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latencies[operation]++
}

type panickingSink struct{}

func (panickingSink) IncCreated()                          { panic("sink down") }
func (panickingSink) IncRedirects()                        { panic("sink down") }
func (panickingSink) IncNotFound()                         { panic("sink down") }
func (panickingSink) ObserveLatency(string, time.Duration) { panic("sink down") }
