package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/linkshrink/internal/database"
	"github.com/vadimbarashkov/linkshrink/internal/models"
)

type linkRecord struct {
	ID        int64     `db:"id"`
	ShortCode string    `db:"short_code"`
	TargetURL string    `db:"target_url"`
	Clicks    int64     `db:"clicks"`
	CreatedAt timestamp `db:"created_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	return &models.Link{
		ID:        r.ID,
		ShortCode: r.ShortCode,
		TargetURL: r.TargetURL,
		Clicks:    r.Clicks,
		CreatedAt: r.CreatedAt.Time,
	}
}

// LinkRepository stores links in SQLite.
type LinkRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (r *LinkRepository) Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error) {
	const op = "database.sqlite.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(short_code, target_url, created_at)
		VALUES (?, ?, ?)
		RETURNING id, short_code, target_url, clicks, created_at`

	err := r.db.GetContext(ctx, rec, query, shortCode, targetURL, r.now().Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w: %w", op, database.ErrUnavailable, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.sqlite.LinkRepository.GetByShortCode"

	rec := new(linkRecord)
	query := `SELECT id, short_code, target_url, clicks, created_at
		FROM links
		WHERE short_code = ?`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w: %w", op, database.ErrUnavailable, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	const op = "database.sqlite.LinkRepository.Exists"

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = ?)`

	if err := r.db.GetContext(ctx, &exists, query, shortCode); err != nil {
		return false, fmt.Errorf("%s: failed to check link record: %w: %w", op, database.ErrUnavailable, err)
	}

	return exists, nil
}

func (r *LinkRepository) RecordClick(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.sqlite.LinkRepository.RecordClick"

	rec := new(linkRecord)
	query := `UPDATE links
		SET clicks = clicks + 1
		WHERE short_code = ?
		RETURNING id, short_code, target_url, clicks, created_at`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to record click: %w: %w", op, database.ErrUnavailable, err)
	}

	return rec.ToLink(), nil
}
