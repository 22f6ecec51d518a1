package postgres

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
	CreatedAt time.Time `db:"created_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	return &models.Link{
		ID:        r.ID,
		ShortCode: r.ShortCode,
		TargetURL: r.TargetURL,
		Clicks:    r.Clicks,
		CreatedAt: r.CreatedAt,
	}
}

// LinkRepository stores links in PostgreSQL. The unique index on
// short_code is the authority on code uniqueness.
type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(short_code, target_url)
		VALUES ($1, $2)
		RETURNING id, short_code, target_url, clicks, created_at`

	err := r.db.GetContext(ctx, rec, query, shortCode, targetURL)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w: %w", op, database.ErrUnavailable, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByShortCode"

	rec := new(linkRecord)
	query := `SELECT id, short_code, target_url, clicks, created_at
		FROM links
		WHERE short_code = $1`

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
	const op = "database.postgres.LinkRepository.Exists"

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1)`

	if err := r.db.GetContext(ctx, &exists, query, shortCode); err != nil {
		return false, fmt.Errorf("%s: failed to check link record: %w: %w", op, database.ErrUnavailable, err)
	}

	return exists, nil
}

// RecordClick increments the click counter in a single statement, so
// concurrent redirects to the same code never lose an update.
func (r *LinkRepository) RecordClick(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.RecordClick"

	rec := new(linkRecord)
	query := `UPDATE links
		SET clicks = clicks + 1
		WHERE short_code = $1
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
