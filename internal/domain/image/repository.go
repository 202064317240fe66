package image

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines image metadata access. The store assigns IDs and
// creation timestamps; vote increments are atomic on the database side so
// concurrent upvotes never lose updates.
type Repository interface {
	// Create inserts img and fills in ID, Votes and CreatedAt from the
	// database. A key collision returns ErrDuplicateKey.
	Create(ctx context.Context, img *Image) error

	GetByID(ctx context.Context, id int64) (*Image, error)
	GetByKey(ctx context.Context, key string) (*Image, error)

	// List returns one page of the feed in the given order.
	List(ctx context.Context, sort Sort, offset, limit int) ([]*Image, error)

	// IncrementVotes adds one vote and returns the new count, or
	// ErrImageNotFound.
	IncrementVotes(ctx context.Context, id int64) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed image repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, img *Image) error {
	query := `
		INSERT INTO images (title, key, mime_type, votes)
		VALUES ($1, $2, $3, 0)
		RETURNING id, votes, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, img.Title, img.Key, img.MimeType).
		Scan(&img.ID, &img.Votes, &img.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Image, error) {
	var img Image
	err := r.db.GetContext(ctx, &img, `SELECT * FROM images WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("get image %d: %w", id, err)
	}
	return &img, nil
}

func (r *repository) GetByKey(ctx context.Context, key string) (*Image, error) {
	var img Image
	err := r.db.GetContext(ctx, &img, `SELECT * FROM images WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("get image by key: %w", err)
	}
	return &img, nil
}

// Hot ordering mirrors Score exactly: log magnitude of the vote count with
// its sign, plus creation epoch over 45000 seconds, rounded to 7 places.
// Sorting happens in the database so a page costs one bounded query.
const hotOrder = `ROUND(CAST(` +
	`LOG(GREATEST(ABS(votes), 1)) * SIGN(votes) + ` +
	`EXTRACT(EPOCH FROM created_at) / 45000.0` +
	` AS NUMERIC), 7) DESC, id DESC`

func (r *repository) List(ctx context.Context, sort Sort, offset, limit int) ([]*Image, error) {
	var order string
	switch sort {
	case SortOld:
		order = `created_at ASC, id ASC`
	case SortNew:
		order = `created_at DESC, id DESC`
	case SortHot:
		order = hotOrder
	default:
		return nil, ErrInvalidSort
	}

	query := fmt.Sprintf(
		`SELECT id, title, key, mime_type, votes, created_at FROM images ORDER BY %s OFFSET $1 LIMIT $2`,
		order,
	)

	images := []*Image{}
	if err := r.db.SelectContext(ctx, &images, query, offset, limit); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (r *repository) IncrementVotes(ctx context.Context, id int64) (int64, error) {
	// Single-statement read-modify-write; concurrent calls serialize on the
	// row and each add exactly one.
	var votes int64
	err := r.db.GetContext(ctx, &votes,
		`UPDATE images SET votes = votes + 1 WHERE id = $1 RETURNING votes`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrImageNotFound
		}
		return 0, fmt.Errorf("increment votes for %d: %w", id, err)
	}
	return votes, nil
}
