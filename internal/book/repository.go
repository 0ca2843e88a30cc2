package book

import (
	"context"
	"database/sql"

	"bookstore-be/internal/logger"
	"bookstore-be/internal/money"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// FindBooks returns the books whose id is in ids. A nil ids returns the
	// whole catalog; ids that do not exist are left out of the result.
	FindBooks(ctx context.Context, ids []int64) ([]Book, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBooks(ctx context.Context, ids []int64) ([]Book, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindBooks"),
		zap.Int("id_count", len(ids)),
	)

	if ids != nil && len(ids) == 0 {
		return []Book{}, nil
	}

	query := `
		SELECT id, title, synopsis, author, price, created_at
		FROM books
	`
	args := []any{}

	if ids != nil {
		query += " WHERE id = ANY($1)"
		args = append(args, pq.Array(ids))
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var (
			b          Book
			priceCents int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Synopsis, &b.Author, &priceCents, &b.CreatedAt); err != nil {
			log.Error("failed to scan book row", zap.Error(err))
			return nil, err
		}
		b.Price = money.ToMajorUnits(priceCents)
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	log.Debug("books fetched", zap.Int("count", len(books)))
	return books, nil
}
