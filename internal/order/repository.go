package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore-be/internal/logger"
	"bookstore-be/internal/money"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	foreignKeyViolation = pq.ErrorCode("23503")
	ordersUserFK        = "orders_user_id_fkey"
)

// Repository is the only writer of the orders and orders_details tables.
type Repository interface {
	// CreateOrder persists the header and every detail in one transaction
	// and returns the order as re-read from the store.
	CreateOrder(ctx context.Context, o NewOrder) (*Order, error)

	// FindOrders returns the orders matching filter, or an empty slice.
	// A nil sort leaves orders in id order.
	FindOrders(ctx context.Context, filter OrderFilter, sort *SortOptions) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o NewOrder) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.Int64("user_id", o.UserID),
		zap.Int("item_count", len(o.Details)),
	)

	if len(o.Details) == 0 {
		return nil, ErrEmptyOrder
	}

	amounts, err := toMinorAmounts(o)
	if err != nil {
		log.Error("order amounts out of range", zap.Error(err))
		return nil, err
	}

	log.Debug("starting create order transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, grand_total)
		VALUES ($1, $2)
		RETURNING id
	`, o.UserID, amounts.grandTotal).Scan(&orderID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, classifyInsertError("insert order", err)
	}

	for i, d := range o.Details {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders_details (order_id, book_id, selling_price, qty, subtotal)
			VALUES ($1, $2, $3, $4, $5)
		`,
			orderID,
			d.BookID,
			amounts.details[i].sellingPrice,
			d.Qty,
			amounts.details[i].subtotal,
		)
		if err != nil {
			log.Error("failed to insert order detail",
				zap.Int("item_index", i),
				zap.Int64("book_id", d.BookID),
				zap.Error(err),
			)
			return nil, classifyInsertError("insert order detail", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit create order transaction", zap.Error(err))
		return nil, fmt.Errorf("commit create order: %w", err)
	}
	committed = true

	log.Info("order committed", zap.Int64("order_id", orderID))

	orders, err := r.FindOrders(ctx, OrderFilter{ID: orderID}, nil)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", orderID, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("reload order %d: %w", orderID, ErrOrderNotFound)
	}

	return &orders[0], nil
}

type minorAmounts struct {
	grandTotal int64
	details    []minorDetail
}

type minorDetail struct {
	sellingPrice int64
	subtotal     int64
}

// toMinorAmounts converts every amount of o to cents up front so that an
// unrepresentable amount is rejected before the transaction opens.
func toMinorAmounts(o NewOrder) (minorAmounts, error) {
	grand, err := money.ToMinorUnits(o.GrandTotal)
	if err != nil {
		return minorAmounts{}, fmt.Errorf("grand total: %w", err)
	}

	out := minorAmounts{grandTotal: grand, details: make([]minorDetail, len(o.Details))}
	for i, d := range o.Details {
		price, err := money.ToMinorUnits(d.SellingPrice)
		if err != nil {
			return minorAmounts{}, fmt.Errorf("selling price of book %d: %w", d.BookID, err)
		}
		subtotal, err := money.ToMinorUnits(d.Subtotal)
		if err != nil {
			return minorAmounts{}, fmt.Errorf("subtotal of book %d: %w", d.BookID, err)
		}
		out.details[i] = minorDetail{sellingPrice: price, subtotal: subtotal}
	}
	return out, nil
}

// classifyInsertError maps the orders.user_id foreign key violation to
// ErrUserNotFound and wraps everything else.
func classifyInsertError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation && pqErr.Constraint == ordersUserFK {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *repository) FindOrders(ctx context.Context, filter OrderFilter, sort *SortOptions) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindOrders"),
	)

	query := `
		SELECT
			o.id,
			o.user_id,
			o.grand_total,
			o.created_at,
			od.book_id,
			od.selling_price,
			od.qty,
			od.subtotal
		FROM orders o
		LEFT JOIN orders_details od ON od.order_id = o.id
	`

	var arg int64
	switch {
	case filter.ID != 0:
		query += " WHERE o.id = $1"
		arg = filter.ID
	case filter.UserID != 0:
		query += " WHERE o.user_id = $1"
		arg = filter.UserID
	default:
		return nil, ErrMissingFilter
	}

	// Rows of one order must stay contiguous for aggregateOrders, so o.id
	// always follows the requested sort key.
	orderBy := "o.id, od.id"
	if sort != nil && sort.CreatedAt != SortNone {
		orderBy = "o.created_at " + sort.CreatedAt.SQL() + ", o.id, od.id"
	}
	query += " ORDER BY " + orderBy

	log.Debug("executing find orders query", zap.Int64("filter_value", arg))

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var flat []orderRow
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(
			&row.OrderID,
			&row.UserID,
			&row.GrandTotal,
			&row.CreatedAt,
			&row.BookID,
			&row.SellingPrice,
			&row.Qty,
			&row.Subtotal,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		flat = append(flat, row)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	orders, err := aggregateOrders(flat)
	if err != nil {
		log.Error("failed to aggregate order rows", zap.Error(err))
		return nil, err
	}

	log.Debug("find orders success", zap.Int("count", len(orders)))
	return orders, nil
}
