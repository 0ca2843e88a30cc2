package order

import (
	"context"
	"errors"
	"fmt"

	"bookstore-be/internal/book"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/metrics"
	"bookstore-be/internal/money"
	"bookstore-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserFinder resolves a user by id, returning user.ErrUserNotFound when
// there is none. user.Repository satisfies it.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// BookFinder returns the existing books among ids. book.Repository
// satisfies it.
type BookFinder interface {
	FindBooks(ctx context.Context, ids []int64) ([]book.Book, error)
}

type Service interface {
	CreateOrder(ctx context.Context, userID int64, lines []LineRequest) (*Order, error)
	GetOrderHistory(ctx context.Context, userID int64) ([]Order, error)
}

type service struct {
	repo    Repository
	users   UserFinder
	books   BookFinder
	metrics *metrics.OrderMetrics
}

func NewService(repo Repository, users UserFinder, books BookFinder, m *metrics.OrderMetrics) Service {
	return &service{
		repo:    repo,
		users:   users,
		books:   books,
		metrics: m,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID int64, lines []LineRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int64("user_id", userID),
		zap.Int("item_count", len(lines)),
	)
	timer := metrics.StartTimer()

	log.Info("create order started")

	// 1. Validate request shape
	bookIDs, qtys, err := validateLines(lines)
	if err != nil {
		log.Warn("invalid order request", zap.Error(err))
		s.metrics.RecordFailure(metrics.ReasonValidation)
		return nil, err
	}

	// 2. User must exist
	if err := s.ensureUser(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("user not found", zap.Error(err))
			s.metrics.RecordFailure(metrics.ReasonUserNotFound)
		} else {
			log.Error("user lookup failed", zap.Error(err))
			s.metrics.RecordFailure(metrics.ReasonStore)
		}
		return nil, err
	}

	// 3. Resolve authoritative prices
	found, err := s.books.FindBooks(ctx, bookIDs)
	if err != nil {
		log.Error("failed to look up books", zap.Error(err))
		s.metrics.RecordFailure(metrics.ReasonStore)
		return nil, &OrderCreationError{Err: err}
	}

	byID := make(map[int64]book.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	if missing := missingBookIDs(bookIDs, byID); len(missing) > 0 {
		log.Warn("books not found", zap.Int64s("missing_ids", missing))
		s.metrics.RecordFailure(metrics.ReasonBooksNotFound)
		return nil, &BooksNotFoundError{BookIDs: missing}
	}

	// 4. Compute totals
	newOrder, err := priceOrder(userID, bookIDs, qtys, byID)
	if err != nil {
		log.Warn("order total out of range", zap.Error(err))
		s.metrics.RecordFailure(metrics.ReasonValidation)
		return nil, err
	}

	log.Debug("order total calculated", zap.String("grand_total", newOrder.GrandTotal.StringFixed(2)))

	// 5. Persist
	created, err := s.repo.CreateOrder(ctx, newOrder)
	if err != nil {
		if IsBusinessError(err) {
			log.Warn("order rejected by store", zap.Error(err))
			s.metrics.RecordFailure(failureReason(err))
			return nil, err
		}
		log.Error("failed to create order", zap.Error(err))
		s.metrics.RecordFailure(metrics.ReasonStore)
		return nil, &OrderCreationError{Err: err}
	}

	s.metrics.RecordCreated(len(created.Details), timer.Duration())
	log.Info("order created", zap.Int64("order_id", created.ID))

	return created, nil
}

func (s *service) GetOrderHistory(ctx context.Context, userID int64) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetOrderHistory"),
		zap.Int64("user_id", userID),
	)

	if err := s.ensureUser(ctx, userID); err != nil {
		log.Warn("user lookup failed", zap.Error(err))
		return nil, err
	}

	orders, err := s.repo.FindOrders(ctx,
		OrderFilter{UserID: userID},
		&SortOptions{CreatedAt: SortDescending},
	)
	if err != nil {
		log.Error("failed to fetch order history", zap.Error(err))
		return nil, err
	}

	log.Debug("order history fetched", zap.Int("count", len(orders)))
	return orders, nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	_, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return nil
}

// validateLines checks each line in request order and stops at the first
// bad one. Per line: duplicate of an earlier line, missing id, missing qty,
// negative id, then non-positive qty. It returns the ids and quantities in
// request order.
func validateLines(lines []LineRequest) ([]int64, []int64, error) {
	if len(lines) == 0 {
		return nil, nil, ErrEmptyOrder
	}

	ids := make([]int64, 0, len(lines))
	qtys := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))

	for _, l := range lines {
		if l.BookID == nil {
			return nil, nil, ErrMissingBookID
		}
		if _, dup := seen[*l.BookID]; dup {
			return nil, nil, &DuplicateLineItemError{BookID: *l.BookID}
		}
		if l.Qty == nil {
			return nil, nil, &InvalidQuantityError{BookID: *l.BookID}
		}
		if *l.BookID < 0 {
			return nil, nil, &InvalidBookIDError{BookID: *l.BookID}
		}
		if *l.Qty <= 0 {
			qty := *l.Qty
			return nil, nil, &InvalidQuantityError{BookID: *l.BookID, Qty: &qty}
		}

		seen[*l.BookID] = struct{}{}
		ids = append(ids, *l.BookID)
		qtys = append(qtys, *l.Qty)
	}

	return ids, qtys, nil
}

// priceOrder builds the order from catalog prices. A line whose subtotal,
// or whose addition to the grand total, cannot be stored in cents is
// rejected as an invalid quantity.
func priceOrder(userID int64, ids, qtys []int64, byID map[int64]book.Book) (NewOrder, error) {
	o := NewOrder{
		UserID:     userID,
		GrandTotal: decimal.Zero,
		Details:    make([]OrderDetail, 0, len(ids)),
	}

	for i, id := range ids {
		price := byID[id].Price
		subtotal := price.Mul(decimal.NewFromInt(qtys[i]))
		total := o.GrandTotal.Add(subtotal)

		if !money.FitsMinorUnits(subtotal) || !money.FitsMinorUnits(total) {
			qty := qtys[i]
			return NewOrder{}, &InvalidQuantityError{BookID: id, Qty: &qty}
		}

		o.GrandTotal = total
		o.Details = append(o.Details, OrderDetail{
			BookID:       id,
			SellingPrice: price,
			Qty:          qtys[i],
			Subtotal:     subtotal,
		})
	}

	return o, nil
}

// missingBookIDs returns the requested ids absent from found, in request order.
func missingBookIDs(requested []int64, found map[int64]book.Book) []int64 {
	var missing []int64
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func failureReason(err error) string {
	var notFound *BooksNotFoundError
	switch {
	case errors.Is(err, ErrUserNotFound):
		return metrics.ReasonUserNotFound
	case errors.As(err, &notFound):
		return metrics.ReasonBooksNotFound
	default:
		return metrics.ReasonValidation
	}
}
