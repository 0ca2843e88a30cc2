package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookstore-be/internal/user"
)

var (
	ErrEmptyOrder    = errors.New("No books were selected in the order")
	ErrMissingBookID = errors.New("Book id is missing")

	// ErrUserNotFound is the user package's sentinel so callers can match
	// on either.
	ErrUserNotFound = user.ErrUserNotFound

	ErrOrderNotFound = errors.New("order not found")
	ErrMissingFilter = errors.New("missing filter for FindOrders")
	ErrUngroupedRows = errors.New("order rows are not grouped by order id")
)

type DuplicateLineItemError struct {
	BookID int64
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("Found duplicate entry for book with id: %d", e.BookID)
}

type InvalidBookIDError struct {
	BookID int64
}

func (e *InvalidBookIDError) Error() string {
	return fmt.Sprintf("Found an invalid book id: %d", e.BookID)
}

// InvalidQuantityError has a nil Qty when the quantity was missing.
type InvalidQuantityError struct {
	BookID int64
	Qty    *int64
}

func (e *InvalidQuantityError) Error() string {
	if e.Qty == nil {
		return fmt.Sprintf("Qty is missing for book with id of: %d", e.BookID)
	}
	return fmt.Sprintf("Found an invalid qty: %d for book with id of: %d", *e.Qty, e.BookID)
}

type BooksNotFoundError struct {
	BookIDs []int64
}

func (e *BooksNotFoundError) Error() string {
	ids := make([]string, len(e.BookIDs))
	for i, id := range e.BookIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("Books with id of [%s] not found", strings.Join(ids, ", "))
}

// OrderCreationError wraps an infrastructure failure while persisting.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("Failed to create an order: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether err is a request or state problem the
// caller can correct, as opposed to an infrastructure failure.
func IsBusinessError(err error) bool {
	var (
		dup      *DuplicateLineItemError
		badID    *InvalidBookIDError
		badQty   *InvalidQuantityError
		notFound *BooksNotFoundError
	)
	return errors.Is(err, ErrEmptyOrder) ||
		errors.Is(err, ErrMissingBookID) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.As(err, &dup) ||
		errors.As(err, &badID) ||
		errors.As(err, &badQty) ||
		errors.As(err, &notFound)
}
