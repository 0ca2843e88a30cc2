package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a purchase with its line items. Money fields are in major units.
type Order struct {
	ID         int64
	UserID     int64
	GrandTotal decimal.Decimal
	CreatedAt  time.Time
	Details    []OrderDetail
}

// OrderDetail is one purchased book. SellingPrice is the catalog price at
// the time of the order and Subtotal is stored, not recomputed.
type OrderDetail struct {
	BookID       int64
	SellingPrice decimal.Decimal
	Qty          int64
	Subtotal     decimal.Decimal
}

// NewOrder is what the service hands to Repository.CreateOrder.
type NewOrder struct {
	UserID     int64
	GrandTotal decimal.Decimal
	Details    []OrderDetail
}

// LineRequest is one requested (book, quantity) pair. Nil fields were
// missing from the request.
type LineRequest struct {
	BookID *int64
	Qty    *int64
}

// OrderFilter selects orders by ID or by owner. ID takes precedence when
// both are set; zero means unset.
type OrderFilter struct {
	ID     int64
	UserID int64
}

type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) SQL() string {
	switch d {
	case SortAscending:
		return "ASC"
	case SortDescending:
		return "DESC"
	default:
		return ""
	}
}

type SortOptions struct {
	CreatedAt SortDirection
}
