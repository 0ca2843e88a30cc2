package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog entry. Price is in major units.
type Book struct {
	ID        int64
	Title     string
	Synopsis  string
	Author    string
	Price     decimal.Decimal
	CreatedAt time.Time
}
