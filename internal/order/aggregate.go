package order

import (
	"database/sql"
	"fmt"
	"time"

	"bookstore-be/internal/money"
)

// orderRow is one row of the orders LEFT JOIN orders_details query. Money
// columns are minor units. Detail columns are NULL for an order without lines.
type orderRow struct {
	OrderID      int64
	UserID       int64
	GrandTotal   int64
	CreatedAt    time.Time
	BookID       sql.NullInt64
	SellingPrice sql.NullInt64
	Qty          sql.NullInt64
	Subtotal     sql.NullInt64
}

func (r orderRow) detail() (OrderDetail, bool) {
	if !r.BookID.Valid {
		return OrderDetail{}, false
	}
	return OrderDetail{
		BookID:       r.BookID.Int64,
		SellingPrice: money.ToMajorUnits(r.SellingPrice.Int64),
		Qty:          r.Qty.Int64,
		Subtotal:     money.ToMajorUnits(r.Subtotal.Int64),
	}, true
}

// aggregateOrders folds flat join rows into orders in a single pass.
//
// Rows must arrive in contiguous runs per order id. Each run becomes one
// Order, in input order, with its details in row order. Header fields come
// from the last row of the run. An order id that shows up again after its
// run ended means the input was not grouped and yields ErrUngroupedRows.
func aggregateOrders(rows []orderRow) ([]Order, error) {
	orders := []Order{}
	closed := make(map[int64]struct{})

	for i, row := range rows {
		if i == 0 || row.OrderID != rows[i-1].OrderID {
			if _, seen := closed[row.OrderID]; seen {
				return nil, fmt.Errorf("%w: order %d at row %d", ErrUngroupedRows, row.OrderID, i)
			}
			closed[row.OrderID] = struct{}{}
			orders = append(orders, Order{ID: row.OrderID, Details: []OrderDetail{}})
		}

		current := &orders[len(orders)-1]
		current.UserID = row.UserID
		current.GrandTotal = money.ToMajorUnits(row.GrandTotal)
		current.CreatedAt = row.CreatedAt

		if d, ok := row.detail(); ok {
			current.Details = append(current.Details, d)
		}
	}

	return orders, nil
}
