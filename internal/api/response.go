package api

import (
	"encoding/json"
	"time"

	"bookstore-be/internal/book"
	"bookstore-be/internal/order"

	"github.com/shopspring/decimal"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWT string `json:"jwt"`
}

type orderLineRequest struct {
	ID  *int64 `json:"id"`
	Qty *int64 `json:"qty"`
}

type createOrderRequest struct {
	Books []orderLineRequest `json:"books"`
}

func (r createOrderRequest) lines() []order.LineRequest {
	lines := make([]order.LineRequest, len(r.Books))
	for i, b := range r.Books {
		lines[i] = order.LineRequest{BookID: b.ID, Qty: b.Qty}
	}
	return lines
}

type bookResponse struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Synopsis  string      `json:"synopsis"`
	Author    string      `json:"author"`
	Price     json.Number `json:"price"`
	CreatedAt time.Time   `json:"createdAt"`
}

type orderDetailResponse struct {
	BookID       int64       `json:"bookId"`
	SellingPrice json.Number `json:"sellingPrice"`
	Qty          int64       `json:"qty"`
	Subtotal     json.Number `json:"subtotal"`
}

type orderResponse struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"userId"`
	GrandTotal json.Number           `json:"grandTotal"`
	CreatedAt  time.Time             `json:"createdAt"`
	Details    []orderDetailResponse `json:"details"`
}

// amount renders a major-unit decimal as a bare JSON number.
func amount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toBookResponses(books []book.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = bookResponse{
			ID:        b.ID,
			Title:     b.Title,
			Synopsis:  b.Synopsis,
			Author:    b.Author,
			Price:     amount(b.Price),
			CreatedAt: b.CreatedAt,
		}
	}
	return out
}

func toOrderResponse(o order.Order) orderResponse {
	details := make([]orderDetailResponse, len(o.Details))
	for i, d := range o.Details {
		details[i] = orderDetailResponse{
			BookID:       d.BookID,
			SellingPrice: amount(d.SellingPrice),
			Qty:          d.Qty,
			Subtotal:     amount(d.Subtotal),
		}
	}
	return orderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		GrandTotal: amount(o.GrandTotal),
		CreatedAt:  o.CreatedAt,
		Details:    details,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}
