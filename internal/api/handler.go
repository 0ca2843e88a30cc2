package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookstore-be/internal/book"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/middleware"
	"bookstore-be/internal/order"
	"bookstore-be/internal/user"
	"bookstore-be/internal/utils"

	"go.uber.org/zap"
)

const (
	WelcomeMessage = "Welcome to Online Book Store"

	msgUserCreated     = "User created successfully"
	msgInvalidBody     = "Invalid request body"
	msgInternalError   = "Internal server error"
	maxRequestBodySize = 1 << 20
)

// Handler serves the REST API.
type Handler struct {
	users     user.Service
	books     book.Service
	orders    order.Service
	jwtSecret string
}

func NewHandler(users user.Service, books book.Service, orders order.Service, jwtSecret string) *Handler {
	return &Handler{
		users:     users,
		books:     books,
		orders:    orders,
		jwtSecret: jwtSecret,
	}
}

// Register mounts every route on mux. Order routes require a bearer token.
func (h *Handler) Register(mux *http.ServeMux) {
	requireAuth := middleware.AuthMiddleware(h.jwtSecret)

	mux.HandleFunc("GET /{$}", h.Welcome)
	mux.HandleFunc("POST /auth/register", h.RegisterUser)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /books", h.GetBooks)
	mux.Handle("GET /orders", requireAuth(http.HandlerFunc(h.GetOrders)))
	mux.Handle("POST /orders", requireAuth(http.HandlerFunc(h.CreateOrder)))
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(WelcomeMessage))
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.users.Register(r.Context(), req.Email, req.Password); err != nil {
		writeUserError(w, r, err)
		return
	}

	utils.WriteJSONMessage(w, http.StatusCreated, msgUserCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUserError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, loginResponse{JWT: token})
}

func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.GetBooks(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	utils.WriteJSONData(w, http.StatusOK, toBookResponses(books))
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONMessage(w, http.StatusUnauthorized, middleware.MsgUnauthorized)
		return
	}

	orders, err := h.orders.GetOrderHistory(r.Context(), userID)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	utils.WriteJSONData(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONMessage(w, http.StatusUnauthorized, middleware.MsgUnauthorized)
		return
	}

	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.orders.CreateOrder(r.Context(), userID, req.lines())
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	utils.WriteJSONData(w, http.StatusOK, toOrderResponse(*created))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromCtx(r.Context()).Debug("failed to decode request body", zap.Error(err))
		utils.WriteJSONMessage(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case user.IsValidationError(err), errors.Is(err, user.ErrEmailExists):
		utils.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONMessage(w, http.StatusUnauthorized, err.Error())
	default:
		writeInternalError(w, r, err)
	}
}

// writeOrderError reports a vanished token user as unauthorized, the other
// business errors as bad requests with their own message.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrUserNotFound):
		utils.WriteJSONMessage(w, http.StatusUnauthorized, middleware.MsgUnauthorized)
	case order.IsBusinessError(err):
		utils.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, r, err)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromCtx(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.WriteJSONMessage(w, http.StatusInternalServerError, msgInternalError)
}
