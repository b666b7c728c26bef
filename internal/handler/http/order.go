package handler

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rookgm/paygateway/internal/models"
	"net/http"
	"time"
)

//go:generate mockgen -destination=mocks/mock_order.go -package=mocks . OrderService

type OrderService interface {
	// Register stores order placed in the store
	Register(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrder returns order by number
	GetOrder(ctx context.Context, number string) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc      OrderService
	validate *validator.Validate
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

type orderItem struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type RegisterOrderReq struct {
	Number       string      `json:"number" validate:"required,max=64"`
	Total        float64     `json:"total" validate:"gte=0"`
	Currency     string      `json:"currency" validate:"required,len=3,alpha"`
	CustomerID   uint64      `json:"customer_id"`
	CustomerName string      `json:"customer_name" validate:"max=255"`
	Email        string      `json:"email" validate:"omitempty,email"`
	Items        []orderItem `json:"items" validate:"dive"`
}

type OrderResp struct {
	Number        string  `json:"number"`
	Status        string  `json:"status"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transaction_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
	PaidAt        *string `json:"paid_at,omitempty"`
}

// RegisterOrder registers order placed in the store
// 201 — заказ зарегистрирован;
// 400 — неверный формат запроса;
// 409 — заказ с таким номером уже зарегистрирован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) RegisterOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterOrderReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := oh.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		order := models.Order{
			Number:       req.Number,
			Total:        req.Total,
			Currency:     req.Currency,
			CustomerID:   req.CustomerID,
			CustomerName: req.CustomerName,
			Email:        req.Email,
		}
		for _, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{Name: item.Name, Quantity: item.Quantity})
		}

		created, err := oh.svc.Register(r.Context(), &order)
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				http.Error(w, "order already exists", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeOrder(w, http.StatusCreated, created)
	}
}

// GetOrder returns order payment state
// 200 — успешная обработка запроса;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := oh.svc.GetOrder(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeOrder(w, http.StatusOK, order)
	}
}

func writeOrder(w http.ResponseWriter, status int, order *models.Order) {
	resp := OrderResp{
		Number:        order.Number,
		Status:        string(order.Status),
		Total:         order.Total,
		Currency:      order.Currency,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	if order.PaidAt != nil {
		paidAt := order.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return
	}
}
