package handler

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/middleware"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/rookgm/paygateway/internal/service"
	"go.uber.org/zap"
	"net/http"
)

//go:generate mockgen -destination=mocks/mock_payment.go -package=mocks . PaymentService

type PaymentService interface {
	// PaymentRedirect returns processor URL with signed payment request
	PaymentRedirect(ctx context.Context, orderNumber string) (string, error)
	// HandleCallback verifies processor callback and applies it to the order
	HandleCallback(ctx context.Context, rawQuery string) (*service.CallbackResult, error)
}

// PaymentHandler represents HTTP handler for payment gateway requests
type PaymentHandler struct {
	svc PaymentService
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// StartPayment redirects customer to the processor payment page
// 302 — переход на страницу оплаты;
// 404 — заказ не найден;
// 409 — заказ уже оплачен;
// 422 — неверная сумма или валюта заказа;
// 500 — внутренняя ошибка сервера.
func (ph *PaymentHandler) StartPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")
		if number == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		redirect, err := ph.svc.PaymentRedirect(r.Context(), number)
		if err != nil {
			middleware.RecordPaymentRequest("rejected")
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderSettled):
				http.Error(w, "order is already paid", http.StatusConflict)
			case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrUnsupportedCurrency):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				logger.Log.Error("build payment request", zap.String("number", number), zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		middleware.RecordPaymentRequest("built")
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// Callback handles payment result redirected back by the processor
// 302 — переход на страницу магазина;
// 400 — пустой или неполный запрос;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (ph *PaymentHandler) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ph.svc.HandleCallback(r.Context(), r.URL.RawQuery)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrEmptyQuery), errors.Is(err, models.ErrMalformedPayload):
				middleware.RecordPaymentCallback("malformed")
				logger.Log.Warn("payment gateway request failure", zap.Error(err))
				http.Error(w, "payment gateway request failure", http.StatusBadRequest)
			case errors.Is(err, models.ErrDataNotFound):
				middleware.RecordPaymentCallback("unknown_order")
				logger.Log.Warn("callback for unknown order", zap.Error(err))
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				middleware.RecordPaymentCallback("error")
				logger.Log.Error("handle payment callback", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		outcome := string(res.PaymentStatus)
		if !res.Applied {
			outcome = "settled"
		}
		middleware.RecordPaymentCallback(outcome)

		http.Redirect(w, r, res.RedirectURL, http.StatusFound)
	}
}
