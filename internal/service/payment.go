package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/rookgm/paygateway/internal/gateway"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/models"
	"go.uber.org/zap"
	"net/url"
	"strings"
	"time"
)

// Pages builds storefront URLs the customer is redirected to
type Pages interface {
	ReceivedURL(order *models.Order) string
	PaymentURL(order *models.Order) string
	CancelURL(order *models.Order) string
}

// EventPublisher publishes payment results for other services
type EventPublisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}

// PaymentConfig is payment gateway settings
type PaymentConfig struct {
	Credentials models.Credentials
	// PaymentURL is processor page accepting payment requests
	PaymentURL string
	// Currencies the processor accepts, upper case
	Currencies []string
}

// CallbackResult is what callback handling decided
type CallbackResult struct {
	RedirectURL   string
	Redirect      RedirectTarget
	PaymentStatus models.PaymentStatus
	OrderStatus   models.OrderStatus
	// Applied is false when the order was already settled
	Applied bool
}

// PaymentService implements payment gateway flow
type PaymentService struct {
	store      OrderStore
	pages      Pages
	publisher  EventPublisher
	reconciler *Reconciler
	cfg        PaymentConfig
	now        func() time.Time
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(store OrderStore, pages Pages, publisher EventPublisher, cfg PaymentConfig) *PaymentService {
	return &PaymentService{
		store:      store,
		pages:      pages,
		publisher:  publisher,
		reconciler: NewReconciler(store),
		cfg:        cfg,
		now:        time.Now,
	}
}

// PaymentRedirect returns processor URL carrying signed payment request for order
func (ps *PaymentService) PaymentRedirect(ctx context.Context, orderNumber string) (string, error) {
	order, err := ps.store.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return "", err
	}

	if order.Status.IsSettled() {
		return "", models.ErrOrderSettled
	}

	if !ps.currencySupported(order.Currency) {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedCurrency, order.Currency)
	}

	req, err := gateway.BuildRequest(*order, ps.cfg.Credentials)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(ps.cfg.PaymentURL)
	if err != nil {
		return "", fmt.Errorf("parse payment url: %w", err)
	}
	q := u.Query()
	for k, v := range req.Values() {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	logger.Log.Debug("payment request has been built",
		zap.String("number", req.OrderNo),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.Object("credentials", ps.cfg.Credentials))

	return u.String(), nil
}

// HandleCallback verifies processor callback and applies it to the order.
// Malformed callback or unknown order is returned as error and the order is not changed.
func (ps *PaymentService) HandleCallback(ctx context.Context, rawQuery string) (*CallbackResult, error) {
	var (
		payload       models.CallbackPayload
		paymentStatus models.PaymentStatus
		verr          *models.VerificationError
	)

	cb, err := gateway.Verify(rawQuery, ps.cfg.Credentials)
	switch {
	case err == nil:
		payload = cb.Payload
		paymentStatus = models.ParsePaymentStatus(payload.Status)
	case errors.As(err, &verr):
		payload = verr.Payload
		paymentStatus = models.PaymentStatusUnverified
		logger.Log.Warn("callback checksum mismatch",
			zap.String("number", payload.OrderNo),
			zap.String("transaction_id", payload.TransactionID))
	default:
		return nil, err
	}

	order, err := ps.store.GetOrderByNumber(ctx, payload.OrderNo)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", payload.OrderNo, err)
	}

	// fresh read for the first settled check
	status, err := ps.store.GetOrderStatus(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("get order status: %w", err)
	}
	if status.IsSettled() {
		logger.Log.Debug("skip callback for settled order", zap.String("number", order.Number))
		settled := settledTransition
		settled.Status = status
		return ps.result(order, Outcome{Transition: settled}, paymentStatus), nil
	}

	outcome, err := ps.reconciler.Apply(ctx, order, paymentStatus, payload.TransactionID, payload.PaymentType)
	if err != nil {
		return nil, err
	}

	if outcome.Applied {
		ps.publish(ctx, order, payload, paymentStatus, outcome.Status)
	}

	return ps.result(order, outcome, paymentStatus), nil
}

func (ps *PaymentService) result(order *models.Order, outcome Outcome, paymentStatus models.PaymentStatus) *CallbackResult {
	res := &CallbackResult{
		Redirect:      outcome.Redirect,
		PaymentStatus: paymentStatus,
		OrderStatus:   outcome.Status,
		Applied:       outcome.Applied,
	}

	switch outcome.Redirect {
	case RedirectReceived:
		res.RedirectURL = ps.pages.ReceivedURL(order)
	case RedirectPayment:
		res.RedirectURL = ps.pages.PaymentURL(order)
	default:
		res.RedirectURL = ps.pages.CancelURL(order)
	}

	return res
}

// publish sends payment event, failure does not change callback result
func (ps *PaymentService) publish(ctx context.Context, order *models.Order, payload models.CallbackPayload, paymentStatus models.PaymentStatus, orderStatus models.OrderStatus) {
	if ps.publisher == nil {
		return
	}

	event := models.PaymentEvent{
		EventID:       uuid.NewString(),
		OrderNumber:   order.Number,
		TransactionID: payload.TransactionID,
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		PaymentType:   payload.PaymentType,
		OccurredAt:    ps.now().UTC(),
	}

	if err := ps.publisher.Publish(ctx, event); err != nil {
		logger.Log.Error("publish payment event",
			zap.String("number", order.Number),
			zap.Error(err))
	}
}

func (ps *PaymentService) currencySupported(currency string) bool {
	if len(ps.cfg.Currencies) == 0 {
		return true
	}
	for _, c := range ps.cfg.Currencies {
		if strings.EqualFold(c, currency) {
			return true
		}
	}
	return false
}
