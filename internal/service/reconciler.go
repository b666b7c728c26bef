package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/models"
	"go.uber.org/zap"
)

// OrderStore is interface for interacting with order-related data
type OrderStore interface {
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
	// GetOrderStatus reads current order status
	GetOrderStatus(ctx context.Context, orderID uint64) (models.OrderStatus, error)
	// AddOrderNote appends audit note to order
	AddOrderNote(ctx context.Context, orderID uint64, note string) error
	// CompletePayment marks order paid and records transaction id
	CompletePayment(ctx context.Context, orderID uint64, transactionID string) error
	// UpdateOrderStatus sets order status with reason
	UpdateOrderStatus(ctx context.Context, orderID uint64, status models.OrderStatus, reason string) error
}

// RedirectTarget is storefront page the customer is sent to after callback
type RedirectTarget int

const (
	// RedirectReceived is order confirmation page
	RedirectReceived RedirectTarget = iota
	// RedirectPayment is payment retry page
	RedirectPayment
	// RedirectCancel is order cancellation page
	RedirectCancel
)

func (rt RedirectTarget) String() string {
	switch rt {
	case RedirectReceived:
		return "received"
	case RedirectPayment:
		return "payment"
	case RedirectCancel:
		return "cancel"
	default:
		return fmt.Sprintf("RedirectTarget(%d)", int(rt))
	}
}

// Transition describes how a payment status changes an order
type Transition struct {
	// Text is status text written to the audit note
	Text     string
	Status   models.OrderStatus
	Redirect RedirectTarget
}

// TransitionFor maps payment status to order transition.
// Unverified and unknown statuses put the order on hold.
func TransitionFor(ps models.PaymentStatus) Transition {
	switch ps {
	case models.PaymentStatusSuccess:
		return Transition{Text: "SUCCESSFUL", Status: models.OrderStatusCompleted, Redirect: RedirectReceived}
	case models.PaymentStatusPending:
		return Transition{Text: "PENDING", Status: models.OrderStatusPending, Redirect: RedirectPayment}
	case models.PaymentStatusFailed:
		return Transition{Text: "FAILED", Status: models.OrderStatusFailed, Redirect: RedirectCancel}
	case models.PaymentStatusFail:
		return Transition{Text: "FAIL", Status: models.OrderStatusFailed, Redirect: RedirectCancel}
	default:
		return Transition{Text: "Invalid Transaction", Status: models.OrderStatusOnHold, Redirect: RedirectCancel}
	}
}

// settledTransition is outcome for orders already paid
var settledTransition = Transition{Text: "SETTLED", Redirect: RedirectReceived}

// Outcome is result of applying callback to order
type Outcome struct {
	Transition
	// Applied is false when order was already settled and nothing changed
	Applied bool
}

// Reconciler applies payment results to orders
type Reconciler struct {
	store OrderStore
}

// NewReconciler creates new Reconciler instance
func NewReconciler(store OrderStore) *Reconciler {
	return &Reconciler{store: store}
}

// Apply writes audit note and changes order status according to payment status.
// Order that is processing or completed is never changed.
func (r *Reconciler) Apply(ctx context.Context, order *models.Order, ps models.PaymentStatus, transactionID, paymentType string) (Outcome, error) {
	tr := TransitionFor(ps)

	// status may have been changed by concurrent callback since order was loaded
	status, err := r.store.GetOrderStatus(ctx, order.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("get order status: %w", err)
	}
	if status.IsSettled() {
		logger.Log.Debug("order is already settled",
			zap.String("number", order.Number),
			zap.String("status", string(status)))
		settled := settledTransition
		settled.Status = status
		return Outcome{Transition: settled}, nil
	}

	// note goes first, so that the payment is traceable even if status update fails
	if err := r.store.AddOrderNote(ctx, order.ID, auditNote(tr, transactionID, paymentType)); err != nil {
		return Outcome{}, fmt.Errorf("add order note: %w", err)
	}

	if ps == models.PaymentStatusSuccess {
		err = r.store.CompletePayment(ctx, order.ID, transactionID)
	} else {
		err = r.store.UpdateOrderStatus(ctx, order.ID, tr.Status, tr.Text)
	}
	if err != nil {
		if errors.Is(err, models.ErrOrderSettled) {
			logger.Log.Info("order settled concurrently", zap.String("number", order.Number))
			settled := settledTransition
			settled.Status, err = r.store.GetOrderStatus(ctx, order.ID)
			if err != nil {
				return Outcome{}, fmt.Errorf("get order status: %w", err)
			}
			return Outcome{Transition: settled}, nil
		}
		return Outcome{}, fmt.Errorf("update order status: %w", err)
	}

	logger.Log.Debug("order status has been updated successfully",
		zap.String("number", order.Number),
		zap.String("status", string(tr.Status)))

	return Outcome{Transition: tr, Applied: true}, nil
}

func auditNote(tr Transition, transactionID, paymentType string) string {
	return fmt.Sprintf("Payment Status: %s\nTransaction ID: %s\nPayment Type: %s", tr.Text, transactionID, paymentType)
}
