// Package storefront builds customer-facing shop pages the callback redirects to.
package storefront

import (
	"github.com/rookgm/paygateway/internal/models"
	"net/url"
	"strings"
)

// Links builds storefront URLs for an order
type Links struct {
	baseURL string
}

// NewLinks creates new Links instance
func NewLinks(baseURL string) *Links {
	return &Links{baseURL: strings.TrimRight(baseURL, "/")}
}

// ReceivedURL returns order confirmation page
func (l *Links) ReceivedURL(order *models.Order) string {
	return l.baseURL + "/checkout/order-received/" + url.PathEscape(order.Number)
}

// PaymentURL returns page where the customer retries the payment
func (l *Links) PaymentURL(order *models.Order) string {
	return l.baseURL + "/checkout/order-pay/" + url.PathEscape(order.Number)
}

// CancelURL returns page that cancels the order and restores the cart
func (l *Links) CancelURL(order *models.Order) string {
	return l.baseURL + "/cart?cancel_order=" + url.QueryEscape(order.Number)
}
