package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kariqs/freezy-bites-api/models"
)

type ReceiptLine struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Receipt struct {
	OrderID       uint
	OrderRef      string
	CustomerID    uint
	Email         string
	Name          string
	Address       string
	PaymentMethod models.PaymentMethod
	Lines         []ReceiptLine
	Total         decimal.Decimal
	PlacedAt      time.Time
}

// Notifier delivers order receipts. Implementations are best effort.
type Notifier interface {
	OrderPlaced(ctx context.Context, receipt Receipt) error
}

type AccountMailKind string

const (
	AccountActivation    AccountMailKind = "activation"
	AccountPasswordReset AccountMailKind = "password_reset"
)

// AccountMail carries a one-time link token to the owner of Email.
type AccountMail struct {
	Kind  AccountMailKind
	Email string
	Name  string
	Token string
}

// AccountMailer delivers activation and password reset links.
type AccountMailer interface {
	SendAccountMail(ctx context.Context, mail AccountMail) error
}

type NopNotifier struct{}

func (NopNotifier) OrderPlaced(context.Context, Receipt) error { return nil }

func (NopNotifier) SendAccountMail(context.Context, AccountMail) error { return nil }

func ReceiptFor(order models.Order) Receipt {
	r := Receipt{
		OrderID:       order.ID,
		OrderRef:      order.OrderRef,
		Email:         order.Email,
		Name:          order.ContactName,
		Address:       order.DeliveryAddress,
		PaymentMethod: order.PaymentMethod,
		Total:         order.TotalAmount,
		PlacedAt:      order.CreatedAt,
	}
	if order.CustomerID != nil {
		r.CustomerID = *order.CustomerID
	}
	for _, item := range order.Items {
		r.Lines = append(r.Lines, ReceiptLine{
			Name:      item.ProductName,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtPurchase,
			LineTotal: item.LineTotal(),
		})
	}
	return r
}

// SendReceipt runs after the order is committed. A failure is logged and returned as a
// warning for the caller; it never affects the order.
func SendReceipt(ctx context.Context, n Notifier, order models.Order, timeout time.Duration) string {
	if n == nil || order.Email == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := n.OrderPlaced(ctx, ReceiptFor(order)); err != nil {
		slog.WarnContext(ctx, "order receipt not sent", "order_id", order.ID, "email", order.Email, "error", err)
		return "Order placed, but the receipt email could not be sent."
	}
	return ""
}

// DeliverAccountMail sends mail within timeout. A failure is only logged: signing up
// again or asking for a new reset link issues a fresh token.
func DeliverAccountMail(ctx context.Context, m AccountMailer, mail AccountMail, timeout time.Duration) {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := m.SendAccountMail(ctx, mail); err != nil {
		slog.WarnContext(ctx, "account email not sent", "kind", mail.Kind, "email", mail.Email, "error", err)
		return
	}
	slog.InfoContext(ctx, "account email sent", "kind", mail.Kind, "email", mail.Email)
}
