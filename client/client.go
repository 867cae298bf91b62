// Package client is a Go client for the Freezy Bites storefront API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Session carries the bearer token of a signed-in customer. The zero value is a guest.
type Session struct {
	Token string
}

func (s Session) SignedIn() bool { return s.Token != "" }

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("freezy bites api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

type Product struct {
	ID          uint            `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageUrl    string          `json:"imageUrl"`
	Status      string          `json:"status"`
}

type Line struct {
	ProductID uint   `json:"productId,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

type Contact struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type OrderItem struct {
	ProductID       uint            `json:"productId"`
	ProductName     string          `json:"productName"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type Order struct {
	ID            uint            `json:"id"`
	OrderRef      string          `json:"orderRef"`
	CustomerID    *uint           `json:"customerId"`
	Email         string          `json:"email"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CheckoutResult is the answer to a placed order. Warning is set when the order was
// placed but its receipt could not be delivered.
type CheckoutResult struct {
	Message  string          `json:"message"`
	OrderID  uint            `json:"orderId"`
	OrderRef string          `json:"orderRef"`
	Total    decimal.Decimal `json:"total"`
	Order    Order           `json:"order"`
	Warning  string          `json:"warning"`
}

type CheckoutOptions struct {
	PaymentMethod string
	Notes         string
}

type checkoutBody struct {
	Items         []Line   `json:"items,omitempty"`
	Guest         *Contact `json:"guest,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

func (c *Client) request(ctx context.Context, s Session) *resty.Request {
	r := c.http.R().SetContext(ctx).SetError(&APIError{})
	if s.SignedIn() {
		r.SetAuthToken(s.Token)
	}
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.StatusCode = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

// Login signs a customer in and returns the session to pass to later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.request(ctx, Session{}).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := check(resp, err); err != nil {
		return Session{}, err
	}
	return Session{Token: out.Token}, nil
}

func (c *Client) Products(ctx context.Context, search string, page int) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	r := c.request(ctx, Session{}).SetResult(&out)
	if search != "" {
		r.SetQueryParam("search", search)
	}
	if page > 0 {
		r.SetQueryParam("page", fmt.Sprint(page))
	}
	if err := check(r.Get("/products")); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Checkout places an order from the signed-in customer's server cart.
func (c *Client) Checkout(ctx context.Context, s Session, opts CheckoutOptions) (*CheckoutResult, error) {
	if !s.SignedIn() {
		return nil, fmt.Errorf("checkout of the server cart needs a signed-in session")
	}
	return c.placeOrder(ctx, s, checkoutBody{PaymentMethod: opts.PaymentMethod, Notes: opts.Notes})
}

// GuestCheckout places an order for the lines held in cart and clears it on success.
func (c *Client) GuestCheckout(ctx context.Context, cart *CartStore, contact Contact, opts CheckoutOptions) (*CheckoutResult, error) {
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}
	result, err := c.placeOrder(ctx, Session{}, checkoutBody{
		Items:         lines,
		Guest:         &contact,
		PaymentMethod: opts.PaymentMethod,
		Notes:         opts.Notes,
	})
	if err != nil {
		return nil, err
	}
	return result, cart.Clear()
}

func (c *Client) placeOrder(ctx context.Context, s Session, body checkoutBody) (*CheckoutResult, error) {
	var out CheckoutResult
	resp, err := c.request(ctx, s).SetBody(body).SetResult(&out).Post("/checkout")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushCart copies the local cart into the signed-in customer's server cart, adding to
// any quantities already there. Each line leaves the local cart as soon as the server
// accepts it, so retrying after a failure never adds a line twice.
func (c *Client) PushCart(ctx context.Context, s Session, cart *CartStore) error {
	if !s.SignedIn() {
		return fmt.Errorf("pushing the cart needs a signed-in session")
	}
	for _, line := range cart.Lines() {
		if err := check(c.request(ctx, s).SetBody(line).Post("/cart")); err != nil {
			return fmt.Errorf("push %s: %w", line.SKU, err)
		}
		if err := cart.Remove(line.SKU); err != nil {
			return fmt.Errorf("push %s: %w", line.SKU, err)
		}
	}
	return nil
}
