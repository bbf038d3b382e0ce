package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client calls the storefront API on behalf of one shopper. It owns the shopper's Session
// and a mirror of their cart that is refreshed after every cart change and checkout.
type Client struct {
	http    *resty.Client
	session *Session
	log     *zap.Logger

	mu   sync.RWMutex
	cart Cart
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    resty.New(),
		session: &Session{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if token := c.session.Token(); token != "" {
				r.SetAuthToken(token)
			}
			return nil
		})
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// CachedCart returns the last cart fetched from the server.
func (c *Client) CachedCart() Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cart := c.cart
	cart.Items = append([]CartItem(nil), c.cart.Items...)
	return cart
}

func (c *Client) setCart(cart Cart) {
	c.mu.Lock()
	c.cart = cart
	c.mu.Unlock()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetError(&errorBody{})
}

// do sends a JSON request and decodes a successful response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	return send(req, method, path)
}

func send(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	if e, ok := resp.Error().(*errorBody); ok {
		apiErr.Code = e.Code
		apiErr.Message = e.Message
		apiErr.Detail = e.Error
		apiErr.Fields = e.Errors
	}
	return apiErr
}

// Register creates a customer account and starts its session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/register", in, &resp); err != nil {
		return nil, err
	}
	c.session.Begin(resp.Token, resp.User)
	c.refreshCart(ctx)
	return &resp.User, nil
}

// Login starts a session. login is a username or an email.
func (c *Client) Login(ctx context.Context, login, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"username": login, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	c.session.Begin(resp.Token, resp.User)
	if !resp.User.IsAdmin() {
		c.refreshCart(ctx)
	}
	return &resp.User, nil
}

// Logout revokes the token and ends the session. The local session ends even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Active() {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.session.End()
	c.setCart(Cart{})
	return err
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/user", in, &user); err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		c.session.Begin(token, user)
	}
	return &user, nil
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	var products []Product
	req := c.request(ctx).SetResult(&products)
	if q.Query != "" {
		req.SetQueryParam("q", q.Query)
	}
	if q.Category != "" {
		req.SetQueryParam("category", q.Category)
	}
	if err := send(req, http.MethodGet, "/products"); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Reviews(ctx context.Context, productID string) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/products/"+productID+"/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, productID string, rating int, comment string) (*Review, error) {
	var review Review
	body := map[string]interface{}{"rating": rating, "comment": comment}
	if err := c.do(ctx, http.MethodPost, "/products/"+productID+"/reviews", body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Cart fetches the cart priced with promo (may be empty) and updates the mirror.
func (c *Client) Cart(ctx context.Context, promo string) (*Cart, error) {
	var cart Cart
	req := c.request(ctx).SetResult(&cart)
	if promo != "" {
		req.SetQueryParam("promo", promo)
	}
	if err := send(req, http.MethodGet, "/cart"); err != nil {
		return nil, err
	}
	c.setCart(cart)
	return &cart, nil
}

// refreshCart reloads the mirror. Failures keep the previous mirror.
func (c *Client) refreshCart(ctx context.Context) {
	if _, err := c.Cart(ctx, ""); err != nil {
		c.log.Warn("failed to refresh cart", zap.Error(err))
	}
}

// AddToCart adds quantity units of a product; zero means one.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*CartItem, error) {
	var item CartItem
	body := map[string]interface{}{"product_id": productID, "quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/cart", body, &item); err != nil {
		return nil, err
	}
	c.refreshCart(ctx)
	return &item, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*CartItem, error) {
	var item CartItem
	if err := c.do(ctx, http.MethodPut, "/cart/"+itemID, map[string]int{"quantity": quantity}, &item); err != nil {
		return nil, err
	}
	c.refreshCart(ctx)
	return &item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cart/"+itemID, nil, nil); err != nil {
		return err
	}
	c.refreshCart(ctx)
	return nil
}

// CheckPromo prices the current cart with code without changing it.
func (c *Client) CheckPromo(ctx context.Context, code string) (*PromoQuote, error) {
	var quote PromoQuote
	if err := c.do(ctx, http.MethodPost, "/cart/promo", map[string]string{"code": code}, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, in AddressInput) (*Address, error) {
	var address Address
	if err := c.do(ctx, http.MethodPost, "/addresses", in, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) SetDefaultAddress(ctx context.Context, id string) (*Address, error) {
	var address Address
	if err := c.do(ctx, http.MethodPatch, "/addresses/"+id+"/default", nil, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// Checkout places an order from the current cart and refreshes the mirror.
func (c *Client) Checkout(ctx context.Context, in CheckoutInput) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", in, &order); err != nil {
		return nil, err
	}
	c.refreshCart(ctx)
	return &order, nil
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
