package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"productkart/internal/models"
)

// Client is the storefront's API gateway. Every method performs exactly
// one HTTP request against the REST API, attaches the bearer token when
// the endpoint requires authentication, and normalizes any failure into
// an *APIError. Methods never panic; the caller always receives either a
// decoded payload or a normalized error.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string // current bearer token, "" when logged out
}

// New creates a Client for the API at baseURL. tokenFn supplies the
// current bearer token on every authenticated call; httpClient may be
// nil to use a default with a 15s timeout.
func New(baseURL string, tokenFn func() string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   tokenFn,
	}
}

// --- Users ---

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/auth", credentials{Email: email, Password: password}, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	var session models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", credentials{Name: name, Email: email, Password: password}, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout tells the server the session is over.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/logout", nil, nil, false)
}

// Profile fetches the authenticated user's profile session.
func (c *Client) Profile(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &session, true); err != nil {
		return nil, err
	}
	return &session, nil
}

// ProfileUpdate is a partial profile change; empty fields are left
// untouched server-side.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile applies a partial profile update and returns the
// refreshed session.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.Session, error) {
	var session models.Session
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/profile", update, &session, true); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListUsers fetches all users (admin).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// --- Products ---

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+id, nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a placeholder product for the create-then-edit
// admin flow (admin).
func (c *Client) CreateProduct(ctx context.Context) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/products", struct{}{}, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct saves a product edit draft and returns the new state
// (admin).
func (c *Client) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.doJSON(ctx, http.MethodPut, "/api/products/"+product.ID, product, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product (admin).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/products/"+id, nil, nil, true)
}

// --- Orders ---

// CreateOrder places an order and returns the server's record of it.
func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var created models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", order, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/"+id, nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders fetches the authenticated user's orders.
func (c *Client) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/myorders", nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders fetches every order (admin).
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders", nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// PayOrder marks an order paid and returns the new state.
func (c *Client) PayOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPut, "/api/orders/"+id+"/pay", struct{}{}, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeliverOrder marks an order delivered (admin) and returns the new
// state.
func (c *Client) DeliverOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPut, "/api/orders/"+id+"/deliver", struct{}{}, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// --- Upload ---

// UploadImage sends one image as a multipart form (admin) and returns
// the hosted image URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", &APIError{Message: fmt.Sprintf("failed to build upload form: %v", err)}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &APIError{Message: fmt.Sprintf("failed to read image: %v", err)}
	}
	if err := mw.Close(); err != nil {
		return "", &APIError{Message: fmt.Sprintf("failed to finish upload form: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", &APIError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", normalizeTransport(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", normalizeResponse(resp.StatusCode, body)
	}
	return strings.TrimSpace(string(body)), nil
}

// doJSON performs one JSON request. A nil out discards the response
// body; withAuth attaches the bearer token.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode request: %v", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		c.authorize(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTransport(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeResponse(resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
