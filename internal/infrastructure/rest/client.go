package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/example/kitchen-console/internal/domain/order"
)

var (
	// ErrFetch is the root of read failures. The caller keeps whatever
	// state it already had.
	ErrFetch = errors.New("fetch failed")

	// ErrWrite is the root of write failures. Local state is unchanged and
	// the error goes back to whoever initiated the action.
	ErrWrite = errors.New("write failed")
)

// Client talks to the kitchen backend's REST API.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// FetchOrders returns the kitchen's full order list.
func (c *Client) FetchOrders(ctx context.Context, kitchenID string) ([]order.Order, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, kitchenID)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var orders []order.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}
	return orders, nil
}

// UpdateOrderStatus writes a status transition and returns the server's
// updated order object.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)
	body := map[string]order.Status{"status": status}

	resp, err := c.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrWrite, resp.StatusCode)
	}

	var res struct {
		Order order.Order `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrWrite, err)
	}
	return &res.Order, nil
}

// KitchenStatus fetches the authoritative online flag, used to reconcile
// local state on login.
func (c *Client) KitchenStatus(ctx context.Context, kitchenID string) (bool, error) {
	url := fmt.Sprintf("%s/auth/kitchen-status/%s", c.baseURL, kitchenID)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var res struct {
		Status bool `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}
	return res.Status, nil
}

// UpdateKitchenStatus writes the online flag and returns the value the
// server settled on.
func (c *Client) UpdateKitchenStatus(ctx context.Context, kitchenID string, status bool) (bool, error) {
	url := fmt.Sprintf("%s/auth/update-kitchen-status", c.baseURL)
	body := map[string]any{"kitchenId": kitchenID, "status": status}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: unexpected status %d", ErrWrite, resp.StatusCode)
	}

	var res struct {
		Status bool `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrWrite, err)
	}
	return res.Status, nil
}

// Login authenticates the kitchen and returns the backend-issued token.
func (c *Client) Login(ctx context.Context, phone, password string) (string, error) {
	url := fmt.Sprintf("%s/auth/login", c.baseURL)
	body := map[string]string{"phone": phone, "password": password}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrWrite, resp.StatusCode)
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrWrite, err)
	}
	return res.Token, nil
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}
