// Package paymentprovider реализует клиент REST API платёжного шлюза Razorpay
// для подписок и проверку подписи платежа.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUnexpectedStatus шлюз ответил статусом, отличным от 2xx.
var ErrUnexpectedStatus = errors.New("unexpected gateway status")

// Client клиент платёжного шлюза с Basic авторизацией.
type Client struct {
	keyID      string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент шлюза. timeout ограничивает каждый запрос.
func NewClient(keyID, secretKey, apiURL string, timeout time.Duration) *Client {
	return &Client{
		keyID:      keyID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// KeyID возвращает публичный ключ, который нужен фронтенду для checkout.
func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, apiErr.Error.Description)
		}
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateSubscription создаёт подписку по плану planID на один платёжный цикл.
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	const op = "paymentprovider.CreateSubscription"
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions", CreateSubscriptionRequest{
		PlanID:         planID,
		CustomerNotify: 1,
		TotalCount:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CancelSubscription отменяет подписку и возвращает её новое состояние.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	const op = "paymentprovider.CancelSubscription"
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions/"+url.PathEscape(subscriptionID)+"/cancel", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptions возвращает последние count подписок аккаунта.
func (c *Client) ListSubscriptions(ctx context.Context, count int) (*SubscriptionList, error) {
	const op = "paymentprovider.ListSubscriptions"
	if count <= 0 {
		count = 10
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/subscriptions?count="+strconv.Itoa(count), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var list SubscriptionList
	if err := c.do(req, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &list, nil
}
