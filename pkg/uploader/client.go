// Package uploader is the client side of the gallery upload protocol: it asks the server for a
// presigned URL, PUTs the bytes straight to storage and then finalizes the upload.
package uploader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Class selects where an upload lands and which size limit applies.
type Class string

const (
	ClassAdmin     Class = "admin"
	ClassGuest     Class = "guest"
	ClassSiteAsset Class = "site_asset"
)

// Session is returned by Login.
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Ticket is a presigned upload authorization.
type Ticket struct {
	Key         string            `json:"key"`
	UploadURL   string            `json:"uploadUrl"`
	PublicURL   string            `json:"publicUrl"`
	ContentType string            `json:"contentType"`
	Headers     map[string]string `json:"headers,omitempty"`
	ExpiresIn   int               `json:"expiresIn"`
}

// Finalized describes a recorded upload.
type Finalized struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Owner    string `json:"owner,omitempty"`
	Type     Class  `json:"type"`
}

// GuestImage is one entry of the guest gallery.
type GuestImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Owner    string `json:"owner"`
}

type page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type errorBody struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the gallery API or the storage endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the gallery API.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request, including the storage PUT.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithToken starts the client with an existing bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRetries retries requests that fail at the transport level.
func WithRetries(count int) Option {
	return func(c *Client) {
		c.http.SetRetryCount(count).
			SetRetryWaitTime(200 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(2 * time.Minute).
			SetHeader("Accept", "application/json").
			SetRetryCount(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// request builds an API request. The token is attached per request so it never leaks to the
// presigned storage URL.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// Login authenticates and keeps the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string, role string) (*Session, error) {
	var session Session
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password, "role": role}).
		SetResult(&session).
		SetError(&apiErr).
		Post("/v1/auth/login")
	if err := check(resp, err, &apiErr); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.SetToken(session.Token)
	return &session, nil
}

// Presign asks for an upload URL.
func (c *Client) Presign(ctx context.Context, filename, contentType string, class Class) (*Ticket, error) {
	var ticket Ticket
	var apiErr errorBody
	resp, err := c.request(ctx).
		SetBody(map[string]string{"filename": filename, "contentType": contentType, "type": string(class)}).
		SetResult(&ticket).
		SetError(&apiErr).
		Post("/v1/uploads/presign")
	if err := check(resp, err, &apiErr); err != nil {
		return nil, fmt.Errorf("presign %s: %w", filename, err)
	}
	return &ticket, nil
}

// Put sends the bytes to the presigned URL with every header the ticket lists.
func (c *Client) Put(ctx context.Context, ticket *Ticket, data []byte) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", ticket.ContentType).
		SetBody(data)
	for name, value := range ticket.Headers {
		req.SetHeader(name, value)
	}
	resp, err := req.Put(ticket.UploadURL)
	if err != nil {
		return fmt.Errorf("put %s: %w", ticket.Key, err)
	}
	if resp.IsError() {
		return fmt.Errorf("put %s: %w", ticket.Key, &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())})
	}
	return nil
}

// Finalize records an uploaded object.
func (c *Client) Finalize(ctx context.Context, key, owner string, class Class) (*Finalized, error) {
	var result Finalized
	var apiErr errorBody
	resp, err := c.request(ctx).
		SetBody(map[string]string{"key": key, "owner": owner, "type": string(class)}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/uploads/finalize")
	if err := check(resp, err, &apiErr); err != nil {
		return nil, fmt.Errorf("finalize %s: %w", key, err)
	}
	return &result, nil
}

// ListAdmin returns the admin gallery URLs, newest first.
func (c *Client) ListAdmin(ctx context.Context) ([]string, error) {
	var result page[string]
	var apiErr errorBody
	resp, err := c.request(ctx).SetResult(&result).SetError(&apiErr).Get("/v1/gallery/admin")
	if err := check(resp, err, &apiErr); err != nil {
		return nil, fmt.Errorf("list admin gallery: %w", err)
	}
	return result.Items, nil
}

// ListGuest returns the guest gallery, newest first.
func (c *Client) ListGuest(ctx context.Context) ([]GuestImage, error) {
	var result page[GuestImage]
	var apiErr errorBody
	resp, err := c.request(ctx).SetResult(&result).SetError(&apiErr).Get("/v1/gallery/guest")
	if err := check(resp, err, &apiErr); err != nil {
		return nil, fmt.Errorf("list guest gallery: %w", err)
	}
	return result.Items, nil
}

// Delete removes an image from the admin or guest gallery.
func (c *Client) Delete(ctx context.Context, class Class, filename string) error {
	var apiErr errorBody
	resp, err := c.request(ctx).
		SetError(&apiErr).
		Delete("/v1/gallery/" + url.PathEscape(string(class)) + "/" + url.PathEscape(filename))
	if err := check(resp, err, &apiErr); err != nil {
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	return nil
}

func check(resp *resty.Response, err error, body *errorBody) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		message := body.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Code: body.Code, Message: message}
	}
	// resty leaves the result untouched for non-JSON bodies, which would read as an empty answer.
	if resp.Request != nil && resp.Request.Result != nil && resp.StatusCode() != http.StatusNoContent {
		if ct := resp.Header().Get("Content-Type"); !resty.IsJSONType(ct) {
			return &APIError{StatusCode: resp.StatusCode(), Code: "UNEXPECTED_CONTENT_TYPE",
				Message: fmt.Sprintf("expected a JSON body, got %q", ct)}
		}
	}
	return nil
}
