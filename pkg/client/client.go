package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// APIError is a non-2xx answer of the dashboard API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Meta is the snapshot metadata attached to collection responses.
type Meta struct {
	Collection string `json:"collection"`
	Revision   int64  `json:"revision"`
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client talks to the dashboard API.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &fasthttp.Client{Name: "dashboard-client"},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends body as JSON and decodes the envelope data into out. The snapshot
// metadata is returned when the response carries one.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (*Meta, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode(), Code: "INTERNAL", Message: "undecodable response"}
	}
	if resp.StatusCode() >= fasthttp.StatusBadRequest || env.Status == "error" {
		apiErr := &APIError{Status: resp.StatusCode(), Code: env.Code}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Fields
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}

	var meta *Meta
	if len(env.Meta) > 0 && string(env.Meta) != "null" {
		meta = &Meta{}
		if err := json.Unmarshal(env.Meta, meta); err != nil {
			return nil, fmt.Errorf("decode meta: %w", err)
		}
	}
	return meta, nil
}
