package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lingerie-shop/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerOpen     = 30 * time.Second
	maxResponseBytes       = 4 << 20
)

// Config 客户端配置
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerOpen     time.Duration
	Locale          string
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger 注入日志
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithToken 设置初始 token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithUnauthorizedHook 会话失效回调（跳转登录）
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// Client 带鉴权的店铺 API 客户端
type Client struct {
	baseURL *url.URL
	locale  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*rawResponse]
	log     *zap.SugaredLogger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type errorData struct {
	Fields    map[string]string `json:"fields"`
	RequestID string            `json:"request_id"`
}

type rawResponse struct {
	status int
	body   []byte
}

type serverStatusError struct {
	resp *rawResponse
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("server responded %d", e.resp.status)
}

// NewClient 创建客户端
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = defaultBreakerFailures
	}
	openFor := cfg.BreakerOpen
	if openFor <= 0 {
		openFor = defaultBreakerOpen
	}

	c := &Client{
		baseURL: base,
		locale:  strings.TrimSpace(cfg.Locale),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Named("storefront"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			// 客户端取消不计入熔断
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warnw("storefront_breaker_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// SetToken 设置 bearer token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Token 当前 token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized 设置会话失效回调
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) dropSession() {
	c.mu.Lock()
	c.token = ""
	hook := c.onUnauthorized
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
}

type requestOptions struct {
	query   url.Values
	headers map[string]string
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, requestOptions{query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, requestOptions{}, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, requestOptions{query: query}, out)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, opts requestOptions, out interface{}) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}

	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		return c.roundTrip(ctx, method, path, payload, opts)
	})
	if err != nil {
		var statusErr *serverStatusError
		switch {
		case errors.As(err, &statusErr):
			resp = statusErr.resp
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			c.log.Warnw("storefront_request_failed", "method", method, "path", path, "error", err)
			return &APIError{Err: ErrNetwork, Message: err.Error()}
		}
	}
	return c.decode(method, path, resp, out)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, opts requestOptions) (*rawResponse, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(opts.query) > 0 {
		target.RawQuery = opts.query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range opts.headers {
		req.Header.Set(key, value)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	raw := &rawResponse{status: res.StatusCode, body: data}
	if res.StatusCode >= http.StatusInternalServerError {
		return nil, &serverStatusError{resp: raw}
	}
	return raw, nil
}

func (c *Client) decode(method, path string, resp *rawResponse, out interface{}) error {
	var env envelope
	if len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, &env); err != nil && resp.status < 400 {
			return &APIError{Status: resp.status, Err: ErrServer, Message: "malformed response"}
		}
	}

	status := resp.status
	if status < 400 && env.StatusCode >= 400 {
		status = env.StatusCode
	}
	if status < 400 {
		if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Status: status, Err: ErrServer, Message: fmt.Sprintf("decode data: %v", err)}
		}
		return nil
	}

	var details errorData
	if len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &details)
	}
	apiErr := &APIError{
		Status:    status,
		Code:      env.StatusCode,
		Message:   env.Msg,
		RequestID: details.RequestID,
		Err:       classifyStatus(status),
	}

	switch {
	case status == http.StatusUnauthorized:
		c.dropSession()
	case status == http.StatusBadRequest && len(details.Fields) > 0:
		apiErr.Err = &ValidationError{Fields: details.Fields}
	case status >= http.StatusInternalServerError:
		c.log.Errorw("storefront_server_error",
			"method", method,
			"path", path,
			"status", status,
			"request_id", details.RequestID,
			"msg", env.Msg,
		)
	}
	return apiErr
}
