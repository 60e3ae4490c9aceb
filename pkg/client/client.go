// пакет client выполняет запросы к REST API комментариев
package client

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
	"time"

	"github.com/google/uuid"
	"github.com/rtemka/agg/commentsview/domain"
	"go.uber.org/zap"
)

// DefaultBaseURL - адрес публичного API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// путь к списку комментариев первого поста.
const commentsPath = "/posts/1/comments"

// RequestIDHeader - заголовок, в котором передаётся id запроса.
const RequestIDHeader = "X-Request-ID"

var ErrBadBaseURL = errors.New("invalid base url")

// StatusError - сервер ответил кодом вне диапазона 2xx.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error with status code %d", e.Code)
}

type ctxKey int

const (
	requestID ctxKey = iota
)

// WithRequestID возвращает контекст с id запроса,
// который будет передан удалённому сервису.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestID, id)
}

// RequestID извлекает id запроса из контекста.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestID).(string)
	return id, ok && id != ""
}

// Client - клиент REST API комментариев.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// options собирает настройки до создания [*Client].
type options struct {
	hc      *http.Client
	timeout time.Duration
}

// Option настраивает [*Client].
type Option func(*options)

// WithTimeout задаёт таймаут исходящих запросов.
// По умолчанию таймаут не установлен.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient задаёт [*http.Client], копия которого
// используется для запросов. Сам hc не изменяется.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.hc = hc
	}
}

// New возвращает [*Client]. Пустой baseURL означает [DefaultBaseURL].
func New(baseURL string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	hc := &http.Client{}
	if o.hc != nil {
		cp := *o.hc
		hc = &cp
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	c := Client{
		base:   u,
		http:   hc,
		logger: logger,
	}
	return &c, nil
}

// Comments получает комментарии к посту в порядке, заданном сервером.
func (c *Client) Comments(ctx context.Context) ([]domain.Comment, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, commentsPath, nil)
	if err != nil {
		return nil, err
	}
	return jsonDecFunc[[]domain.Comment](resp.Body)
}

// CreateComment отправляет черновик и возвращает то,
// что вернул сервер.
func (c *Client) CreateComment(ctx context.Context, d domain.NewCommentDraft) (domain.Comment, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return domain.Comment{}, err
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, commentsPath, bytes.NewReader(b))
	if err != nil {
		return domain.Comment{}, err
	}
	return jsonDecFunc[domain.Comment](resp.Body)
}

// makeRequest выполняет запрос и проверяет код ответа.
// При коде вне 2xx тело ответа вычитывается и закрывается.
func (c *Client) makeRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	u := *c.base
	u.Path += path

	rid, ok := RequestID(ctx)
	if !ok {
		rid = uuid.NewString()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, rid)
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("url", u.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("request sent",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return resp, nil
}

func jsonDecFunc[T any](r io.ReadCloser) (T, error) {
	defer func() {
		_, _ = io.Copy(io.Discard, r)
		_ = r.Close()
	}()
	var t T
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return t, fmt.Errorf("decode response: %w", err)
	}
	return t, nil
}
