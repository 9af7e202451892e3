package books

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines the book service operations used by the collection store.
// This interface is implemented by *Client and can be replaced in tests.
type Service interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	UpdateReview(ctx context.Context, id int64, review string) error
	UpdateReadStatus(ctx context.Context, id int64, read bool) error
	CreateBook(ctx context.Context, in NewBook) (Book, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the book service HTTP API.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	userAgent    string
	reviewMethod string
}

const (
	defaultBaseURL   = "http://localhost:4000"
	defaultUserAgent = "shelf/0.1"
	requestIDHeader  = "X-Request-ID"
	maxErrorBody     = 512
)

// Options tune a Client. The zero value is usable.
type Options struct {
	// ReviewMethod is PUT or PATCH; empty means PUT.
	ReviewMethod string
	// Timeout bounds each request; zero leaves requests unbounded.
	Timeout time.Duration
}

// NewClient builds a Client for the service rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(opts.ReviewMethod))
	switch method {
	case "":
		method = http.MethodPut
	case http.MethodPut, http.MethodPatch:
	default:
		return nil, fmt.Errorf("review method %q: want PUT or PATCH", opts.ReviewMethod)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:    defaultUserAgent,
		reviewMethod: method,
	}, nil
}

// ListBooks retrieves every book.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	const op = "list books"
	body, err := c.do(ctx, op, 0, http.MethodGet, "/books", nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeBookList(body)
	if err != nil {
		return nil, c.fail(ctx, &Failure{Op: op, Kind: KindDecode, Err: err})
	}
	return list, nil
}

// GetBook retrieves a single book by id.
func (c *Client) GetBook(ctx context.Context, id int64) (Book, error) {
	const op = "get book"
	body, err := c.do(ctx, op, id, http.MethodGet, bookPath(id), nil)
	if err != nil {
		return Book{}, err
	}
	book, kind, err := decodeBook(body)
	if err != nil {
		return Book{}, c.fail(ctx, &Failure{Op: op, ID: id, Kind: kind, Err: err})
	}
	return book, nil
}

// UpdateReview replaces the review text of a book.
func (c *Client) UpdateReview(ctx context.Context, id int64, review string) error {
	_, err := c.do(ctx, "update review", id, c.reviewMethod, bookPath(id), reviewPatch{Review: review})
	return err
}

// UpdateReadStatus sets the read flag of a book.
func (c *Client) UpdateReadStatus(ctx context.Context, id int64, read bool) error {
	_, err := c.do(ctx, "update read status", id, http.MethodPut, bookPath(id)+"/read", readPatch{Read: read})
	return err
}

// CreateBook adds a book and returns the record with its service-assigned id.
func (c *Client) CreateBook(ctx context.Context, in NewBook) (Book, error) {
	const op = "create book"
	if err := in.Validate(); err != nil {
		return Book{}, c.fail(ctx, &Failure{Op: op, Kind: KindInvalid, Err: err})
	}
	body, err := c.do(ctx, op, 0, http.MethodPost, "/books", in)
	if err != nil {
		return Book{}, err
	}
	book, kind, err := decodeBook(body)
	if err != nil {
		return Book{}, c.fail(ctx, &Failure{Op: op, Kind: kind, Err: err})
	}
	return book, nil
}

// do performs one request and returns the response body. Any failure is
// logged and returned as a *Failure.
func (c *Client) do(ctx context.Context, op string, id int64, method, path string, payload any) ([]byte, error) {
	if c == nil {
		return nil, &Failure{Op: op, ID: id, Kind: KindTransport, Err: fmt.Errorf("client is nil")}
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(ctx, &Failure{Op: op, ID: id, Kind: KindInvalid, Err: fmt.Errorf("encode request: %w", err)})
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, c.fail(ctx, &Failure{Op: op, ID: id, Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)})
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx = withRequestID(ctx, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(ctx, &Failure{Op: op, ID: id, Kind: KindTransport, Err: fmt.Errorf("execute request: %w", err)})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.fail(ctx, &Failure{
			Op:     op,
			ID:     id,
			Kind:   KindRejected,
			Status: resp.StatusCode,
			Err:    errors.New(strings.TrimSpace(string(snippet))),
		})
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, &Failure{Op: op, ID: id, Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)})
	}
	slog.Debug("book service request ok",
		slog.String("op", op),
		slog.Int64("id", id),
		slog.String("method", method),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
	)
	return raw, nil
}

// fail logs f with request context and returns it.
func (c *Client) fail(ctx context.Context, f *Failure) error {
	attrs := []any{
		slog.String("op", f.Op),
		slog.String("kind", f.Kind.String()),
	}
	if f.ID > 0 {
		attrs = append(attrs, slog.Int64("id", f.ID))
	}
	if f.Status != 0 {
		attrs = append(attrs, slog.Int("status", f.Status))
	}
	if f.Err != nil {
		attrs = append(attrs, slog.String("err", f.Err.Error()))
	}
	if rid := requestIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("request_id", rid))
	}
	slog.Error("book service call failed", attrs...)
	return f
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
