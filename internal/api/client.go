package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionTokenHeader = "X-SESSION-TOKEN"

// ErrSessionExpired indicates the backend answered with a login redirect,
// meaning the session token is missing, invalid, or expired.
var ErrSessionExpired = errors.New("session expired")

// TokenProvider returns the current session token, or "" when logged out.
type TokenProvider func() string

// APIError carries a non-2xx backend response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// Client is a typed HTTP client for the campus-store backend. Every request
// carries the session token (when present) and a request id; redirect-style
// statuses surface as ErrSessionExpired instead of being followed.
type Client struct {
	http  *resty.Client
	token TokenProvider
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Token   TokenProvider
	Logger  *logrus.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Token == nil {
		opts.Token = func() string { return "" }
	}

	c := &Client{token: opts.Token}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/") + "/").
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetHeader("Accept", "application/json")
	if opts.Logger != nil {
		rc.SetLogger(opts.Logger)
	}
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if token := c.token(); token != "" {
			req.SetHeader(sessionTokenHeader, token)
		}
		return nil
	})

	c.http = rc
	return c
}

type requestOption func(*resty.Request)

func withQuery(params map[string]string) requestOption {
	return func(req *resty.Request) {
		if len(params) > 0 {
			req.SetQueryParams(params)
		}
	}
}

func withMultipart(fields map[string]string, files []MultipartFile) requestOption {
	return func(req *resty.Request) {
		req.SetFormData(fields)
		for _, f := range files {
			req.SetFileReader(f.Field, f.Name, f.Reader)
		}
	}
}

// MultipartFile is one file part of a multipart upload.
type MultipartFile struct {
	Field  string
	Name   string
	Reader io.Reader
}

func (c *Client) execute(ctx context.Context, method, path string, body, out any, opts ...requestOption) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, path)
	if resp != nil && isLoginRedirect(resp.StatusCode()) {
		return ErrSessionExpired
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Detail: errorDetail(resp.Body())}
	}
	return nil
}

// The collaborator backend signals "not authenticated" with a redirect-style
// status rather than 401.
func isLoginRedirect(status int) bool {
	return status == http.StatusFound || status == http.StatusSeeOther || status == http.StatusTemporaryRedirect
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		text = text[:limit]
	}
	return text
}
