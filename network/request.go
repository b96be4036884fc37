package network

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// RequestOption adjusts a single request.
type RequestOption func(*http.Request)

// WithHeader sets a request header.
func WithHeader(name, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(name, value)
	}
}

// WithHeaders sets every header of the map.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *http.Request) {
		for name, value := range headers {
			r.Header.Set(name, value)
		}
	}
}

func WithBearer(token string) RequestOption {
	return WithHeader("Authorization", "Bearer "+token)
}

func WithBasicAuth(user, password string) RequestOption {
	return WithHeader("Authorization", BasicAuth(user, password))
}

// BasicAuth returns the Authorization header value for user and password.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// NewRequest builds a request bound to ctx.
func NewRequest(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(req)
	}
	return req, nil
}

// Fetch sends a request and fails on statuses >= 400.
func (s *Session) Fetch(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	req, err := NewRequest(ctx, method, rawURL, body, opts...)
	if err != nil {
		return nil, err
	}

	resp, err := s.Do(req)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *Session) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return s.Fetch(ctx, http.MethodGet, rawURL, nil, opts...)
}

// PostJSON encodes payload as the request body.
func (s *Session) PostJSON(ctx context.Context, rawURL string, payload any, opts ...RequestOption) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	opts = append([]RequestOption{WithHeader("Content-Type", "application/json")}, opts...)
	return s.Fetch(ctx, http.MethodPost, rawURL, bytes.NewReader(data), opts...)
}

// Bytes reads and closes the body. It accepts the result of a request
// helper directly: network.Bytes(session.Get(ctx, u)).
func Bytes(resp *http.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func Text(resp *http.Response, err error) (string, error) {
	data, err := Bytes(resp, err)
	return string(data), err
}

// ErrInvalidJSON is returned when a body is not valid JSON.
var ErrInvalidJSON = errors.New("invalid json body")

func JSON(resp *http.Response, err error) (gjson.Result, error) {
	data, err := Bytes(resp, err)
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}

	return gjson.ParseBytes(data), nil
}

func Document(resp *http.Response, err error) (*goquery.Document, error) {
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if resp.Request != nil {
		doc.Url = resp.Request.URL
	}
	return doc, nil
}
