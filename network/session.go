// Package network provides the HTTP session every extractor owns: default
// headers, a cookie jar, retries with exponential backoff and a rotating
// proxy pool.
package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/megaloader/megaloader/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// Hook configures a session once, before its first request.
type Hook func(*Session) error

// WithConfigure wraps a configuration function as a Hook.
func WithConfigure(fn func(*Session) error) Hook {
	return Hook(fn)
}

// Session is an HTTP client owned by a single extractor or download run.
// It is safe for concurrent use.
type Session struct {
	opts  Options
	hooks []Hook
	jar   *cookiejar.Jar

	mu      sync.RWMutex
	headers http.Header

	once    sync.Once
	initErr error
	routes  []route

	// index of the proxy route in use, advanced on connection failures
	current atomic.Uint64
}

type route struct {
	name   string
	client *http.Client
	// stream shares the transport but has no overall deadline
	stream *http.Client
}

func (r route) pick(streaming bool) *http.Client {
	if streaming {
		return r.stream
	}
	return r.client
}

// NewSession is cheap: transports are built on first use.
func NewSession(opts Options, hooks ...Hook) *Session {
	opts = opts.normalized()

	// cookiejar.New only fails on a broken public suffix list, and we pass none
	jar, _ := cookiejar.New(nil)

	s := &Session{
		opts:    opts,
		hooks:   hooks,
		jar:     jar,
		headers: make(http.Header),
	}

	s.headers.Set("User-Agent", opts.UserAgent)
	s.headers.Set("Accept", "*/*")
	s.headers.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range opts.Headers {
		s.headers.Set(k, v)
	}

	return s
}

// Options returns the normalized options the session was created with.
func (s *Session) Options() Options {
	return s.opts
}

// SetHeader sets a default header sent with every request.
func (s *Session) SetHeader(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers.Set(name, value)
}

// Header returns a default header value.
func (s *Session) Header(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers.Get(name)
}

// SetCookie stores a cookie for the host of rawURL.
func (s *Session) SetCookie(rawURL, name, value string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("cookie url: %w", err)
	}

	s.jar.SetCookies(u, []*http.Cookie{{
		Name:   name,
		Value:  value,
		Path:   "/",
		Domain: u.Hostname(),
	}})
	return nil
}

// Cookies returns the cookies that would be sent to rawURL.
func (s *Session) Cookies(rawURL string) []*http.Cookie {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return s.jar.Cookies(u)
}

// CloseIdle closes idle connections of every route.
func (s *Session) CloseIdle() {
	if s.init() != nil {
		return
	}
	for _, r := range s.routes {
		r.client.CloseIdleConnections()
	}
}

func (s *Session) init() error {
	s.once.Do(func() {
		routes, err := s.buildRoutes()
		if err != nil {
			s.initErr = err
			return
		}
		s.routes = routes

		for _, hook := range s.hooks {
			if err := hook(s); err != nil {
				s.initErr = fmt.Errorf("configure session: %w", err)
				return
			}
		}
	})
	return s.initErr
}

func (s *Session) buildRoutes() ([]route, error) {
	if len(s.opts.Proxies) == 0 {
		transport, err := s.transport(nil)
		if err != nil {
			return nil, err
		}
		return []route{s.route("direct", transport)}, nil
	}

	routes := make([]route, 0, len(s.opts.Proxies))
	for _, raw := range s.opts.Proxies {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", raw)
		}

		transport, err := s.transport(u)
		if err != nil {
			return nil, err
		}

		routes = append(routes, s.route(u.Redacted(), transport))
	}
	return routes, nil
}

func (s *Session) route(name string, transport http.RoundTripper) route {
	return route{
		name: name,
		client: &http.Client{
			Timeout:   s.opts.Timeout,
			Transport: transport,
			Jar:       s.jar,
		},
		stream: &http.Client{
			Transport: transport,
			Jar:       s.jar,
		},
	}
}

func (s *Session) transport(proxyURL *url.URL) (http.RoundTripper, error) {
	dialer := &net.Dialer{
		Timeout:   s.opts.Timeout,
		KeepAlive: 30 * time.Second,
	}
	dial := dialFunc(dialer.DialContext)

	var httpProxy *url.URL
	if proxyURL != nil {
		switch proxyURL.Scheme {
		case "socks5", "socks5h":
			d, err := proxy.FromURL(proxyURL, dialer)
			if err != nil {
				return nil, fmt.Errorf("proxy %s: %w", proxyURL.Redacted(), err)
			}
			contextDialer, ok := d.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("proxy %s: dialer does not support contexts", proxyURL.Redacted())
			}
			dial = contextDialer.DialContext
		case "http", "https":
			httpProxy = proxyURL
		default:
			return nil, fmt.Errorf("proxy %s: unsupported scheme %q", proxyURL.Redacted(), proxyURL.Scheme)
		}
	}

	// the fingerprinting dialer cannot tunnel through CONNECT proxies
	if s.opts.Impersonate && httpProxy == nil {
		return newChromeTransport(dial, s.opts.Timeout), nil
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = dial
	t.Proxy = nil
	if httpProxy != nil {
		t.Proxy = http.ProxyURL(httpProxy)
	}
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = s.opts.Timeout
	return t, nil
}

// Do sends req, retrying transient failures. Statuses that are not transient
// are returned as responses; the caller owns the body. The whole exchange,
// body included, is bounded by the session timeout.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	return s.do(req, false)
}

// Stream is Do for large bodies. The timeout bounds dialing and waiting for
// response headers only; the caller bounds the body read, usually through
// the request context.
func (s *Session) Stream(req *http.Request) (*http.Response, error) {
	return s.do(req, true)
}

func (s *Session) do(req *http.Request, streaming bool) (*http.Response, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	s.applyHeaders(req)

	ctx := req.Context()
	policy := &hintedBackOff{BackOff: s.exponential()}
	retrying := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.opts.MaxRetries)), ctx)

	attempt := 0
	operation := func() (*http.Response, error) {
		attempt++

		r, err := rewind(req, attempt)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := s.roundTrip(r, streaming)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			if !transient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		policy.hint = retryAfter(resp.Header.Get("Retry-After"), s.opts.BackoffMax*4)
		statusErr := newStatusError(resp)
		discard(resp)
		return nil, statusErr
	}

	notify := func(err error, wait time.Duration) {
		log.WithFields(logrus.Fields{
			"url":     req.URL.Redacted(),
			"attempt": attempt,
			"wait":    wait,
		}).Debugf("retrying: %v", err)
	}

	return backoff.RetryNotifyWithData(operation, retrying, notify)
}

func (s *Session) exponential() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.BackoffInitial
	b.MaxInterval = s.opts.BackoffMax
	b.Multiplier = 2
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// roundTrip sends req through the current route and moves on to the next
// proxy when the connection itself fails.
func (s *Session) roundTrip(req *http.Request, streaming bool) (*http.Response, error) {
	n := uint64(len(s.routes))
	if n == 1 {
		return s.routes[0].pick(streaming).Do(req)
	}

	rotations := min(s.opts.MaxRotations, len(s.routes)-1)

	var lastErr error
	for i := 0; i <= rotations; i++ {
		index := s.current.Load()
		r := s.routes[index%n]

		attempt, err := rewind(req, i+1)
		if err != nil {
			return nil, err
		}

		resp, err := r.pick(streaming).Do(attempt)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if req.Context().Err() != nil || !transient(err) {
			return nil, err
		}

		if s.current.CompareAndSwap(index, index+1) {
			log.Warnf("proxy %s failed, rotating: %v", r.name, err)
		}
	}

	return nil, lastErr
}

func (s *Session) applyHeaders(req *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, values := range s.headers {
		if req.Header.Get(name) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
}

// rewind prepares req for another attempt, replaying its body.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt <= 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}

	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme") {
		return false
	}

	return true
}

// hintedBackOff lets a server-provided Retry-After replace the next interval.
type hintedBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}

	if b.hint > 0 {
		next, b.hint = b.hint, 0
	}
	return next
}
