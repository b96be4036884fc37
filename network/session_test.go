package network

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/megaloader/megaloader/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func fastOptions() Options {
	opts := DefaultOptions()
	opts.BackoffInitial = time.Millisecond
	opts.BackoffMax = 2 * time.Millisecond
	opts.Timeout = 5 * time.Second
	return opts
}

func TestSessionRetry(t *testing.T) {
	Convey("Given a flaky server", t, func() {
		var hits atomic.Int32
		failures := int32(2)
		status := http.StatusServiceUnavailable

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) <= failures {
				w.WriteHeader(status)
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		ctx := context.Background()

		Convey("Transient statuses should be retried", func() {
			session := NewSession(fastOptions())
			result, err := JSON(session.Get(ctx, server.URL))
			So(err, ShouldBeNil)
			So(result.Get("ok").Bool(), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 3)
		})

		Convey("Exhausted retries should surface the last status", func() {
			opts := fastOptions()
			opts.MaxRetries = 1
			session := NewSession(opts)

			_, err := session.Get(ctx, server.URL)
			So(IsStatus(err, http.StatusServiceUnavailable), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 2)
		})

		Convey("Client errors should not be retried", func() {
			status = http.StatusNotFound
			session := NewSession(fastOptions())

			_, err := session.Get(ctx, server.URL)
			var statusErr *StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusNotFound)
			So(hits.Load(), ShouldEqual, 1)
		})

		Convey("Post bodies should be replayed on retry", func() {
			var bodies []string
			echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				bodies = append(bodies, string(data))
				if len(bodies) == 1 {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			defer echo.Close()

			session := NewSession(fastOptions())
			_, err := JSON(session.PostJSON(ctx, echo.URL, map[string]string{"id": "x"}))
			So(err, ShouldBeNil)
			So(bodies, ShouldResemble, []string{`{"id":"x"}`, `{"id":"x"}`})
		})
	})
}

func TestSessionHeaders(t *testing.T) {
	Convey("Given a session", t, func() {
		var got http.Header
		var cookie string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			if c, err := r.Cookie("PHPSESSID"); err == nil {
				cookie = c.Value
			}
		}))
		defer server.Close()

		ctx := context.Background()

		Convey("It should send the default user agent", func() {
			_, err := Bytes(NewSession(fastOptions()).Get(ctx, server.URL))
			So(err, ShouldBeNil)
			So(got.Get("User-Agent"), ShouldEqual, constant.UserAgent)
		})

		Convey("Request headers should override defaults", func() {
			session := NewSession(fastOptions())
			session.SetHeader("Referer", "https://a.example/")

			_, err := Bytes(session.Get(ctx, server.URL, WithHeader("Referer", "https://b.example/")))
			So(err, ShouldBeNil)
			So(got.Get("Referer"), ShouldEqual, "https://b.example/")
		})

		Convey("Configure hooks should run once before the first request", func() {
			var runs int
			session := NewSession(fastOptions(), WithConfigure(func(s *Session) error {
				runs++
				s.SetHeader("Origin", "https://www.fanbox.cc")
				return s.SetCookie(server.URL, "PHPSESSID", "secret")
			}))

			_, err := Bytes(session.Get(ctx, server.URL))
			So(err, ShouldBeNil)
			_, err = Bytes(session.Get(ctx, server.URL))
			So(err, ShouldBeNil)

			So(runs, ShouldEqual, 1)
			So(got.Get("Origin"), ShouldEqual, "https://www.fanbox.cc")
			So(cookie, ShouldEqual, "secret")

			cookies := session.Cookies(server.URL + "/any/path")
			So(cookies, ShouldHaveLength, 1)
			So(cookies[0].Value, ShouldEqual, "secret")
		})

		Convey("A failing hook should fail every request", func() {
			boom := errors.New("boom")
			session := NewSession(fastOptions(), func(*Session) error { return boom })

			_, err := session.Get(ctx, server.URL)
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("Basic auth should be encoded", func() {
			_, err := Bytes(NewSession(fastOptions()).Get(ctx, server.URL, WithBasicAuth("", "key")))
			So(err, ShouldBeNil)
			So(got.Get("Authorization"), ShouldEqual, "Basic OmtleQ==")
		})
	})
}

func TestProxyRotation(t *testing.T) {
	Convey("Given a pool with a dead proxy", t, func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		dead := "http://" + listener.Addr().String()
		So(listener.Close(), ShouldBeNil)

		var proxied atomic.Int32
		alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proxied.Add(1)
			_, _ = w.Write([]byte("via proxy"))
		}))
		defer alive.Close()

		opts := fastOptions()
		opts.MaxRetries = 0
		opts.Proxies = []string{dead, alive.URL}

		Convey("It should rotate to the next proxy", func() {
			session := NewSession(opts)
			body, err := Text(session.Get(context.Background(), "http://files.example/a.jpg"))
			So(err, ShouldBeNil)
			So(body, ShouldEqual, "via proxy")
			So(proxied.Load(), ShouldEqual, 1)
			So(session.current.Load(), ShouldEqual, 1)
		})

		Convey("It should give up after the rotation budget", func() {
			opts.Proxies = []string{dead, dead, alive.URL}
			opts.MaxRotations = 1
			session := NewSession(opts)

			_, err := session.Get(context.Background(), "http://files.example/a.jpg")
			So(err, ShouldNotBeNil)
			So(proxied.Load(), ShouldEqual, 0)
		})

		Convey("Unsupported schemes should be rejected", func() {
			opts.Proxies = []string{"ftp://proxy.example:21"}
			_, err := NewSession(opts).Get(context.Background(), alive.URL)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSessionStream(t *testing.T) {
	Convey("Given a body that trickles in for longer than the timeout", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			for range 6 {
				_, _ = w.Write([]byte("0123456789"))
				flusher.Flush()
				time.Sleep(100 * time.Millisecond)
			}
		}))
		defer server.Close()

		opts := fastOptions()
		opts.Timeout = 300 * time.Millisecond
		session := NewSession(opts)

		Convey("Do should cut the body off", func() {
			_, err := Bytes(session.Get(context.Background(), server.URL))
			So(err, ShouldNotBeNil)
		})

		Convey("Stream should read it whole", func() {
			req, err := NewRequest(context.Background(), http.MethodGet, server.URL, nil)
			So(err, ShouldBeNil)

			data, err := Bytes(session.Stream(req))
			So(err, ShouldBeNil)
			So(data, ShouldHaveLength, 60)

			session.CloseIdle()
		})
	})
}

func TestRetryAfter(t *testing.T) {
	Convey("retryAfter", t, func() {
		So(retryAfter("", time.Minute), ShouldEqual, 0)
		So(retryAfter("3", time.Minute), ShouldEqual, 3*time.Second)
		So(retryAfter("600", time.Minute), ShouldEqual, time.Minute)
		So(retryAfter("garbage", time.Minute), ShouldEqual, 0)

		future := time.Now().Add(10 * time.Second).UTC().Format(http.TimeFormat)
		wait := retryAfter(future, time.Minute)
		So(wait, ShouldBeGreaterThan, 8*time.Second)
		So(wait, ShouldBeLessThanOrEqualTo, 10*time.Second)
	})
}

func TestOptionsNormalized(t *testing.T) {
	Convey("Zero options should get sane defaults", t, func() {
		opts := Options{MaxRetries: -1}.normalized()
		So(opts.Timeout, ShouldEqual, 30*time.Second)
		So(opts.MaxRetries, ShouldEqual, 0)
		So(opts.UserAgent, ShouldEqual, constant.UserAgent)
		So(opts.BackoffMax, ShouldBeGreaterThanOrEqualTo, opts.BackoffInitial)
	})
}
