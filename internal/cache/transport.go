package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RoundTripper serves repeated GET requests from the cache database.
// Only successful responses are stored. Request headers are not part of the
// key, so credentials never reach the database.
type RoundTripper struct {
	// Transport is used on a cache miss. If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	DB *DB

	// TTL is how long an entry is served. Zero means entries never expire.
	TTL time.Duration

	Logger *log.Logger

	now func() time.Time
}

// NewRoundTripper creates a caching transport in front of next
func NewRoundTripper(next http.RoundTripper, db *DB, ttl time.Duration) *RoundTripper {
	return &RoundTripper{Transport: next, DB: db, TTL: ttl, now: time.Now}
}

func (c *RoundTripper) transport() http.RoundTripper {
	if c.Transport == nil {
		return http.DefaultTransport
	}
	return c.Transport
}

func (c *RoundTripper) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func (c *RoundTripper) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// RoundTrip implements http.RoundTripper
func (c *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || c.DB == nil {
		return c.transport().RoundTrip(req)
	}

	key := Key(req.Method, req.URL.String())

	entry, err := c.DB.Get(key)
	if err != nil {
		c.logf("Cache lookup failed for %s: %v", req.URL.Path, err)
	}
	if entry != nil {
		if c.TTL <= 0 || c.clock().Sub(entry.CreatedAt) < c.TTL {
			c.logf("Cache hit for %s", req.URL.Path)
			return buildHTTPResponse(req, entry), nil
		}
		c.logf("Cache entry for %s expired", req.URL.Path)
	}

	resp, err := c.transport().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	entry = &Entry{
		Key:        key,
		URL:        redactURL(req),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		CreatedAt:  c.clock(),
	}
	if err := c.DB.Put(entry); err != nil {
		c.logf("Could not cache %s: %v", req.URL.Path, err)
	}

	return buildHTTPResponse(req, entry), nil
}

// Key builds the cache key for a request
func Key(method, url string) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte(url))
	return hex.EncodeToString(hash.Sum(nil))
}

func redactURL(req *http.Request) string {
	u := *req.URL
	u.User = nil
	return u.String()
}

func buildHTTPResponse(req *http.Request, e *Entry) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header(e.Header),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
