// Package api is a small client for the chore server's HTTP endpoints.
//
// The server answers JSON for reads and plain 2xx for form posts. It never
// needs to be followed through redirects: a redirect always means the session
// is missing or stale, and is reported as [ErrUnauthorized].
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/chores/internal/auth"
	"github.com/idilsaglam/chores/internal/model"
)

const (
	PathChores      = "/chores"
	PathPoints      = "/points"
	PathChoreUpdate = "/chore/update"
	PathChoreClaim  = "/chore/claim"
	PathLogin       = "/login"
	PathLogout      = "/logout"

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 512
)

type Client struct {
	base    *url.URL
	http    *http.Client
	log     *log.Logger
	session string
}

type Option func(*Client)

// WithTimeout bounds every request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSession sets the session cookie value sent on every request.
func WithSession(cookie string) Option {
	return func(c *Client) { c.session = cookie }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Chores fetches the viewer's chore snapshot for today.
func (c *Client) Chores(ctx context.Context) ([]model.Chore, error) {
	var chores []model.Chore
	if err := c.getJSON(ctx, PathChores, &chores); err != nil {
		return nil, err
	}
	return chores, nil
}

// Points fetches the daily and weekly point series.
func (c *Client) Points(ctx context.Context) (model.PointsData, error) {
	var p model.PointsData
	if err := c.getJSON(ctx, PathPoints, &p); err != nil {
		return model.PointsData{}, err
	}
	return p, nil
}

// UpdateChore sets the completion state of one of the viewer's chores.
func (c *Client) UpdateChore(ctx context.Context, choreID int, completed bool) error {
	return c.Submit(ctx, PathChoreUpdate, url.Values{
		"chore_id":  {strconv.Itoa(choreID)},
		"completed": {strconv.FormatBool(completed)},
	})
}

// ClaimChore takes ownership of a chore for today.
func (c *Client) ClaimChore(ctx context.Context, choreID int) error {
	return c.Submit(ctx, PathChoreClaim, url.Values{
		"chore_id": {strconv.Itoa(choreID)},
	})
}

// Submit posts form values to action, a server path such as /chore/claim.
// Any 2xx counts as success; the body is discarded.
func (c *Client) Submit(ctx context.Context, action string, form url.Values) error {
	req, err := c.newRequest(ctx, http.MethodPost, action, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Login exchanges credentials for a session cookie. The returned cookie is
// also used by this client for later requests.
func (c *Client) Login(ctx context.Context, username, password string) (*http.Cookie, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := c.newRequest(ctx, http.MethodPost, PathLogin, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName && ck.Value != "" {
			c.session = ck.Value
			return ck, nil
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return nil, fmt.Errorf("login: server set no %s cookie", auth.CookieName)
}

// Logout ends the server-side session. The server answers with a redirect,
// which is expected here.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, PathLogout, nil)
	if err != nil {
		return err
	}
	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	c.session = ""
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.session})
	}
	return req, nil
}

// do sends req and maps every non-2xx answer to an error.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized ||
		(resp.StatusCode >= 300 && resp.StatusCode < 400 && strings.Contains(resp.Header.Get("Location"), PathLogin)) {
		return nil, ErrUnauthorized
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &StatusError{
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   strings.TrimSpace(string(b)),
	}
}

func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			"method", req.Method, "path", req.URL.Path,
			"request_id", req.Header.Get(HeaderRequestID), "err", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	c.log.Debug("request",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode,
		"request_id", req.Header.Get(HeaderRequestID), "took", time.Since(start))
	return resp, nil
}
