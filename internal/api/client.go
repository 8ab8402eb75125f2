package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
)

// Route constants, relative to the API base.
const (
	RouteConfig      = "/config"
	RouteSuggestions = "/suggestions"
	RouteStart       = "/start"
	RouteJoin        = "/join"
	RouteState       = "/state"
	RouteGuess       = "/guess"
	RouteSolve       = "/solve"
	RouteShare       = "/share"
	RouteReset       = "/reset"
)

const maxErrorBody = 4 << 10

// StatusError is a non-2xx response. Message carries the server's JSON
// "error" field when there was one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Code)
}

// Options tune a Client. Zero values pick sensible defaults.
type Options struct {
	Timeout        time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	HTTPClient     *http.Client
	// Cookies, when set, keeps server cookies across restarts.
	Cookies storage.Store
}

// Client speaks the backend contract.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client rooted at baseURL (e.g. http://host:8080/api).
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		var jar http.CookieJar
		if opts.Cookies != nil {
			jar = newStoreJar(opts.Cookies)
		} else {
			jar, _ = cookiejar.New(nil)
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}
	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RateLimitRPS)), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		limiter: limiter,
	}
}

// Discover resolves the API base. A preconfigured base wins; otherwise
// <origin>/api is used, moved to another port if <origin>/api/config says so.
func Discover(ctx context.Context, hc *http.Client, origin, preconfigured string) string {
	if preconfigured != "" {
		return strings.TrimRight(preconfigured, "/")
	}
	origin = strings.TrimRight(origin, "/")
	base := origin + "/api"
	if hc == nil {
		hc = &http.Client{Timeout: 3 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+RouteConfig, nil)
	if err != nil {
		logging.Warn("Failed to build config request, using default: %v", err)
		return base
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		logging.Warn("Failed to fetch API config, using default: %v", err)
		return base
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return base
	}

	var cfg types.ConfigResponse
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil || cfg.Port == 0 {
		return base
	}
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return base
	}
	return fmt.Sprintf("%s://%s:%d/api", u.Scheme, u.Hostname(), cfg.Port)
}

// Suggestions lists candidate words of the given length starting with prefix.
func (c *Client) Suggestions(ctx context.Context, length int, prefix string) ([]string, error) {
	q := url.Values{}
	q.Set("length", strconv.Itoa(length))
	q.Set("prefix", prefix)
	var words []string
	if err := c.do(ctx, http.MethodGet, RouteSuggestions+"?"+q.Encode(), nil, "", &words); err != nil {
		return nil, err
	}
	return words, nil
}

// Start creates a game seeded with word.
func (c *Client) Start(ctx context.Context, length, attempts int, word string) (types.StartResponse, error) {
	form := url.Values{}
	form.Set("length", strconv.Itoa(length))
	form.Set("attempts", strconv.Itoa(attempts))
	form.Set("word", word)
	var out types.StartResponse
	err := c.postForm(ctx, RouteStart, form, &out)
	return out, err
}

// Join attaches to a shared game by code and returns its full state.
func (c *Client) Join(ctx context.Context, code string) (*types.GameState, error) {
	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return nil, err
	}
	var state types.GameState
	if err := c.do(ctx, http.MethodPost, RouteJoin, bytes.NewReader(body), "application/json", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// State fetches the authoritative state of a session.
func (c *Client) State(ctx context.Context, sessionID string) (*types.GameState, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	var state types.GameState
	if err := c.do(ctx, http.MethodGet, RouteState+"?"+q.Encode(), nil, "", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Guess submits a guess. The response is only an acknowledgement.
func (c *Client) Guess(ctx context.Context, sessionID, guess string) error {
	form := url.Values{}
	form.Set("session_id", sessionID)
	form.Set("guess", guess)
	return c.postForm(ctx, RouteGuess, form, nil)
}

// Solve asks the server to run a solver on the session.
func (c *Client) Solve(ctx context.Context, sessionID, kind string) error {
	form := url.Values{}
	form.Set("session_id", sessionID)
	form.Set("type", kind)
	return c.postForm(ctx, RouteSolve, form, nil)
}

// Share issues a share code for the current game.
func (c *Client) Share(ctx context.Context) (string, error) {
	var out types.ShareResponse
	if err := c.postForm(ctx, RouteShare, url.Values{}, &out); err != nil {
		return "", err
	}
	if out.Code == "" {
		return "", errors.New("share response carried no code")
	}
	return out.Code, nil
}

// Reset discards the current game on the server.
func (c *Client) Reset(ctx context.Context) error {
	return c.postForm(ctx, RouteReset, url.Values{}, nil)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("X-Request-Id", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warn("[request_id=%s] %s %s failed: %v", reqID, method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logging.Info("[request_id=%s] %s %s -> %d (%v)", reqID, method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var eb types.ErrorResponse
		if data, rerr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); rerr == nil && json.Unmarshal(data, &eb) == nil {
			se.Message = eb.Error
		}
		return se
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
