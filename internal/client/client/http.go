package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
	"github.com/dmitrijs2005/coursenotes/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// HTTPClient implements Client over net/http. Requests carry the bearer
// token of the TokenSource and an X-Request-ID, and pass the rate limiter.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	log     logging.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithRateLimit caps outbound requests at rps with the given burst. rps <= 0
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the API at baseURL. Without options it
// sends anonymous, unthrottled requests with a 60s timeout.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetUnauthorizedHook registers fn to run when a token-bearing request gets 401.
func (c *HTTPClient) SetUnauthorizedHook(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) unauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

type request struct {
	method  string
	path    string
	query   url.Values
	json    any
	form    *models.Form
	noToken bool
	noHook  bool
}

// do sends r and returns the response on 2xx. Any other status is drained
// into an *APIError.
func (c *HTTPClient) do(ctx context.Context, r request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		rc, ct := formBody(r.form)
		defer rc.Close()
		body, contentType = rc, ct
	case r.json != nil:
		b, err := json.Marshal(r.json)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	req.Header.Set(common.RequestIDHeader, requestID)

	var token string
	if !r.noToken && c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.method, "path", r.path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "request", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := newAPIError(resp.StatusCode, b)

	if resp.StatusCode == http.StatusUnauthorized && token != "" && !r.noHook {
		c.log.Warn(ctx, "token rejected, invalidating session", "path", r.path)
		c.unauthorized(ctx)
	}
	return nil, apiErr
}

// call sends r and decodes the JSON response into out (when non-nil).
func (c *HTTPClient) call(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func notePath(id string, rest ...string) string {
	p := "/api/notes/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// ListNotes returns the newest num public notes.
func (c *HTTPClient) ListNotes(ctx context.Context, num int) ([]models.Note, error) {
	var notes []models.Note
	q := url.Values{"num": {strconv.Itoa(num)}}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/notes", query: q}, &notes); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// SearchNotes returns notes matching query.
func (c *HTTPClient) SearchNotes(ctx context.Context, query string) ([]models.Note, error) {
	var notes []models.Note
	q := url.Values{"query": {query}}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/notes/search", query: q}, &notes); err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

// GetNote returns one note by id.
func (c *HTTPClient) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	if err := c.call(ctx, request{method: http.MethodGet, path: notePath(id)}, &n); err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

// Vote posts the vote. A successful response may carry no body (empty, 204
// or JSON null); that yields a nil vote and no error.
func (c *HTTPClient) Vote(ctx context.Context, id string, voteType models.VoteType) (*models.Vote, error) {
	q := url.Values{"vote_type": {string(voteType)}}
	resp, err := c.do(ctx, request{method: http.MethodPost, path: notePath(id, "vote"), query: q})
	if err != nil {
		return nil, fmt.Errorf("vote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vote: %w: %w", ErrUnavailable, err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}

	var v models.Vote
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("vote: %w: %w", ErrMalformedResponse, err)
	}
	return &v, nil
}

// UploadNote creates a note from a multipart form with the PDF attached.
func (c *HTTPClient) UploadNote(ctx context.Context, form *models.Form) (*models.Note, error) {
	var n models.Note
	if err := c.call(ctx, request{method: http.MethodPost, path: "/api/notes/upload", form: form}, &n); err != nil {
		return nil, fmt.Errorf("upload note: %w", err)
	}
	return &n, nil
}

// UpdateNote edits note id. The form file part is optional.
func (c *HTTPClient) UpdateNote(ctx context.Context, id string, form *models.Form) (*models.Note, error) {
	var n models.Note
	if err := c.call(ctx, request{method: http.MethodPut, path: notePath(id), form: form}, &n); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &n, nil
}

// DeleteNote removes note id.
func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	if err := c.call(ctx, request{method: http.MethodDelete, path: notePath(id)}, nil); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// DownloadNote records a download on the server. The file itself is fetched
// separately from the note's file_url.
func (c *HTTPClient) DownloadNote(ctx context.Context, id string) error {
	if err := c.call(ctx, request{method: http.MethodGet, path: notePath(id, "download")}, nil); err != nil {
		return fmt.Errorf("download note: %w", err)
	}
	return nil
}

// FetchFile streams a note file. Relative URLs resolve against the API base.
func (c *HTTPClient) FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, error) {
	u, err := netx.ResolveURL(c.baseURL+"/", fileURL)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch file: %w: %w", ErrUnavailable, err)
	}
	rc, err := netx.Fetch(ctx, c.http, u)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	return rc, nil
}

// Leaderboard returns the top limit contributors.
func (c *HTTPClient) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/users/leaderboard", query: q}, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

// LeaderboardPosition returns the leaderboard row of userID.
func (c *HTTPClient) LeaderboardPosition(ctx context.Context, userID string) (*models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	path := "/api/users/" + url.PathEscape(userID) + "/leaderboard-position"
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, &e); err != nil {
		return nil, fmt.Errorf("leaderboard position: %w", err)
	}
	return &e, nil
}

// UserNotes returns the notes uploaded by userID.
func (c *HTTPClient) UserNotes(ctx context.Context, userID string) ([]models.Note, error) {
	var notes []models.Note
	path := "/api/users/" + url.PathEscape(userID) + "/notes"
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, &notes); err != nil {
		return nil, fmt.Errorf("user notes: %w", err)
	}
	return notes, nil
}

// GoogleAuth exchanges an identity-provider credential for an API token.
// The request is sent anonymously.
func (c *HTTPClient) GoogleAuth(ctx context.Context, credential string) (*models.AuthResponse, error) {
	var ar models.AuthResponse
	body := map[string]string{"token": credential}
	if err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/google", json: body, noToken: true}, &ar); err != nil {
		return nil, fmt.Errorf("google auth: %w", err)
	}
	if ar.Token == "" || ar.User == nil {
		return nil, fmt.Errorf("google auth: %w: missing token or user", ErrMalformedResponse)
	}
	return &ar, nil
}

// Me verifies the stored token. A 401 here does not fire the unauthorized
// hook; the caller decides what happens to the session.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/auth/me", noHook: true}, &u); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &u, nil
}
