package udemy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"udemy-affiliate/internal/httpx"
)

const (
	DefaultBaseURL = "https://www.udemy.com/api-2.0/"
	DefaultTimeout = 5 * time.Second

	requestIDHeader = "X-Request-Id"
)

// Client is the blocking adapter over the affiliate API. It is safe for
// concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	retry   httpx.RetryConfig
	limiter *rate.Limiter
	log     zerolog.Logger

	mu           sync.RWMutex
	clientID     string
	clientSecret string
}

type options struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	retry   httpx.RetryConfig
	rps     float64
	log     zerolog.Logger
}

type Option func(*options)

func WithBaseURL(u string) Option { return func(o *options) { o.baseURL = u } }

// WithHTTPClient replaces the default client. Its Timeout is left alone.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.http = c } }

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

func WithRetry(cfg httpx.RetryConfig) Option { return func(o *options) { o.retry = cfg } }

// WithRateLimit caps outgoing requests per second. <= 0 disables the limit.
func WithRateLimit(rps float64) Option { return func(o *options) { o.rps = rps } }

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// New builds a client. Both credentials are required.
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return nil, ErrMissingCredentials
	}

	o := options{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		retry:   httpx.DefaultRetryConfig(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(o.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("udemy: invalid base url %q", o.baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := o.http
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}

	limit := rate.Inf
	if o.rps > 0 {
		limit = rate.Limit(o.rps)
	}

	return &Client{
		base:         base,
		http:         hc,
		retry:        o.retry,
		limiter:      rate.NewLimiter(limit, 1),
		log:          o.log.With().Str("component", "udemy").Logger(),
		clientID:     clientID,
		clientSecret: clientSecret,
	}, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// SetCredentials replaces the credentials used by subsequent requests.
func (c *Client) SetCredentials(clientID, clientSecret string) error {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return ErrMissingCredentials
	}
	c.mu.Lock()
	c.clientID, c.clientSecret = clientID, clientSecret
	c.mu.Unlock()
	return nil
}

// GetCourses runs a course search and returns one page of results.
func (c *Client) GetCourses(ctx context.Context, f CourseFilter) ([]Course, error) {
	env, err := c.searchPage(ctx, f)
	if err != nil {
		return nil, err
	}
	return decodeAllAs[Course](env.Entries, KindCourse)
}

// SearchAllCourses follows the next cursor until it runs out, maxPages pages
// were read (maxPages <= 0 means all) or the next page would go past the
// API's result window. Any failure discards what was collected.
func (c *Client) SearchAllCourses(ctx context.Context, f CourseFilter, maxPages int) ([]Course, error) {
	env, err := c.searchPage(ctx, f)
	if err != nil {
		return nil, err
	}

	first, size := defaultPage, defaultPageSize
	if f.Page != nil {
		first = *f.Page
	}
	if f.PageSize != nil {
		size = *f.PageSize
	}

	var all []Course
	for read := 1; ; read++ {
		courses, err := decodeAllAs[Course](env.Entries, KindCourse)
		if err != nil {
			return nil, err
		}
		all = append(all, courses...)
		page := first + read - 1
		c.log.Info().Int("page", page).Int("results", len(courses)).Int("total", env.Count).Msg("course search page")

		if env.Next == "" || (maxPages > 0 && read >= maxPages) {
			return all, nil
		}
		if !withinResultWindow(page+1, size) {
			c.log.Warn().Int("page", page).Int("page_size", size).Msg("result window reached, not following next")
			return all, nil
		}

		next, err := c.resolveNext(env.Next)
		if err != nil {
			return nil, err
		}
		if env, err = c.getEnvelope(ctx, "search courses", next); err != nil {
			return nil, err
		}
	}
}

// resolveNext resolves a pagination link against the base URL. Links to
// another scheme or host are refused: the request would carry credentials.
func (c *Client) resolveNext(next string) (string, error) {
	u, err := c.base.Parse(next)
	if err != nil {
		return "", &MalformedResponseError{Reason: "next link is not a valid url", Payload: next}
	}
	if u.Scheme != c.base.Scheme || !strings.EqualFold(u.Host, c.base.Host) {
		return "", &MalformedResponseError{Reason: "next link leaves the api host", Payload: next}
	}
	return u.String(), nil
}

func (c *Client) searchPage(ctx context.Context, f CourseFilter) (Envelope, error) {
	q, err := f.Query()
	if err != nil {
		return Envelope{}, err
	}
	return c.getEnvelope(ctx, "search courses", c.endpoint("courses/", q))
}

// GetCourseDetails fetches a single course. The endpoint answers with a bare
// object.
func (c *Client) GetCourseDetails(ctx context.Context, id int64) (Course, error) {
	env, err := c.getEnvelope(ctx, "course details", c.endpoint(fmt.Sprintf("courses/%d/", id), nil))
	if err != nil {
		return Course{}, err
	}
	if len(env.Entries) != 1 {
		return Course{}, &MalformedResponseError{
			Reason:  fmt.Sprintf("expected one course, got %d entries", len(env.Entries)),
			Payload: env.Entries,
		}
	}
	return decodeAs[Course](env.Entries[0], KindCourse)
}

func (c *Client) GetCourseReviews(ctx context.Context, id int64, f ReviewFilter) ([]CourseReview, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	env, err := c.getEnvelope(ctx, "course reviews", c.endpoint(fmt.Sprintf("courses/%d/reviews/", id), q))
	if err != nil {
		return nil, err
	}
	return decodeAllAs[CourseReview](env.Entries, KindCourseReview)
}

// GetCoursePublicCurriculum lists chapters, lectures and quizzes in course
// order. Other item kinds are skipped.
func (c *Client) GetCoursePublicCurriculum(ctx context.Context, id int64, page, pageSize int) ([]CurriculumItem, error) {
	q, err := curriculumQuery{Page: page, PageSize: pageSize}.values()
	if err != nil {
		return nil, err
	}
	env, err := c.getEnvelope(ctx, "course curriculum", c.endpoint(fmt.Sprintf("courses/%d/public-curriculum-items/", id), q))
	if err != nil {
		return nil, err
	}
	return DecodeCurriculum(env.Entries)
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getEnvelope(ctx context.Context, op, rawURL string) (Envelope, error) {
	payload, err := c.getJSON(ctx, op, rawURL)
	if err != nil {
		return Envelope{}, err
	}
	return ParseEnvelope(payload)
}

func (c *Client) getJSON(ctx context.Context, op, rawURL string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	reqID := uuid.NewString()
	log := c.log.With().Str("op", op).Str("request_id", reqID).Logger()

	c.mu.RLock()
	id, secret := c.clientID, c.clientSecret
	c.mu.RUnlock()

	buildReq := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", httpx.AcceptEncoding)
		req.Header.Set(requestIDHeader, reqID)
		req.SetBasicAuth(id, secret)
		return req, nil
	}

	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying request")
	}

	start := time.Now()
	resp, body, err := httpx.DoWithRetry(ctx, c.http, buildReq, cfg)
	if err != nil {
		log.Debug().Err(err).Dur("took", time.Since(start)).Msg("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	log.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("request done")

	payload, err := httpx.DecodeJSON(body)
	if err != nil {
		return nil, &MalformedResponseError{Reason: "body is not valid JSON", Payload: httpx.Snippet(body, 300)}
	}
	return payload, nil
}
