// Package github is an HTTP client for the GitHub Git Data, Pulls, and Pull
// Request Review Comments APIs. Every operation is a single blocking
// request/response pair; callers sequence them and own cancellation via
// context.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"prforge/internal/adapter/httpx"
)

const (
	providerName = "github"

	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	// maxResponseSize limits response bodies to prevent memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024

	// maxPaginationPages caps Link-header pagination.
	// 50 pages * 100 per page = 5000 comments max.
	maxPaginationPages = 50

	perPage = 100
)

var (
	pathSegmentRegex     = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
	pathTraversalPattern = regexp.MustCompile(`\.\.`)
)

// Client is an HTTP client for the GitHub REST API.
type Client struct {
	auth       Auth
	baseURL    string
	httpClient *http.Client
	retryConf  httpx.RetryConfig
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     httpx.Logger
	metrics    httpx.Metrics
}

// NewClient creates a new GitHub API client using the given authentication
// source. Use NewTokenAuth for a personal access token or GITHUB_TOKEN from
// Actions.
func NewClient(auth Auth) *Client {
	return &Client{
		auth:       auth,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  httpx.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (testing, GitHub Enterprise).
// Trailing slashes are trimmed to avoid double-slash request paths.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetMaxRetries sets the maximum number of retry attempts.
func (c *Client) SetMaxRetries(maxRetries int) {
	c.retryConf.MaxRetries = maxRetries
}

// SetInitialBackoff sets the initial backoff duration for retries.
func (c *Client) SetInitialBackoff(backoff time.Duration) {
	c.retryConf.InitialBackoff = backoff
}

// SetRateLimit installs a client-side request limiter. Every request waits
// for a token before going out, including retries.
func (c *Client) SetRateLimit(rps float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// EnableBreaker wraps the HTTP round trip in a circuit breaker so a
// persistently failing service trips fast instead of burning retries.
func (c *Client) EnableBreaker() {
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        providerName,
		MaxRequests: 3,
		Timeout:     30 * time.Second,
	})
}

// SetLogger installs a structured logger for request/response/error events.
func (c *Client) SetLogger(logger httpx.Logger) {
	c.logger = logger
}

// SetMetrics installs a call metrics recorder.
func (c *Client) SetMetrics(metrics httpx.Metrics) {
	c.metrics = metrics
}

// do executes the round trip, optionally through the circuit breaker.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	resp, ok := out.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected circuit breaker response type")
	}
	return resp, nil
}

// setHeaders sets the common headers for GitHub API requests.
func (c *Client) setHeaders(ctx context.Context, req *http.Request) error {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return &httpx.Error{
			Type:      httpx.ErrTypeAuthentication,
			Message:   fmt.Sprintf("resolve token: %v", err),
			Retryable: false,
			Provider:  providerName,
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return nil
}

// requestResult holds the result of an HTTP request attempt.
type requestResult struct {
	body       []byte
	statusCode int
	linkHeader string
}

// doRequest executes an HTTP request with rate limiting, retry logic and
// error mapping. It returns the response body for successful requests.
// For requests without a body (like DELETE returning 204), respBody may be nil.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	respBody, _, err := c.execute(ctx, method, apiURL, body)
	return respBody, err
}

// doRequestWithPagination executes an HTTP request and also returns the next
// page URL parsed from the Link header, if present.
func (c *Client) doRequestWithPagination(ctx context.Context, method, apiURL string, body []byte) (respBody []byte, nextURL string, err error) {
	return c.execute(ctx, method, apiURL, body)
}

func (c *Client) execute(ctx context.Context, method, apiURL string, body []byte) ([]byte, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}
	}

	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordRequest(providerName, endpointLabel(method, apiURL))
	}
	if c.logger != nil {
		c.logger.LogRequest(ctx, httpx.RequestLog{
			Provider:  providerName,
			Method:    method,
			Endpoint:  apiURL,
			Timestamp: start,
		})
	}

	var result *requestResult

	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
		if reqErr != nil {
			return &httpx.Error{
				Type:      httpx.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		if err := c.setHeaders(ctx, req); err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.do(req)
		if callErr != nil {
			errType, retryable := classifyTransportError(callErr)
			return &httpx.Error{
				Type:      errType,
				Message:   callErr.Error(),
				Retryable: retryable,
				Provider:  providerName,
			}
		}
		defer resp.Body.Close()

		limitedBody := io.LimitReader(resp.Body, maxResponseSize)

		if resp.StatusCode >= 400 {
			bodyBytes, readErr := io.ReadAll(limitedBody)
			errMsg := string(bodyBytes)
			if readErr != nil {
				errMsg = fmt.Sprintf("(failed to read error response: %v)", readErr)
			}
			return mapHTTPError(resp.StatusCode, errMsg, resp.Header)
		}

		var respBody []byte
		if resp.StatusCode == http.StatusNoContent {
			// Drain body to enable connection reuse even for 204 responses
			_, _ = io.Copy(io.Discard, limitedBody)
		} else {
			var readErr error
			respBody, readErr = io.ReadAll(limitedBody)
			if readErr != nil {
				return &httpx.Error{
					Type:      httpx.ErrTypeUnknown,
					Message:   fmt.Sprintf("failed to read response body: %v", readErr),
					Retryable: false,
					Provider:  providerName,
				}
			}
		}

		result = &requestResult{
			body:       respBody,
			statusCode: resp.StatusCode,
			linkHeader: resp.Header.Get("Link"),
		}
		return nil
	}, c.retryConf)

	duration := time.Since(start)
	if err != nil {
		c.recordError(ctx, method, apiURL, duration, err)
		return nil, "", err
	}

	if result == nil {
		return nil, "", fmt.Errorf("no response after retries")
	}

	if c.metrics != nil {
		c.metrics.RecordDuration(providerName, endpointLabel(method, apiURL), duration)
	}
	if c.logger != nil {
		c.logger.LogResponse(ctx, httpx.ResponseLog{
			Provider:   providerName,
			Method:     method,
			Endpoint:   apiURL,
			Timestamp:  time.Now(),
			Duration:   duration,
			StatusCode: result.statusCode,
		})
	}

	return result.body, parseNextPageURL(result.linkHeader), nil
}

func (c *Client) recordError(ctx context.Context, method, apiURL string, duration time.Duration, err error) {
	var httpErr *httpx.Error
	errType := httpx.ErrTypeUnknown
	statusCode := 0
	retryable := false
	if errors.As(err, &httpErr) {
		errType = httpErr.Type
		statusCode = httpErr.StatusCode
		retryable = httpErr.Retryable
	}
	if c.metrics != nil {
		c.metrics.RecordError(providerName, endpointLabel(method, apiURL), errType)
	}
	if c.logger != nil {
		c.logger.LogError(ctx, httpx.ErrorLog{
			Provider:   providerName,
			Method:     method,
			Endpoint:   apiURL,
			Timestamp:  time.Now(),
			Duration:   duration,
			Error:      err,
			ErrorType:  errType,
			StatusCode: statusCode,
			Retryable:  retryable,
		})
	}
}

// endpointLabel strips the query string so metrics don't explode on
// pagination cursors.
func endpointLabel(method, apiURL string) string {
	if i := strings.IndexByte(apiURL, '?'); i >= 0 {
		apiURL = apiURL[:i]
	}
	return method + " " + apiURL
}

// collectPages fetches every page starting at firstURL, appending each raw
// page body to the decode callback, with loop and SSRF protection.
func (c *Client) collectPages(ctx context.Context, firstURL string, decode func(page []byte) error) error {
	visitedURLs := make(map[string]bool)
	pageCount := 0

	nextURL := firstURL
	for nextURL != "" {
		if pageCount >= maxPaginationPages {
			return fmt.Errorf("pagination limit exceeded (%d pages)", maxPaginationPages)
		}
		if visitedURLs[nextURL] {
			return fmt.Errorf("pagination loop detected: URL already visited")
		}
		visitedURLs[nextURL] = true
		pageCount++

		page, next, err := c.doRequestWithPagination(ctx, "GET", nextURL, nil)
		if err != nil {
			return err
		}
		if err := decode(page); err != nil {
			return err
		}

		if next != "" {
			resolved, err := c.ValidateAndResolvePaginationURL(next)
			if err != nil {
				return fmt.Errorf("unsafe pagination URL in Link header: %w", err)
			}
			next = resolved
		}
		nextURL = next
	}

	return nil
}

// ValidateAndResolvePaginationURL checks that a pagination URL from a Link
// header stays on the configured API host and path prefix, resolving
// relative URLs against the base URL. This prevents SSRF via malicious Link
// headers.
func (c *Client) ValidateAndResolvePaginationURL(next string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	parsed, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("invalid pagination URL: %w", err)
	}

	resolved := base.ResolveReference(parsed)

	if resolved.Host != base.Host {
		return "", fmt.Errorf("untrusted host %q in pagination URL", resolved.Host)
	}
	if base.Scheme == "https" && resolved.Scheme != "https" {
		return "", fmt.Errorf("scheme downgrade not allowed in pagination URL")
	}
	if !strings.HasPrefix(resolved.Path, base.Path+"/repos/") {
		return "", fmt.Errorf("unexpected API path %q in pagination URL", resolved.Path)
	}

	return resolved.String(), nil
}

// parseNextPageURL extracts the "next" URL from a GitHub Link header.
// Link header format: <url>; rel="next", <url>; rel="last"
func parseNextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	links := strings.Split(linkHeader, ",")
	for _, link := range links {
		parts := strings.Split(strings.TrimSpace(link), ";")
		if len(parts) < 2 {
			continue
		}

		relPart := strings.TrimSpace(parts[1])
		if relPart == `rel="next"` {
			urlPart := strings.TrimSpace(parts[0])
			if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
				return urlPart[1 : len(urlPart)-1]
			}
		}
	}

	return ""
}

// validatePathSegment validates that a path segment contains only safe
// characters. Whitelist validation prevents path traversal and injection.
func validatePathSegment(value, name string) error {
	if value == "" {
		return httpx.NewValidationError(providerName, fmt.Sprintf("invalid %s: must not be empty", name))
	}
	if pathTraversalPattern.MatchString(value) {
		return httpx.NewValidationError(providerName, fmt.Sprintf("invalid %s: must not contain '..'", name))
	}
	if !pathSegmentRegex.MatchString(value) {
		return httpx.NewValidationError(providerName, fmt.Sprintf("invalid %s: must contain only alphanumeric characters, hyphens, underscores, and dots (not leading)", name))
	}
	return nil
}

// mapHTTPError converts an HTTP error response to a typed httpx.Error.
// 404 names a missing entity; 409 and non-fast-forward 422s are reference
// conflicts; remaining 422s are validation failures. GitHub signals rate
// limiting both as 429 and as 403 with exhausted X-RateLimit headers.
func mapHTTPError(statusCode int, errMsg string, headers http.Header) error {
	message := parseErrorMessage(statusCode, errMsg)

	switch statusCode {
	case http.StatusNotFound:
		return &httpx.Error{
			Type:       httpx.ErrTypeNotFound,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}

	case http.StatusConflict:
		return &httpx.Error{
			Type:       httpx.ErrTypeConflict,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}

	case http.StatusUnprocessableEntity:
		errType := httpx.ErrTypeValidation
		if strings.Contains(strings.ToLower(message), "fast forward") {
			errType = httpx.ErrTypeConflict
		}
		return &httpx.Error{
			Type:       errType,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}

	case http.StatusUnauthorized, http.StatusForbidden:
		if statusCode == http.StatusForbidden && isRateLimited(errMsg, headers) {
			return &httpx.Error{
				Type:       httpx.ErrTypeRateLimit,
				Message:    message,
				StatusCode: statusCode,
				Retryable:  true,
				Provider:   providerName,
			}
		}
		return &httpx.Error{
			Type:       httpx.ErrTypeAuthentication,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}

	case http.StatusTooManyRequests:
		return &httpx.Error{
			Type:       httpx.ErrTypeRateLimit,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Provider:   providerName,
		}

	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return &httpx.Error{
			Type:       httpx.ErrTypeServiceUnavailable,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Provider:   providerName,
		}

	default:
		return &httpx.Error{
			Type:       httpx.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  statusCode >= 500,
			Provider:   providerName,
		}
	}
}

func isRateLimited(errMsg string, headers http.Header) bool {
	if headers.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "API rate limit exceeded")
}

// parseErrorMessage extracts a user-friendly error message from GitHub's response.
func parseErrorMessage(statusCode int, body string) string {
	var errResp apiErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		bodyPreview := body
		if len(bodyPreview) > 100 {
			bodyPreview = bodyPreview[:100] + "..."
		}
		if bodyPreview == "" {
			return fmt.Sprintf("HTTP %d", statusCode)
		}
		return fmt.Sprintf("HTTP %d: %s", statusCode, bodyPreview)
	}

	if errResp.Message == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}

	if len(errResp.Errors) > 0 {
		var details []string
		for _, e := range errResp.Errors {
			if e.Message != "" {
				details = append(details, e.Message)
			} else if e.Field != "" {
				details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Code))
			}
		}
		if len(details) > 0 {
			return fmt.Sprintf("%s: %s", errResp.Message, strings.Join(details, "; "))
		}
	}

	return errResp.Message
}

// classifyTransportError determines error type and retryability for transport errors.
func classifyTransportError(err error) (errType httpx.ErrorType, retryable bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return httpx.ErrTypeTimeout, true
	}
	if errors.Is(err, context.Canceled) {
		return httpx.ErrTypeUnknown, false // Don't retry cancelled requests
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return httpx.ErrTypeServiceUnavailable, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return httpx.ErrTypeTimeout, true
		}
		// Other network errors (DNS, connection refused, etc.) are retryable
		return httpx.ErrTypeUnknown, true
	}

	return httpx.ErrTypeUnknown, false
}
