package ynabclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/googleapis/gax-go/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

const (
	serviceName    = "ynab"
	DefaultBaseURL = "https://api.ynab.com/v1"
	defaultTimeout = 10 * time.Second
	maxAttempts    = 2
	maxBodyBytes   = 32 << 20
)

type Adapter struct {
	baseURL    string
	timeout    time.Duration
	flagGroups map[string][]string
	transport  http.RoundTripper
	backoff    gax.Backoff
	group      singleflight.Group
}

// NewAdapter builds a client for the budgeting API rooted at baseURL.
// flagGroups maps a filter key to the lower-case flag names it selects.
func NewAdapter(baseURL string, timeout time.Duration, flagGroups map[string][]string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		flagGroups: flagGroups,
		transport:  http.DefaultTransport,
		backoff: gax.Backoff{
			Initial:    250 * time.Millisecond,
			Max:        2 * time.Second,
			Multiplier: 2,
		},
	}
}

type upstreamResponse struct {
	status      int
	contentType string
	body        []byte
}

type errorEnvelope struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

// fetch performs a GET with one retry on transport errors, 429 and 5xx.
// Each attempt is bounded by the adapter timeout.
func (a *Adapter) fetch(ctx context.Context, token, rawURL string) (*upstreamResponse, error) {
	bo := a.backoff
	for attempt := 1; ; attempt++ {
		resp, err := a.attempt(ctx, token, rawURL)
		if err == nil && !retryableStatus(resp.status) {
			return resp, nil
		}
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == maxAttempts {
			if err != nil {
				return nil, err
			}
			return resp, nil
		}

		log := logger.FromContext(ctx)
		if err != nil {
			log.Warn("ynab request failed, retrying", "url", redact(rawURL), "attempt", attempt, "error", err)
		} else {
			log.Warn("ynab request failed, retrying", "url", redact(rawURL), "attempt", attempt, "status", resp.status)
		}
		if err := gax.Sleep(ctx, bo.Pause()); err != nil {
			return nil, err
		}
	}
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func (a *Adapter) attempt(ctx context.Context, token, rawURL string) (*upstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   a.transport,
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return &upstreamResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// getData fetches path and decodes the "data" member of the response into
// out. Identical concurrent requests for the same token share one call.
func (a *Adapter) getData(ctx context.Context, token, path string, query url.Values, out any) error {
	rawURL := a.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	// The shared fetch outlives any single caller; each waiter still honours
	// its own context.
	shared := context.WithoutCancel(ctx)
	ch := a.group.DoChan(fingerprint(token)+" "+rawURL, func() (any, error) {
		return a.fetch(shared, token, rawURL)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return errs.NewExternalServiceError(serviceName, true, "upstream request failed", ctx.Err())
	}
	if res.Err != nil {
		return errs.NewExternalServiceError(serviceName, true, "upstream request failed", res.Err)
	}
	resp := res.Val.(*upstreamResponse)
	if err := statusError(resp); err != nil {
		return err
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		return errs.NewExternalServiceError(serviceName, false, "upstream returned an unreadable response", err)
	}
	return nil
}

func statusError(resp *upstreamResponse) error {
	if resp.status >= 200 && resp.status < 300 {
		return nil
	}

	var env errorEnvelope
	_ = json.Unmarshal(resp.body, &env)
	detail := env.Error.Detail
	if detail == "" {
		detail = env.Error.Name
	}

	switch resp.status {
	case http.StatusUnauthorized:
		return errs.NewUnauthorizedError("upstream token is invalid or expired")
	case http.StatusNotFound:
		msg := "resource not found"
		if detail != "" {
			msg = detail
		}
		return errs.NewNotFoundError(msg)
	}

	msg := fmt.Sprintf("upstream error: status %d", resp.status)
	if detail != "" {
		msg = "upstream error: " + detail
	}
	return errs.NewExternalServiceError(serviceName, retryableStatus(resp.status), msg, errors.New(http.StatusText(resp.status)))
}

// Forward relays a GET to the upstream API verbatim. Only a failure to
// reach the upstream is an error; upstream error statuses are relayed.
func (a *Adapter) Forward(ctx context.Context, token, path, rawQuery string) (*dto.ProxyResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	rawURL := a.baseURL + path
	if rawQuery != "" {
		rawURL += "?" + rawQuery
	}

	resp, err := a.fetch(ctx, token, rawURL)
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, false, "upstream request failed", err)
	}
	contentType := resp.contentType
	if contentType == "" {
		contentType = "application/json"
	}
	return &dto.ProxyResponse{Status: resp.status, ContentType: contentType, Body: resp.body}, nil
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
