package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 8
	DefaultUserAgent   = "dev-toolbox-link-checker/1.0"
)

type Result struct {
	URL    string
	Class  Class
	Status int
	Err    error
}

// OK reports whether the link answered with a 2xx or 3xx status.
func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 400
}

// Problem describes why the link failed, or "" when it did not.
func (r Result) Problem() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case !r.OK():
		return fmt.Sprintf("HTTP %d", r.Status)
	}
	return ""
}

// Checker issues a HEAD request per link. Zero fields fall back to the
// package defaults.
type Checker struct {
	Client      *http.Client
	Timeout     time.Duration
	Concurrency int
	// RPS limits requests per second to a single host; zero is unlimited.
	RPS       float64
	UserAgent string
	// OnResult, if set, is called once per finished link. Calls may come
	// from several goroutines at once.
	OnResult func(Result)
}

// Check probes every url and returns one result per url in input order.
// A failing link never stops the others; only ctx cancellation does.
func (c Checker) Check(ctx context.Context, urls []string) ([]Result, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{}
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	agent := c.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	limiter := NewHostLimiter(c.RPS)

	results := make([]Result, len(urls))
	var notify sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, link := range urls {
		g.Go(func() error {
			res := Result{URL: link, Class: Classify(link)}
			res.Status, res.Err = c.probe(gctx, client, limiter, link, timeout, agent)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = res
			if c.OnResult != nil {
				notify.Lock()
				c.OnResult(res)
				notify.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c Checker) probe(ctx context.Context, client *http.Client, limiter *HostLimiter, link string, timeout time.Duration, agent string) (int, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return 0, err
	}
	if err := limiter.Wait(ctx, parsed.Host); err != nil {
		return 0, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, link, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
