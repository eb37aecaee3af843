// Package gateway performs the actual HTTP exchange with the upstream seller
// service and normalizes its envelope.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// Request is one upstream call.
type Request struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
}

// Gateway sends a request and returns the decoded envelope. Any failure to
// obtain one is a *TransportError.
type Gateway interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

var _ Gateway = (*HTTPGateway)(nil)

// HTTPGateway is the net/http implementation, throttled by a token bucket.
type HTTPGateway struct {
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewHTTP builds a gateway allowing perSecond requests per second.
func NewHTTP(timeout time.Duration, perSecond float64, log *slog.Logger) *HTTPGateway {
	if log == nil {
		log = slog.Default()
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &HTTPGateway{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		log:     log,
	}
}

func (g *HTTPGateway) Send(ctx context.Context, in Request) (*Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}
	method := in.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, in.URL, bytes.NewReader(in.Body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	for k, vs := range in.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	g.log.Debug("upstream response",
		"url", in.URL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"body", string(body),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Err: fmt.Errorf("http status %s", resp.Status)}
	}
	decoded, err := Decode(body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return decoded, nil
}
