package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobmcallan/restmcp/internal/common"
)

// maxResponseSize caps the response body read from a provider.
const maxResponseSize = 50 << 20 // 50MB

// ErrResponseTooLarge is wrapped by the failure reported for a success body
// over the size limit.
var ErrResponseTooLarge = errors.New("response body too large")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the normalized outcome of one invocation.
type Result struct {
	// Value is the decoded JSON body on success, or a string starting with
	// RequestFailedPrefix when the exchange failed.
	Value      any
	StatusCode int // zero when no response was received
	Failed     bool
	Duration   time.Duration
}

// Executor performs requests built by Synthesize.
type Executor struct {
	client  Doer
	logger  *common.Logger
	maxBody int64
}

// NewExecutor creates an executor. A nil client uses an *http.Client without
// a timeout, so calls last as long as the provider takes.
func NewExecutor(client Doer, logger *common.Logger) *Executor {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Executor{client: client, logger: logger, maxBody: maxResponseSize}
}

// Execute sends req once. A request that cannot be constructed, a transport
// failure, a non-2xx status or an oversized body comes back as a failed Result
// with a nil error. Only a success body that is not JSON is returned as an
// error. 204 No Content decodes to a nil Value.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Result, error) {
	target := req.EncodedURL()
	e.logger.Debug().Str("method", req.Method).Str("url", req.URL).Msg("provider request")

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, nil)
	if err != nil {
		e.logger.Warn().Str("method", req.Method).Str("url", req.URL).Str("error", err.Error()).Msg("provider request invalid")
		return failed(&TransportError{Method: req.Method, URL: target, Err: err}, 0, 0), nil
	}
	for key, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		e.logger.Warn().Str("method", req.Method).Str("url", req.URL).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("provider request failed")
		return failed(&TransportError{Method: req.Method, URL: target, Err: err}, 0, duration), nil
	}
	defer resp.Body.Close()

	e.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("provider response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(&TransportError{Method: req.Method, URL: target, StatusCode: resp.StatusCode, Status: resp.Status}, resp.StatusCode, duration), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	if err != nil {
		return failed(&TransportError{Method: req.Method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}, resp.StatusCode, duration), nil
	}
	if int64(len(body)) > e.maxBody {
		e.logger.Warn().Str("url", req.URL).Int64("limit", e.maxBody).Msg("provider response too large")
		return failed(&TransportError{Method: req.Method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, e.maxBody)}, resp.StatusCode, duration), nil
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Result{StatusCode: resp.StatusCode, Duration: duration}, nil
	}

	value, err := decodeJSON(body)
	if err != nil {
		return nil, &DecodeError{URL: target, Err: err}
	}
	return &Result{Value: value, StatusCode: resp.StatusCode, Duration: duration}, nil
}

func failed(err *TransportError, status int, duration time.Duration) *Result {
	return &Result{
		Value:      RequestFailedPrefix + err.Error(),
		StatusCode: status,
		Failed:     true,
		Duration:   duration,
	}
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
