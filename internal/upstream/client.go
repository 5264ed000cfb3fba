package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"duskSkyWeb/internal/metrics"
	"duskSkyWeb/internal/types/friendship"
)

// Error describes a failed call to a downstream service. It matches
// friendship.ErrCollaboratorUnavailable under errors.Is.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == friendship.ErrCollaboratorUnavailable
}

func statusOf(err error) int {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode
	}
	return 0
}

// client is the JSON transport shared by the typed service clients.
type client struct {
	baseURL *url.URL
	http    *http.Client
}

func newClient(baseURL *url.URL, timeout time.Duration) client {
	return client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// endpoint joins escaped path segments onto the base URL.
func (c client) endpoint(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...)
}

func (c client) do(ctx context.Context, op, method string, u *url.URL, in, out any) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.ObserveUpstream(op, outcome, time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to encode body: %w", err)}
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = strconv.Itoa(resp.StatusCode)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &Error{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				outcome = "malformed"
				return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode body: %w", err)}
			}
		}
	}

	outcome = "ok"
	return nil
}
