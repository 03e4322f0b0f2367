package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
)

// SessionStatus queries the service's session-status endpoint.
// The result is diagnostic only and never changes conversation state.
func (c *Client) SessionStatus(ctx context.Context) (*models.SessionStatus, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	endpoint := c.endpoint(c.statusPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, c.requestID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("session status", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := readBody(resp.Body)
	if err != nil && !errors.Is(err, errReplyTooLarge) {
		return nil, apierrors.NewNetworkError("read session status", endpoint, err)
	}
	tooLarge := err != nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "session status failed", string(body))
	}
	if tooLarge {
		return nil, apierrors.NewParseError("session status exceeds size limit", "")
	}

	status := parseSessionStatus(body)
	c.logger.Debug().
		Str("session_id", status.SessionID).
		Bool("active", status.Active).
		Msg("session status")

	return status, nil
}

// parseSessionStatus extracts what it can from a status body.
// The raw body is always kept.
func parseSessionStatus(body []byte) *models.SessionStatus {
	trimmed := bytes.TrimSpace(body)
	status := &models.SessionStatus{Raw: string(trimmed)}

	if !gjson.ValidBytes(trimmed) {
		return status
	}

	parsed := gjson.ParseBytes(trimmed)
	if !parsed.IsObject() {
		return status
	}

	for _, key := range []string{"sessionId", "session_id", "session.id"} {
		if v := parsed.Get(key); v.Exists() && v.String() != "" {
			status.SessionID = v.String()
			break
		}
	}

	if active := parsed.Get("active"); active.Exists() {
		status.Active = active.Bool()
	} else {
		status.Active = status.SessionID != ""
	}

	return status
}
