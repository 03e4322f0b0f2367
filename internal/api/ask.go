package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
)

// Ask sends one question to the service and returns its classified reply.
// Network failures, non-success statuses and unparsable bodies are all
// reported as errors matching apierrors.ErrTransportFailure.
func (c *Client) Ask(ctx context.Context, question string) (models.Reply, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apierrors.ErrEmptyQuestion
	}
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	endpoint := c.endpoint(c.askPath)

	payload, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.requestID()
	setHeaders(req, requestID)
	req.Header.Set("Content-Type", "application/json")

	logger := c.logger.With().Str("request_id", requestID).Str("endpoint", endpoint).Logger()
	logger.Debug().Int("question_len", len(question)).Msg("sending question")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("ask", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := readBody(resp.Body)
	if err != nil && !errors.Is(err, errReplyTooLarge) {
		return nil, apierrors.NewNetworkError("read reply", endpoint, err)
	}
	tooLarge := err != nil

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("reply received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "ask failed", string(body))
	}
	if tooLarge {
		logger.Warn().Int64("limit", models.MaxReplyBytes).Msg("reply exceeds size limit")
		return nil, apierrors.NewParseError("reply exceeds size limit", "")
	}

	return ParseReply(body, resp.Header.Get("Content-Type"))
}

// ParseReply resolves a reply body into a StructuredReply or a PlainTextReply.
//
// A JSON object must carry a "message" field. A JSON string literal and any
// non-JSON body are legacy plain-text replies, unless the content type
// declared JSON, in which case an invalid body is a parse error.
func ParseReply(body []byte, contentType string) (models.Reply, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, apierrors.NewParseError("empty reply body", "")
	}

	declaredJSON := strings.Contains(strings.ToLower(contentType), "json")

	if !gjson.ValidBytes(trimmed) {
		if declaredJSON {
			return nil, apierrors.NewParseError("reply declared JSON but body is not valid JSON", "")
		}
		return models.PlainTextReply{Body: string(trimmed)}, nil
	}

	parsed := gjson.ParseBytes(trimmed)

	switch {
	case parsed.IsObject():
		msg := parsed.Get("message")
		if !msg.Exists() || msg.Type == gjson.Null || msg.IsObject() || msg.IsArray() {
			return nil, apierrors.NewParseError("structured reply has no message", "message")
		}

		replyType := parsed.Get("type").String()
		return models.StructuredReply{
			Message:        msg.String(),
			Type:           replyType,
			Classification: models.ClassificationFromType(replyType),
			SessionID:      parsed.Get("sessionId").String(),
			Warning:        parsed.Get("warning").String(),
		}, nil

	case parsed.Type == gjson.String:
		return models.PlainTextReply{Body: parsed.String()}, nil

	default:
		return models.PlainTextReply{Body: string(trimmed)}, nil
	}
}

// setHeaders applies the default headers and the request id
func setHeaders(req *http.Request, requestID string) {
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
}

// errReplyTooLarge reports a body longer than models.MaxReplyBytes
var errReplyTooLarge = errors.New("reply exceeds size limit")

// readBody reads at most models.MaxReplyBytes of a response body. A longer
// body returns the first MaxReplyBytes together with errReplyTooLarge.
func readBody(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, models.MaxReplyBytes+1))
	if err != nil {
		return data, err
	}
	if len(data) > models.MaxReplyBytes {
		return data[:models.MaxReplyBytes], errReplyTooLarge
	}
	return data, nil
}
