package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"

	"github.com/kbukum/engineconnector/errors"
)

// ResultKey wraps response bodies that are not JSON.
const ResultKey = "result"

// Classify turns a completed response into an Outcome or a typed error.
// Success bodies that are not a single JSON document come back as
// {"result": "<text>"}.
func Classify(resp *Response, endpoint string) (*Outcome, error) {
	if resp == nil {
		return nil, errors.NoResponse(0)
	}
	if resp.OK() {
		return &Outcome{
			StatusCode: resp.StatusCode,
			Data:       decodeBody(resp.Body),
			Body:       resp.Body,
		}, nil
	}
	return nil, StatusError(resp.StatusCode, string(resp.Body), endpoint)
}

// StatusError maps a non-success status to its error kind. 401 never echoes
// the body; 404 echoes the endpoint instead of the body.
func StatusError(status int, body, endpoint string) *errors.AppError {
	switch status {
	case http.StatusBadRequest:
		return errors.BadRequest(body)
	case http.StatusUnauthorized:
		return errors.Unauthorized()
	case http.StatusForbidden:
		return errors.Forbidden()
	case http.StatusNotFound:
		return errors.NotFound(endpoint)
	case http.StatusConflict:
		return errors.Conflict(body)
	case http.StatusInternalServerError:
		return errors.EngineInternal(body)
	case http.StatusServiceUnavailable:
		return errors.EngineUnavailable(body)
	default:
		return errors.UnexpectedStatus(status, body)
	}
}

func decodeBody(body []byte) any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return map[string]any{ResultKey: string(body)}
	}
	// A second document (e.g. an event stream) is not a single JSON value.
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return map[string]any{ResultKey: string(body)}
	}
	return v
}

// transportFailure classifies an error returned while sending a request or
// reading its response. parent is the caller's context; attemptCtx carries
// the per-attempt timeout.
func transportFailure(parent, attemptCtx context.Context, err error, endpoint string, sent bool) *errors.AppError {
	if isTimeout(attemptCtx, err) {
		return errors.Timeout(endpoint).WithCause(err)
	}
	if parent.Err() != nil {
		return errors.RequestFailed(endpoint, parent.Err())
	}
	if !sent {
		return errors.ConnectionFailed(endpoint).WithCause(err)
	}
	return errors.RequestFailed(endpoint, err)
}

func isTimeout(attemptCtx context.Context, err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
