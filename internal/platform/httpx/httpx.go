// Package httpx holds the echo glue shared by every domain handler: strict
// request decoding, the response envelope and the error renderer.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Message is the body of responses that carry no data.
type Message struct {
	Message string `json:"message"`
}

// Envelope wraps successful record responses.
type Envelope struct {
	Message string      `json:"message"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data"`
}

// Respond writes data inside the envelope.
func Respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Message: message, Data: data})
}

// RespondList writes a collection inside the envelope together with its size.
// A nil slice is rendered as an empty array.
func RespondList(c echo.Context, message string, items interface{}) error {
	n := 0
	if v := reflect.ValueOf(items); v.Kind() == reflect.Slice {
		n = v.Len()
		if v.IsNil() {
			items = []struct{}{}
		}
	}
	return c.JSON(http.StatusOK, Envelope{Message: message, Count: &n, Data: items})
}

// BindStrict decodes the JSON request body into v and rejects unknown fields.
func BindStrict(c echo.Context, v interface{}) error {
	body := c.Request().Body
	if body == nil {
		return apperr.InvalidInput("request body is required")
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.InvalidInput("request body is required")
		}
		return apperr.InvalidInput("invalid request body: %v", err)
	}
	return nil
}

// ParseID parses a path identifier. Identifiers that cannot name a stored
// record produce the supplied not-found message.
func ParseID(raw, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

// RecordFilter reads the startDate/endDate query parameters into a filter
// pinned to ownerID.
func RecordFilter(c echo.Context, ownerID uuid.UUID) (query.Filter, error) {
	r, err := query.ParseRange(c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return query.Filter{}, err
	}
	return query.Filter{OwnerID: ownerID, Range: r}, nil
}

// StatusOf maps an error to its HTTP status and response body.
func StatusOf(err error) (int, ErrorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorBody{Message: fmt.Sprintf("%v", he.Message)}
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, ErrorBody{Message: "internal server error", Error: err.Error()}
	}

	body := ErrorBody{Message: ae.Message}
	switch ae.Kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest, body
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, body
	case apperr.KindForbidden:
		return http.StatusForbidden, body
	case apperr.KindNotFound:
		return http.StatusNotFound, body
	default:
		if ae.Err != nil {
			body.Error = ae.Err.Error()
		}
		return http.StatusInternalServerError, body
	}
}

// ErrorHandler replaces echo's default error handler so every failure is
// rendered as {message, error?}.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := StatusOf(err)
		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
