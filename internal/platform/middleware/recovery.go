package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// panicStackSize bounds the goroutine stack captured for a recovered panic.
const panicStackSize = 8 << 10

// Recovery turns a handler panic into a 500 and logs it with the request
// context needed to find the failing record: request id, route template,
// caller and the panic value. http.ErrAbortHandler is re-raised so net/http
// can abort the connection.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				logPanic(logger, c, r)
				err = echo.NewHTTPError(http.StatusInternalServerError, "Server error")
			}()
			return next(c)
		}
	}
}

func logPanic(logger zerolog.Logger, c echo.Context, r interface{}) {
	stack := make([]byte, panicStackSize)
	stack = stack[:runtime.Stack(stack, false)]

	rid, _ := c.Get("request_id").(string)
	uid, _ := c.Get("user_id").(string)
	req := c.Request()

	ev := logger.Error().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("route", c.Path()).
		Str("uri", req.RequestURI).
		Str("panic_type", fmt.Sprintf("%T", r)).
		Bytes("stack", stack)
	if uid != "" {
		ev = ev.Str("user_id", uid)
	}
	if e, ok := r.(error); ok {
		ev = ev.Err(e)
	} else {
		ev = ev.Interface("panic", r)
	}
	ev.Msg("panic recovered")
}
