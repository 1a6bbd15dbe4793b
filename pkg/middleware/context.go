package middleware

import (
	"github.com/Ramsey-B/fern/pkg/context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderBrandID = "X-Brand-ID"
	HeaderUserID  = "X-User-ID"
)

// Context copies request metadata and the caller's brand/user headers onto the request context.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, c.Path())
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetBrandID(ctx, req.Header.Get(HeaderBrandID))
			ctx = context.SetUserID(ctx, req.Header.Get(HeaderUserID))

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
