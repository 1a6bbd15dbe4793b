package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/context"
	"github.com/labstack/echo/v4"
)

func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			ctx := req.Context()
			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    context.GetRequestID(ctx),
				"brand_id":      context.GetBrandID(ctx),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": time.Since(start),
				"response_size": res.Size,
			}).Info("Request")

			return nil
		}
	}
}
