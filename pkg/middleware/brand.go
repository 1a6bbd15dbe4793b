package middleware

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireBrand rejects requests whose X-Brand-ID is missing or not a UUID.
// The header is trusted as-is; the gateway in front of the service authenticates it.
func RequireBrand(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			brandID := context.GetBrandID(ctx)
			if brandID == "" {
				logger.WithContext(ctx).Warn("request is missing brand id")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderBrandID+" header")
			}
			if _, err := uuid.Parse(brandID); err != nil {
				logger.WithContext(ctx).WithField("brand_id", brandID).Warn("brand id is not a uuid")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderBrandID+" header")
			}
			return next(c)
		}
	}
}
