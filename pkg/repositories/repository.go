package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	appctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/database"
)

// ErrVersionConflict means another writer allocated the same version number first.
// Callers re-read the definition and try again.
var ErrVersionConflict = errors.New("version number was allocated concurrently")

// NotFound returns a 404 HTTP error with a descriptive message
func NotFound(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Conflict returns a 409 HTTP error with a descriptive message
func Conflict(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

// BadRequest returns a 400 HTTP error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}

// Repository provides common database operations with brand isolation
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) DB() database.DB {
	return r.db
}

// GetBrandID extracts and validates brand_id from context
func GetBrandID(ctx context.Context) (uuid.UUID, error) {
	brandIDStr := appctx.GetBrandID(ctx)
	if brandIDStr == "" {
		return uuid.Nil, httperror.NewHTTPError(http.StatusUnauthorized, "brand is required")
	}

	brandID, err := uuid.Parse(brandIDStr)
	if err != nil {
		return uuid.Nil, httperror.NewHTTPError(http.StatusUnauthorized, "invalid brand id")
	}

	return brandID, nil
}
