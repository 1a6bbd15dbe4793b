package handlers

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ParseUUID parses a UUID from a path parameter
func ParseUUID(c echo.Context, param string) (uuid.UUID, error) {
	idStr := c.Param(param)
	if idStr == "" {
		return uuid.Nil, httperror.NewHTTPError(http.StatusBadRequest, "missing "+param)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid %s: must be a valid UUID", param)
	}

	return id, nil
}

// ParseVersion parses a positive version number. An empty value returns 0 when optional.
func ParseVersion(raw string, optional bool) (int, error) {
	if raw == "" {
		if optional {
			return 0, nil
		}
		return 0, httperror.NewHTTPError(http.StatusBadRequest, "missing version")
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, "invalid version: must be a positive integer")
	}
	return v, nil
}

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
