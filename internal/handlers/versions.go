package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// ListVersions handles GET /configs/:id/versions
func (h *ConfigHandler) ListVersions(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.svc.ListVersions(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return SuccessResponse(c, list)
}

// GetVersion handles GET /configs/:id/versions/:version
func (h *ConfigHandler) GetVersion(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}
	version, err := ParseVersion(c.Param("version"), false)
	if err != nil {
		return err
	}

	ver, err := h.svc.GetVersion(c.Request().Context(), id, version)
	if err != nil {
		return err
	}

	return SuccessResponse(c, ver)
}

// SetActiveVersion handles PUT /configs/:id/active-version
func (h *ConfigHandler) SetActiveVersion(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.SetActiveVersionRequest](c)
	if err != nil {
		return err
	}

	def, err := h.svc.SetActive(c.Request().Context(), id, req.Version)
	if err != nil {
		return err
	}

	return SuccessResponse(c, def)
}

// GetActive handles GET /configs/:id/active
func (h *ConfigHandler) GetActive(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.svc.GetActive(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return SuccessResponse(c, detail)
}

// Export handles GET /configs/:id/export
func (h *ConfigHandler) Export(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}
	version, err := ParseVersion(c.QueryParam("version"), true)
	if err != nil {
		return err
	}

	doc, err := h.svc.Export(c.Request().Context(), id, version)
	if err != nil {
		return err
	}

	body, err := doc.JSON()
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, body)
}

// Validate handles POST /configs/:id/validate
func (h *ConfigHandler) Validate(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.ValidateFormRequest](c)
	if err != nil {
		return err
	}

	resp, err := h.svc.Validate(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return SuccessResponse(c, resp)
}
