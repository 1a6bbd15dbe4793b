package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// ListFields handles GET /configs/:id/fields
func (h *ConfigHandler) ListFields(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	descriptors, err := h.svc.ListFields(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return SuccessResponse(c, descriptors)
}

// AddField handles POST /configs/:id/fields
func (h *ConfigHandler) AddField(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.FieldRequest](c)
	if err != nil {
		return err
	}

	saved, err := h.svc.AddField(c.Request().Context(), id, req.Descriptor)
	if err != nil {
		return err
	}

	return CreatedResponse(c, saved)
}

// UpdateField handles PUT /configs/:id/fields/:field
func (h *ConfigHandler) UpdateField(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.FieldRequest](c)
	if err != nil {
		return err
	}

	saved, err := h.svc.UpdateField(c.Request().Context(), id, c.Param("field"), req.Descriptor)
	if err != nil {
		return err
	}

	return CreatedResponse(c, saved)
}

// DeleteField handles DELETE /configs/:id/fields/:field
func (h *ConfigHandler) DeleteField(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	saved, err := h.svc.DeleteField(c.Request().Context(), id, c.Param("field"))
	if err != nil {
		return err
	}

	return CreatedResponse(c, saved)
}
