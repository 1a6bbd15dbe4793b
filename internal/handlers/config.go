package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// ConfigService is implemented by configdefinition.Service.
type ConfigService interface {
	Create(ctx context.Context, name string) (*models.SavedVersion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ConfigDetail, error)
	GetByName(ctx context.Context, name string) (*models.ConfigDetail, error)
	List(ctx context.Context) ([]models.ConfigDefinition, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.ConfigDefinition, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Save(ctx context.Context, id uuid.UUID, agg aggregate.Aggregate) (*models.SavedVersion, error)

	ListVersions(ctx context.Context, id uuid.UUID) (*models.VersionList, error)
	GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigVersion, error)
	SetActive(ctx context.Context, id uuid.UUID, version int) (*models.ConfigDefinition, error)
	GetActive(ctx context.Context, id uuid.UUID) (*models.ConfigDetail, error)
	Export(ctx context.Context, id uuid.UUID, version int) (aggregate.Document, error)
	Validate(ctx context.Context, id uuid.UUID, req models.ValidateFormRequest) (*models.ValidateFormResponse, error)

	AddField(ctx context.Context, id uuid.UUID, d fields.Descriptor) (*models.SavedVersion, error)
	UpdateField(ctx context.Context, id uuid.UUID, previousName string, d fields.Descriptor) (*models.SavedVersion, error)
	DeleteField(ctx context.Context, id uuid.UUID, name string) (*models.SavedVersion, error)
	ListFields(ctx context.Context, id uuid.UUID) ([]fields.Descriptor, error)
}

// ConfigHandler handles config-related API requests
type ConfigHandler struct {
	svc ConfigService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(svc ConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

// RegisterRoutes registers the config routes
func (h *ConfigHandler) RegisterRoutes(g *echo.Group) {
	configs := g.Group("/configs")
	configs.POST("", h.Create)
	configs.GET("", h.List)
	configs.GET("/by-name/:name", h.GetByName)
	configs.GET("/:id", h.Get)
	configs.PUT("/:id", h.Save)
	configs.PATCH("/:id", h.Rename)
	configs.DELETE("/:id", h.Delete)

	configs.GET("/:id/versions", h.ListVersions)
	configs.GET("/:id/versions/:version", h.GetVersion)
	configs.PUT("/:id/active-version", h.SetActiveVersion)
	configs.GET("/:id/active", h.GetActive)
	configs.GET("/:id/export", h.Export)
	configs.POST("/:id/validate", h.Validate)

	configs.GET("/:id/fields", h.ListFields)
	configs.POST("/:id/fields", h.AddField)
	configs.PUT("/:id/fields/:field", h.UpdateField)
	configs.DELETE("/:id/fields/:field", h.DeleteField)
}

// Create handles POST /configs
func (h *ConfigHandler) Create(c echo.Context) error {
	req, err := utils.BindRequest[models.CreateConfigRequest](c)
	if err != nil {
		return err
	}

	saved, err := h.svc.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	return CreatedResponse(c, saved)
}

// List handles GET /configs
func (h *ConfigHandler) List(c echo.Context) error {
	defs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}

	return SuccessResponse(c, defs)
}

// Get handles GET /configs/:id
func (h *ConfigHandler) Get(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return SuccessResponse(c, detail)
}

// GetByName handles GET /configs/by-name/:name
func (h *ConfigHandler) GetByName(c echo.Context) error {
	detail, err := h.svc.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}

	return SuccessResponse(c, detail)
}

// Save handles PUT /configs/:id
func (h *ConfigHandler) Save(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.SaveConfigRequest](c)
	if err != nil {
		return err
	}

	saved, err := h.svc.Save(c.Request().Context(), id, req.Aggregate)
	if err != nil {
		return err
	}

	return CreatedResponse(c, saved)
}

// Rename handles PATCH /configs/:id
func (h *ConfigHandler) Rename(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[models.RenameConfigRequest](c)
	if err != nil {
		return err
	}

	def, err := h.svc.Rename(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}

	return SuccessResponse(c, def)
}

// Delete handles DELETE /configs/:id
func (h *ConfigHandler) Delete(c echo.Context) error {
	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return NoContentResponse(c)
}
