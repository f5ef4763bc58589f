package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/family-travel-blog/internal/templates"
)

// TemplateHandler exposes the fixed template registry so the front end
// can offer the layout choices without hardcoding them.
type TemplateHandler struct {
	Registry *templates.Registry
}

func NewTemplateHandler(reg *templates.Registry) *TemplateHandler {
	if reg == nil {
		panic("nil registry passed to NewTemplateHandler")
	}
	return &TemplateHandler{Registry: reg}
}

// List returns every known template sorted by id.
func (h *TemplateHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "templates": h.Registry.All()})
}
