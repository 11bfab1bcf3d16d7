package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
)

// SettingsHandler maneja los grupos de configuración.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get devuelve el documento del grupo; 404 si no existe.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	value, err := h.uc.Get(c.Params("group"))
	if err != nil {
		return mapError(c, err)
	}
	if value == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "grupo de configuración no encontrado"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(value)
}

// Save reemplaza el documento del grupo con el cuerpo de la petición.
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	if err := h.uc.Save(c.Params("group"), json.RawMessage(c.Body())); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
