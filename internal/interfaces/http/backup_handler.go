package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/backup"
	"github.com/jhoicas/stockmaster-api/internal/application/dto"
)

// BackupHandler expone respaldo, recuperación y el intercambio de estado
// completo (export/import).
type BackupHandler struct {
	manager *backup.Manager
}

// NewBackupHandler construye el handler.
func NewBackupHandler(manager *backup.Manager) *BackupHandler {
	return &BackupHandler{manager: manager}
}

// Export devuelve el documento de estado completo.
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	data, err := h.manager.Export()
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.NewExportDocument(data, time.Now()))
}

// Import reemplaza el estado completo con el documento recibido. El
// resultado es un booleano de éxito: ningún error interno cruza esta
// frontera.
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	var doc dto.ExportDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "documento de importación inválido"})
	}
	if err := h.manager.Import(doc.Data()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ImportResponse{Success: false})
	}
	return c.JSON(dto.ImportResponse{Success: true})
}

// CreateBackup fuerza un snapshot inmediato.
func (h *BackupHandler) CreateBackup(c *fiber.Ctx) error {
	if err := h.manager.CreateBackup(); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// List devuelve los metadatos del anillo de respaldos (sin el estado).
func (h *BackupHandler) List(c *fiber.Ctx) error {
	snapshots, err := h.manager.List()
	if err != nil {
		return mapError(c, err)
	}
	items := make([]dto.BackupInfo, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, dto.BackupInfo{
			Timestamp:  s.Timestamp,
			Checksum:   s.Checksum,
			Products:   len(s.Data.Products),
			Movements:  len(s.Data.Movements),
			Categories: len(s.Data.Categories),
		})
	}
	return c.JSON(dto.BackupListResponse{Items: items, Total: len(items)})
}

// Recover restaura el respaldo válido más reciente. 200 con restored=true,
// o 409 si ningún respaldo pasó la verificación (el estado vivo queda
// intacto).
func (h *BackupHandler) Recover(c *fiber.Ctx) error {
	if !h.manager.Recover() {
		return c.Status(fiber.StatusConflict).JSON(dto.RecoverResponse{Restored: false})
	}
	return c.JSON(dto.RecoverResponse{Restored: true})
}

// ClearAll respalda y elimina todas las colecciones.
func (h *BackupHandler) ClearAll(c *fiber.Ctx) error {
	if err := h.manager.ClearAll(); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
