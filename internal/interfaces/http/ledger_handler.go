package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
)

// LedgerHandler registra y corrige entradas y salidas de un material.
type LedgerHandler struct {
	uc *inventory.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RecordImport godoc
// @Summary      Registrar entrada
// @Description  Suma la cantidad al stock y añade la entrada al historial en una sola operación.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path    string                   true   "ID del material"
// @Param        Idempotency-Key  header  string                   false  "Clave de idempotencia"
// @Param        body             body    dto.RecordImportRequest  true   "Entrada"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/import [post]
func (h *LedgerHandler) RecordImport(c *fiber.Ctx) error {
	var in dto.RecordImportRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RecordImport(c.UserContext(), GetRequestContext(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordUsage godoc
// @Summary      Registrar salida
// @Description  Resta la cantidad del stock; nunca deja el stock en negativo.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path    string                  true   "ID del material"
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.RecordUsageRequest  true   "Salida"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/usage [post]
func (h *LedgerHandler) RecordUsage(c *fiber.Ctx) error {
	var in dto.RecordUsageRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RecordUsage(c.UserContext(), GetRequestContext(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveImport godoc
// @Summary      Borrar entrada del historial
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   string  true   "ID del material"
// @Param        entryId       path   string  true   "ID de la entrada"
// @Param        adjust_stock  query  bool    false  "Descontar también del stock"  default(false)
// @Success      200  {object}  dto.RemoveEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/import/{entryId} [delete]
func (h *LedgerHandler) RemoveImport(c *fiber.Ctx) error {
	out, err := h.uc.RemoveImportEntry(c.UserContext(), GetRequestContext(c), c.Params("id"), c.Params("entryId"), c.QueryBool("adjust_stock", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveUsage godoc
// @Summary      Borrar salida del historial
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   string  true   "ID del material"
// @Param        entryId       path   string  true   "ID de la salida"
// @Param        adjust_stock  query  bool    false  "Devolver también al stock"  default(false)
// @Success      200  {object}  dto.RemoveEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/usage/{entryId} [delete]
func (h *LedgerHandler) RemoveUsage(c *fiber.Ctx) error {
	out, err := h.uc.RemoveUsageEntry(c.UserContext(), GetRequestContext(c), c.Params("id"), c.Params("entryId"), c.QueryBool("adjust_stock", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
