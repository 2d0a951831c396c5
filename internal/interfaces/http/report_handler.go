package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Magacin-api/internal/application/inventory"
)

// ReportHandler informe de conciliación por periodo.
type ReportHandler struct {
	uc *inventory.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *inventory.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Get godoc
// @Summary      Informe de periodo
// @Description  Stock inicial, entradas, stock final, consumo y coste por material entre from y to (ambos incluidos).
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.PeriodReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/materials/report [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetReport(c.UserContext(), GetRequestContext(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar informe de periodo
// @Tags         reports
// @Produce      application/pdf
// @Produce      application/vnd.ms-excel
// @Security     BearerAuth
// @Param        from    query  string  true   "Desde (YYYY-MM-DD)"
// @Param        to      query  string  true   "Hasta (YYYY-MM-DD)"
// @Param        format  query  string  false  "pdf o xlsx-xml"  default(pdf)
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/materials/report/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.ExportReport(c.UserContext(), GetRequestContext(c), c.Query("from"), c.Query("to"), c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", strconv.Quote(file.Filename)))
	return c.Send(file.Content)
}
