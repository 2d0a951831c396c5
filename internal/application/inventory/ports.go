package inventory

import (
	"context"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
)

// ReportRenderer genera el documento descargable de un informe de periodo (PDF, SpreadsheetML).
type ReportRenderer interface {
	Format() string
	Render(ctx context.Context, report *dto.PeriodReportResponse) (*dto.ReportFile, error)
}
