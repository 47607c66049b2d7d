package warranties

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
)

const exportSheet = "Registrations"

var exportHeaders = []string{
	"ID", "Customer Name", "Phone", "Email", "Reg Number", "Chassis Number",
	"PPF Roll", "PPF Category", "Dealer", "Installer Mobile", "Location",
	"Vehicle Photo", "RC Photo", "Submitted At",
}

// Exporter streams the full registration book as an xlsx workbook.
type Exporter struct {
	repo warrantyRepository
}

// NewExporter builds an exporter over the provided repository.
func NewExporter(repo warrantyRepository) (*Exporter, error) {
	if repo == nil {
		return nil, fmt.Errorf("warranty repository required")
	}
	return &Exporter{repo: repo}, nil
}

// WriteXLSX writes every registration to w, newest first.
func (e *Exporter) WriteXLSX(ctx context.Context, w io.Writer) error {
	rows, err := e.repo.All(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading registrations for export")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating export sheet")
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing export header")
		}
	}

	for i := range rows {
		row := &rows[i]
		values := []any{
			row.ID,
			row.CustomerName,
			row.CustomerPhone,
			row.CustomerEmail,
			row.RegistrationNumber,
			row.ChassisNumber,
			row.PPFRoll,
			row.PPFCategory,
			row.DealerName,
			row.InstallerMobile,
			row.InstallationLocation,
			derefOrEmpty(row.VehiclePhotoURL),
			derefOrEmpty(row.RCPhotoURL),
			row.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing export row")
			}
		}
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing workbook")
	}
	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
