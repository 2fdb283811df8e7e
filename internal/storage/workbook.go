package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"vnbcrawler/internal/aggregate"
	"vnbcrawler/internal/model"
)

// ErrStoreRead marks a persisted workbook that exists but cannot be read.
var ErrStoreRead = errors.New("failed to read store")

// ReadWorkbook loads every sheet of the workbook at path, in workbook order.
// A missing file is an empty store.
func ReadWorkbook(path string) (*model.Store, error) {
	store := model.NewStore()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return store, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStoreRead, path, err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		cells, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w %s, sheet %s: %w", ErrStoreRead, path, name, err)
		}
		rows := make([]model.Row, 0, len(cells)+1)
		for _, c := range cells {
			rows = append(rows, model.RowFromCells(c))
		}
		// Trailing empty rows are not stored in the file, so the separator
		// after the last product has to be restored.
		if n := len(rows); n > 0 && !rows[n-1].IsBlank() {
			rows = append(rows, model.Row{})
		}
		store.Set(name, rows)
	}
	return store, nil
}

// WriteWorkbook replaces the workbook at path with one sheet per brand and
// the summary sheet last. The file is written next to path and renamed over
// it, so readers never see a partial workbook.
func WriteWorkbook(path string, store *model.Store, summary []model.SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, brand := range store.Brands() {
		if model.IsReserved(brand) {
			continue
		}
		if _, err := f.NewSheet(brand); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", brand, err)
		}
		rows, _ := store.Sheet(brand)
		for i, r := range rows {
			if r.IsBlank() {
				continue
			}
			if err := setRow(f, brand, i+1, []interface{}{r.Label, r.Field, r.Value}); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(model.SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	header := aggregate.SummaryHeader
	if err := setRow(f, model.SummarySheet, 1, []interface{}{header[0], header[1]}); err != nil {
		return err
	}
	for i, s := range summary {
		if err := setRow(f, model.SummarySheet, i+2, []interface{}{s.Brand, s.Count}); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet(model.PlaceholderSheet); err != nil {
		return fmt.Errorf("failed to remove placeholder sheet: %w", err)
	}
	f.SetActiveSheet(0)

	return writeAtomic(path, f)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func writeAtomic(path string, f *excelize.File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	log.WithField("file", path).Info("store saved")
	return nil
}
