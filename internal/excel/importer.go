// Package excel imports vocabulary items from tabular files. The expected
// layout is two columns: target-language term, then primary-language term.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/lingobot/pkg/models"
)

// Config defines the import configuration.
type Config struct {
	// Category assigned to every imported item; empty falls back to the
	// generic bucket.
	Category string
	// SheetName is the Excel sheet to read. Empty means the first sheet.
	SheetName string
	// SkipHeader skips the first row.
	SkipHeader bool
}

// Result holds the outcome of an import operation.
type Result struct {
	TotalRows int
	Imported  int
	Skipped   int
	Errors    []string
}

// Import reads rows from an xlsx or csv stream (told apart by the file
// name) and appends new items to the pool. New items get a fresh id and a
// zeroed schedule for both study modes, due immediately. Rows whose target
// term already exists in the pool are skipped; duplicate detection is an
// exact string match on the target term. The caller is responsible for
// saving the pool afterward.
func Import(r io.Reader, filename string, cfg Config, pool *models.Pool, now time.Time) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(r)
	} else {
		rows, err = readExcel(r, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, row := range rows {
		if i == 0 && cfg.SkipHeader {
			continue
		}
		result.TotalRows++
		if err := importRow(row, cfg.Category, pool, now, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func readExcel(r io.Reader, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func importRow(row []string, category string, pool *models.Pool, now time.Time, result *Result) error {
	var target, primary string
	if len(row) > 0 {
		target = strings.TrimSpace(row[0])
	}
	if len(row) > 1 {
		primary = strings.TrimSpace(row[1])
	}

	if target == "" {
		result.Skipped++
		return nil
	}
	if primary == "" {
		result.Skipped++
		return fmt.Errorf("missing translation for %q", target)
	}
	if pool.HasTarget(target) {
		result.Skipped++
		return nil
	}

	pool.Add(models.NewVocabularyItem(uuid.NewString(), strings.TrimSpace(category), target, primary, now))
	result.Imported++
	return nil
}
