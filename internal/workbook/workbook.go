// Package workbook inspects requirement spreadsheets locally so that obvious
// mistakes (wrong sheet, renamed columns) are caught before an upload.
package workbook

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/xuri/excelize/v2"
)

// RequiredHeaders are the normalized column names the service parses.
var RequiredHeaders = []string{
	"form",
	"req id#*",
	"section*",
	"description *",
	"status *",
}

// Sheet summarizes one worksheet
type Sheet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	// Rows is the number of rows below the header row.
	Rows int `json:"rows"`
}

// Info summarizes a workbook
type Info struct {
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the named sheet, or the first one when name is empty
func (i *Info) Sheet(name string) (Sheet, bool) {
	if name == "" {
		if len(i.Sheets) == 0 {
			return Sheet{}, false
		}
		return i.Sheets[0], true
	}
	for _, s := range i.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Inspect reads the sheet list and header row of every sheet in the workbook at path
func Inspect(path string) (*Info, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("Unable to read %s as an Excel workbook.", path)).WithCause(err)
	}
	defer f.Close()

	info := &Info{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Headers = rows[0]
			sheet.Rows = len(rows) - 1
		}
		info.Sheets = append(info.Sheets, sheet)
	}
	return info, nil
}

// Check verifies that the target sheet exists and carries every required
// header. An empty sheet name selects the first sheet, as the service does.
func Check(path, sheetName string) error {
	info, err := Inspect(path)
	if err != nil {
		return err
	}

	sheet, ok := info.Sheet(sheetName)
	if !ok {
		if sheetName == "" {
			return apperrors.Validation("The workbook has no sheets.")
		}
		names := make([]string, 0, len(info.Sheets))
		for _, s := range info.Sheets {
			names = append(names, s.Name)
		}
		return apperrors.Validation(fmt.Sprintf("Worksheet %q not found. Available sheets: %s", sheetName, strings.Join(names, ", ")))
	}

	if missing := MissingHeaders(sheet.Headers); len(missing) > 0 {
		return apperrors.Validation(fmt.Sprintf("Missing required Excel columns in sheet %q: %s", sheet.Name, strings.Join(missing, ", ")))
	}
	return nil
}

// MissingHeaders returns the required headers absent from headers, in
// required order.
func MissingHeaders(headers []string) []string {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		normalized = append(normalized, NormalizeHeader(h))
	}

	var missing []string
	for _, want := range RequiredHeaders {
		if !slices.Contains(normalized, want) {
			missing = append(missing, want)
		}
	}
	return missing
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeHeader collapses whitespace and lowercases h. Every variation of
// a status column maps to "status *".
func NormalizeHeader(h string) string {
	normalized := strings.ToLower(strings.TrimSpace(whitespace.ReplaceAllString(h, " ")))
	if strings.Contains(normalized, "status") {
		return "status *"
	}
	return normalized
}
