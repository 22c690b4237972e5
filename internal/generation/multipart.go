package generation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

const (
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	legacyExcelType  = "application/vnd.ms-excel"
	docxContentType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// buildGenerateBody encodes the /generate form. The spreadsheet and filter
// mode are always present; template and sheet name only when set.
func buildGenerateBody(req Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeFile(w, "excel", req.Excel, spreadsheetType(req.Excel.Name)); err != nil {
		return nil, "", err
	}
	if req.Template != nil {
		if err := writeFile(w, "template", req.Template, docxContentType); err != nil {
			return nil, "", err
		}
	}
	if req.SheetName != "" {
		if err := w.WriteField("sheet_name", req.SheetName); err != nil {
			return nil, "", fmt.Errorf("failed to write sheet_name: %w", err)
		}
	}
	if err := w.WriteField("filter_mode", string(req.FilterMode)); err != nil {
		return nil, "", fmt.Errorf("failed to write filter_mode: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// buildPreviewBody encodes the /test-parse form
func buildPreviewBody(excel *File, sheetName string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeFile(w, "excel", excel, spreadsheetType(excel.Name)); err != nil {
		return nil, "", err
	}
	if sheetName != "" {
		if err := w.WriteField("sheet_name", sheetName); err != nil {
			return nil, "", fmt.Errorf("failed to write sheet_name: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, field string, f *File, contentType string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("failed to write %s part: %w", field, err)
	}
	return nil
}

func spreadsheetType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		return legacyExcelType
	}
	return excelContentType
}
