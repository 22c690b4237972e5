package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/docuflow/docuflow/internal/api"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/models"
)

// Preview asks the service how it parses excel, without generating a document.
// The parse endpoint needs no session.
func (o *Orchestrator) Preview(ctx context.Context, excel *File, sheetName string) (*models.Preview, error) {
	if excel == nil || len(excel.Data) == 0 {
		return nil, apperrors.Validation("Please select the Excel file.")
	}

	body, contentType, err := buildPreviewBody(excel, sheetName)
	if err != nil {
		return nil, err
	}

	req, err := o.api.NewRequest(ctx, http.MethodPost, "/test-parse", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := o.api.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !api.OK(resp) {
		msg := api.ErrorMessage(resp, "error", "message", "detail")
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if msg == "" {
			msg = unknownServerError
		}
		return nil, apperrors.Server(resp.StatusCode, msg)
	}

	var preview models.Preview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		return nil, fmt.Errorf("failed to decode preview: %w", err)
	}

	slog.InfoContext(req.Context(), "Spreadsheet parsed", "groups", preview.TotalGroups, "requirements", preview.RequirementCount())
	return &preview, nil
}
