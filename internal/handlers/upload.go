package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"

	"github.com/docuflow/docuflow/internal/generation"
	"github.com/docuflow/docuflow/internal/models"
)

const maxUploadSize = 20 * 1024 * 1024

var errFileTooLarge = fmt.Errorf("file too large (max %dMB)", maxUploadSize/1024/1024)

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	excel, err := readFormFile(r, "excel")
	if err != nil {
		h.writeError(w, "Failed to read excel: "+err.Error(), http.StatusBadRequest)
		return
	}
	template, err := readFormFile(r, "template")
	if err != nil {
		h.writeError(w, "Failed to read template: "+err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := h.orchestrator.Generate(r.Context(), generation.Request{
		Excel:      excel,
		Template:   template,
		SheetName:  r.FormValue("sheet_name"),
		FilterMode: models.FilterMode(r.FormValue("filter_mode")),
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		h.writeError(w, "Failed to open generated document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Name}))
	w.Header().Set("Content-Length", fmt.Sprint(artifact.Size))
	if _, err := io.Copy(w, f); err != nil {
		slog.ErrorContext(r.Context(), "Unable to stream generated document", "path", artifact.Path, "err", err)
	}
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	excel, err := readFormFile(r, "excel")
	if err != nil {
		h.writeError(w, "Failed to read excel: "+err.Error(), http.StatusBadRequest)
		return
	}

	preview, err := h.orchestrator.Preview(r.Context(), excel, r.FormValue("sheet_name"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	h.writeJSON(w, preview)
}

// readFormFile returns the uploaded file in field, or nil when the field is
// absent so that the orchestrator decides whether it was required.
func readFormFile(r *http.Request, field string) (*generation.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadSize {
		return nil, errFileTooLarge
	}

	return &generation.File{Name: header.Filename, Data: data}, nil
}
