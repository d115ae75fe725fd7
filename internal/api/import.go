package api

import (
	"log/slog"
	"net/http"

	"github.com/veckert/daybook/internal/importer"
	"github.com/veckert/daybook/internal/taskservice"
)

const maxImportBytes = 10 << 20 // 10 MB

// ImportHandler accepts uploaded JSON item batches.
type ImportHandler struct {
	svc *taskservice.Service
}

// NewImportHandler creates an import handler over the task service.
func NewImportHandler(svc *taskservice.Service) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Upload handles POST /api/import (multipart/form-data, field "file").
//
//	@Summary		Import a JSON batch of items
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Batch file (JSON array or {\"items\": [...]})"
//	@Success		201		{object}	map[string]int
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	batch, err := importer.DecodeBatch(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid batch file"))
		return
	}

	created, err := importer.Apply(r.Context(), h.svc, batch, slog.Default())
	if err != nil {
		slog.Error("import failed", slog.String("filename", header.Filename), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("import failed"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}
