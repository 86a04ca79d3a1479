package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"rapihcli/internal/cleanse"
	apierrors "rapihcli/internal/errors"
	"rapihcli/internal/services"
	"rapihcli/pkg/contracts/domain"
)

// DatasetHandler serves the dataset upload and processing endpoints.
type DatasetHandler struct {
	service        *services.DatasetService
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
	defaultMode    domain.AnalysisMode
}

// NewDatasetHandler creates the handler.
func NewDatasetHandler(service *services.DatasetService, logger *slog.Logger, maxUploadBytes int64, defaultMode domain.AnalysisMode) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
		defaultMode:    defaultMode,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.GetDataset)
		r.Post("/analyze", h.Analyze)
		r.Get("/report", h.Report)
		r.Post("/clean", h.Clean)
		r.Post("/basic-clean", h.BasicClean)
		r.Get("/download", h.Download)
	})

	return r
}

// DatasetCtx validates the dataset id parameter.
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "" {
			render.Render(w, r, apierrors.ErrValidation("id", "dataset id is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload accepts a multipart upload under the "file" field, parses it, and
// returns the dataset descriptor. Identical uploads share one dataset.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		render.Render(w, r, apierrors.ErrFileTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.ErrValidation("file", "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}

	dataset, err := h.service.Upload(r.Context(), header.Filename, data)
	if err != nil {
		h.logger.Warn("upload rejected",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ParseFailure(err))
		return
	}

	h.logger.Info("dataset uploaded",
		slog.String("dataset_id", dataset.ID),
		slog.String("filename", dataset.Filename),
		slog.Int("rows", dataset.Rows),
		slog.Int("columns", dataset.Columns))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, dataset)
}

// GetDataset returns the cached dataset descriptor.
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dataset, ok := h.service.Get(id)
	if !ok {
		render.Render(w, r, apierrors.DatasetNotFound(id))
		return
	}
	render.JSON(w, r, dataset)
}

// processRequest is the shared body for analyze and clean calls.
type processRequest struct {
	Mode       string `json:"mode" validate:"omitempty,oneof=auto finance sales data strict"`
	DateFormat string `json:"date_format" validate:"omitempty,oneof=DD-MMM-YYYY YYYY-MM-DD DD/MM/YYYY DD-MM-YYYY"`
	TextCase   string `json:"text_case" validate:"omitempty,oneof=upper lower title sentence"`
}

func (h *DatasetHandler) decodeProcessRequest(r *http.Request) (*processRequest, *apierrors.APIError) {
	req := &processRequest{}
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, req); err != nil {
			return nil, apierrors.ErrInvalidRequest
		}
	}
	if err := h.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, apierrors.ErrValidation(errs[0].Field(), fmt.Sprintf("invalid value %q", errs[0].Value()))
		}
		return nil, apierrors.ErrValidationFailed
	}
	if req.Mode == "" {
		req.Mode = string(h.defaultMode)
	}
	return req, nil
}

// Analyze runs detection without cleaning and returns the analysis result.
func (h *DatasetHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, false)
}

// Report is the GET form of Analyze; the mode comes from the query string.
func (h *DatasetHandler) Report(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = string(h.defaultMode)
	}
	if err := h.validate.Var(mode, "oneof=auto finance sales data strict"); err != nil {
		render.Render(w, r, apierrors.ErrValidation("mode", fmt.Sprintf("invalid value %q", mode)))
		return
	}

	result, err := h.service.Process(r.Context(), id, domain.AnalysisMode(mode), cleanse.Options{})
	if err != nil {
		render.Render(w, r, apierrors.DatasetNotFound(id))
		return
	}
	if !result.Success {
		render.Render(w, r, apierrors.InternalError(result.Stage, fmt.Errorf("%s", result.Error)))
		return
	}
	result.Clean = nil
	render.JSON(w, r, result)
}

// Clean runs the full pipeline and returns analysis, cleaned table and the
// change log.
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, true)
}

func (h *DatasetHandler) process(w http.ResponseWriter, r *http.Request, includeClean bool) {
	id := chi.URLParam(r, "id")
	req, apiErr := h.decodeProcessRequest(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	result, err := h.service.Process(r.Context(), id, domain.AnalysisMode(req.Mode), cleanse.Options{
		DateFormat: req.DateFormat,
		TextCase:   req.TextCase,
	})
	if err != nil {
		render.Render(w, r, apierrors.DatasetNotFound(id))
		return
	}
	if !result.Success {
		render.Render(w, r, apierrors.InternalError(result.Stage, fmt.Errorf("%s", result.Error)))
		return
	}
	if !includeClean {
		result.Clean = nil
	}
	render.JSON(w, r, result)
}

// basicCleanRequest selects the structural fixes for a basic clean.
type basicCleanRequest struct {
	RemoveDuplicates bool   `json:"remove_duplicates"`
	RemoveEmpty      bool   `json:"remove_empty"`
	TrimWhitespace   bool   `json:"trim_whitespace"`
	TextCase         string `json:"text_case" validate:"omitempty,oneof=upper lower title sentence"`
}

// BasicClean applies only the requested structural fixes, skipping analysis.
func (h *DatasetHandler) BasicClean(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req := &basicCleanRequest{RemoveDuplicates: true, RemoveEmpty: true, TrimWhitespace: true}
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, req); err != nil {
			render.Render(w, r, apierrors.ErrInvalidRequest)
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.ErrValidationFailed)
		return
	}

	result, err := h.service.BasicClean(r.Context(), id, cleanse.BasicOptions{
		RemoveDuplicates: req.RemoveDuplicates,
		RemoveEmpty:      req.RemoveEmpty,
		TrimWhitespace:   req.TrimWhitespace,
		TextCase:         req.TextCase,
	})
	if err != nil {
		render.Render(w, r, apierrors.DatasetNotFound(id))
		return
	}
	render.JSON(w, r, result)
}

// Download runs the pipeline and streams the cleaned table in the requested
// format (?format=csv|xlsx, default xlsx).
func (h *DatasetHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "csv" && format != "xlsx" {
		render.Render(w, r, apierrors.ErrValidation("format", "format must be csv or xlsx"))
		return
	}

	mode := domain.AnalysisMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = h.defaultMode
	}

	result, err := h.service.Process(r.Context(), id, mode, cleanse.Options{})
	if err != nil {
		render.Render(w, r, apierrors.DatasetNotFound(id))
		return
	}
	if !result.Success || result.Clean == nil {
		render.Render(w, r, apierrors.InternalError(result.Stage, fmt.Errorf("%s", result.Error)))
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "csv":
		payload, err = h.service.ExportCSV(result.Clean.Table)
		contentType = "text/csv; charset=utf-8"
	default:
		payload, err = h.service.ExportXLSX(result.Clean.Table, result.Analysis)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		render.Render(w, r, apierrors.InternalError("format", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cleaned."+format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Warn("download write failed",
			slog.String("dataset_id", id),
			slog.String("error", err.Error()))
	}
}
