// Package http contains the chi HTTP handlers for the prediction API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	apierrors "github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/errors"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/internal/services"
	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// PredictionHandler handles prediction and report HTTP requests
type PredictionHandler struct {
	service      *services.PredictionService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(service *services.PredictionService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PredictionHandler {
	return &PredictionHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "prediction")),
		errorHandler: errorHandler,
	}
}

// Routes returns the prediction routes
func (h *PredictionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/predict", h.Predict)
	r.Post("/report", h.GenerateReport)
	r.NotFound(h.errorHandler.NotFound)
	r.MethodNotAllowed(h.errorHandler.MethodNotAllowed)

	return r
}

// Predict handles POST /api/predict
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var patient domain.PatientInput
	if err := render.DecodeJSON(r.Body, &patient); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	report, err := h.service.Predict(r.Context(), &patient)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// ReportResponse wraps a prediction report with a stable identifier.
type ReportResponse struct {
	ReportID    string                   `json:"report_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Report      *domain.PredictionReport `json:"report"`
}

// GenerateReport handles POST /api/report. It runs the same pipeline as
// Predict but stamps the result with a report ID and timestamp so
// downstream document generators can reference it.
func (h *PredictionHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var patient domain.PatientInput
	if err := render.DecodeJSON(r.Body, &patient); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	report, err := h.service.Predict(r.Context(), &patient)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := &ReportResponse{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Report:      report,
	}

	h.logger.InfoContext(r.Context(), "report generated",
		slog.String("report_id", resp.ReportID),
		slog.String("patient", report.PatientInfo.Name),
	)

	render.JSON(w, r, resp)
}
