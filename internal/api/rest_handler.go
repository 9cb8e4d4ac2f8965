package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fund_loader/internal/domain"
	"fund_loader/pkg/validator"
)

// LoadEvaluator is the subset of processor.LoadProcessor the API needs.
type LoadEvaluator interface {
	Process(ctx context.Context, attempt domain.Attempt) domain.Decision
	History(ctx context.Context, customerID string) domain.History
}

type APIHandler struct {
	// mu serialises evaluation; the processor must see loads one at a time.
	mu             sync.Mutex
	processor      LoadEvaluator
	validator      *validator.RecordValidator
	logger         *slog.Logger
	requestTimeout time.Duration
	maxBodyBytes   int64
}

func NewAPIHandler(processor LoadEvaluator, v *validator.RecordValidator, logger *slog.Logger) *APIHandler {
	if v == nil {
		v = validator.NewRecordValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		processor:      processor,
		validator:      v,
		logger:         logger,
		requestTimeout: 30 * time.Second,
		maxBodyBytes:   1 << 20,
	}
}

type HistoryEntryResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	EffectiveAmount string `json:"effective_amount"`
}

type HistoryResponse struct {
	CustomerID string                 `json:"customer_id"`
	Entries    []HistoryEntryResponse `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) CreateLoadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var rec domain.LoadRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&rec); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	attempt, err := h.validator.ValidateRecord(rec)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
		return
	}

	h.mu.Lock()
	decision := h.processor.Process(ctx, attempt)
	h.mu.Unlock()

	h.sendJSON(w, decision, http.StatusOK)
	h.logger.InfoContext(ctx, "Load evaluated",
		slog.String("load_id", decision.ID),
		slog.String("customer_id", decision.CustomerID),
		slog.Bool("accepted", decision.Accepted))
}

func (h *APIHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	if customerID == "" {
		h.sendError(w, "Customer ID is required", http.StatusBadRequest, "MISSING_ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	history := h.processor.History(ctx, customerID)
	response := HistoryResponse{
		CustomerID: customerID,
		Entries:    make([]HistoryEntryResponse, 0, len(history)),
	}
	for _, e := range history {
		response.Entries = append(response.Entries, HistoryEntryResponse{
			ID:              e.ID,
			Date:            e.Date.Format(time.DateOnly),
			EffectiveAmount: e.EffectiveAmount.StringFixed(2),
		})
	}

	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/loads", h.CreateLoadHandler)
	mux.HandleFunc("GET /api/v1/customers/{id}/history", h.GetHistoryHandler)
	mux.HandleFunc("GET /healthz", h.HealthCheckHandler)
}
