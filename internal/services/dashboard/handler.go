package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

// Handler handles HTTP requests for the dashboard service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/orders", h.withLogging(h.ListOrders))
	mux.HandleFunc("/orders/", h.withLogging(h.routeOrderRequests))
	mux.HandleFunc("/stats/summary", h.withLogging(h.GetSummary))
	mux.HandleFunc("/stats/popular", h.withLogging(h.GetPopularity))
	mux.HandleFunc("/menu", h.withLogging(h.GetMenu))
	mux.HandleFunc("/admin/cleanup", h.withLogging(h.Cleanup))
	mux.HandleFunc("/admin/menu/reload", h.withLogging(h.ReloadMenu))
	mux.HandleFunc("/health", h.withLogging(h.HealthCheck))

	return mux
}

// routeOrderRequests routes /orders/{id}, /orders/{id}/status and
// /orders/export to their handlers.
func (h *Handler) routeOrderRequests(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/orders/export" {
		h.ExportOrders(w, r)
		return
	}
	if strings.HasSuffix(r.URL.Path, "/status") {
		h.UpdateOrderStatus(w, r)
		return
	}
	h.GetOrder(w, r)
}

// ListOrders handles GET /orders requests with optional customer, status
// or date query filters.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	query := r.URL.Query()
	result, err := h.service.ListOrders(r.Context(), query.Get("customer"), query.Get("status"), query.Get("date"))
	if err != nil {
		if strings.Contains(err.Error(), "must be") {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		} else {
			h.logger.Error("list_orders_failed", "Failed to list orders", requestID, err, nil)
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, result, requestID)
}

// GetOrder handles GET /orders/{id} requests.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	id, ok := h.extractOrderID(r.URL.Path, "")
	if !ok {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.logger.Error("get_order_failed", "Failed to get order", requestID, err, map[string]interface{}{
				"order_id": id,
			})
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, order, requestID)
}

// UpdateOrderStatus handles POST /orders/{id}/status requests.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	id, ok := h.extractOrderID(r.URL.Path, "/status")
	if !ok {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		case strings.Contains(err.Error(), "status must be"):
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		default:
			h.logger.Error("status_update_failed", "Failed to update order status", requestID, err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	}, requestID)
}

// ExportOrders handles GET /orders/export requests, streaming flattened
// order-line rows as CSV.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders_export.csv"`)

	if err := h.service.Stats().ExportCSV(r.Context(), w); err != nil {
		h.logger.Error("export_failed", "Failed to export orders", requestID, err, nil)
	}
}

// GetSummary handles GET /stats/summary requests.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	summary, err := h.service.Stats().Summary(r.Context())
	if err != nil {
		h.logger.Error("summary_failed", "Failed to compute summary", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, summary, requestID)
}

// GetPopularity handles GET /stats/popular requests.
func (h *Handler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	popularity, err := h.service.Stats().Popularity(r.Context())
	if err != nil {
		h.logger.Error("popularity_failed", "Failed to compute popularity", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, popularity, requestID)
}

// GetMenu handles GET /menu requests.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.MenuItems(), requestID)
}

// Cleanup handles POST /admin/cleanup requests with a days query param.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "days must be a positive integer", requestID)
		return
	}

	removed, err := h.service.Cleanup(r.Context(), days)
	if err != nil {
		h.logger.Error("cleanup_failed", "Failed to clean up orders", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
		"days":    days,
	}, requestID)
}

// ReloadMenu handles POST /admin/menu/reload requests.
func (h *Handler) ReloadMenu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	if err := h.service.ReloadMenu(); err != nil {
		h.logger.Error("menu_reload_failed", "Failed to reload menu", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to reload menu", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": len(h.service.MenuItems()),
	}, requestID)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	healthy := h.service.HealthCheck(r.Context())

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "dashboard-service",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")

	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		response["status"] = "unhealthy"
	}

	json.NewEncoder(w).Encode(response)
}

// extractOrderID parses the order id out of /orders/{id}{suffix} paths.
func (h *Handler) extractOrderID(path, suffix string) (int64, bool) {
	raw := strings.TrimPrefix(path, "/orders/")
	raw = strings.TrimSuffix(raw, suffix)
	raw = strings.TrimSuffix(raw, "/")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
