package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, getStatusCode(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: domainErr.Message,
			},
		})
		return
	}

	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	})
}

// handlePageError renders lifecycle errors as an HTML page with the same
// status mapping as the JSON API.
func (h *Handler) handlePageError(w http.ResponseWriter, r *http.Request, err error, backURL string) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status = getStatusCode(domainErr.Code)
		message = domainErr.Message
	} else {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	h.renderPage(w, r, status, pageError, errorPage{Message: message, BackURL: backURL})
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.views.Render(w, page, data); err != nil {
		log.Printf("%s %s: failed to render %s: %v", r.Method, r.URL.Path, page, err)
	}
}

// writeJSON encodes before writing the header so an unencodable body
// turns into a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		status = http.StatusInternalServerError
		payload = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeInvalidState:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
