package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tournevent/storefront/internal/auth"
	"github.com/tournevent/storefront/internal/graphql"
	"github.com/tournevent/storefront/pkg/shipping"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps a quote error to its HTTP status and client message.
// Unclassified errors are reported as a generic 500.
func statusFor(err error) (int, string) {
	var se *shipping.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError, "internal error"
	}
	switch se.Kind {
	case shipping.KindValidation, shipping.KindInvalidAddress:
		return http.StatusBadRequest, se.Message
	case shipping.KindNotFound:
		return http.StatusNotFound, se.Message
	case shipping.KindAuthRequired:
		return http.StatusUnauthorized, se.Message
	case shipping.KindRouteUnavailable:
		return http.StatusBadGateway, se.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

type quoteRequest struct {
	PartnerID     string `json:"partnerId"`
	UserAddressID string `json:"userAddressId"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body quoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := shipping.QuoteRequest{PartnerID: body.PartnerID, UserAddressID: body.UserAddressID}
	if principal := auth.PrincipalFrom(ctx); principal != nil {
		req.PrincipalID = principal.ID
	}

	quote, err := s.deps.Calculator.Calculate(ctx, req)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Ctx(ctx).Error("Quote failed",
				zap.String("request_id", RequestID(ctx)),
				zap.Error(err),
			)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"errors": []map[string]string{{"message": "Method not allowed, use POST"}},
		})
		return
	}

	var req graphql.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []map[string]string{{"message": "Invalid JSON: " + err.Error()}},
		})
		return
	}

	writeJSON(w, http.StatusOK, s.executor.Execute(r.Context(), req))
}
