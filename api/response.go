package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/confirm"
	"github.com/mohtashimnawaz/fractionalization/das"
	"github.com/mohtashimnawaz/fractionalization/proof"
	"github.com/mohtashimnawaz/fractionalization/txbuild"
	"github.com/mohtashimnawaz/fractionalization/vault"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeError maps the machine-readable error kind to a status code and
// surfaces the message to the caller. The kind stays in the logs.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, txbuild.ErrInvalidRequest),
		errors.Is(err, confirm.ErrMalformedTransaction),
		errors.Is(err, proof.ErrInvalidProofShape):
		status = http.StatusBadRequest
	case errors.Is(err, das.ErrNotFound),
		errors.Is(err, das.ErrProofUnavailable),
		errors.Is(err, vault.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, das.ErrIndexUnavailable),
		errors.Is(err, das.ErrIndexAuth):
		status = http.StatusBadGateway
	case errors.Is(err, confirm.ErrConfirmationTimeout):
		// Unknown outcome, not a definite failure: the transaction may
		// still land. Callers must verify before retrying.
		status = http.StatusGatewayTimeout
	}

	s.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, envelope{Success: false, Error: err.Error()})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
