package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lightcone"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
)

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.summary())
}

// handleApparent runs one pass for the observation state in the body.
func (s *Server) handleApparent(w http.ResponseWriter, r *http.Request) {
	var state transform.ObservationState
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.runner.Run(r.Context(), state)
	if err != nil {
		s.logger.Debug("apparent request rejected", log.Error(err))
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// statusFor maps transform failures to HTTP codes: physically invalid input
// is the caller's fault, anything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lorentz.ErrDomain), errors.Is(err, lightcone.ErrNonFinite):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
