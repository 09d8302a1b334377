package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/racquet-stats/internal/sport"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *sport.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid match", Fields: verr.Fields})
	case errors.Is(err, stats.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, stats.ErrEntityNotFound), errors.Is(err, stats.ErrMatchNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, stats.ErrNotImplemented):
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "not implemented"})
	default:
		log.FromContext(r.Context()).Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "operation failed"})
	}
}

func parsePlayerID(r *http.Request) (int64, error) {
	raw := r.PathValue("playerid")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid player id %q", stats.ErrValidation, raw)
	}
	return id, nil
}

// sportRequest resolves the sport and player addressed by the path. It writes
// the error response itself and returns false when the request cannot proceed.
func (s *Server) sportRequest(w http.ResponseWriter, r *http.Request) (*sport.Service, int64, bool) {
	svc, ok := s.Sports[r.PathValue("sport")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown sport %q", r.PathValue("sport"))})
		return nil, 0, false
	}
	playerID, err := parsePlayerID(r)
	if err != nil {
		writeError(w, r, err)
		return nil, 0, false
	}
	return svc, playerID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", stats.ErrValidation, err)
	}
	return nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAllPlayers(r.Context())
		if err != nil {
			log.FromContext(r.Context()).Error("Failed to get players from store", "error", err)
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayerRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.validator.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			fields := map[string]string{}
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					fields[fe.Field()] = "failed " + fe.Tag()
				}
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid player", Fields: fields})
			return
		}
		if isDryRunFromContext(r) {
			log.FromContext(r.Context()).Info("[Dry Run] Would add player", "playerID", req.ID, "name", req.Name)
			writeJSON(w, http.StatusOK, req)
			return
		}
		if err := s.Players.AddPlayer(r.Context(), req.ID, req.Name); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	}
}

func (s *Server) RemovePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := parsePlayerID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if isDryRunFromContext(r) {
			log.FromContext(r.Context()).Info("[Dry Run] Would remove player", "playerID", playerID)
			writeJSON(w, http.StatusOK, struct{}{})
			return
		}
		if err := s.Players.RemovePlayer(r.Context(), playerID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func (s *Server) AddMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, playerID, ok := s.sportRequest(w, r)
		if !ok {
			return
		}
		var req statsRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Stats == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid match", Fields: map[string]string{"stats": "is required"}})
			return
		}
		record, err := svc.AddMatch(r.Context(), playerID, *req.Stats, isDryRunFromContext(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, addMatchResponse{MatchID: record.MatchID})
	}
}

func (s *Server) MatchSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, playerID, ok := s.sportRequest(w, r)
		if !ok {
			return
		}
		summary, err := svc.GetMatchSummary(r.Context(), playerID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, playerID, ok := s.sportRequest(w, r)
		if !ok {
			return
		}
		record, err := svc.GetMatch(r.Context(), playerID, r.PathValue("matchid"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, playerID, ok := s.sportRequest(w, r)
		if !ok {
			return
		}
		var req statsRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		var in sport.MatchInput
		if req.Stats != nil {
			in = *req.Stats
		}
		if err := svc.UpdateMatch(r.Context(), playerID, r.PathValue("matchid"), in); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, playerID, ok := s.sportRequest(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteMatch(r.Context(), playerID, r.PathValue("matchid"), isDryRunFromContext(r)); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
	}
}
