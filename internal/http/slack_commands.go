package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/club"
)

// respondWithSlackMsg writes a formatted Slack message as the command response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	writeJSON(w, http.StatusOK, msg)
}

// parseStatsText splits "<player> [sport]" into the player query and sport.
// The sport falls back to the default when the last word names no known sport.
func (s *Server) parseStatsText(text string) (query string, sportName string) {
	parts := strings.Fields(text)
	sportName = s.defaultSport
	if len(parts) > 1 {
		last := strings.ToLower(parts[len(parts)-1])
		if _, ok := s.Sports[last]; ok {
			sportName = last
			parts = parts[:len(parts)-1]
		}
	}
	return strings.Join(parts, " "), sportName
}

// findPlayer resolves a numeric id or a case-insensitive name. An exact name
// match wins over a partial one.
func (s *Server) findPlayer(ctx context.Context, query string) (*club.PlayerInfo, error) {
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		players, err := s.Players.GetPlayers(ctx, []int64{id})
		if err != nil || len(players) == 0 {
			return nil, err
		}
		return &players[0], nil
	}

	players, err := s.Players.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)
	var partial *club.PlayerInfo
	for i := range players {
		name := strings.ToLower(players[i].Name)
		if name == lower {
			return &players[i], nil
		}
		if partial == nil && strings.Contains(name, lower) {
			partial = &players[i]
		}
	}
	return partial, nil
}

// StatsCommandHandler answers the stats slash command with a player's summary.
// Expected text: "Jane Doe", "42" or "Jane Doe badminton".
func (s *Server) StatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query, sportName := s.parseStatsText(r.FormValue("text"))
		if query == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		svc, ok := s.Sports[sportName]
		if !ok {
			http.Error(w, "No sport configured.", http.StatusBadRequest)
			return
		}

		logger := log.FromContext(r.Context())
		logger.Info("Received stats command", "query", query, "sport", sportName)
		player, err := s.findPlayer(r.Context(), query)
		if err != nil {
			logger.Error("Failed to look up player", "error", err, "query", query)
			http.Error(w, "Failed to look up player", http.StatusInternalServerError)
			return
		}

		var msg any
		if player == nil {
			logger.Warn("Could not find player", "query", query)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(query)
		} else {
			summary, serr := svc.GetMatchSummary(r.Context(), player.ID)
			if serr != nil {
				logger.Error("Failed to load summary", "error", serr, "playerID", player.ID)
				http.Error(w, "Failed to load player stats", http.StatusInternalServerError)
				return
			}
			msg, err = s.Notifier.FormatSummaryResponse(sportName, player.Name, summary)
		}
		if err != nil {
			logger.Error("Failed to format stats response", "error", err)
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
