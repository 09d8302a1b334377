package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/racquet-stats/internal/club"
	"github.com/mauv0809/racquet-stats/internal/config"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/sport"
)

// NewServer wires the routes for the given sports. The first sport is the
// default for Slack commands that do not name one.
func NewServer(cfg config.Config, players club.ClubStore, metricsHandler http.Handler, notifier notifier.Notifier, sports ...*sport.Service) *Server {
	server := &Server{
		Sports:         make(map[string]*sport.Service, len(sports)),
		Players:        players,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		validator:      validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, svc := range sports {
		server.Sports[svc.Name()] = svc
		if server.defaultSport == "" {
			server.defaultSport = svc.Name()
		}
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{playerid}", Chain(s.RemovePlayerHandler(), paramsMiddleware))

	s.Router.Handle("PUT /player/{playerid}/sport/{sport}/stats", Chain(s.AddMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /player/{playerid}/sport/{sport}/stats", Chain(s.MatchSummaryHandler(), paramsMiddleware))
	s.Router.Handle("GET /player/{playerid}/sport/{sport}/stats/{matchid}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /player/{playerid}/sport/{sport}/stats/{matchid}", Chain(s.UpdateMatchHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /player/{playerid}/sport/{sport}/stats/{matchid}", Chain(s.DeleteMatchHandler(), paramsMiddleware))

	if s.Cfg.Slack.SigningSecret != "" {
		s.Router.Handle("POST /slack/command/stats", Chain(s.StatsCommandHandler(), paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
