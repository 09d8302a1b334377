package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/racquet-stats/internal/club"
	"github.com/mauv0809/racquet-stats/internal/config"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/sport"
)

type Server struct {
	Sports         map[string]*sport.Service
	Players        club.ClubStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux

	defaultSport string
	validator    *validator.Validate
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type statsRequest struct {
	Stats *sport.MatchInput `json:"stats"`
}

type addMatchResponse struct {
	MatchID string `json:"match_id"`
}

type addPlayerRequest struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,max=100"`
}
