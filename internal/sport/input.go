package sport

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

// ParticipantInput references a player taking part in a submitted match.
type ParticipantInput struct {
	ID         int64 `json:"id" validate:"required,gt=0"`
	IsExternal bool  `json:"is_external"`
}

// GameInput is the score of one game.
type GameInput struct {
	GameScore string   `json:"game_score" validate:"required,max=20"`
	Time      *float64 `json:"time,omitempty" validate:"omitempty,gte=0"`
}

// MatchInput is a match as submitted by a client, from the owner's side.
type MatchInput struct {
	Category   string            `json:"category" validate:"required"`
	Date       string            `json:"date" validate:"required,matchdate"`
	MatchScore string            `json:"match_score" validate:"required,max=20"`
	Result     string            `json:"result" validate:"required,oneof=won lost tie nr"`
	Notes      string            `json:"notes,omitempty" validate:"max=500"`
	Games      []GameInput       `json:"games" validate:"required,min=1,dive"`
	Opponent   *ParticipantInput `json:"opponent" validate:"required"`
	Opponent2  *ParticipantInput `json:"opponent2,omitempty"`
	Partner    *ParticipantInput `json:"partner,omitempty"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "invalid match: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return stats.ErrValidation }

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC 3339", s)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("matchdate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// validate checks the input against the field rules and the sport's categories.
func (s *Service) validate(in MatchInput) error {
	fields := map[string]string{}

	if err := s.validator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", stats.ErrValidation, err)
		}
		for _, fe := range verrs {
			fields[fieldPath(fe.Namespace())] = describe(fe)
		}
	}

	if in.Category != "" && !slices.Contains(s.cfg.Categories, in.Category) {
		fields["category"] = fmt.Sprintf("must be one of %s", strings.Join(s.cfg.Categories, ", "))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "gt", "gte":
		return "must be at least " + fe.Param()
	case "matchdate":
		return "must be a date (YYYY-MM-DD or RFC 3339)"
	}
	return "failed " + fe.Tag()
}

func toParticipant(p *ParticipantInput) *stats.Participant {
	if p == nil {
		return nil
	}
	return &stats.Participant{ID: p.ID, IsExternal: p.IsExternal}
}

// toRecord converts validated input into the owner's match record.
func toRecord(matchID string, in MatchInput) (stats.MatchRecord, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return stats.MatchRecord{}, fmt.Errorf("%w: %v", stats.ErrValidation, err)
	}
	games := make([]stats.Game, 0, len(in.Games))
	for _, g := range in.Games {
		game := stats.Game{GameScore: g.GameScore}
		if g.Time != nil {
			t := *g.Time
			game.Time = &t
		}
		games = append(games, game)
	}
	return stats.MatchRecord{
		MatchID:    matchID,
		Category:   in.Category,
		Date:       date,
		MatchScore: in.MatchScore,
		Result:     stats.Result(in.Result),
		Notes:      in.Notes,
		Games:      games,
		Opponent:   *toParticipant(in.Opponent),
		Opponent2:  toParticipant(in.Opponent2),
		Partner:    toParticipant(in.Partner),
	}, nil
}
