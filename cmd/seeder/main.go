package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/racquet-stats/internal/club"
	"github.com/mauv0809/racquet-stats/internal/database"
	"github.com/mauv0809/racquet-stats/internal/metrics"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/pubsub"
	"github.com/mauv0809/racquet-stats/internal/sport"
	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/mauv0809/racquet-stats/internal/statsstore"
	"github.com/prometheus/client_golang/prometheus"
)

var seedPlayers = []club.PlayerInfo{
	{ID: 1001, Name: "Seeder Player A"},
	{ID: 1002, Name: "Seeder Player B"},
	{ID: 1003, Name: "Seeder Player C"},
	{ID: 1004, Name: "Seeder Player D"},
}

var results = []string{"won", "lost", "tie", "nr"}

func main() {
	numMatches := flag.Int("matches", 200, "number of matches to record")
	flag.Parse()

	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	players := club.New(db)
	if err := players.UpsertPlayers(ctx, seedPlayers); err != nil {
		log.Fatalf("Failed to insert seed players: %s", err)
	}
	log.Info("Ensured seed players exist.", "count", len(seedPlayers))

	engine := stats.NewEngine(statsstore.New(db), sport.Badminton.EngineOptions())
	svc := sport.NewService(sport.Badminton, engine, players,
		metrics.NewService(prometheus.NewRegistry()), pubsub.NewNoop(), notifier.Noop{})

	startTime := time.Now()
	for i := 0; i < *numMatches; i++ {
		in := randomMatch()
		owner := seedPlayers[rand.Intn(len(seedPlayers))].ID
		in = assignParticipants(in, owner)
		if _, err := svc.AddMatch(ctx, owner, in, false); err != nil {
			log.Fatalf("Failed to record seed match %d: %s", i, err)
		}
		if (i+1)%50 == 0 {
			log.Info("Recorded matches", "completed", i+1, "total", *numMatches)
		}
	}
	log.Info("Successfully recorded all seed matches.", "duration", time.Since(startTime))
}

func randomMatch() sport.MatchInput {
	date := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
	games := []sport.GameInput{
		{GameScore: fmt.Sprintf("21-%d", rand.Intn(20))},
		{GameScore: fmt.Sprintf("%d-21", rand.Intn(20))},
		{GameScore: fmt.Sprintf("21-%d", rand.Intn(20))},
	}
	in := sport.MatchInput{
		Category:   "singles",
		Date:       date.Format("2006-01-02"),
		MatchScore: "2-1",
		Result:     results[rand.Intn(len(results))],
		Games:      games,
		Notes:      "seeded",
	}
	if rand.Intn(2) == 0 {
		in.Category = "doubles"
	}
	return in
}

// assignParticipants fills the other seats from the seed players, skipping the owner.
func assignParticipants(in sport.MatchInput, owner int64) sport.MatchInput {
	others := make([]int64, 0, len(seedPlayers)-1)
	for _, p := range seedPlayers {
		if p.ID != owner {
			others = append(others, p.ID)
		}
	}
	rand.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	in.Opponent = &sport.ParticipantInput{ID: others[0]}
	if in.Category == "doubles" {
		in.Opponent2 = &sport.ParticipantInput{ID: others[1]}
		in.Partner = &sport.ParticipantInput{ID: others[2]}
	}
	return in
}
