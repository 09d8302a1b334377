package club

import "context"

// ClubStore holds the players known to the service.
type ClubStore interface {
	AddPlayer(ctx context.Context, playerID int64, name string) error
	UpsertPlayers(ctx context.Context, players []PlayerInfo) error
	IsKnownPlayer(ctx context.Context, playerID int64) (bool, error)
	GetAllPlayers(ctx context.Context) ([]PlayerInfo, error)
	GetPlayers(ctx context.Context, playerIDs []int64) ([]PlayerInfo, error)
	RemovePlayer(ctx context.Context, playerID int64) error
}
