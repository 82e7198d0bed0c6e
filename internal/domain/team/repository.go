package team

import "context"

// Repository describes team persistence needs from use cases.
// Teams are always returned with their roster attached.
type Repository interface {
	ListWithPlayers(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Create(ctx context.Context, item Team) error
	Update(ctx context.Context, item Team) error
	// DeleteWithPlayers removes the team and its roster in one batch.
	DeleteWithPlayers(ctx context.Context, teamID string) (removedPlayers int, err error)
}
