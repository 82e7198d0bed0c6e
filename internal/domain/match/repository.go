package match

import "context"

// Repository describes match persistence needs from use cases.
// Matches are always returned with their goals and cards attached.
type Repository interface {
	ListWithEvents(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	CreateBatch(ctx context.Context, items []Match) error
	// Update persists the scalar fields of a match; goals and cards are untouched.
	Update(ctx context.Context, item Match) error
	AddGoal(ctx context.Context, item Goal) error
	AddCard(ctx context.Context, item Card) error
	// DeleteAll removes every match together with its goals and cards.
	DeleteAll(ctx context.Context) (removed int, err error)
	// ReplaceAll is DeleteAll followed by CreateBatch as one atomic step.
	ReplaceAll(ctx context.Context, items []Match) (removed int, err error)
	// DeleteByTeam removes the matches a team plays in together with their goals and cards.
	DeleteByTeam(ctx context.Context, teamID string) (removed int, err error)
}
