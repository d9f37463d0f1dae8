package profiles

import "context"

// Repository is the persistence port. Implementations must mutate the store
// only on success so a failed save never corrupts previously persisted state.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Profile, error)
	List(ctx context.Context) ([]Profile, error)

	// ReplaceAll swaps the entire store contents atomically (wholesale
	// import). All-or-nothing: on error the previous contents remain.
	ReplaceAll(ctx context.Context, ps []Profile) error
}
