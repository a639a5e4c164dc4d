package session

import (
	"context"

	"backend-getyourextreme/internal/profile"
)

// ProfileLoader is satisfied by profile.Service.
type ProfileLoader interface {
	Load(ctx context.Context, userID string) (profile.UserProfile, error)
}

// LoaderFetcher adapts an in-process ProfileLoader to ProfileFetcher.
type LoaderFetcher struct {
	Loader ProfileLoader
}

func (f LoaderFetcher) FetchProfile(ctx context.Context, user User) (profile.UserProfile, error) {
	return f.Loader.Load(ctx, user.ID)
}
