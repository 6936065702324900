package storage

import (
	"context"
	"fmt"

	"trendmoni/models"
)

// ProfileStore is the keyed document store holding one company profile per
// user identity. Implementations are expected to make each call atomic.
type ProfileStore interface {
	// GetProfile returns the stored profile, or (nil, nil) if none exists.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// PutProfile replaces the whole document.
	PutProfile(ctx context.Context, userID string, p models.Profile) error
	// MergeProfile shallow-merges patch into the document, creating it if absent.
	MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) error
	Close() error
}

// ProfileLister enumerates every profile of the application.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

// SeriesWriter is the interface for exporting growth series.
type SeriesWriter interface {
	WriteDataset(ds *models.Dataset) error
	Close() error
}

// DocumentPath is the logical key of a user's profile document.
func DocumentPath(appID, userID string) string {
	return fmt.Sprintf("artifacts/%s/users/%s/companyData/profile", appID, userID)
}
