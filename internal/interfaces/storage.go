package interfaces

import (
	"context"

	"github.com/attestlabs/attest/internal/models"
)

// SettingsStore is the persistence contract the host application provides.
// The engine itself never persists anything: practice and client settings
// records are read and written wholesale (no partial-field PATCH
// semantics), and session state never reaches a store at all.
type SettingsStore interface {
	// GetPracticeSettings returns the practice-scope settings record, or
	// nil when the practice has never saved one
	GetPracticeSettings(ctx context.Context) (*models.PracticeSettings, error)

	// SavePracticeSettings overwrites the practice-scope record
	SavePracticeSettings(ctx context.Context, settings *models.PracticeSettings) error

	// GetClientSettings returns a client-scope overlay, or nil when the
	// client has no overrides
	GetClientSettings(ctx context.Context, clientID string) (*models.ClientSettings, error)

	// SaveClientSettings overwrites a client-scope overlay
	SaveClientSettings(ctx context.Context, settings *models.ClientSettings) error
}
