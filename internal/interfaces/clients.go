package interfaces

import (
	"context"

	"github.com/attestlabs/attest/internal/models"
)

// PreviewClient calls the remote preview echo endpoint. The endpoint is
// idempotent and side-effect-free; the server holds the authoritative
// financial snapshot for percentage formulas.
type PreviewClient interface {
	Echo(ctx context.Context, req models.PreviewRequest) (*models.PreviewResult, error)
}
