// Package preview produces threshold previews with explanatory text
package preview

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/attestlabs/attest/internal/common"
	"github.com/attestlabs/attest/internal/interfaces"
	"github.com/attestlabs/attest/internal/materiality"
	"github.com/attestlabs/attest/internal/models"
)

// Compile-time interface check
var _ interfaces.PreviewService = (*Service)(nil)

// Service implements PreviewService. Edits arrive faster than echo
// round-trips, so live previews carry a monotonically increasing sequence
// number: issuing a new request cancels the in-flight one, and a response
// that is no longer the latest is dropped.
type Service struct {
	client interfaces.PreviewClient
	logger *common.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewService creates a new preview service. A nil client disables the
// remote echo; live previews then compute locally.
func NewService(client interfaces.PreviewClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Preview computes a threshold locally and explains the computation,
// naming any clamping that occurred.
func (s *Service) Preview(ctx context.Context, formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (*models.PreviewResult, error) {
	eval, err := materiality.EvaluateDetail(formula, snapshot)
	if err != nil {
		return nil, err
	}
	return &models.PreviewResult{
		Threshold:   eval.Threshold,
		Explanation: composeExplanation(formula, snapshot, eval),
		Source:      models.PreviewSourceLocal,
	}, nil
}

// PreviewLive echoes the formula off the remote endpoint, last-request-wins.
func (s *Service) PreviewLive(ctx context.Context, formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (*models.PreviewResult, error) {
	if s.client == nil {
		return s.Preview(ctx, formula, snapshot)
	}
	if err := formula.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel() // supersede the in-flight request
	}
	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if seq == s.seq {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	result, err := s.client.Echo(callCtx, requestFor(formula, snapshot))

	s.mu.Lock()
	latest := seq == s.seq
	s.mu.Unlock()

	if !latest {
		s.logger.Debug().Str("request_id", requestID).Msg("Preview superseded, dropping response")
		return nil, models.ErrStalePreview
	}
	if err != nil {
		s.logger.Warn().Str("request_id", requestID).Err(err).Msg("Preview echo failed, degrading to local")
		return s.degrade(ctx, formula, snapshot)
	}
	return result, nil
}

// degrade applies the echo failure policy: fixed formulas are computed
// locally; percentage formulas depend on the server-held snapshot, so the
// result is flagged stale rather than fabricated.
func (s *Service) degrade(ctx context.Context, formula models.MaterialityFormula, snapshot models.FinancialSnapshot) (*models.PreviewResult, error) {
	if formula.Type == models.FormulaFixed {
		return s.Preview(ctx, formula, snapshot)
	}
	return &models.PreviewResult{
		Explanation: "Live preview is unavailable; the displayed threshold may be out of date.",
		Source:      models.PreviewSourceLocal,
		Stale:       true,
	}, nil
}

func requestFor(formula models.MaterialityFormula, snapshot models.FinancialSnapshot) models.PreviewRequest {
	return models.PreviewRequest{
		Formula: formula,
		Revenue: snapshot.Revenue,
		Assets:  snapshot.TotalAssets,
		Equity:  snapshot.TotalEquity,
	}
}
