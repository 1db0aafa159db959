package chainassure

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

// Submitter issues the state-changing verification call. It assumes the
// caller has already confirmed the connection and the active chain; it
// does not re-check either.
type Submitter struct {
	contract VerifierContract
	log      *slog.Logger
}

// NewSubmitter creates a submitter over the verification contract.
func NewSubmitter(contract VerifierContract, opts ...Option) *Submitter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Submitter{contract: contract, log: cfg.log}
}

// Submit dispatches exactly one verifyUser call and returns the
// transaction hash on acceptance by the provider. A rejected submission
// is reported verbatim as a FlowError — declined or provider error —
// and never retried here; the caller decides whether the user retries.
func (s *Submitter) Submit(ctx context.Context, from common.Address) (common.Hash, error) {
	hash, err := s.contract.VerifyUser(ctx, from)
	if err != nil {
		if userRejected(err) {
			return common.Hash{}, NewFlowError(ErrCodeDeclined,
				"user declined the verification transaction", nil)
		}
		return common.Hash{}, NewFlowError(ErrCodeProviderError,
			"verification submission rejected",
			map[string]interface{}{"cause": err.Error()})
	}
	s.log.Info("verification transaction submitted", "from", from, "tx", hash)
	return hash, nil
}
