package chainassure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Negotiator brings the wallet provider's active chain onto a target
// chain, registering the chain with the wallet when it is unknown and
// polling until the switch is observed.
type Negotiator struct {
	provider     Provider
	clock        Clock
	log          *slog.Logger
	pollInterval time.Duration
	pollAttempts int
}

// NewNegotiator creates a negotiator for the given provider. A nil
// provider is allowed and makes every negotiation fail with
// ErrCodeProviderMissing.
func NewNegotiator(provider Provider, opts ...Option) *Negotiator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Negotiator{
		provider:     provider,
		clock:        cfg.clock,
		log:          cfg.log,
		pollInterval: cfg.switchPollInterval,
		pollAttempts: cfg.switchPollAttempts,
	}
}

// EnsureChain makes the provider's active chain equal target.ID.
//
// The outcome is on-target (see SwitchOutcome.OnTarget) iff the
// provider reports the target chain when the call settles — never a
// false positive. SwitchRejected and SwitchTimedOut are ordinary
// outcomes with a nil error: they need user action, not a crash. A
// non-nil error is returned only for a missing provider or an
// unexpected provider failure.
//
// When the provider already reports the target chain, no switch or add
// request is issued at all: some wallets surface a disruptive prompt
// even for a no-op switch.
func (n *Negotiator) EnsureChain(ctx context.Context, target ChainDescriptor) (SwitchOutcome, error) {
	if n.provider == nil {
		return SwitchProviderMissing, NewFlowError(ErrCodeProviderMissing,
			"no wallet provider available", nil)
	}

	// Read the live chain id, not a cached connection snapshot.
	current, err := n.provider.ChainID(ctx)
	if err != nil {
		return SwitchUnknown, fmt.Errorf("read active chain id: %w", err)
	}
	if current == target.ID {
		return SwitchAlready, nil
	}

	afterAdd := false
	err = n.provider.SwitchChain(ctx, target.ID)
	if code, ok := providerCode(err); ok && code == ProviderCodeUnrecognizedChain {
		if addErr := n.provider.AddChain(ctx, target); addErr != nil {
			if !chainAlreadyRegistered(addErr) {
				return SwitchUnknown, fmt.Errorf("add chain %d: %w", target.ID, addErr)
			}
			n.log.Debug("add chain reported an existing registration",
				"chain", target.ID, "err", addErr)
		}
		afterAdd = true
		err = n.provider.SwitchChain(ctx, target.ID)
	}
	if err != nil {
		if userRejected(err) {
			n.log.Info("user declined chain switch", "chain", target.ID)
		} else {
			n.log.Warn("chain switch refused", "chain", target.ID, "err", err)
		}
		return SwitchRejected, nil
	}

	// The provider accepted the switch but may apply it asynchronously.
	for attempt := 1; attempt <= n.pollAttempts; attempt++ {
		current, err = n.provider.ChainID(ctx)
		if err == nil && current == target.ID {
			if afterAdd {
				return SwitchedAfterAdd, nil
			}
			return SwitchedDirect, nil
		}
		if attempt == n.pollAttempts {
			break
		}
		if sleepErr := n.clock.Sleep(ctx, n.pollInterval); sleepErr != nil {
			return SwitchUnknown, sleepErr
		}
	}
	n.log.Warn("chain switch accepted but never observed",
		"chain", target.ID, "attempts", n.pollAttempts)
	return SwitchTimedOut, nil
}

// chainAlreadyRegistered reports whether an add-chain failure means the
// chain already exists in the wallet under another registration, which
// is as good as a successful add.
//
// Wallets bury this condition in the message text of a generic -32603
// error; the wording is not a stable contract across vendors. Every
// such heuristic lives in this one predicate so it can be hardened
// per-provider without touching the negotiation itself.
func chainAlreadyRegistered(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != ProviderCodeInternal {
		return false
	}
	msg := strings.ToLower(pe.Message)
	return strings.Contains(msg, "already exist") ||
		strings.Contains(msg, "already added") ||
		strings.Contains(msg, "same id") ||
		strings.Contains(msg, "same chainid")
}
