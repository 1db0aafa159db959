package chainassure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Orchestrator sequences chain negotiation, submission, confirmation
// and flag refresh for one verification attempt at a time, and keeps
// the wallet on the target chain as connection state changes.
type Orchestrator struct {
	target     ChainDescriptor
	provider   Provider
	negotiator *Negotiator
	submitter  *Submitter
	watcher    *Watcher
	reader     *Reader
	log        *slog.Logger

	mu            sync.Mutex
	state         FlowState
	failureCode   string
	attemptID     uuid.UUID
	txHash        common.Hash
	conn          ConnectionState
	chainMismatch bool
	verified      bool
	verifiedFor   common.Address
}

// Snapshot is a point-in-time view of the orchestrator for callers that
// render state. ChainMismatch flags the degraded-idle condition after a
// reactive negotiation was declined or timed out; it is surfaced, not
// modal, and retried only on the next connection change.
type Snapshot struct {
	State         FlowState
	FailureCode   string
	AttemptID     uuid.UUID
	TxHash        common.Hash
	ChainMismatch bool
	Verified      bool
}

// NewOrchestrator wires the flow components around a wallet provider, a
// verification contract and a receipt source for the target chain.
// provider may be nil when no wallet is present; every attempt then
// fails with ErrCodeProviderMissing.
func NewOrchestrator(provider Provider, contract VerifierContract, receipts ReceiptSource, target ChainDescriptor, opts ...Option) *Orchestrator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Orchestrator{
		target:     target,
		provider:   provider,
		negotiator: NewNegotiator(provider, opts...),
		submitter:  NewSubmitter(contract, opts...),
		watcher:    NewWatcher(receipts, opts...),
		reader:     NewReader(contract),
		log:        cfg.log,
		state:      StateIdle,
	}
}

// Status returns a snapshot of the current flow state.
func (o *Orchestrator) Status() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:         o.state,
		FailureCode:   o.failureCode,
		AttemptID:     o.attemptID,
		TxHash:        o.txHash,
		ChainMismatch: o.chainMismatch,
		Verified:      o.verifiedLocked(),
	}
}

// Verified reports the on-chain verified flag for the connected
// address. While disconnected or without an account the flag reads
// false rather than stale-true.
func (o *Orchestrator) Verified() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.verifiedLocked()
}

func (o *Orchestrator) verifiedLocked() bool {
	return o.conn.HasAccount() && o.verified && o.verifiedFor == o.conn.Address
}

// Watch consumes connection-state events until ctx is cancelled or the
// channel closes. Cancelling ctx is the unsubscription; after it the
// orchestrator stops reacting to events entirely.
func (o *Orchestrator) Watch(ctx context.Context, events <-chan ConnectionState) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			o.HandleConnectionChange(ctx, ev)
		}
	}
}

// HandleConnectionChange reacts to a connect, disconnect or chain-id
// change. When connected off-target it negotiates the chain switch
// proactively; a declined or timed-out negotiation leaves a degraded
// idle state (Snapshot.ChainMismatch) and is retried only on the next
// event. It never interferes with an in-flight verification attempt.
func (o *Orchestrator) HandleConnectionChange(ctx context.Context, next ConnectionState) {
	o.mu.Lock()
	o.conn = next
	if !next.Connected {
		o.chainMismatch = false
		o.mu.Unlock()
		return
	}
	busy := o.state != StateIdle && !o.state.Terminal()
	o.mu.Unlock()
	if busy {
		return
	}

	if next.ActiveChainID == o.target.ID {
		o.mu.Lock()
		o.chainMismatch = false
		o.mu.Unlock()
		o.refreshVerified(ctx)
		return
	}

	outcome, err := o.negotiator.EnsureChain(ctx, o.target)
	onTarget := err == nil && outcome.OnTarget()
	if err != nil {
		o.log.Warn("reactive chain negotiation failed", "err", err)
	}

	o.mu.Lock()
	o.chainMismatch = !onTarget
	o.mu.Unlock()

	if onTarget {
		o.refreshVerified(ctx)
	}
}

// Verify runs one user-initiated verification attempt: negotiate the
// chain, submit, await the receipt, refresh the flag. Stages run
// strictly in sequence; any stage failure ends the attempt in a
// terminal Failed state with a typed error. A second call while an
// attempt is in flight is rejected, never interleaved.
func (o *Orchestrator) Verify(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateIdle && !o.state.Terminal() {
		o.mu.Unlock()
		return NewFlowError(ErrCodeAttemptInFlight,
			"a verification attempt is already in flight", nil)
	}
	conn := o.conn
	if !conn.HasAccount() {
		o.mu.Unlock()
		return NewFlowError(ErrCodeNotConnected, "wallet not connected", nil)
	}
	o.attemptID = uuid.New()
	o.txHash = common.Hash{}
	o.failureCode = ""
	o.state = StateNegotiatingChain
	id := o.attemptID
	o.mu.Unlock()

	log := o.log.With("attempt", id)

	outcome, err := o.negotiator.EnsureChain(ctx, o.target)
	if err != nil {
		if IsFlowCode(err, ErrCodeProviderMissing) {
			return o.fail(log, NewFlowError(ErrCodeProviderMissing,
				"no wallet provider available", nil))
		}
		return o.fail(log, NewFlowError(ErrCodeChainMismatch,
			"chain negotiation failed",
			map[string]interface{}{"cause": err.Error()}))
	}
	if !outcome.OnTarget() {
		return o.fail(log, NewFlowError(ErrCodeChainMismatch,
			fmt.Sprintf("wallet is not on chain %d (%s)", o.target.ID, outcome),
			map[string]interface{}{"outcome": outcome.String()}))
	}

	// The wallet can change chains out-of-band at any moment; the id
	// observed during negotiation is already stale. Re-read it right
	// before the state-changing call.
	current, err := o.provider.ChainID(ctx)
	if err != nil || current != o.target.ID {
		return o.fail(log, NewFlowError(ErrCodeChainMismatch,
			"active chain moved before submission", nil))
	}

	o.setState(StateSubmitting)
	hash, err := o.submitter.Submit(ctx, conn.Address)
	if err != nil {
		var fe *FlowError
		if errors.As(err, &fe) {
			return o.fail(log, fe)
		}
		return o.fail(log, NewFlowError(ErrCodeProviderError, err.Error(), nil))
	}

	o.mu.Lock()
	o.txHash = hash
	o.state = StateAwaitingReceipt
	o.mu.Unlock()

	if err := o.watcher.Wait(ctx, hash); err != nil {
		if ctx.Err() != nil {
			// Attempt abandoned; the transaction itself cannot be
			// stopped, only its outcome is no longer acted on.
			o.setState(StateIdle)
			log.Info("verification attempt abandoned", "tx", hash)
			return err
		}
		var fe *FlowError
		if errors.As(err, &fe) {
			return o.fail(log, fe)
		}
		return o.fail(log, NewFlowError(ErrCodeTxFailed, err.Error(), nil))
	}

	// Confirmed. The attempt is Done even if the refresh read fails;
	// that failure only degrades the flag, which stays retryable.
	o.setState(StateRefreshing)
	o.refreshVerified(ctx)
	o.setState(StateDone)
	log.Info("verification confirmed", "tx", hash)
	return nil
}

func (o *Orchestrator) setState(s FlowState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) fail(log *slog.Logger, ferr *FlowError) error {
	o.mu.Lock()
	o.state = StateFailed
	o.failureCode = ferr.Code
	o.mu.Unlock()
	log.Warn("verification attempt failed", "code", ferr.Code, "err", ferr.Message)
	return ferr
}

// refreshVerified re-reads the on-chain flag for the connected address.
// A failed read is logged and leaves the prior value in place.
func (o *Orchestrator) refreshVerified(ctx context.Context) {
	o.mu.Lock()
	conn := o.conn
	o.mu.Unlock()
	if !conn.HasAccount() {
		return
	}
	ok, err := o.reader.IsVerified(ctx, conn.Address)
	if err != nil {
		o.log.Warn("verified flag refresh failed, keeping previous value",
			"address", conn.Address, "err", err)
		return
	}
	o.mu.Lock()
	o.verified = ok
	o.verifiedFor = conn.Address
	o.mu.Unlock()
}
