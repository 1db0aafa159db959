package chainassure

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Watcher observes a submitted transaction until it reaches a terminal
// state. One handle is watched at a time per verification attempt.
type Watcher struct {
	receipts     ReceiptSource
	clock        Clock
	log          *slog.Logger
	pollInterval time.Duration
}

// NewWatcher creates a watcher over a receipt source.
func NewWatcher(receipts ReceiptSource, opts ...Option) *Watcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Watcher{
		receipts:     receipts,
		clock:        cfg.clock,
		log:          cfg.log,
		pollInterval: cfg.receiptPollInterval,
	}
}

// Wait blocks until txHash is confirmed (nil), reverted (FlowError with
// ErrCodeTxFailed), or ctx is cancelled. Confirmation latency has no
// fixed upper bound, so there is deliberately no deadline here beyond
// the caller's context; cancelling ctx abandons observation without
// stopping the underlying transaction.
func (w *Watcher) Wait(ctx context.Context, txHash common.Hash) error {
	for {
		receipt, err := w.receipts.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusSuccessful {
				w.log.Info("transaction confirmed",
					"tx", txHash, "block", receipt.BlockNumber)
				return nil
			}
			return NewFlowError(ErrCodeTxFailed, "transaction reverted",
				map[string]interface{}{"tx": txHash.Hex()})
		case errors.Is(err, ethereum.NotFound):
			// still pending
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			// Transient lookup failure; the receipt may still land.
			w.log.Debug("receipt lookup failed, retrying",
				"tx", txHash, "err", err)
		}
		if err := w.clock.Sleep(ctx, w.pollInterval); err != nil {
			return err
		}
	}
}
