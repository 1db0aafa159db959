package chainassure

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Provider is the injected wallet's request surface, the EIP-1193
// subset this flow consumes. Every method may suspend on a user prompt
// and reject with a *ProviderError carrying the wallet's {code,
// message} pair.
//
// The active chain is global, externally mutable state: the user can
// switch it at any time outside this flow. Callers must re-read ChainID
// at each decision point rather than trust a value captured earlier.
type Provider interface {
	// RequestAccounts asks the wallet to expose its accounts, prompting
	// the user on first use.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// ChainID reads the provider's active chain id directly.
	ChainID(ctx context.Context) (uint64, error)

	// SwitchChain asks the wallet to activate the given chain. A nil
	// return means the request was accepted; the wallet may still apply
	// it asynchronously.
	SwitchChain(ctx context.Context, chainID uint64) error

	// AddChain registers a chain the wallet does not know yet.
	AddChain(ctx context.Context, chain ChainDescriptor) error
}

// ReceiptSource looks up transaction receipts on the target network.
// *ethclient.Client satisfies it; a pending transaction is reported as
// ethereum.NotFound.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// VerifierContract is the opaque verification contract boundary:
// a read-only flag per address and a single state-changing call.
type VerifierContract interface {
	// IsVerified reads the verified flag for an address. Pure read, no
	// side effects, safe to call redundantly.
	IsVerified(ctx context.Context, account common.Address) (bool, error)

	// VerifyUser dispatches the state-changing verification call signed
	// by from's wallet and returns the transaction hash on acceptance
	// by the provider, not on confirmation.
	VerifyUser(ctx context.Context, from common.Address) (common.Hash, error)
}

// Clock abstracts time for the bounded polling loops so tests can run
// them without wall-clock delay.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is cancelled, returning ctx's
	// error in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
