package chainassure

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Reader derives the verified flag from chain state. The flag is never
// cached across reads: chain state is treated as always stale until
// reread.
type Reader struct {
	contract VerifierContract
}

// NewReader creates a reader over the verification contract.
func NewReader(contract VerifierContract) *Reader {
	return &Reader{contract: contract}
}

// IsVerified reads the on-chain verified flag for account.
func (r *Reader) IsVerified(ctx context.Context, account common.Address) (bool, error) {
	return r.contract.IsVerified(ctx, account)
}
