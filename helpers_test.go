package chainassure

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testChain = ChainDescriptor{
	ID:          11142220,
	DisplayName: "Celo Sepolia Testnet",
	NativeCurrency: NativeCurrency{
		Name:     "Celo",
		Symbol:   "CELO",
		Decimals: 18,
	},
	RPCEndpoints: []string{"https://forno.celo-sepolia.celo-testnet.org"},
	ExplorerURL:  "https://celo-sepolia.blockscout.com",
}

// fakeProvider is a scripted wallet provider. Switch errors are
// consumed one per call; with switchApply set an accepted switch takes
// effect immediately, otherwise the active chain stays where it is.
type fakeProvider struct {
	mu sync.Mutex

	current      uint64
	chainIDQueue []uint64 // scripted reads consumed before current
	chainIDErr   error
	chainIDCalls int

	switchErrs  []error
	switchApply bool
	switchCalls int

	addErr   error
	addCalls int
	added    []ChainDescriptor

	accounts []common.Address
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accounts, nil
}

func (p *fakeProvider) ChainID(ctx context.Context) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chainIDCalls++
	if len(p.chainIDQueue) > 0 {
		v := p.chainIDQueue[0]
		p.chainIDQueue = p.chainIDQueue[1:]
		return v, nil
	}
	if p.chainIDErr != nil {
		return 0, p.chainIDErr
	}
	return p.current, nil
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switchCalls++
	var err error
	if len(p.switchErrs) > 0 {
		err = p.switchErrs[0]
		p.switchErrs = p.switchErrs[1:]
	}
	if err == nil && p.switchApply {
		p.current = chainID
	}
	return err
}

func (p *fakeProvider) AddChain(ctx context.Context, chain ChainDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addCalls++
	p.added = append(p.added, chain)
	return p.addErr
}

// fakeClock advances instantly and records every sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) sleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

// fakeContract is a scripted verification contract.
type fakeContract struct {
	mu sync.Mutex

	verified        bool
	isVerifiedErr   error
	isVerifiedCalls int
	lastQueried     common.Address

	verifyHash  common.Hash
	verifyErr   error
	verifyCalls int
	lastFrom    common.Address
}

func (c *fakeContract) IsVerified(ctx context.Context, account common.Address) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isVerifiedCalls++
	c.lastQueried = account
	if c.isVerifiedErr != nil {
		return false, c.isVerifiedErr
	}
	return c.verified, nil
}

func (c *fakeContract) VerifyUser(ctx context.Context, from common.Address) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifyCalls++
	c.lastFrom = from
	if c.verifyErr != nil {
		return common.Hash{}, c.verifyErr
	}
	return c.verifyHash, nil
}

// receiptStep is one scripted TransactionReceipt response.
type receiptStep struct {
	receipt *types.Receipt
	err     error
}

// fakeReceipts serves scripted receipt lookups; the last step repeats
// once the script is exhausted. An optional gate blocks every lookup
// until the channel is closed.
type fakeReceipts struct {
	mu    sync.Mutex
	steps []receiptStep
	calls int
	gate  chan struct{}
}

func (r *fakeReceipts) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	step := r.steps[len(r.steps)-1]
	if r.calls <= len(r.steps) {
		step = r.steps[r.calls-1]
	}
	return step.receipt, step.err
}

func confirmedReceipt() *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}
}

func revertedReceipt() *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusFailed}
}
