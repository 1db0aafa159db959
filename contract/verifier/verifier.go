// Package verifier binds the verification contract: a read-only
// per-address flag and a single state-changing call. Reads go through a
// node connection; the write goes through the wallet provider so the
// user's wallet signs it.
package verifier

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/safesignal/chainassure"
)

const verifierABIJSON = `[
	{"type":"function","name":"isVerified","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"verifyUser","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

// ContractCaller executes read-only contract calls. *ethclient.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TxSender submits a calldata-only transaction signed by the from
// address's wallet. *walletrpc.Client satisfies it.
type TxSender interface {
	SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error)
}

// Binding is the ABI-level binding of one deployed verification
// contract.
type Binding struct {
	address common.Address
	abi     abi.ABI
	caller  ContractCaller
	sender  TxSender
}

var _ chainassure.VerifierContract = (*Binding)(nil)

// New creates a binding for the contract at address. caller serves
// isVerified reads; sender carries the verifyUser transaction.
func New(address common.Address, caller ContractCaller, sender TxSender) (*Binding, error) {
	parsed, err := abi.JSON(strings.NewReader(verifierABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse verifier abi: %w", err)
	}
	return &Binding{
		address: address,
		abi:     parsed,
		caller:  caller,
		sender:  sender,
	}, nil
}

// Address returns the bound contract address.
func (b *Binding) Address() common.Address {
	return b.address
}

// IsVerified reads the verified flag for account at the latest block.
func (b *Binding) IsVerified(ctx context.Context, account common.Address) (bool, error) {
	data, err := b.abi.Pack("isVerified", account)
	if err != nil {
		return false, fmt.Errorf("pack isVerified: %w", err)
	}
	out, err := b.caller.CallContract(ctx, ethereum.CallMsg{To: &b.address, Data: data}, nil)
	if err != nil {
		return false, fmt.Errorf("call isVerified: %w", err)
	}
	results, err := b.abi.Unpack("isVerified", out)
	if err != nil {
		return false, fmt.Errorf("unpack isVerified: %w", err)
	}
	verified, ok := results[0].(bool)
	if !ok {
		return false, fmt.Errorf("isVerified returned unexpected type %T", results[0])
	}
	return verified, nil
}

// VerifyUser submits the verifyUser call from the given address. The
// contract verifies msg.sender, so from must be the address being
// verified.
func (b *Binding) VerifyUser(ctx context.Context, from common.Address) (common.Hash, error) {
	data, err := b.abi.Pack("verifyUser")
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack verifyUser: %w", err)
	}
	return b.sender.SendTransaction(ctx, from, b.address, data)
}
