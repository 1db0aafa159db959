// Package chainassure keeps a connected wallet on the single network an
// application requires and drives a one-shot on-chain verification call
// through submission, confirmation and flag refresh.
package chainassure

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeCurrency describes the fee currency of a chain in the shape
// wallets expect inside a wallet_addEthereumChain request.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainDescriptor is the full registration record for a network: enough
// for a wallet to add the chain when it has never seen it before.
// Descriptors are immutable configuration, defined once (see registry).
type ChainDescriptor struct {
	ID             uint64         `json:"chainId"`
	DisplayName    string         `json:"name"`
	NativeCurrency NativeCurrency `json:"nativeCurrency"`
	RPCEndpoints   []string       `json:"rpc"`
	ExplorerURL    string         `json:"explorer,omitempty"`
}

// ChainIDHex returns the chain id in the 0x-prefixed form wallet
// providers use on the wire.
func (d ChainDescriptor) ChainIDHex() string {
	return hexutil.EncodeUint64(d.ID)
}

// ConnectionState is a snapshot of the wallet connection as reported by
// the connection layer. The orchestrator only reads it and reacts to
// changes; it never owns or mutates it.
type ConnectionState struct {
	Connected     bool
	Address       common.Address // zero when no account is exposed
	ActiveChainID uint64         // 0 when unknown
}

// HasAccount reports whether a usable account address is present.
func (s ConnectionState) HasAccount() bool {
	return s.Connected && s.Address != (common.Address{})
}

// SwitchOutcome is the result of one chain negotiation attempt.
type SwitchOutcome int

const (
	// SwitchUnknown is the zero value, reported alongside hard errors.
	SwitchUnknown SwitchOutcome = iota
	// SwitchAlready means the provider was on the target chain before
	// any switch or add request was issued.
	SwitchAlready
	// SwitchedDirect means a plain switch request converged.
	SwitchedDirect
	// SwitchedAfterAdd means the chain had to be registered first.
	SwitchedAfterAdd
	// SwitchTimedOut means the provider accepted the switch but the
	// active chain never converged within the polling budget.
	SwitchTimedOut
	// SwitchRejected means the provider refused the switch, most
	// commonly because the user declined the wallet prompt.
	SwitchRejected
	// SwitchProviderMissing means no wallet provider was available.
	SwitchProviderMissing
)

// OnTarget reports whether the provider ended the negotiation on the
// target chain.
func (o SwitchOutcome) OnTarget() bool {
	switch o {
	case SwitchAlready, SwitchedDirect, SwitchedAfterAdd:
		return true
	default:
		return false
	}
}

func (o SwitchOutcome) String() string {
	switch o {
	case SwitchAlready:
		return "already"
	case SwitchedDirect:
		return "switched"
	case SwitchedAfterAdd:
		return "switched_after_add"
	case SwitchTimedOut:
		return "timed_out"
	case SwitchRejected:
		return "rejected"
	case SwitchProviderMissing:
		return "provider_missing"
	default:
		return "unknown"
	}
}

// FlowState is the orchestrator's position within one verification
// attempt.
type FlowState int

const (
	StateIdle FlowState = iota
	StateNegotiatingChain
	StateSubmitting
	StateAwaitingReceipt
	StateRefreshing
	StateDone
	StateFailed
)

// Terminal reports whether the state ends an attempt. A new attempt may
// start from Idle or any terminal state.
func (s FlowState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiatingChain:
		return "negotiating_chain"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingReceipt:
		return "awaiting_receipt"
	case StateRefreshing:
		return "refreshing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
