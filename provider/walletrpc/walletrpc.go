// Package walletrpc speaks the EIP-1193 request surface over a wallet
// bridge's JSON-RPC endpoint, such as Frame's local RPC or a
// WalletConnect bridge. Wallet rejections come back as JSON-RPC errors
// with a {code, message} pair; this package maps them onto
// chainassure.ProviderError so the flow can match on the codes.
package walletrpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/safesignal/chainassure"
)

// Client is a wallet provider backed by a JSON-RPC connection.
type Client struct {
	rpc *rpc.Client
}

var _ chainassure.Provider = (*Client)(nil)

// Dial connects to a wallet bridge endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc %q: %w", url, err)
	}
	return &Client{rpc: c}, nil
}

// NewClient wraps an existing RPC connection.
func NewClient(c *rpc.Client) *Client {
	return &Client{rpc: c}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// RequestAccounts asks the wallet to expose its accounts, prompting the
// user on first use.
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, wrapProviderError(err)
	}
	return accounts, nil
}

// ChainID reads the wallet's active chain id.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, wrapProviderError(err)
	}
	return uint64(id), nil
}

// switchChainParam is the wallet_switchEthereumChain wire shape.
type switchChainParam struct {
	ChainID string `json:"chainId"`
}

// addChainParam is the wallet_addEthereumChain wire shape.
type addChainParam struct {
	ChainID           string                     `json:"chainId"`
	ChainName         string                     `json:"chainName"`
	NativeCurrency    chainassure.NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string                   `json:"rpcUrls"`
	BlockExplorerURLs []string                   `json:"blockExplorerUrls,omitempty"`
}

// SwitchChain asks the wallet to activate chainID. The wallet may apply
// an accepted switch asynchronously.
func (c *Client) SwitchChain(ctx context.Context, chainID uint64) error {
	param := switchChainParam{ChainID: hexutil.EncodeUint64(chainID)}
	return wrapProviderError(c.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", param))
}

// AddChain registers a chain the wallet does not know yet.
func (c *Client) AddChain(ctx context.Context, chain chainassure.ChainDescriptor) error {
	param := addChainParam{
		ChainID:        chain.ChainIDHex(),
		ChainName:      chain.DisplayName,
		NativeCurrency: chain.NativeCurrency,
		RPCURLs:        chain.RPCEndpoints,
	}
	if chain.ExplorerURL != "" {
		param.BlockExplorerURLs = []string{chain.ExplorerURL}
	}
	return wrapProviderError(c.rpc.CallContext(ctx, nil, "wallet_addEthereumChain", param))
}

// SendTransaction hands a calldata-only transaction to the wallet for
// signing and broadcast, returning the hash on acceptance.
func (c *Client) SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	param := map[string]interface{}{
		"from": from,
		"to":   to,
		"data": hexutil.Bytes(data),
	}
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", param); err != nil {
		return common.Hash{}, wrapProviderError(err)
	}
	return hash, nil
}

// wrapProviderError converts a JSON-RPC rejection into the typed
// {code, message} pair the negotiation logic matches on. Transport
// errors pass through untouched.
func wrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &chainassure.ProviderError{
			Code:    int64(rpcErr.ErrorCode()),
			Message: rpcErr.Error(),
		}
	}
	return err
}
