package verifier

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	userAddr     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

type fakeCaller struct {
	out     []byte
	err     error
	lastMsg ethereum.CallMsg
	calls   int
}

func (c *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.calls++
	c.lastMsg = msg
	return c.out, c.err
}

type fakeSender struct {
	hash     common.Hash
	err      error
	lastFrom common.Address
	lastTo   common.Address
	lastData []byte
}

func (s *fakeSender) SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	s.lastFrom = from
	s.lastTo = to
	s.lastData = data
	return s.hash, s.err
}

func boolWord(v bool) []byte {
	out := make([]byte, 32)
	if v {
		out[31] = 1
	}
	return out
}

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

func TestIsVerifiedTrue(t *testing.T) {
	caller := &fakeCaller{out: boolWord(true)}
	b, err := New(contractAddr, caller, nil)
	require.NoError(t, err)

	verified, err := b.IsVerified(context.Background(), userAddr)

	require.NoError(t, err)
	assert.True(t, verified)

	// isVerified(address) selector followed by the padded account.
	require.Len(t, caller.lastMsg.Data, 36)
	assert.Equal(t, selector("isVerified(address)"), caller.lastMsg.Data[:4])
	assert.Equal(t, common.LeftPadBytes(userAddr.Bytes(), 32), caller.lastMsg.Data[4:])
	require.NotNil(t, caller.lastMsg.To)
	assert.Equal(t, contractAddr, *caller.lastMsg.To)
}

func TestIsVerifiedFalse(t *testing.T) {
	b, err := New(contractAddr, &fakeCaller{out: boolWord(false)}, nil)
	require.NoError(t, err)

	verified, err := b.IsVerified(context.Background(), userAddr)

	require.NoError(t, err)
	assert.False(t, verified)
}

func TestIsVerifiedCallFailure(t *testing.T) {
	b, err := New(contractAddr, &fakeCaller{err: errors.New("execution reverted")}, nil)
	require.NoError(t, err)

	_, err = b.IsVerified(context.Background(), userAddr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "call isVerified")
}

func TestIsVerifiedMalformedReturn(t *testing.T) {
	b, err := New(contractAddr, &fakeCaller{out: []byte{0x01}}, nil)
	require.NoError(t, err)

	_, err = b.IsVerified(context.Background(), userAddr)

	require.Error(t, err)
}

func TestVerifyUserSendsCalldataOnlyTransaction(t *testing.T) {
	hash := common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001")
	sender := &fakeSender{hash: hash}
	b, err := New(contractAddr, nil, sender)
	require.NoError(t, err)

	got, err := b.VerifyUser(context.Background(), userAddr)

	require.NoError(t, err)
	assert.Equal(t, hash, got)
	assert.Equal(t, userAddr, sender.lastFrom)
	assert.Equal(t, contractAddr, sender.lastTo)
	// verifyUser() takes no arguments; the calldata is the bare selector.
	assert.Equal(t, selector("verifyUser()"), sender.lastData)
}

func TestVerifyUserSenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("nonce too low")}
	b, err := New(contractAddr, nil, sender)
	require.NoError(t, err)

	_, err = b.VerifyUser(context.Background(), userAddr)

	require.Error(t, err)
}

func TestAddress(t *testing.T) {
	b, err := New(contractAddr, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, contractAddr, b.Address())
}
