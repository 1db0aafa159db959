package chainassure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAlertRequiresConnection(t *testing.T) {
	o := newTestOrchestrator(&fakeProvider{current: testChain.ID}, &fakeContract{},
		&fakeReceipts{steps: []receiptStep{{receipt: confirmedReceipt()}}})

	err := o.SendAlert(context.Background(), Alert{Lat: 52.52, Lon: 13.405})

	require.Error(t, err)
	assert.True(t, IsFlowCode(err, ErrCodeNotConnected))
}

func TestSendAlertRequiresVerification(t *testing.T) {
	o := newTestOrchestrator(&fakeProvider{current: testChain.ID}, &fakeContract{},
		&fakeReceipts{steps: []receiptStep{{receipt: confirmedReceipt()}}})
	o.conn = connectedState(testChain.ID)

	err := o.SendAlert(context.Background(), Alert{Lat: 52.52, Lon: 13.405})

	require.Error(t, err)
	assert.True(t, IsFlowCode(err, ErrCodeNotVerified))
}

func TestSendAlertWhenVerified(t *testing.T) {
	p := &fakeProvider{current: testChain.ID}
	contract := &fakeContract{verified: true}
	o := newTestOrchestrator(p, contract, &fakeReceipts{steps: []receiptStep{{receipt: confirmedReceipt()}}})

	o.HandleConnectionChange(context.Background(), connectedState(testChain.ID))
	require.True(t, o.Verified())

	err := o.SendAlert(context.Background(), Alert{Lat: 52.52, Lon: 13.405, Geohash: "u33db"})

	assert.NoError(t, err)
}
