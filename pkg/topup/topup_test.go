package topup

import (
	"context"
	"errors"
	"testing"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/host/hosttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x6c639cac616254232d9c4d51b1c3646132b46c4a"

type fakeVerifier struct {
	requests []accountPkg.TopUpRequest
	msg      string
	err      error
}

func (f *fakeVerifier) TopUp(_ context.Context, req *accountPkg.TopUpRequest) (string, error) {
	f.requests = append(f.requests, *req)
	return f.msg, f.err
}

type fixture struct {
	flow     *Flow
	ui       *hosttest.UI
	sched    *hosttest.Scheduler
	verifier *fakeVerifier
	credited int
}

func newFixture() *fixture {
	f := &fixture{ui: &hosttest.UI{}, sched: &hosttest.Scheduler{}, verifier: &fakeVerifier{}}
	f.flow = NewFlow(testAddress, f.verifier, f.ui, f.sched, func() { f.credited++ }, nil)
	f.flow.Open()
	return f
}

func TestValidTxID(t *testing.T) {
	cases := map[string]bool{
		"":                 false,
		"0x123":            false,
		"  123456789  ":    false,
		"0123456789":       true,
		" 0xabcdef123456 ": true,
		"ффффффффф":        false,
		"фффффффффф":       true,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidTxID(in), in)
	}
}

func TestFlow_ShortTxIDNoRequest(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.flow.SetInput(" 0x12 "))

	assert.ErrorIs(t, f.flow.Submit(1), ErrInvalidTxID)
	assert.Equal(t, []string{"Invalid TxID"}, f.ui.Alerts)
	assert.Empty(t, f.verifier.requests)
	assert.Zero(t, f.ui.ProgressShown)
	assert.True(t, f.flow.IsOpen())
}

func TestFlow_Success(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"Successfully credited 50 USDT", "Successfully credited 50 USDT"},
		{"", "Top Up Successful!"},
	}
	for _, c := range cases {
		f := newFixture()
		f.verifier.msg = c.msg
		require.NoError(t, f.flow.SetInput("  0xabcdef123456  "))

		require.NoError(t, f.flow.Submit(3))
		assert.True(t, f.ui.Progress)
		assert.ErrorIs(t, f.flow.Submit(3), ErrBusy)

		f.sched.Complete()
		assert.False(t, f.ui.Progress)
		assert.Equal(t, c.want, f.ui.LastAlert())
		assert.False(t, f.flow.IsOpen())
		assert.Equal(t, 1, f.credited)
		require.Len(t, f.verifier.requests, 1)
		assert.Equal(t, accountPkg.TopUpRequest{UserID: 3, TxID: "0xabcdef123456"}, f.verifier.requests[0])
	}
}

func TestFlow_Failure(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&common.BackendError{Status: 400, Detail: "Transaction already used/processed."}, "Verification Failed: Transaction already used/processed."},
		{errors.New("timeout"), "Verification Failed: timeout"},
	}
	for _, c := range cases {
		f := newFixture()
		f.verifier.err = c.err
		require.NoError(t, f.flow.SetInput("0xabcdef123456"))

		require.NoError(t, f.flow.Submit(3))
		f.sched.Complete()

		assert.Equal(t, c.want, f.ui.LastAlert())
		assert.True(t, f.flow.IsOpen())
		assert.Equal(t, "0xabcdef123456", f.flow.Input())
		assert.Zero(t, f.credited)
		assert.False(t, f.flow.Busy())
	}
}

func TestFlow_CopyAddress(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.flow.CopyAddress())
	assert.Equal(t, []string{testAddress}, f.ui.Copied)
	assert.Equal(t, "Address Copied!", f.ui.LastAlert())

	f = newFixture()
	f.ui.CopyErr = errors.New("no clipboard")
	assert.Error(t, f.flow.CopyAddress())
	assert.Empty(t, f.ui.Alerts)
}

func TestFlow_NotOpen(t *testing.T) {
	f := newFixture()
	f.flow.Close()
	assert.ErrorIs(t, f.flow.Submit(1), ErrNotOpen)
	assert.ErrorIs(t, f.flow.SetInput("x"), ErrNotOpen)
}
