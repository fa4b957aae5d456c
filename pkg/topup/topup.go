// Package topup verifies an on-chain transfer and credits the account.
package topup

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/metrics"
	"go.uber.org/zap"
)

const MinTxIDLength = 10

var (
	ErrInvalidTxID = errors.New("invalid transaction id")
	ErrNotOpen     = errors.New("top-up is not open")
	ErrBusy        = errors.New("top-up verification already in progress")
)

type Verifier interface {
	TopUp(ctx context.Context, req *accountPkg.TopUpRequest) (string, error)
}

type Flow struct {
	address string
	input   string
	open    bool
	busy    bool

	verifier Verifier
	ui       host.UI
	sched    host.Scheduler
	onDone   func()
	logger   *zap.Logger
}

// NewFlow builds the top-up flow paying to address. onCredited runs after a
// successful verification.
func NewFlow(address string, verifier Verifier, ui host.UI, sched host.Scheduler, onCredited func(), logger *zap.Logger) *Flow {
	if onCredited == nil {
		onCredited = func() {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		address:  address,
		verifier: verifier,
		ui:       ui,
		sched:    sched,
		onDone:   onCredited,
		logger:   logger,
	}
}

func (f *Flow) Open() { f.open = true }

func (f *Flow) Close() {
	f.open = false
	f.input = ""
}

func (f *Flow) IsOpen() bool { return f.open }

func (f *Flow) Busy() bool { return f.busy }

func (f *Flow) Input() string { return f.input }

func (f *Flow) Address() string { return f.address }

func (f *Flow) SetInput(value string) error {
	if !f.open {
		return ErrNotOpen
	}
	f.input = value
	return nil
}

// CopyAddress hands the funding address to the host clipboard.
func (f *Flow) CopyAddress() error {
	if err := f.ui.Copy(f.address); err != nil {
		f.logger.Warn("copy funding address", zap.Error(err))
		return err
	}
	f.ui.Alert("Address Copied!")
	return nil
}

// ValidTxID reports whether txID is long enough to be sent for verification.
func ValidTxID(txID string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(txID)) >= MinTxIDLength
}

// Submit asks the backend to verify the typed transaction id for userID.
// Short ids are rejected locally without a request.
func (f *Flow) Submit(userID int64) error {
	if !f.open {
		return ErrNotOpen
	}
	if f.busy {
		return ErrBusy
	}
	txID := strings.TrimSpace(f.input)
	if !ValidTxID(txID) {
		f.ui.Alert("Invalid TxID")
		return ErrInvalidTxID
	}

	req := &accountPkg.TopUpRequest{UserID: userID, TxID: txID}
	f.busy = true
	f.ui.ShowProgress()
	var (
		msg string
		err error
	)
	f.sched.Go(func(ctx context.Context) {
		msg, err = f.verifier.TopUp(ctx, req)
	}, func() {
		f.busy = false
		f.ui.HideProgress()
		if err != nil {
			metrics.FlowResult("topup", "failed")
			f.logger.Warn("top up", zap.String("tx_id", req.TxID), zap.Error(err))
			f.ui.Alert("Verification Failed: " + common.ErrorText(err))
			return
		}

		metrics.FlowResult("topup", "ok")
		if msg == "" {
			msg = "Top Up Successful!"
		}
		f.ui.Alert(msg)
		f.Close()
		f.onDone()
	})
	return nil
}
