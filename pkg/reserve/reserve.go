// Package reserve edits the USDT amount kept out of trading on one exchange.
package reserve

import (
	"context"
	"errors"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNotOpen = errors.New("reserve editor is not open")
	ErrBusy    = errors.New("reserve update already in progress")
)

type Updater interface {
	UpdateReserve(ctx context.Context, req *accountPkg.ReserveRequest) error
}

type Editor struct {
	exchange string
	input    string
	open     bool
	busy     bool

	updater Updater
	ui      host.UI
	sched   host.Scheduler
	onSaved func()
	logger  *zap.Logger
}

// NewEditor builds the editor. onSaved runs after every save attempt,
// successful or not.
func NewEditor(updater Updater, ui host.UI, sched host.Scheduler, onSaved func(), logger *zap.Logger) *Editor {
	if onSaved == nil {
		onSaved = func() {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		updater: updater,
		ui:      ui,
		sched:   sched,
		onSaved: onSaved,
		logger:  logger,
	}
}

// Open shows the editor for exchange with the input pre-filled by current.
func (e *Editor) Open(exchange string, current decimal.Decimal) {
	e.exchange = exchange
	e.input = current.String()
	e.open = true
}

func (e *Editor) Close() {
	e.open = false
	e.exchange = ""
	e.input = ""
}

func (e *Editor) IsOpen() bool { return e.open }

func (e *Editor) Exchange() string { return e.exchange }

func (e *Editor) Input() string { return e.input }

func (e *Editor) Busy() bool { return e.busy }

func (e *Editor) SetInput(value string) error {
	if !e.open {
		return ErrNotOpen
	}
	e.input = value
	return nil
}

// Save sends the typed amount (zero when it does not parse) and closes the
// editor right away. The snapshot refresh follows whatever the outcome.
func (e *Editor) Save(userID int64) error {
	if !e.open {
		return ErrNotOpen
	}
	if e.busy {
		return ErrBusy
	}

	req := &accountPkg.ReserveRequest{
		UserID:   userID,
		Exchange: e.exchange,
		Reserve:  accountPkg.ParseAmount(e.input),
	}
	e.Close()

	e.busy = true
	e.ui.ShowProgress()
	var err error
	e.sched.Go(func(ctx context.Context) {
		err = e.updater.UpdateReserve(ctx, req)
	}, func() {
		e.busy = false
		e.ui.HideProgress()
		if err != nil {
			metrics.FlowResult("reserve", "failed")
			e.logger.Error("update reserve",
				zap.String("exchange", req.Exchange),
				zap.String("reserve", req.Reserve.String()),
				zap.Error(err),
			)
		} else {
			metrics.FlowResult("reserve", "ok")
		}
		e.onSaved()
	})
	return nil
}
