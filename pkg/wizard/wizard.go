// Package wizard implements the four-step exchange connection wizard:
// strategy, exchange, credentials, success.
package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultSuccessDelay = 2 * time.Second

var (
	ErrInvalidStep        = errors.New("action not allowed at this step")
	ErrBusy               = errors.New("connection request already in progress")
	ErrUnknownStrategy    = errors.New("unknown strategy")
	ErrExchangeNotAllowed = errors.New("exchange not available for the selected strategy")
	ErrFieldHidden        = errors.New("field is not shown for the selected exchange")
	ErrUnknownField       = errors.New("unknown field")
)

type Field string

const (
	FieldAPIKey   Field = "api_key"
	FieldSecret   Field = "secret"
	FieldPassword Field = "password"
	FieldReserve  Field = "reserve"
)

// Fields of the credentials form in display order.
var Fields = []Field{FieldAPIKey, FieldSecret, FieldPassword, FieldReserve}

// Secret reports whether the field value must never be shown back.
func (f Field) Secret() bool {
	return f != FieldReserve
}

type State struct {
	Step        Step
	Strategy    accountPkg.Strategy
	Exchange    string
	ReserveInit decimal.Decimal
	APIKey      string
	Secret      string
	Password    string
}

// Form holds raw input of the credentials step.
type Form struct {
	APIKey   string
	Secret   string
	Password string
	Reserve  string
}

func (f *Form) get(field Field) string {
	switch field {
	case FieldAPIKey:
		return f.APIKey
	case FieldSecret:
		return f.Secret
	case FieldPassword:
		return f.Password
	case FieldReserve:
		return f.Reserve
	}
	return ""
}

type Connector interface {
	Connect(ctx context.Context, req *accountPkg.ConnectRequest) error
}

type Option func(*Wizard)

func WithSuccessDelay(d time.Duration) Option {
	return func(w *Wizard) { w.delay = d }
}

// OnConnected is called once per successful connect, after the success delay.
func OnConnected(fn func()) Option {
	return func(w *Wizard) { w.onConnected = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wizard) { w.logger = logger }
}

type Wizard struct {
	state   State
	form    Form
	busy    bool
	session int

	connector   Connector
	ui          host.UI
	sched       host.Scheduler
	delay       time.Duration
	onConnected func()
	logger      *zap.Logger
}

func New(connector Connector, ui host.UI, sched host.Scheduler, opts ...Option) *Wizard {
	w := &Wizard{
		connector:   connector,
		ui:          ui,
		sched:       sched,
		delay:       DefaultSuccessDelay,
		onConnected: func() {},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ExchangesFor is the exchange choice offered for strategy: spot (cgt) runs on
// OKX only, every other strategy on every exchange except OKX.
func ExchangesFor(strategy accountPkg.Strategy) []string {
	allowed := make([]string, 0, len(accountPkg.SupportedExchanges))
	for _, ex := range accountPkg.SupportedExchanges {
		if (ex == accountPkg.ExchangeOKX) == strategy.IsSpot() {
			allowed = append(allowed, ex)
		}
	}
	return allowed
}

func PassphraseVisible(exchange string) bool {
	return strings.EqualFold(exchange, accountPkg.ExchangeOKX)
}

func (w *Wizard) Step() Step {
	return w.state.Step
}

func (w *Wizard) IsOpen() bool {
	return w.state.Step != StepClosed
}

func (w *Wizard) Busy() bool {
	return w.busy
}

// Open (re)starts the wizard at the strategy step with a clean state.
func (w *Wizard) Open() {
	w.session++
	w.state = State{Step: StepSelectStrategy}
	w.form = Form{}
}

// Close discards everything entered in this session.
func (w *Wizard) Close() {
	w.session++
	w.state = State{Step: StepClosed}
	w.form = Form{}
}

func (w *Wizard) SelectStrategy(strategy accountPkg.Strategy) error {
	if err := w.transition(StepSelectExchange); err != nil {
		return err
	}
	if !knownStrategy(strategy) {
		return ErrUnknownStrategy
	}
	w.state.Strategy = strategy
	w.state.Step = StepSelectExchange
	return nil
}

func (w *Wizard) SelectExchange(exchange string) error {
	if err := w.transition(StepEnterCredentials); err != nil {
		return err
	}
	exchange = strings.ToLower(exchange)
	if !contains(ExchangesFor(w.state.Strategy), exchange) {
		return ErrExchangeNotAllowed
	}
	w.state.Exchange = exchange
	w.state.Step = StepEnterCredentials
	return nil
}

func (w *Wizard) SetField(field Field, value string) error {
	if w.state.Step != StepEnterCredentials {
		return ErrInvalidStep
	}
	switch field {
	case FieldAPIKey:
		w.form.APIKey = value
	case FieldSecret:
		w.form.Secret = value
	case FieldPassword:
		if !PassphraseVisible(w.state.Exchange) {
			return ErrFieldHidden
		}
		w.form.Password = value
	case FieldReserve:
		w.form.Reserve = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Submit sends the connect request for userID. The outcome arrives later on
// the UI context: success moves to the success step and, after the success
// delay, closes the wizard; failure keeps the credentials step and alerts.
func (w *Wizard) Submit(userID int64) error {
	if w.state.Step != StepEnterCredentials {
		return ErrInvalidStep
	}
	if w.busy {
		return ErrBusy
	}

	w.state.APIKey = w.form.APIKey
	w.state.Secret = w.form.Secret
	w.state.Password = ""
	if PassphraseVisible(w.state.Exchange) {
		w.state.Password = w.form.Password
	}
	w.state.ReserveInit = accountPkg.ParseAmount(w.form.Reserve)

	req := &accountPkg.ConnectRequest{
		UserID:   userID,
		Exchange: w.state.Exchange,
		APIKey:   w.state.APIKey,
		Secret:   w.state.Secret,
		Password: w.state.Password,
		Strategy: w.state.Strategy,
		Reserve:  w.state.ReserveInit,
	}

	w.busy = true
	w.ui.ShowProgress()
	session := w.session
	var err error
	w.sched.Go(func(ctx context.Context) {
		err = w.connector.Connect(ctx, req)
	}, func() {
		w.finishSubmit(session, err)
	})
	return nil
}

func (w *Wizard) finishSubmit(session int, err error) {
	w.busy = false
	w.ui.HideProgress()
	w.state.APIKey, w.state.Secret, w.state.Password = "", "", ""

	stale := session != w.session
	if err != nil {
		metrics.FlowResult("connect", "failed")
		w.logger.Warn("connect exchange",
			zap.String("exchange", w.state.Exchange),
			zap.String("strategy", string(w.state.Strategy)),
			zap.Bool("stale", stale),
			zap.Error(err),
		)
		if stale {
			return
		}
		if common.IsBackendError(err) {
			w.ui.Alert("Connection Failed: " + common.ErrorText(err))
		} else {
			w.ui.Alert("Error: " + err.Error())
		}
		return
	}

	metrics.FlowResult("connect", "ok")
	if stale {
		w.logger.Info("connect finished after wizard was closed")
	} else {
		w.state.Step = StepSuccess
		w.form = Form{}
	}
	// One refresh per success, even if the wizard was closed meanwhile.
	w.sched.After(w.delay, func() {
		if session == w.session && w.state.Step == StepSuccess {
			w.Close()
		}
		w.onConnected()
	})
}

func (w *Wizard) transition(to Step) error {
	if !CanTransition(w.state.Step, to) {
		return ErrInvalidStep
	}
	return nil
}

func knownStrategy(strategy accountPkg.Strategy) bool {
	for _, s := range accountPkg.Strategies {
		if s == strategy {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
