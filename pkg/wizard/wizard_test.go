package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/host/hosttest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnector struct {
	requests []accountPkg.ConnectRequest
	err      error
}

func (f *fakeConnector) Connect(_ context.Context, req *accountPkg.ConnectRequest) error {
	f.requests = append(f.requests, *req)
	return f.err
}

type fixture struct {
	wiz       *Wizard
	ui        *hosttest.UI
	sched     *hosttest.Scheduler
	conn      *fakeConnector
	refreshes int
}

func newFixture() *fixture {
	f := &fixture{ui: &hosttest.UI{}, sched: &hosttest.Scheduler{}, conn: &fakeConnector{}}
	f.wiz = New(f.conn, f.ui, f.sched, OnConnected(func() { f.refreshes++ }))
	return f
}

func (f *fixture) toCredentials(t *testing.T, strategy accountPkg.Strategy, exchange string) {
	t.Helper()
	f.wiz.Open()
	require.NoError(t, f.wiz.SelectStrategy(strategy))
	require.NoError(t, f.wiz.SelectExchange(exchange))
}

func TestExchangesFor(t *testing.T) {
	cases := []struct {
		strategy accountPkg.Strategy
		want     []string
	}{
		{accountPkg.StrategyCGT, []string{"okx"}},
		{accountPkg.StrategyBroBot, []string{"binance", "bybit", "bingx"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExchangesFor(c.strategy), c.strategy)
	}
}

func TestExchangesFor_Partition(t *testing.T) {
	seen := map[string]int{}
	for _, s := range accountPkg.Strategies {
		for _, ex := range ExchangesFor(s) {
			seen[ex]++
		}
	}
	for _, ex := range accountPkg.SupportedExchanges {
		assert.Equal(t, 1, seen[ex], ex)
	}
}

func TestPassphraseVisible(t *testing.T) {
	for _, ex := range accountPkg.SupportedExchanges {
		assert.Equal(t, ex == "okx", PassphraseVisible(ex), ex)
	}
}

func TestWizard_Flow(t *testing.T) {
	f := newFixture()
	assert.Equal(t, StepClosed, f.wiz.Step())

	f.wiz.Open()
	assert.Equal(t, StepSelectStrategy, f.wiz.Step())

	assert.ErrorIs(t, f.wiz.SelectExchange("okx"), ErrInvalidStep)
	assert.ErrorIs(t, f.wiz.SelectStrategy("spot"), ErrUnknownStrategy)

	require.NoError(t, f.wiz.SelectStrategy(accountPkg.StrategyCGT))
	assert.Equal(t, StepSelectExchange, f.wiz.Step())

	view := f.wiz.View()
	for _, opt := range view.Exchanges {
		assert.Equal(t, opt.Name == "okx", opt.Visible, opt.Name)
	}

	assert.ErrorIs(t, f.wiz.SelectExchange("binance"), ErrExchangeNotAllowed)
	require.NoError(t, f.wiz.SelectExchange("OKX"))
	assert.Equal(t, StepEnterCredentials, f.wiz.Step())

	view = f.wiz.View()
	assert.Equal(t, "Spot", view.Permission)
	assert.Equal(t, accountPkg.APIManagementLink("okx"), view.Link)
	require.Len(t, view.Fields, 4)
}

func TestWizard_PasswordHiddenForFutures(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyBroBot, "bybit")

	assert.ErrorIs(t, f.wiz.SetField(FieldPassword, "p"), ErrFieldHidden)
	view := f.wiz.View()
	assert.Equal(t, "Futures", view.Permission)
	for _, fv := range view.Fields {
		assert.NotEqual(t, FieldPassword, fv.Field)
	}
}

func TestWizard_SecretsNotInView(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyCGT, "okx")
	require.NoError(t, f.wiz.SetField(FieldAPIKey, "my-key"))
	require.NoError(t, f.wiz.SetField(FieldReserve, "150"))

	for _, fv := range f.wiz.View().Fields {
		switch fv.Field {
		case FieldAPIKey:
			assert.True(t, fv.Filled)
			assert.Empty(t, fv.Value)
		case FieldReserve:
			assert.Equal(t, "150", fv.Value)
		default:
			assert.False(t, fv.Filled)
		}
	}
}

func TestWizard_OpenResets(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyCGT, "okx")
	require.NoError(t, f.wiz.SetField(FieldAPIKey, "k"))

	f.wiz.Open()
	view := f.wiz.View()
	assert.Equal(t, StepSelectStrategy, view.Step)
	for _, opt := range view.Strategies {
		assert.False(t, opt.Selected)
	}
	assert.Empty(t, view.Exchanges)
	assert.Equal(t, Form{}, f.wiz.form)
}

func TestWizard_SubmitSuccess(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyCGT, "okx")
	require.NoError(t, f.wiz.SetField(FieldAPIKey, "key"))
	require.NoError(t, f.wiz.SetField(FieldSecret, "secret"))
	require.NoError(t, f.wiz.SetField(FieldPassword, "pass"))
	require.NoError(t, f.wiz.SetField(FieldReserve, "150 usdt"))

	require.NoError(t, f.wiz.Submit(99))
	assert.True(t, f.ui.Progress)
	assert.True(t, f.wiz.Busy())
	assert.ErrorIs(t, f.wiz.Submit(99), ErrBusy)

	require.Len(t, f.conn.requests, 1)
	req := f.conn.requests[0]
	assert.Equal(t, int64(99), req.UserID)
	assert.Equal(t, "okx", req.Exchange)
	assert.Equal(t, "pass", req.Password)
	assert.Equal(t, accountPkg.StrategyCGT, req.Strategy)
	assert.True(t, req.Reserve.Equal(decimal.NewFromInt(150)))

	f.sched.Complete()
	assert.False(t, f.ui.Progress)
	assert.Equal(t, StepSuccess, f.wiz.Step())
	assert.Empty(t, f.ui.Alerts)
	assert.Equal(t, Form{}, f.wiz.form)
	assert.Empty(t, f.wiz.state.Secret)

	require.Len(t, f.sched.Timers, 1)
	assert.Equal(t, DefaultSuccessDelay, f.sched.Timers[0].Delay)
	assert.Equal(t, 0, f.refreshes)

	f.sched.Fire()
	assert.Equal(t, StepClosed, f.wiz.Step())
	assert.Equal(t, 1, f.refreshes)
}

func TestWizard_PasswordDroppedForFutures(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyBroBot, "binance")
	require.NoError(t, f.wiz.Submit(1))
	assert.Empty(t, f.conn.requests[0].Password)
	assert.True(t, f.conn.requests[0].Reserve.IsZero())
}

func TestWizard_SubmitFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "backend",
			err:  &common.BackendError{Status: 400, Detail: "Invalid API Keys or Connection Failed"},
			want: "Connection Failed: Invalid API Keys or Connection Failed",
		},
		{
			name: "transport",
			err:  errors.New("dial tcp: refused"),
			want: "Error: dial tcp: refused",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture()
			f.conn.err = c.err
			f.toCredentials(t, accountPkg.StrategyBroBot, "bingx")
			require.NoError(t, f.wiz.SetField(FieldAPIKey, "key"))
			require.NoError(t, f.wiz.SetField(FieldReserve, "10"))

			require.NoError(t, f.wiz.Submit(5))
			f.sched.Complete()

			assert.Equal(t, c.want, f.ui.LastAlert())
			assert.Equal(t, StepEnterCredentials, f.wiz.Step())
			assert.Equal(t, "key", f.wiz.form.APIKey)
			assert.Equal(t, "10", f.wiz.form.Reserve)
			assert.False(t, f.wiz.Busy())
			assert.Empty(t, f.sched.Timers)

			require.NoError(t, f.wiz.Submit(5))
			assert.Len(t, f.conn.requests, 2)
		})
	}
}

func TestWizard_StaleCompletionIgnored(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyBroBot, "binance")
	require.NoError(t, f.wiz.Submit(1))

	f.wiz.Close()
	f.sched.Complete()

	assert.Equal(t, StepClosed, f.wiz.Step())
	assert.False(t, f.ui.Progress)
	assert.Empty(t, f.ui.Alerts)

	f.wiz.Open()
	f.sched.Fire()
	assert.Equal(t, StepSelectStrategy, f.wiz.Step())
	assert.Equal(t, 1, f.refreshes)
}

func TestWizard_StaleFailureIsSilent(t *testing.T) {
	f := newFixture()
	f.conn.err = errors.New("dial tcp: timeout")
	f.toCredentials(t, accountPkg.StrategyBroBot, "binance")
	require.NoError(t, f.wiz.Submit(1))

	f.wiz.Close()
	f.sched.Complete()

	assert.Empty(t, f.ui.Alerts)
	assert.Empty(t, f.sched.Timers)
	assert.Equal(t, 0, f.refreshes)
}

func TestWizard_ClosedDuringSuccessStillRefreshes(t *testing.T) {
	f := newFixture()
	f.toCredentials(t, accountPkg.StrategyBroBot, "binance")
	require.NoError(t, f.wiz.Submit(1))
	f.sched.Complete()
	require.Equal(t, StepSuccess, f.wiz.Step())

	f.wiz.Close()
	f.sched.Fire()
	assert.Equal(t, StepClosed, f.wiz.Step())
	assert.Equal(t, 1, f.refreshes)
}

func TestWizard_ReopenCancelsSuccessTimer(t *testing.T) {
	f := newFixture()
	f.wiz = New(f.conn, f.ui, f.sched, WithSuccessDelay(time.Second), OnConnected(func() { f.refreshes++ }))
	f.toCredentials(t, accountPkg.StrategyBroBot, "binance")
	require.NoError(t, f.wiz.Submit(1))
	f.sched.Complete()
	require.Len(t, f.sched.Timers, 1)
	assert.Equal(t, time.Second, f.sched.Timers[0].Delay)

	f.wiz.Open()
	f.sched.Fire()
	assert.Equal(t, StepSelectStrategy, f.wiz.Step())
	assert.Equal(t, 1, f.refreshes)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StepClosed, StepSelectStrategy))
	assert.False(t, CanTransition(StepClosed, StepEnterCredentials))
	assert.False(t, CanTransition(StepSelectStrategy, StepEnterCredentials))
	assert.True(t, CanTransition(StepSuccess, StepClosed))
	assert.Equal(t, "enter_credentials", StepEnterCredentials.String())
}
