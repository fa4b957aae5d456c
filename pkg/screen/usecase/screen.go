package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/locale"
	"github.com/KeynihAV/aladdin/pkg/reserve"
	screenPkg "github.com/KeynihAV/aladdin/pkg/screen"
	"github.com/KeynihAV/aladdin/pkg/topup"
	"github.com/KeynihAV/aladdin/pkg/wizard"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownEvent    = errors.New("unknown event")
	ErrUnknownLanguage = errors.New("unsupported language")
	ErrNoFocus         = errors.New("no input field is focused")
)

// Backend is everything the screen asks of the backend API.
type Backend interface {
	Snapshot(ctx context.Context, userID int64) (*accountPkg.Snapshot, error)
	SaveLanguage(ctx context.Context, userID int64, language string) error
	wizard.Connector
	reserve.Updater
	topup.Verifier
}

// Painter shows frames and images to the user.
type Painter interface {
	Paint(ins []screenPkg.Instruction)
	SendImage(name string, png []byte)
}

type Settings struct {
	FundingAddress  string
	SuccessDelay    time.Duration
	DefaultLanguage locale.Lang
}

type route struct {
	component string
	action    string
}

type handler func(ev screenPkg.Event) error

// ScreenManager owns the whole state of one user's screen. All methods must
// be called from the scheduler's UI context.
type ScreenManager struct {
	user    host.User
	ui      host.UI
	sched   host.Scheduler
	backend Backend
	painter Painter
	logger  *zap.Logger

	nav      *screenPkg.Navigator
	lang     locale.Lang
	snapshot *accountPkg.Snapshot
	focus    string
	fetchSeq uint64

	Wizard  *wizard.Wizard
	Reserve *reserve.Editor
	TopUp   *topup.Flow

	routes map[route]handler
}

func NewScreenManager(
	user host.User,
	backend Backend,
	ui host.UI,
	sched host.Scheduler,
	painter Painter,
	settings Settings,
	logger *zap.Logger) *ScreenManager {

	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Int64("user_id", user.ID))

	lang := settings.DefaultLanguage
	if !locale.Supported(string(lang)) {
		lang = locale.Default
	}
	delay := settings.SuccessDelay
	if delay <= 0 {
		delay = wizard.DefaultSuccessDelay
	}

	sm := &ScreenManager{
		user:    user,
		ui:      ui,
		sched:   sched,
		backend: backend,
		painter: painter,
		logger:  logger,
		nav:     screenPkg.NewNavigator(),
		lang:    lang,
	}
	sm.Wizard = wizard.New(backend, ui, sched,
		wizard.WithSuccessDelay(delay),
		wizard.OnConnected(sm.Refresh),
		wizard.WithLogger(logger.With(zap.String("logger", "wizard"))),
	)
	sm.Reserve = reserve.NewEditor(backend, ui, sched, sm.Refresh, logger.With(zap.String("logger", "reserve")))
	sm.TopUp = topup.NewFlow(settings.FundingAddress, backend, ui, sched, sm.Refresh, logger.With(zap.String("logger", "topup")))

	sm.routes = map[route]handler{
		{"app", "start"}:   func(screenPkg.Event) error { sm.Start(); return nil },
		{"app", "refresh"}: func(screenPkg.Event) error { sm.Refresh(); return nil },
		{"app", "cancel"}:  func(screenPkg.Event) error { sm.CloseModals(); return nil },

		{"nav", "select"}:  sm.selectPage,
		{"lang", "select"}: func(ev screenPkg.Event) error { return sm.SetLanguage(ev.Value) },
		{"chart", "show"}:  func(screenPkg.Event) error { sm.ShowChart(); return nil },

		{"wizard", "open"}:     sm.openWizard,
		{"wizard", "strategy"}: func(ev screenPkg.Event) error { return sm.Wizard.SelectStrategy(accountPkg.Strategy(ev.Value)) },
		{"wizard", "exchange"}: sm.selectExchange,
		{"wizard", "focus"}:    sm.setFocus,
		{"wizard", "submit"}:   func(screenPkg.Event) error { return sm.Wizard.Submit(sm.user.ID) },
		{"wizard", "close"}:    func(screenPkg.Event) error { sm.Wizard.Close(); sm.focus = ""; return nil },

		{"reserve", "open"}:  sm.openReserve,
		{"reserve", "focus"}: sm.setFocus,
		{"reserve", "save"}:  func(screenPkg.Event) error { sm.focus = ""; return sm.Reserve.Save(sm.user.ID) },
		{"reserve", "close"}: func(screenPkg.Event) error { sm.Reserve.Close(); sm.focus = ""; return nil },

		{"topup", "open"}:   sm.openTopUp,
		{"topup", "focus"}:  sm.setFocus,
		{"topup", "submit"}: func(screenPkg.Event) error { return sm.TopUp.Submit(sm.user.ID) },
		{"topup", "copy"}:   func(screenPkg.Event) error { return sm.TopUp.CopyAddress() },
		{"topup", "close"}:  func(screenPkg.Event) error { sm.TopUp.Close(); sm.focus = ""; return nil },

		{"input", "text"}: sm.input,
	}
	return sm
}

// Handle dispatches one user event through the routing table.
func (sm *ScreenManager) Handle(ev screenPkg.Event) error {
	h, ok := sm.routes[route{ev.Component, ev.Action}]
	if !ok {
		return ErrUnknownEvent
	}
	return h(ev)
}

// Start is the screen's initialisation: closing confirmation on, first fetch.
func (sm *ScreenManager) Start() {
	sm.ui.EnableClosingConfirmation()
	sm.Refresh()
}

// Refresh fetches a new snapshot. Only the answer of the latest fetch is
// applied; failures leave the current snapshot on screen.
func (sm *ScreenManager) Refresh() {
	sm.fetchSeq++
	seq := sm.fetchSeq
	userID := sm.user.ID

	var (
		snap *accountPkg.Snapshot
		err  error
	)
	sm.sched.Go(func(ctx context.Context) {
		snap, err = sm.backend.Snapshot(ctx, userID)
	}, func() {
		if seq != sm.fetchSeq {
			sm.logger.Debug("drop superseded snapshot", zap.Uint64("seq", seq), zap.Uint64("latest", sm.fetchSeq))
			return
		}
		if err != nil {
			sm.logger.Warn("fetch snapshot", zap.Error(err))
			return
		}
		sm.applySnapshot(snap)
	})
}

func (sm *ScreenManager) applySnapshot(snap *accountPkg.Snapshot) {
	sm.snapshot = snap
	if lang, ok := locale.Parse(snap.Language); ok {
		sm.lang = lang
	}
}

// SetLanguage persists the choice and relabels the screen once the backend
// answered, even with an error status. Transport failures keep the old language.
func (sm *ScreenManager) SetLanguage(code string) error {
	lang, ok := locale.Parse(code)
	if !ok {
		return ErrUnknownLanguage
	}
	userID := sm.user.ID
	var err error
	sm.sched.Go(func(ctx context.Context) {
		err = sm.backend.SaveLanguage(ctx, userID, string(lang))
	}, func() {
		if err != nil {
			sm.logger.Warn("save language", zap.String("language", string(lang)), zap.Error(err))
			if !common.IsBackendError(err) {
				return
			}
		}
		sm.lang = lang
	})
	return nil
}

func (sm *ScreenManager) ShowChart() {
	snap := sm.snapshot
	var (
		png []byte
		err error
	)
	sm.sched.Go(func(context.Context) {
		png, err = screenPkg.BalanceChart(snap)
	}, func() {
		if errors.Is(err, screenPkg.ErrNoBalances) {
			sm.ui.Alert(locale.Text(sm.lang, "no_exchanges"))
			return
		}
		if err != nil {
			sm.logger.Error("render balance chart", zap.Error(err))
			return
		}
		sm.painter.SendImage("balances.png", png)
	})
}

// CloseModals closes whatever modal is open.
func (sm *ScreenManager) CloseModals() {
	if sm.Wizard.IsOpen() {
		sm.Wizard.Close()
	}
	sm.Reserve.Close()
	sm.TopUp.Close()
	sm.focus = ""
}

func (sm *ScreenManager) Language() locale.Lang { return sm.lang }

func (sm *ScreenManager) Snapshot() *accountPkg.Snapshot { return sm.snapshot }

func (sm *ScreenManager) Focus() string { return sm.focus }

func (sm *ScreenManager) View() screenPkg.View {
	return screenPkg.View{
		User:   sm.user,
		Lang:   sm.lang,
		Page:   sm.nav.Page(),
		Focus:  sm.focus,
		Wizard: sm.Wizard.View(),
		Reserve: screenPkg.ReserveView{
			Open:     sm.Reserve.IsOpen(),
			Exchange: sm.Reserve.Exchange(),
			Input:    sm.Reserve.Input(),
		},
		TopUp: screenPkg.TopUpView{
			Open:    sm.TopUp.IsOpen(),
			Address: sm.TopUp.Address(),
			Input:   sm.TopUp.Input(),
		},
	}
}

func (sm *ScreenManager) Render() []screenPkg.Instruction {
	return screenPkg.Render(sm.snapshot, sm.View())
}

// Repaint hands the current frame to the painter.
func (sm *ScreenManager) Repaint() {
	sm.painter.Paint(sm.Render())
}

func (sm *ScreenManager) selectPage(ev screenPkg.Event) error {
	if err := sm.nav.Select(screenPkg.Page(ev.Value)); err != nil {
		return err
	}
	sm.ui.Haptic()
	return nil
}

func (sm *ScreenManager) openWizard(screenPkg.Event) error {
	sm.Reserve.Close()
	sm.TopUp.Close()
	sm.focus = ""
	sm.Wizard.Open()
	return nil
}

func (sm *ScreenManager) selectExchange(ev screenPkg.Event) error {
	if err := sm.Wizard.SelectExchange(ev.Value); err != nil {
		return err
	}
	sm.focus = screenPkg.Action("wizard", "focus", string(wizard.FieldAPIKey))
	return nil
}

func (sm *ScreenManager) openReserve(ev screenPkg.Event) error {
	current := decimal.Zero
	if sm.snapshot != nil {
		for _, ex := range sm.snapshot.Exchanges {
			if strings.EqualFold(ex.Name, ev.Value) {
				current = ex.Reserve
				break
			}
		}
	}
	sm.Wizard.Close()
	sm.TopUp.Close()
	sm.Reserve.Open(ev.Value, current)
	sm.focus = screenPkg.Action("reserve", "focus")
	return nil
}

func (sm *ScreenManager) openTopUp(screenPkg.Event) error {
	sm.Wizard.Close()
	sm.Reserve.Close()
	sm.TopUp.Open()
	sm.focus = screenPkg.Action("topup", "focus")
	return nil
}

func (sm *ScreenManager) setFocus(ev screenPkg.Event) error {
	sm.focus = ev.String()
	return nil
}

// input routes typed text to the focused field. Filling a wizard field moves
// the focus to the next visible one.
func (sm *ScreenManager) input(ev screenPkg.Event) error {
	focus, err := screenPkg.ParseEvent(sm.focus)
	if err != nil {
		return ErrNoFocus
	}

	switch focus.Component {
	case "wizard":
		field := wizard.Field(focus.Value)
		if err := sm.Wizard.SetField(field, ev.Value); err != nil {
			return err
		}
		sm.focus = sm.nextWizardFocus(field)
		return nil
	case "reserve":
		return sm.Reserve.SetInput(ev.Value)
	case "topup":
		return sm.TopUp.SetInput(ev.Value)
	}
	return ErrNoFocus
}

func (sm *ScreenManager) nextWizardFocus(field wizard.Field) string {
	fields := sm.Wizard.View().Fields
	for i, fv := range fields {
		if fv.Field == field && i+1 < len(fields) {
			return screenPkg.Action("wizard", "focus", string(fields[i+1].Field))
		}
	}
	return ""
}
