package screen

import (
	"strconv"
	"strings"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/host"
	"github.com/KeynihAV/aladdin/pkg/locale"
	"github.com/KeynihAV/aladdin/pkg/wizard"
	"github.com/shopspring/decimal"
)

const secretMask = "••••••••"

type ReserveView struct {
	Open     bool
	Exchange string
	Input    string
}

type TopUpView struct {
	Open    bool
	Address string
	Input   string
}

// View is everything the renderer needs besides the snapshot.
type View struct {
	User    host.User
	Lang    locale.Lang
	Page    Page
	Focus   string
	Wizard  wizard.View
	Reserve ReserveView
	TopUp   TopUpView
}

var exchangeNames = map[string]string{
	"binance": "Binance",
	"bybit":   "Bybit",
	"bingx":   "BingX",
	"okx":     "OKX",
}

var fieldLabels = map[wizard.Field]string{
	wizard.FieldAPIKey:   "API Key",
	wizard.FieldSecret:   "Secret Key",
	wizard.FieldPassword: "Passphrase",
	wizard.FieldReserve:  "Reserve (USDT)",
}

// Render turns a snapshot (nil before the first fetch) and the view state
// into the screen's instruction list. It has no side effects.
func Render(snap *accountPkg.Snapshot, v View) []Instruction {
	r := &renderer{lang: v.Lang, focus: v.Focus}
	r.header(v.User)

	switch {
	case v.Wizard.Step != wizard.StepClosed:
		r.wizard(v.Wizard)
	case v.Reserve.Open:
		r.reserve(v.Reserve)
	case v.TopUp.Open:
		r.topUp(v.TopUp)
	default:
		switch v.Page {
		case PageExchanges:
			r.exchanges(snap)
		case PageSettings:
			r.settings(snap, v.User)
		default:
			r.home(snap)
		}
		r.nav(v.Page)
	}
	return r.out
}

type renderer struct {
	lang  locale.Lang
	focus string
	out   []Instruction
}

func (r *renderer) add(in Instruction) {
	r.out = append(r.out, in)
}

func (r *renderer) text(key string) string {
	if t := locale.Text(r.lang, key); t != "" {
		return t
	}
	return locale.Text(locale.Default, key)
}

func (r *renderer) keyed(kind Kind, key string) Instruction {
	return Instruction{Kind: kind, Key: key, Text: r.text(key)}
}

func (r *renderer) button(key, action, group string) {
	in := r.keyed(KindButton, key)
	in.Action = action
	in.Group = group
	r.add(in)
}

func (r *renderer) header(user host.User) {
	in := r.keyed(KindHeader, "welcome")
	in.Value = user.DisplayName()
	r.add(in)
}

func (r *renderer) home(snap *accountPkg.Snapshot) {
	total := r.keyed(KindBalance, "total_balance")
	if snap != nil {
		total.Amount = FormatUSD(snap.TotalBalance)
		total.Detail = snap.PnL
	} else {
		total.Amount = FormatUSD(decimal.Zero)
	}
	r.add(total)

	r.button("top_up", Action("topup", "open"), "home")
	r.button("copy_trading", Action("wizard", "open"), "home")
	if snap != nil && len(snap.Exchanges) > 0 {
		r.add(Instruction{Kind: KindButton, Text: "📊", Action: Action("chart", "show"), Group: "home"})
	}

	r.add(r.keyed(KindSection, "active_strategies"))
	active := snap.Active()
	if len(active) == 0 {
		r.add(r.keyed(KindPlaceholder, "no_active"))
		return
	}
	for _, ex := range active {
		kind := "Futures"
		if ex.Strategy.IsSpot() {
			kind = "Spot"
		}
		r.add(Instruction{
			Kind:   KindItem,
			Text:   ex.Strategy.DisplayName(),
			Detail: ex.Name + " • " + kind,
			Value:  "Active",
		})
	}
}

func (r *renderer) exchanges(snap *accountPkg.Snapshot) {
	r.add(r.keyed(KindSection, "my_exchanges"))
	if snap == nil || len(snap.Exchanges) == 0 {
		r.add(r.keyed(KindPlaceholder, "no_exchanges"))
	} else {
		for _, ex := range snap.Exchanges {
			dot := "🔴"
			if ex.IsConnected() {
				dot = "🟢"
			}
			kind := "Fut"
			if ex.Strategy.IsSpot() {
				kind = "Spot"
			}
			name := ex.Name
			if ex.Icon != "" {
				name = ex.Icon + " " + name
			}
			r.add(Instruction{
				Kind:   KindItem,
				Text:   name,
				Detail: dot + " " + string(ex.Status) + " • " + kind,
				Amount: FormatUSD(ex.Balance),
			})
			r.add(Instruction{
				Kind:   KindButton,
				Text:   ex.Name + " 🔒 $" + ex.Reserve.String(),
				Action: Action("reserve", "open", ex.Name),
			})
		}
	}
	r.button("connect_new", Action("wizard", "open"), "")
}

func (r *renderer) settings(snap *accountPkg.Snapshot, user host.User) {
	r.add(r.keyed(KindSection, "profile"))

	uid := r.keyed(KindText, "user_id")
	uid.Value = strconv.FormatInt(user.ID, 10)
	r.add(uid)

	credits := r.keyed(KindBalance, "credits")
	credits.Amount = FormatUSD(decimal.Zero)
	if snap != nil {
		credits.Amount = FormatUSD(snap.Credits)
	}
	r.add(credits)
	r.button("top_up", Action("topup", "open"), "")

	r.add(r.keyed(KindSection, "language"))
	for _, lang := range locale.Languages {
		r.add(Instruction{
			Kind:   KindButton,
			Text:   locale.Label(lang),
			Action: Action("lang", "select", string(lang)),
			Group:  "lang",
			Active: lang == r.lang,
		})
	}
}

func (r *renderer) nav(page Page) {
	for _, p := range Pages {
		in := r.keyed(KindButton, string(p))
		in.Action = Action("nav", "select", string(p))
		in.Group = "nav"
		in.Active = p == page
		r.add(in)
	}
}

func (r *renderer) closeButton(component string) {
	r.add(Instruction{Kind: KindButton, Text: "✖", Action: Action(component, "close")})
}

func (r *renderer) wizard(w wizard.View) {
	r.add(r.keyed(KindSection, "wiz_title"))

	switch w.Step {
	case wizard.StepSelectStrategy:
		r.add(r.keyed(KindText, "wiz_step1"))
		for _, opt := range w.Strategies {
			key := "strat_ratner"
			if opt.Strategy.IsSpot() {
				key = "strat_cgt"
			}
			in := r.keyed(KindButton, key)
			in.Detail = r.text(key + "_desc")
			in.Action = Action("wizard", "strategy", string(opt.Strategy))
			in.Active = opt.Selected
			r.add(in)
		}
	case wizard.StepSelectExchange:
		r.add(r.keyed(KindText, "wiz_step2"))
		for _, opt := range w.Exchanges {
			if !opt.Visible {
				continue
			}
			r.add(Instruction{
				Kind:   KindButton,
				Text:   ExchangeName(opt.Name),
				Action: Action("wizard", "exchange", opt.Name),
				Group:  "exchange",
				Active: opt.Selected,
			})
		}
	case wizard.StepEnterCredentials:
		r.add(r.keyed(KindText, "wiz_step3"))
		r.add(Instruction{Kind: KindText, Text: "🔑 " + w.Link, Detail: "Permission: " + w.Permission})
		for _, fv := range w.Fields {
			value := fv.Value
			if fv.Field.Secret() && fv.Filled {
				value = secretMask
			}
			action := Action("wizard", "focus", string(fv.Field))
			r.add(Instruction{
				Kind:   KindInput,
				Text:   fieldLabels[fv.Field],
				Value:  value,
				Action: action,
				Active: r.focus == action,
			})
		}
		r.button("btn_connect", Action("wizard", "submit"), "")
	case wizard.StepSuccess:
		r.add(r.keyed(KindText, "success"))
		return
	}
	r.closeButton("wizard")
}

func (r *renderer) reserve(v ReserveView) {
	r.add(r.keyed(KindSection, "reserve_title"))
	r.add(Instruction{Kind: KindText, Text: strings.ToUpper(v.Exchange)})
	r.add(r.keyed(KindText, "reserve_desc"))
	action := Action("reserve", "focus")
	r.add(Instruction{Kind: KindInput, Text: "USDT", Value: v.Input, Action: action, Active: r.focus == action})
	r.button("save", Action("reserve", "save"), "")
	r.closeButton("reserve")
}

func (r *renderer) topUp(v TopUpView) {
	r.add(r.keyed(KindSection, "topup_title"))
	r.add(r.keyed(KindText, "topup_desc"))
	r.add(Instruction{Kind: KindCode, Text: "USDT (BEP20)", Value: v.Address})
	r.add(Instruction{Kind: KindButton, Text: "📋", Action: Action("topup", "copy")})
	action := Action("topup", "focus")
	r.add(Instruction{Kind: KindInput, Text: "TxID", Value: v.Input, Action: action, Active: r.focus == action})
	r.button("pay", Action("topup", "submit"), "")
	r.closeButton("topup")
}

// ExchangeName is the display name of a supported exchange id.
func ExchangeName(id string) string {
	if name, ok := exchangeNames[strings.ToLower(id)]; ok {
		return name
	}
	return id
}

// FormatUSD renders amount as $1,234.56.
func FormatUSD(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + frac
}
