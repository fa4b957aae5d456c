package wizard

import (
	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
)

type StrategyOption struct {
	Strategy accountPkg.Strategy
	Selected bool
}

type ExchangeOption struct {
	Name     string
	Visible  bool
	Selected bool
}

type FieldView struct {
	Field  Field
	Value  string
	Filled bool
}

// View is the read-only picture of the wizard handed to the renderer.
// Secret field values are never included.
type View struct {
	Step       Step
	Busy       bool
	Strategies []StrategyOption
	Exchanges  []ExchangeOption
	Fields     []FieldView
	Link       string
	Permission string
}

func (w *Wizard) View() View {
	v := View{Step: w.state.Step, Busy: w.busy}
	if v.Step == StepClosed {
		return v
	}

	for _, s := range accountPkg.Strategies {
		v.Strategies = append(v.Strategies, StrategyOption{
			Strategy: s,
			Selected: s == w.state.Strategy,
		})
	}

	if w.state.Step >= StepSelectExchange {
		allowed := ExchangesFor(w.state.Strategy)
		for _, ex := range accountPkg.SupportedExchanges {
			v.Exchanges = append(v.Exchanges, ExchangeOption{
				Name:     ex,
				Visible:  contains(allowed, ex),
				Selected: ex == w.state.Exchange,
			})
		}
	}

	if w.state.Step == StepEnterCredentials {
		for _, f := range Fields {
			if f == FieldPassword && !PassphraseVisible(w.state.Exchange) {
				continue
			}
			value := w.form.get(f)
			fv := FieldView{Field: f, Filled: value != ""}
			if !f.Secret() {
				fv.Value = value
			}
			v.Fields = append(v.Fields, fv)
		}
		v.Link = accountPkg.APIManagementLink(w.state.Exchange)
		v.Permission = "Futures"
		if w.state.Strategy.IsSpot() {
			v.Permission = "Spot"
		}
	}
	return v
}
