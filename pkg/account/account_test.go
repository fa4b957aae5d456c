package account

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "150", want: "150"},
		{raw: " 99.5 ", want: "99.5"},
		{raw: "150 usdt", want: "150"},
		{raw: ".25", want: "0.25"},
		{raw: "1e2", want: "100"},
		{raw: "", want: "0"},
		{raw: "abc", want: "0"},
		{raw: "-", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSnapshot_Active(t *testing.T) {
	snap := &Snapshot{Exchanges: []Exchange{
		{Name: "Binance", Status: StatusConnected},
		{Name: "Bybit", Status: StatusDisconnected},
		{Name: "Okx", Status: StatusError},
		{Name: "Bingx", Status: StatusConnected},
	}}

	active := snap.Active()
	if len(active) != 2 || active[0].Name != "Binance" || active[1].Name != "Bingx" {
		t.Errorf("Active() = %+v", active)
	}

	var empty *Snapshot
	if got := empty.Active(); len(got) != 0 {
		t.Errorf("nil snapshot Active() = %+v", got)
	}
}

func TestStrategy(t *testing.T) {
	if !StrategyCGT.IsSpot() || StrategyBroBot.IsSpot() {
		t.Error("only cgt is spot")
	}
	if StrategyCGT.DisplayName() != "TradeMax" || Strategy("ratner").DisplayName() != "Bro-Bot" {
		t.Error("unexpected display names")
	}
	if APIManagementLink("OKX") != "https://www.okx.com/account/my-api" {
		t.Error("okx link lookup is not case-insensitive")
	}
}
