package account

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Strategy string

const (
	StrategyBroBot Strategy = "bro-bot"
	StrategyCGT    Strategy = "cgt"
)

// Strategies are the options offered by the connection wizard, in display order.
var Strategies = []Strategy{StrategyBroBot, StrategyCGT}

func (s Strategy) IsSpot() bool {
	return s == StrategyCGT
}

// DisplayName is the product name of the strategy.
func (s Strategy) DisplayName() string {
	if s.IsSpot() {
		return "TradeMax"
	}
	return "Bro-Bot"
}

type Status string

const (
	StatusConnected    Status = "Connected"
	StatusDisconnected Status = "Disconnected"
	StatusError        Status = "Error"
)

const ExchangeOKX = "okx"

// SupportedExchanges is every exchange the wizard can connect.
var SupportedExchanges = []string{"binance", "bybit", "bingx", ExchangeOKX}

var apiManagementLinks = map[string]string{
	"binance": "https://www.binance.com/en/my/settings/api-management",
	"bybit":   "https://www.bybit.com/app/user/api-management",
	"bingx":   "https://www.bingx.com/en-us/account/api/",
	"okx":     "https://www.okx.com/account/my-api",
}

// APIManagementLink is the page where the user creates keys for exchange.
func APIManagementLink(exchange string) string {
	return apiManagementLinks[strings.ToLower(exchange)]
}

type Exchange struct {
	Name     string          `json:"name"`
	Status   Status          `json:"status"`
	Strategy Strategy        `json:"strategy"`
	Balance  decimal.Decimal `json:"balance"`
	Reserve  decimal.Decimal `json:"reserve"`
	Icon     string          `json:"icon,omitempty"`
}

func (e Exchange) IsConnected() bool {
	return e.Status == StatusConnected
}

type Snapshot struct {
	Language     string          `json:"language"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Credits      decimal.Decimal `json:"credits"`
	PnL          string          `json:"pnl,omitempty"`
	Exchanges    []Exchange      `json:"exchanges"`
}

// Active returns the accounts whose status is Connected, keeping roster order.
func (s *Snapshot) Active() []Exchange {
	if s == nil {
		return nil
	}
	active := make([]Exchange, 0, len(s.Exchanges))
	for _, ex := range s.Exchanges {
		if ex.IsConnected() {
			active = append(active, ex)
		}
	}
	return active
}

type ConnectRequest struct {
	UserID   int64
	Exchange string
	APIKey   string
	Secret   string
	Password string
	Strategy Strategy
	Reserve  decimal.Decimal
}

type ReserveRequest struct {
	UserID   int64
	Exchange string
	Reserve  decimal.Decimal
}

type TopUpRequest struct {
	UserID int64
	TxID   string
}

var amountPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading decimal number of a user-typed amount, so "150 usdt"
// is 150. Input without a leading number is zero.
func ParseAmount(raw string) decimal.Decimal {
	number := amountPrefix.FindString(strings.TrimSpace(raw))
	if number == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
