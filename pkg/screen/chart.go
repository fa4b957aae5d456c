package screen

import (
	"bytes"
	"errors"
	"fmt"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/wcharczuk/go-chart/v2"
)

var ErrNoBalances = errors.New("no exchange balances to chart")

// BalanceChart draws the share of each exchange in the portfolio as a PNG
// pie chart. Exchanges without a positive balance are left out.
func BalanceChart(snap *accountPkg.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNoBalances
	}

	values := make([]chart.Value, 0, len(snap.Exchanges))
	for _, ex := range snap.Exchanges {
		if !ex.Balance.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", ex.Name, FormatUSD(ex.Balance)),
			Value: ex.Balance.InexactFloat64(),
		})
	}
	if len(values) == 0 {
		return nil, ErrNoBalances
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	err := pie.Render(chart.PNG, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to render balance chart: %w", err)
	}
	return buffer.Bytes(), nil
}
