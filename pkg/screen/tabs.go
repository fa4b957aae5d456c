package screen

import "errors"

type Page string

const (
	PageHome      Page = "home"
	PageExchanges Page = "exchanges"
	PageSettings  Page = "settings"
)

// Pages in nav bar order.
var Pages = []Page{PageHome, PageExchanges, PageSettings}

var ErrUnknownPage = errors.New("unknown page")

// Navigator keeps exactly one page active.
type Navigator struct {
	page Page
}

func NewNavigator() *Navigator {
	return &Navigator{page: PageHome}
}

func (n *Navigator) Page() Page {
	return n.page
}

func (n *Navigator) Select(page Page) error {
	for _, p := range Pages {
		if p == page {
			n.page = page
			return nil
		}
	}
	return ErrUnknownPage
}
