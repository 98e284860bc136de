package catalog

import (
	"slices"
	"strings"

	"StockApp/internal/model"
)

// Catalog is an immutable list of reference companies.
type Catalog struct {
	companies []model.Company
}

// New builds a catalog from a copy of companies.
func New(companies []model.Company) *Catalog {
	return &Catalog{companies: slices.Clone(companies)}
}

// Default returns the built-in company list.
func Default() *Catalog {
	return New([]model.Company{
		model.NewCompany("Apple Inc.", "AAPL", "Technology", "$2.5T"),
		model.NewCompany("Microsoft Corp.", "MSFT", "Technology", "$2.4T"),
		model.NewCompany("Tesla Inc.", "TSLA", "Automotive", "$800B"),
		model.NewCompany("Amazon.com Inc.", "AMZN", "E-commerce", "$1.6T"),
		model.NewCompany("Google (Alphabet)", "GOOGL", "Technology", "$1.8T"),
	})
}

// Companies returns the list in display order.
func (c *Catalog) Companies() []model.Company {
	return slices.Clone(c.companies)
}

// Lookup finds a company by ticker, ignoring case.
func (c *Catalog) Lookup(ticker string) (model.Company, bool) {
	for _, co := range c.companies {
		if strings.EqualFold(co.Ticker, ticker) {
			return co, true
		}
	}
	return model.Company{}, false
}

func (c *Catalog) Len() int { return len(c.companies) }
