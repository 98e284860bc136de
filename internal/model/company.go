package model

import "github.com/google/uuid"

// Company is a reference entity shown in the company list.
type Company struct {
	ID        uuid.UUID
	Name      string
	Ticker    string
	Industry  string
	MarketCap string
}

// NewCompany creates a company with a fresh ID.
func NewCompany(name, ticker, industry, marketCap string) Company {
	return Company{
		ID:        uuid.New(),
		Name:      name,
		Ticker:    ticker,
		Industry:  industry,
		MarketCap: marketCap,
	}
}
