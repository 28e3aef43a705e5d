package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// CurrencyCode is the ISO-style code of a supported currency.
type CurrencyCode string

const (
	CurrencyUSD CurrencyCode = "USD"
	CurrencyBDT CurrencyCode = "BDT"
)

// IsSupported reports whether the code is one of the currencies the platform handles.
func (c CurrencyCode) IsSupported() bool {
	return c == CurrencyUSD || c == CurrencyBDT
}
