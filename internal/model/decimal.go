package model

import "github.com/shopspring/decimal"

func init() {
	// Money and quantities go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}
