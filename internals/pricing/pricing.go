// Package pricing quotes the one-off fee for creating a pool sized for a
// number of entries.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidEntries = errors.New("entries must be at least 1")

// BaseEntries are covered by the base fee.
const BaseEntries = 10

var baseFee = decimal.NewFromInt(20)

type tier struct {
	// upper bound of the tier, 0 for unbounded
	upTo int
	rate decimal.Decimal
}

var tiers = []tier{
	{upTo: 50, rate: decimal.RequireFromString("1.75")},
	{upTo: 200, rate: decimal.RequireFromString("1.50")},
	{upTo: 500, rate: decimal.RequireFromString("1.25")},
	{upTo: 0, rate: decimal.RequireFromString("1.00")},
}

type Quote struct {
	Entries   int             `json:"entries"`
	Total     decimal.Decimal `json:"total"`
	Breakdown []string        `json:"breakdown"`
}

// Calculate prices entries by filling each tier in turn on top of the base fee.
func Calculate(entries int) (Quote, error) {
	if entries < 1 {
		return Quote{}, ErrInvalidEntries
	}

	q := Quote{
		Entries:   entries,
		Total:     baseFee,
		Breakdown: []string{fmt.Sprintf("$%s base fee", baseFee.String())},
	}

	lower := BaseEntries
	for _, t := range tiers {
		if entries <= lower {
			break
		}
		upper := entries
		if t.upTo != 0 && t.upTo < entries {
			upper = t.upTo
		}
		count := upper - lower
		cost := t.rate.Mul(decimal.NewFromInt(int64(count)))
		q.Total = q.Total.Add(cost)
		q.Breakdown = append(q.Breakdown, fmt.Sprintf("%d entries × $%s = $%s", count, t.rate.StringFixed(2), cost.StringFixed(2)))
		lower = upper
	}

	return q, nil
}
