package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := map[string]struct {
		entries   int
		total     string
		breakdown []string
	}{
		"single entry": {
			entries:   1,
			total:     "20.00",
			breakdown: []string{"$20 base fee"},
		},
		"base tier edge": {
			entries:   10,
			total:     "20.00",
			breakdown: []string{"$20 base fee"},
		},
		"first paid entry": {
			entries:   11,
			total:     "21.75",
			breakdown: []string{"$20 base fee", "1 entries × $1.75 = $1.75"},
		},
		"tier one edge": {
			entries:   50,
			total:     "90.00",
			breakdown: []string{"$20 base fee", "40 entries × $1.75 = $70.00"},
		},
		"tier two start": {
			entries:   51,
			total:     "91.50",
			breakdown: []string{"$20 base fee", "40 entries × $1.75 = $70.00", "1 entries × $1.50 = $1.50"},
		},
		"tier two edge": {
			entries:   200,
			total:     "315.00",
			breakdown: []string{"$20 base fee", "40 entries × $1.75 = $70.00", "150 entries × $1.50 = $225.00"},
		},
		"tier three start": {
			entries: 201,
			total:   "316.25",
			breakdown: []string{
				"$20 base fee", "40 entries × $1.75 = $70.00", "150 entries × $1.50 = $225.00",
				"1 entries × $1.25 = $1.25",
			},
		},
		"tier three edge": {
			entries: 500,
			total:   "690.00",
			breakdown: []string{
				"$20 base fee", "40 entries × $1.75 = $70.00", "150 entries × $1.50 = $225.00",
				"300 entries × $1.25 = $375.00",
			},
		},
		"open tier": {
			entries: 501,
			total:   "691.00",
			breakdown: []string{
				"$20 base fee", "40 entries × $1.75 = $70.00", "150 entries × $1.50 = $225.00",
				"300 entries × $1.25 = $375.00", "1 entries × $1.00 = $1.00",
			},
		},
		"large pool": {
			entries: 1000,
			total:   "1190.00",
			breakdown: []string{
				"$20 base fee", "40 entries × $1.75 = $70.00", "150 entries × $1.50 = $225.00",
				"300 entries × $1.25 = $375.00", "500 entries × $1.00 = $500.00",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := Calculate(tc.entries)
			require.NoError(t, err)
			assert.Equal(t, tc.entries, q.Entries)
			assert.Equal(t, tc.total, q.Total.StringFixed(2))
			assert.Equal(t, tc.breakdown, q.Breakdown)
		})
	}
}

func TestCalculate_InvalidEntries(t *testing.T) {
	for _, n := range []int{0, -5} {
		_, err := Calculate(n)
		assert.ErrorIs(t, err, ErrInvalidEntries)
	}
}
