package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateShares(t *testing.T) {
	assert.InDelta(t, 10.01, TruncateShares(10.019), 1e-9)
	assert.InDelta(t, 3.99, TruncateShares(3.999), 1e-9)
	assert.InDelta(t, 300.0, TruncateShares(300.0), 1e-9)
	assert.InDelta(t, 0.0, TruncateShares(0.009), 1e-9)
}

func TestParseSellAmount(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		heldShares float64
		want       float64
		wantErr    bool
	}{
		{name: "absolute shares", raw: "300", heldShares: 1200, want: 300},
		{name: "absolute with spaces", raw: " 300 ", heldShares: 1200, want: 300},
		{name: "quarter of holding", raw: "25%", heldShares: 1200, want: 300},
		{name: "full holding", raw: "100%", heldShares: 1200, want: 1200},
		{name: "fractional percentage truncates", raw: "33.3333%", heldShares: 100, want: 33.33},
		{name: "fractional shares truncate", raw: "10.019", heldShares: 1200, want: 10.01},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "abc", wantErr: true},
		{name: "negative shares", raw: "-20", wantErr: true},
		{name: "zero shares", raw: "0", wantErr: true},
		{name: "zero percent", raw: "0%", wantErr: true},
		{name: "over hundred percent", raw: "150%", wantErr: true},
		{name: "negative percent", raw: "-5%", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSellAmount(tt.raw, tt.heldShares)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "+3.25%", FormatPercentage(3.25))
	assert.Equal(t, "-1.50%", FormatPercentage(-1.5))
	assert.Equal(t, "+0.00%", FormatPercentage(0))
}
