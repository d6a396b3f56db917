package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{"IDR", IDR, false},
		{"USD", USD, false},
		{" USD ", USD, false},
		{"idr", "", true},
		{"EUR", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCurrency(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedCurrency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinor(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		c      Currency
		want   int64
	}{
		{"usd cents", "12.34", USD, 1234},
		{"usd rounding", "12.345", USD, 1235},
		{"idr whole", "2500000", IDR, 250000000},
		{"idr decimal", "2500.75", IDR, 250075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinor(decimal.RequireFromString(tt.amount), tt.c))
		})
	}
}

func TestMoney_RoundTrip(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("2500.75"), IDR)
	assert.True(t, decimal.RequireFromString("2500.75").Equal(m.ToDecimal()))
	assert.Equal(t, int32(-2), m.ToDecimal().Exponent())
}

func TestMoney_Subtract(t *testing.T) {
	income := NewFromDecimal(decimal.NewFromInt(100), USD)
	expense := NewFromDecimal(decimal.NewFromInt(150), USD)

	balance, err := income.Subtract(expense)
	require.NoError(t, err)
	assert.True(t, balance.IsNegative())
	assert.True(t, decimal.NewFromInt(-50).Equal(balance.ToDecimal()))

	_, err = income.Subtract(NewFromDecimal(decimal.Zero, IDR))
	assert.Error(t, err, "mixed currencies must not subtract")
}

func TestMoney_Display(t *testing.T) {
	assert.Contains(t, NewFromDecimal(decimal.RequireFromString("12.50"), USD).Display(), "12.50")
	assert.Contains(t, NewFromDecimal(decimal.NewFromInt(2500000), IDR).Display(), "Rp")
}

func TestStorable(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0", true},
		{"0.01", true},
		{"9999999999999.99", true},
		{"-9999999999999.99", true},
		{"10000000000000", false},
		{"1e13", false},
		{"1e2000000000", false},
		{"1e-2000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, Storable(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, int64(1), Magnitude(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(0), Magnitude(decimal.RequireFromString("0.5")))
	assert.Equal(t, int64(-1), Magnitude(decimal.RequireFromString("0.01")))
	assert.Equal(t, int64(-2), Magnitude(decimal.RequireFromString("0.001")))
	assert.Equal(t, int64(14), Magnitude(decimal.RequireFromString("1e13")))
	assert.Equal(t, int64(-1999999999), Magnitude(decimal.RequireFromString("1e-2000000000")))
}
