package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajor(t *testing.T) {
	assert.Equal(t, Amount(45000), Major(450))
	assert.Equal(t, "450.00", Major(450).String())
}

func TestPercent_RoundsToMinorUnit(t *testing.T) {
	// 10% of 2.25 = 0.225 -> 0.23
	assert.Equal(t, Amount(23), Percent(Amount(225), decimal.NewFromInt(10)))
	assert.Equal(t, Major(120), Percent(Major(1200), decimal.NewFromInt(10)))
	assert.Equal(t, Amount(0), Percent(Amount(0), decimal.NewFromInt(50)))
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Amount(1999), FromFloat(19.99))
	assert.Equal(t, Amount(10), FromFloat(0.1))
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Total Amount `json:"total"`
	}{Total: Amount(40050)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":400.50}`, string(data))

	var out struct {
		Total Amount `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total":199}`), &out))
	assert.Equal(t, Major(199), out.Total)

	require.Error(t, json.Unmarshal([]byte(`{"total":"abc"}`), &out))
}

func TestParse_RejectsOutOfRange(t *testing.T) {
	a, err := Parse(decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.Equal(t, Amount(1999), a)

	a, err = Parse(MaxAmount.Decimal())
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, a)

	_, err = Parse(decimal.RequireFromString("93000000000000000"))
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Parse(decimal.RequireFromString("-93000000000000000"))
	assert.ErrorIs(t, err, ErrOutOfRange)

	var out struct {
		Total Amount `json:"total"`
	}
	err = json.Unmarshal([]byte(`{"total":93000000000000000}`), &out)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, Zero, out.Total)
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, Amount(5), Max(Amount(5), Amount(-3)))
	assert.Equal(t, Amount(-3), Min(Amount(5), Amount(-3)))
}
