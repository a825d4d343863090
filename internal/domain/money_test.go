package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{name: "integer", input: "15000", want: 1500000},
		{name: "two decimals", input: "1485.00", want: 148500},
		{name: "negative", input: "-1485.50", want: -148550},
		{name: "one decimal", input: "0.5", want: 50},
		{name: "surrounding spaces", input: "  12.34 ", want: 1234},
		{name: "sub-cent precision", input: "10.001", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "-15.00", Amount(-1500).String())
	assert.Equal(t, "0.00", Amount(0).String())
	assert.Equal(t, "200.00", MustParseAmount("200").String())
	assert.Equal(t, "-0.05", Amount(-5).String())
}

func TestAmountFromDecimal(t *testing.T) {
	assert.Equal(t, Amount(1999), AmountFromDecimal(decimal.RequireFromString("19.999")))
	assert.Equal(t, Amount(-100), AmountFromDecimal(decimal.NewFromInt(-1)))
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Value Amount `json:"value"`
	}{Value: -1500})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"-15.00"}`, string(b))

	var decoded struct {
		Quoted Amount `json:"quoted"`
		Bare   Amount `json:"bare"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"quoted":"52180.00","bare":51980}`), &decoded))
	assert.Equal(t, Amount(5218000), decoded.Quoted)
	assert.Equal(t, Amount(5198000), decoded.Bare)

	assert.Error(t, json.Unmarshal([]byte(`{"quoted":"1.234"}`), &decoded))
}
