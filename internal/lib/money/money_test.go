package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "whole number", amount: 25, want: "25.00"},
		{name: "repeating fraction", amount: 229.0 / 3, want: "76.33"},
		{name: "rounds up", amount: 10.006, want: "10.01"},
		{name: "zero", amount: 0, want: "0.00"},
		{name: "negative", amount: -12.5, want: "-12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount))
		})
	}
}

func TestFormatWithCurrency(t *testing.T) {
	assert.Equal(t, "$76.33", FormatWithCurrency(229.0/3))
	assert.Equal(t, "$0.00", FormatWithCurrency(0))
}
