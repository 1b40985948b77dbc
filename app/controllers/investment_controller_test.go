package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		input    string
		expected int64
	}{
		{"2500", 250000},
		{"2500.50", 250050},
		{"2500,50", 250050},
		{"1.234,56", 123456},
		{" 100 ", 10000},
		{"0.01", 1},
	}

	for _, tc := range cases {
		got, err := parseAmountToCents(tc.input)
		assert.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestParseAmountToCentsRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-50", "0"} {
		_, err := parseAmountToCents(input)
		assert.Error(t, err, "input %q", input)
	}
}
