package fees

import "testing"

func TestCalculateFeeOracle(t *testing.T) {
	if got := CalculateFee(1000, DefaultFeePercent); got != 25 {
		t.Fatalf("CalculateFee(1000, 2.5) = %d, want 25", got)
	}
	if got := NetAmount(1000, DefaultFeePercent); got != 975 {
		t.Fatalf("NetAmount(1000, 2.5) = %d, want 975", got)
	}
}

func TestCalculateFeeRounding(t *testing.T) {
	tests := []struct {
		amount  int64
		percent float64
		want    int64
	}{
		{0, 2.5, 0},
		{1, 2.5, 0},     // 0.025 rounds down
		{99, 2.5, 2},    // 2.475 rounds down
		{100, 2.5, 3},   // 2.5 rounds half away from zero
		{123456, 3, 3704},
		{1000, 0, 0},
		{1000, 100, 1000},
	}
	for _, tt := range tests {
		if got := CalculateFee(tt.amount, tt.percent); got != tt.want {
			t.Fatalf("CalculateFee(%d, %v) = %d, want %d", tt.amount, tt.percent, got, tt.want)
		}
	}
}

func TestFeeNetRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 99, 1000, 123456}
	percents := []float64{0, 2.5, 3, 100}

	for _, amount := range amounts {
		for _, percent := range percents {
			fee := CalculateFee(amount, percent)
			net := NetAmount(amount, percent)
			if fee+net != amount {
				t.Fatalf("fee %d + net %d != amount %d (percent %v)", fee, net, amount, percent)
			}
		}
	}
}
