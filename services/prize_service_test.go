package services

import "testing"

func TestCalculatePayouts(t *testing.T) {
	tests := []struct {
		name string
		pool int
		want [3]int
	}{
		{name: "even pool", pool: 1000, want: [3]int{500, 300, 200}},
		{name: "zero pool", pool: 0, want: [3]int{0, 0, 0}},
		{name: "small pool floors down", pool: 7, want: [3]int{3, 2, 1}},
		{name: "indivisible pool", pool: 999, want: [3]int{499, 299, 199}},
		{name: "single unit", pool: 1, want: [3]int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculatePayouts(tt.pool)
			if got != tt.want {
				t.Errorf("calculatePayouts(%d) = %v, want %v", tt.pool, got, tt.want)
			}
		})
	}
}

func TestCalculatePayoutsNeverExceedsPool(t *testing.T) {
	for pool := 0; pool <= 10_000; pool++ {
		payouts := calculatePayouts(pool)
		total := payouts[0] + payouts[1] + payouts[2]
		if total > pool {
			t.Fatalf("pool %d: payouts %v sum to %d, exceeding the pool", pool, payouts, total)
		}
		if payouts[0] < payouts[1] || payouts[1] < payouts[2] {
			t.Fatalf("pool %d: payouts %v are not monotonically decreasing", pool, payouts)
		}
	}
}
