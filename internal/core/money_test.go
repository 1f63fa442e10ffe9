package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".75", 75, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"92233720368547758.99", 0, false}, // would wrap int64 cents
		{"99999999999999999999", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"12a.00", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{100, "1.00"},
		{1234, "12.34"},
		{-5, "-0.05"},
		{-6000, "-60.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestDistribute(t *testing.T) {
	cases := []struct {
		name  string
		cents int64
		n     int
		want  []int64
	}{
		{"exact division", 9000, 3, []int64{3000, 3000, 3000}},
		{"one remainder cent to first", 10000, 3, []int64{3334, 3333, 3333}},
		{"two remainder cents", 5, 3, []int64{2, 2, 1}},
		{"single recipient", 4999, 1, []int64{4999}},
		{"amount smaller than n", 2, 5, []int64{1, 1, 0, 0, 0}},
		{"zero amount", 0, 4, []int64{0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shares, err := Money{Cents: tc.cents}.Distribute(tc.n)
			if err != nil {
				t.Fatalf("Distribute(%d): %v", tc.n, err)
			}
			if len(shares) != len(tc.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tc.want))
			}
			var sum int64
			for i, s := range shares {
				if s.Cents != tc.want[i] {
					t.Errorf("share[%d] = %d, want %d", i, s.Cents, tc.want[i])
				}
				sum += s.Cents
			}
			if sum != tc.cents {
				t.Errorf("shares sum to %d, want %d", sum, tc.cents)
			}
		})
	}

	t.Run("zero recipients", func(t *testing.T) {
		if _, err := (Money{Cents: 100}).Distribute(0); err != ErrEmptyParticipants {
			t.Fatalf("expected ErrEmptyParticipants, got %v", err)
		}
	})
	t.Run("negative amount", func(t *testing.T) {
		if _, err := (Money{Cents: -100}).Distribute(2); err != ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 250}
	b := Money{Cents: 100}

	if got := a.Add(b); got.Cents != 350 {
		t.Errorf("Add = %d, want 350", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 150 {
		t.Errorf("Sub = %d, want 150", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -150 {
		t.Errorf("Sub = %d, want -150", got.Cents)
	}
	if got := a.Neg(); got.Cents != -250 {
		t.Errorf("Neg = %d, want -250", got.Cents)
	}
	if got := (Money{Cents: -7}).Abs(); got.Cents != 7 {
		t.Errorf("Abs = %d, want 7", got.Cents)
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Error("Cmp ordering wrong")
	}
	if !(Money{}).IsZero() || !a.IsPositive() || !a.Neg().IsNegative() {
		t.Error("sign predicates wrong")
	}
}
