package mathutil

import "testing"

func TestIntMinMax(t *testing.T) {
	if IntMin(3, 5) != 3 || IntMin(5, 3) != 3 {
		t.Error("IntMin failed")
	}
	if IntMax(3, 5) != 5 || IntMax(5, 3) != 5 {
		t.Error("IntMax failed")
	}
}

func TestIntAbsAndSign(t *testing.T) {
	if IntAbs(-4) != 4 || IntAbs(4) != 4 || IntAbs(0) != 0 {
		t.Error("IntAbs failed")
	}
	if IntSign(-7) != -1 || IntSign(7) != 1 || IntSign(0) != 0 {
		t.Error("IntSign failed")
	}
}

func TestIntClamp(t *testing.T) {
	cases := []struct{ x, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	}
	for _, c := range cases {
		if got := IntClamp(c.x, c.lo, c.hi); got != c.want {
			t.Errorf("IntClamp(%d, %d, %d) = %d, want %d", c.x, c.lo, c.hi, got, c.want)
		}
	}
}

func TestManhattan(t *testing.T) {
	if got := Manhattan(0, 0, 3, 4); got != 7 {
		t.Errorf("Expected distance 7, got %d", got)
	}
	if got := Manhattan(5, 5, 5, 5); got != 0 {
		t.Errorf("Expected distance 0, got %d", got)
	}
	if got := Manhattan(3, 4, 0, 0); got != 7 {
		t.Errorf("Expected symmetric distance 7, got %d", got)
	}
}
