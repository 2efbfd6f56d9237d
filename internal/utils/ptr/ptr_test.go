package ptr

import "testing"

func TestScalars(t *testing.T) {
	if *Bool(false) {
		t.Error("Expected false")
	}
	if *Int64(1200) != 1200 {
		t.Error("Expected 1200")
	}
	if *Float64(0.5) != 0.5 {
		t.Error("Expected 0.5")
	}
}

func TestDeref(t *testing.T) {
	if !Deref(nil, true) {
		t.Error("Expected default for nil pointer")
	}
	if Deref(Bool(false), true) {
		t.Error("Expected pointed-to value")
	}
	if got := Deref((*int64)(nil), 7); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
}
