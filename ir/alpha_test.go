package ir_test

import (
	"testing"

	"github.com/keremc/cil/ir"
)

func TestNewAlphaNameSequence(t *testing.T) {
	tbl := ir.AlphaTable{}
	steps := []struct {
		in   string
		want string
	}{
		{"x", "x"},
		{"x", "x_1"},
		{"x_5", "x_5"},
		{"x_5", "x_6"},
		{"x", "x_7"},
		// A leading-zero suffix is not a suffix: the whole string is the
		// prefix.
		{"x_05", "x_05"},
		{"x_05", "x_05_1"},
	}
	for i, s := range steps {
		if got := ir.NewAlphaName(tbl, s.in); got != s.want {
			t.Fatalf("step %d: newAlphaName(%q) = %q, want %q", i, s.in, got, s.want)
		}
	}
}

func TestNewAlphaNameEmptyTable(t *testing.T) {
	tbl := ir.AlphaTable{}
	if got := ir.NewAlphaName(tbl, "foo_12"); got != "foo_12" {
		t.Errorf("fresh lookup = %q, want foo_12", got)
	}
	if tbl["foo"] != 12 {
		t.Errorf("table[foo] = %d, want 12", tbl["foo"])
	}
}

func TestNewAlphaNameZeroSuffix(t *testing.T) {
	tbl := ir.AlphaTable{}
	if got := ir.NewAlphaName(tbl, "v_0"); got != "v_0" {
		t.Errorf("v_0 fresh = %q", got)
	}
	if got := ir.NewAlphaName(tbl, "v"); got != "v_1" {
		t.Errorf("after v_0, v = %q, want v_1", got)
	}
}

func TestNewAlphaNameNoUnderscore(t *testing.T) {
	tbl := ir.AlphaTable{}
	// Digits not preceded by an underscore belong to the prefix.
	if got := ir.NewAlphaName(tbl, "x5"); got != "x5" {
		t.Errorf("x5 fresh = %q", got)
	}
	if got := ir.NewAlphaName(tbl, "x5"); got != "x5_1" {
		t.Errorf("x5 again = %q, want x5_1", got)
	}
}
