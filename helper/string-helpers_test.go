package helper

import (
	"reflect"
	"testing"
)

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{"A", "B", "A", "C", "B"})
	expected := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	// Test 2, confirm empty input produces empty output.
	if got = UniqueStrings(nil); len(got) != 0 {
		t.Fatalf("expected empty slice; got %v", got)
	}
}

func TestSplitRight(t *testing.T) {
	l, r := SplitRight("landing/batch/001", "/")
	if l != "landing/batch" || r != "001" {
		t.Fatalf("unexpected split: %q %q", l, r)
	}
	l, r = SplitRight("nodelim", "/")
	if l != "nodelim" || r != "" {
		t.Fatalf("unexpected split: %q %q", l, r)
	}
}

func TestGetTrueFalseStringAsBool(t *testing.T) {
	for s, expected := range map[string]bool{"true": true, " TRUE ": true, "false": false, "untrue": false, "": false} {
		if got := GetTrueFalseStringAsBool(s); got != expected {
			t.Fatalf("input %q: expected %v; got %v", s, expected, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Fatalf("expected abc; got %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Fatalf("expected ab; got %q", got)
	}
}
