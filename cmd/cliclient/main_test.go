package main

import (
	"image"
	"testing"
)

func TestClickList(t *testing.T) {
	var l clickList
	for _, s := range []string{"10,20", " 3 , 4 "} {
		if err := l.Set(s); err != nil {
			t.Fatalf("Set(%q): %v", s, err)
		}
	}
	if len(l) != 2 || l[0] != image.Pt(10, 20) || l[1] != image.Pt(3, 4) {
		t.Fatalf("unexpected clicks %v", l)
	}
	if got := l.String(); got != "10,20 3,4" {
		t.Fatalf("expected %q, got %q", "10,20 3,4", got)
	}

	for _, bad := range []string{"", "10", "a,1", "1,b"} {
		if err := l.Set(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
