package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestSizeFromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "90")
	t.Setenv("LINES", "33")

	if g := Size(-1); g != (Geometry{Columns: 90, Rows: 33}) {
		t.Errorf("expected 90x33 from env, got %+v", g)
	}
}

func TestSizeFallback(t *testing.T) {
	t.Setenv("COLUMNS", "")
	t.Setenv("LINES", "nope")

	if g := Size(-1); g != Fallback {
		t.Errorf("expected fallback %+v, got %+v", Fallback, g)
	}

	custom := Geometry{Columns: 80, Rows: 24}
	if g := SizeOr(-1, custom); g != custom {
		t.Errorf("expected custom fallback, got %+v", g)
	}
	if g := SizeOr(-1, Geometry{}); g != Fallback {
		t.Errorf("expected default fallback for empty geometry, got %+v", g)
	}
}

func TestScreenDraw(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)

	if err := s.Draw("ab\ncd"); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if got := buf.String(); got != ClearHome+"ab\ncd" {
		t.Errorf("unexpected output %q", got)
	}

	buf.Reset()
	s.Printf("%d frames\n", 3)
	s.Println("done")
	if got := buf.String(); got != "3 frames\ndone\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestSummary(t *testing.T) {
	out := Summary("Playing", []Field{
		{Label: "Video", Value: "640x480"},
		{Label: "Terminal", Value: "120x40"},
	}, "Press Ctrl+C to stop...")

	for _, want := range []string{"Playing", "Video:", "640x480", "Terminal:", "120x40", "Press Ctrl+C"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(Rule(5), "=====") {
		t.Errorf("unexpected rule %q", Rule(5))
	}
}
