package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("expected Style=%q, got %s", StyleDark, opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines {
		t.Errorf("expected emoji and newline preservation enabled, got %+v", opts)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle("light").
		WithEmoji(false).
		WithPreserveNewLines(false)

	want := Options{Width: 100, Style: "light"}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{name: "heading", input: "# Cafes near you", width: 80, contains: "Cafes"},
		{name: "bold", input: "Open **now**", width: 80, contains: "now"},
		{name: "list", input: "- Blue Tokai\n- Third Wave", width: 80, contains: "Tokai"},
		{name: "narrow_width", input: "# Pharmacies that are open late tonight", width: 30, contains: "Pharmacies"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	output, err = Markdown(input, DefaultOptions().WithEmoji(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownUnknownStyleFallsBack(t *testing.T) {
	output, err := Markdown("# Test", DefaultOptions().WithStyle("no-such-style"))
	if err != nil {
		t.Fatalf("unknown style should fall back, got error: %v", err)
	}
	if !strings.Contains(output, "Test") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestReply(t *testing.T) {
	out := Reply("Found **2** places", DefaultOptions().WithStyle(StyleNoTTY))
	if !strings.Contains(out, "places") {
		t.Errorf("Reply() = %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("Reply() should trim blank lines, got %q", out)
	}
}
