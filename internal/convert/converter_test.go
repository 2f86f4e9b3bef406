package convert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/docs/report.pdf", "/docs/report.md"},
		{"/docs/slides.pptx", "/docs/slides.md"},
		{"/docs/notes.md", "/docs/notes.md"},
		{"/docs/archive.tar.docx", "/docs/archive.tar.md"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCommandConverterSuccess(t *testing.T) {
	c := NewCommandConverter("true")

	out, err := c.Convert(context.Background(), "/docs/report.pdf")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if out != "/docs/report.md" {
		t.Fatalf("output = %s, want /docs/report.md", out)
	}
}

func TestCommandConverterFailure(t *testing.T) {
	c := NewCommandConverter("false")

	_, err := c.Convert(context.Background(), "/docs/report.pdf")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	var convErr *Error
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %T, want *convert.Error", err)
	}
	if convErr.Path != "/docs/report.pdf" {
		t.Fatalf("error path = %s", convErr.Path)
	}
	if convErr.Reason == "" {
		t.Fatal("error reason should not be empty")
	}
}

func TestCommandConverterCancellation(t *testing.T) {
	// Extra arguments appended by the converter land in the script's
	// positional parameters and are ignored.
	c := NewCommandConverter("sh", "-c", "sleep 10", "conv")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Convert(ctx, "/docs/report.pdf")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestReason(t *testing.T) {
	execErr := errors.New("exit status 2")

	if got := reason("boom: unreadable file\n", execErr); got != "boom: unreadable file" {
		t.Fatalf("reason = %q", got)
	}
	if got := reason("warning: x\nfatal: corrupt header\n\n", execErr); got != "fatal: corrupt header" {
		t.Fatalf("reason = %q", got)
	}
	if got := reason("", execErr); !strings.Contains(got, "exit status") {
		t.Fatalf("reason = %q, want exec error fallback", got)
	}
}
