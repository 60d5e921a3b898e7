// internal/message/message_test.go
//
// Unit-tests for notice rendering.

package message

import (
	"bytes"
	"context"
	"testing"
)

func TestPrinter_Post(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	ctx := context.Background()

	if err := p.Post(ctx, Notice{Level: Success, Text: "Account created!"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Errorf(ctx, "Server error: %d", 500); err != nil {
		t.Fatal(err)
	}
	if err := p.Post(ctx, Notice{Level: Info}); err != nil {
		t.Fatal(err)
	}
	_ = p.Infof(ctx, "Signing in...")

	want := "✔ Account created!\n✖ Server error: 500\n• Signing in...\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestLevelString(t *testing.T) {
	if Info.String() != "info" || Success.String() != "success" || Error.String() != "error" {
		t.Fatalf("level names wrong")
	}
}
