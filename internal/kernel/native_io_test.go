package kernel

import (
	"bytes"
	"os"
	"testing"

	"mech/internal/value"
)

func TestIOPrintlnWritesToHostProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	SetStdout(&buf)
	defer SetStdout(os.Stdout)

	c, ok := StandardRegistry().Lookup("io/println")
	if !ok {
		t.Fatal("io/println not registered")
	}
	k, err := c.Compile([]value.Value{value.Str("hello")})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := k.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("io/println output = %q, want %q", buf.String(), "hello\n")
	}
}

func TestIOPrintOmitsNewline(t *testing.T) {
	var buf bytes.Buffer
	SetStdout(&buf)
	defer SetStdout(os.Stdout)

	c, _ := StandardRegistry().Lookup("io/print")
	k, err := c.Compile([]value.Value{value.Str("x")})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := k.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if buf.String() != "x" {
		t.Errorf("io/print output = %q, want %q", buf.String(), "x")
	}
}
