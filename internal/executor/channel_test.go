package executor

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

// pipeChannel returns a channel reading from a pipe, which cannot enter raw
// mode and so exercises the line fallback.
func pipeChannel(t *testing.T, input string) (*ttyChannel, *bytes.Buffer) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if _, err := w.WriteString(input); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = w.Close()
	var out bytes.Buffer
	return &ttyChannel{in: r, out: &out}, &out
}

func TestConfirm_LineFallbackKeepsBufferedAnswers(t *testing.T) {
	ch, out := pipeChannel(t, "y\nn\nyes\n")
	ctx := context.Background()

	want := []bool{true, false, true}
	for i, w := range want {
		ok, err := ch.Confirm(ctx, "cmd")
		if err != nil {
			t.Fatalf("prompt %d: %v", i, err)
		}
		if ok != w {
			t.Errorf("prompt %d = %v, want %v", i, ok, w)
		}
	}
	if _, err := ch.Confirm(ctx, "cmd"); err == nil {
		t.Error("expected error once input is exhausted")
	}
	if !strings.Contains(out.String(), `Run "cmd"? [y/N] `) {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestConfirm_CancelledContext(t *testing.T) {
	ch, out := pipeChannel(t, "y\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ok, err := ch.Confirm(ctx, "cmd"); ok || err == nil {
		t.Errorf("ok=%v err=%v, want decline with error", ok, err)
	}
	if out.Len() != 0 {
		t.Errorf("no prompt expected, got %q", out.String())
	}
}

func TestFirstKey_EscapeSequenceIsOneKey(t *testing.T) {
	if k := firstKey([]byte("\x1b[A")); accepts(k) || k != "\x1b" {
		t.Errorf("firstKey = %q", k)
	}
	if k := firstKey([]byte("yz")); !accepts(k) {
		t.Errorf("firstKey = %q, want y", k)
	}
	if k := firstKey(nil); k != "" {
		t.Errorf("firstKey(nil) = %q", k)
	}
}
