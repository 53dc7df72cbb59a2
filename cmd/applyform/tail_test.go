package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const (
	stepLine   = `{"type":"step.changed","timestamp":"2026-01-02T10:00:00Z","source":"controller","from":0,"to":1,"label":"Experiencia","via":"advance"}`
	noteLine   = `{"type":"notification","timestamp":"2026-01-02T10:00:01Z","source":"controller","title":"Éxito","description":"El formulario se envió correctamente.","level":"success"}`
	submitLine = `{"type":"submission.end","timestamp":"2026-01-02T10:00:02Z","source":"controller","success":true,"receipt_id":"abc-123","duration_ms":1500}`
)

func TestPrintEventLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"step change", stepLine, "step.changed: step=1->2 via=advance"},
		{"notification", noteLine, "notification: Éxito: El formulario se envió correctamente."},
		{"submission success", submitLine, "submission.end: receipt=abc-123"},
		{
			"submission failure",
			`{"type":"submission.end","timestamp":"2026-01-02T10:00:02Z","success":false,"error":"boom"}`,
			"submission.end: error=boom",
		},
		{
			"validation failure",
			`{"type":"validation.failed","timestamp":"2026-01-02T10:00:02Z","attempt":2,"limit":3}`,
			"validation.failed: attempt=2/3",
		},
		{
			"state cleared",
			`{"type":"state.cleared","timestamp":"2026-01-02T10:00:02Z","key":"formData"}`,
			"state.cleared: key=formData",
		},
		{
			"no detail",
			`{"type":"lockout.end","timestamp":"2026-01-02T10:00:02Z"}`,
			"lockout.end\n",
		},
		{"not json", "plain text", "plain text\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printEventLine(&buf, tt.line)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("printEventLine() = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTailLast_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := tailLast(&buf, filepath.Join(t.TempDir(), "none.log"), 5); err != nil {
		t.Fatalf("tailLast failed: %v", err)
	}
	if !strings.Contains(buf.String(), "does not exist") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestTailLast_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tailLast(&buf, path, 5); err != nil {
		t.Fatalf("tailLast failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No events yet" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestTailLast_PrintsLastN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	content := strings.Join([]string{stepLine, noteLine, submitLine}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tailLast(&buf, path, 2); err != nil {
		t.Fatalf("tailLast failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "step.changed") {
		t.Errorf("first line should be skipped, got %q", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected 2 lines, got %d: %q", got, out)
	}
}

func TestTailFollow_PrintsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	if err := os.WriteFile(path, []byte(stepLine+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- tailFollow(ctx, &buf, path, 10*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "Following events") {
		if time.Now().After(deadline) {
			t.Fatal("tailFollow never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString(noteLine + "\n")
	_ = f.Close()

	for !strings.Contains(buf.String(), "Éxito") {
		if time.Now().After(deadline) {
			t.Fatalf("appended line not printed, got %q", buf.String())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("tailFollow returned %v", err)
	}
	if strings.Contains(buf.String(), "step.changed") {
		t.Error("existing lines should not be printed when following")
	}
}

func TestTailFollow_WaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf syncBuffer
	if err := tailFollow(ctx, &buf, path, 10*time.Millisecond); err != nil {
		t.Errorf("tailFollow returned %v", err)
	}
	if !strings.Contains(buf.String(), "Waiting for log file") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
