package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// tailLast prints the last n lines from the activity log.
func tailLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintln(w, "No events yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, "No events yet")
		return nil
	}

	start := 0
	if n > 0 && len(lines) > n {
		start = len(lines) - n
	}
	for _, line := range lines[start:] {
		printEventLine(w, line)
	}
	return nil
}

// waitForFile waits for a file to be created and returns the opened file.
func waitForFile(ctx context.Context, path string, poll time.Duration) (*os.File, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(poll):
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open file: %w", err)
			}
		}
	}
}

// tailFollow prints lines appended to the activity log until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, path string, poll time.Duration) error {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("open log file: %w", err)
		}
		_, _ = fmt.Fprintln(w, "Waiting for log file to be created...")
		file, err = waitForFile(ctx, path, poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	_, _ = fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial string
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		partial += chunk
		if err == io.EOF {
			time.Sleep(poll)
			continue
		}
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
		printEventLine(w, strings.TrimSuffix(partial, "\n"))
		partial = ""
	}
}

// printEventLine prints one activity log line in a human-readable format.
func printEventLine(w io.Writer, line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		_, _ = fmt.Fprintln(w, line)
		return
	}

	timestamp := ""
	if ts, ok := event["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			timestamp = t.Local().Format("15:04:05")
		} else {
			timestamp = ts
		}
	}

	eventType, _ := event["type"].(string)

	var detail string
	switch eventType {
	case "notification":
		title, _ := event["title"].(string)
		desc, _ := event["description"].(string)
		detail = fmt.Sprintf("%s: %s", title, desc)
	case "step.changed":
		from, _ := event["from"].(float64)
		to, _ := event["to"].(float64)
		via, _ := event["via"].(string)
		detail = fmt.Sprintf("step=%d->%d via=%s", int(from)+1, int(to)+1, via)
	case "validation.failed":
		attempt, _ := event["attempt"].(float64)
		limit, _ := event["limit"].(float64)
		detail = fmt.Sprintf("attempt=%d/%d", int(attempt), int(limit))
	case "lockout.start":
		if until, ok := event["until"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, until); err == nil {
				detail = "until=" + t.Local().Format("15:04:05")
			}
		}
	case "submission.end":
		if ok, _ := event["success"].(bool); ok {
			id, _ := event["receipt_id"].(string)
			detail = "receipt=" + id
		} else if msg, ok := event["error"].(string); ok {
			detail = "error=" + msg
		}
	case "state.restored", "state.cleared":
		if key, ok := event["key"].(string); ok {
			detail = "key=" + key
		}
	}

	if detail != "" {
		_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, eventType, detail)
	} else {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", timestamp, eventType)
	}
}
