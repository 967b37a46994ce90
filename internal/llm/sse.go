package llm

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"strings"
)

// doneSentinel terminates a single frame; the loop keeps draining the stream.
const doneSentinel = "[DONE]"

// splitFrames is a bufio.SplitFunc that tokenizes server-sent-events frames,
// i.e. chunks separated by a blank line. A trailing unterminated frame is
// still delivered at EOF.
func splitFrames(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// decodeStream incrementally parses an SSE byte stream. Every `data:` line of
// every frame is handed to extract, which pulls the provider-specific text
// delta out of the JSON payload. Non-empty deltas are accumulated and, when ch
// is non-nil, forwarded synchronously in arrival order. A payload extract
// cannot parse is logged and skipped; it never aborts the stream.
func decodeStream(body io.Reader, extract func(payload []byte) (string, error), ch chan<- string) (string, error) {
	var full strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitFrames)

	for scanner.Scan() {
		for _, line := range strings.Split(scanner.Text(), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" || payload == doneSentinel {
				continue
			}

			delta, err := extract([]byte(payload))
			if err != nil {
				slog.Warn("Failed to parse stream frame, skipping", "error", err)
				continue
			}
			if delta == "" {
				continue
			}

			full.WriteString(delta)
			if ch != nil {
				ch <- delta
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return strings.TrimSpace(full.String()), err
	}

	return strings.TrimSpace(full.String()), nil
}
