package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"vault-analytics-lab/internal/domain"
)

// maxLineBytes bounds a single fixture line. Registration events carry full
// token lists, so lines can be large.
const maxLineBytes = 1 << 20

// ReadEvents decodes a JSONL event fixture: one event per line, blank lines
// and lines starting with '#' skipped.
func ReadEvents(r io.Reader) ([]*domain.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var events []*domain.Event
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var ev domain.Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("decode event at line %d: %w", line, err)
		}
		if ev.Kind == "" {
			return nil, fmt.Errorf("event at line %d has no kind", line)
		}
		events = append(events, &ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	return events, nil
}
