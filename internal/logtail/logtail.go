package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one structured log record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Attr is a key/value pair attached to an entry, rendered as text.
type Attr struct {
	Key   string
	Value string
}

// Parse decodes a JSON log line as written by slog's JSON handler. Lines that
// are not JSON objects come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return entry
	}

	if v, ok := fields["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			entry.Time = ts
		}
	}
	if v, ok := fields["level"].(string); ok {
		entry.Level = strings.ToUpper(v)
	}
	if v, ok := fields["msg"].(string); ok {
		entry.Message = v
	} else {
		entry.Message = ""
	}
	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "msg")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Attrs = append(entry.Attrs, Attr{Key: k, Value: formatValue(fields[k])})
	}
	return entry
}

// ParseLines parses every line in order.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
