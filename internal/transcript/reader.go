package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"
)

// DefaultTail is the number of entries returned when no limit is given.
const DefaultTail = 20

// maxLine bounds a single transcript line; memuc output can be long.
const maxLine = 4 << 20

// Filter narrows the entries returned by Reader.Tail.
type Filter struct {
	// Verb keeps entries whose arguments contain this memuc verb.
	Verb string
	// Since drops entries started before this time.
	Since time.Time
	// FailedOnly keeps entries that errored, timed out or exited non-zero.
	FailedOnly bool
}

func (f Filter) match(e Entry) bool {
	if f.Verb != "" && !slices.Contains(e.Args, f.Verb) {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if f.FailedOnly && !e.Failed() {
		return false
	}
	return true
}

// Reader reads a transcript file.
type Reader struct {
	path string
}

// NewReader returns a Reader for the transcript at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Tail returns the last n entries matching filter, oldest first. If n <= 0,
// DefaultTail is used. A missing transcript has no entries. Lines that fail
// to decode, such as a torn final write, are skipped.
func (r *Reader) Tail(n int, filter Filter) ([]Entry, error) {
	if n <= 0 {
		n = DefaultTail
	}

	file, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	// Ring buffer of the last n matches.
	ring := make([]Entry, n)
	idx, count := 0, 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if !filter.match(e) {
			continue
		}
		ring[idx] = e
		idx = (idx + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	if count < n {
		return ring[:count], nil
	}
	result := make([]Entry, n)
	for i := range n {
		result[i] = ring[(idx+i)%n]
	}
	return result, nil
}
