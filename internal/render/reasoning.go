package render

import "strings"

// Reasoning markers as emitted inline by the model. Matching is
// case-insensitive and must survive a marker being split across two deltas.
const (
	markerStart = "<think>"
	markerEnd   = "</think>"
)

// Segment is one run of text classified as either visible answer or reasoning.
type Segment struct {
	Text      string
	Reasoning bool
}

// Scanner splits an incoming delta stream into visible and reasoning segments.
// One Scanner instance is owned by exactly one viewer connection; its state is
// the unconsumed buffer plus the current mode, reset whenever a new
// conversation is loaded.
type Scanner struct {
	buf       string
	reasoning bool
}

func NewScanner() *Scanner {
	return &Scanner{}
}

// Reset discards buffered input and returns to visible mode.
func (s *Scanner) Reset() {
	s.buf = ""
	s.reasoning = false
}

// Feed appends a delta to the buffer and returns every segment that can be
// classified so far. A buffer tail that could still turn out to be the prefix
// of a marker is withheld until more input arrives, so a marker torn between
// two deltas is never leaked as literal text.
func (s *Scanner) Feed(delta string) []Segment {
	s.buf += delta
	return s.scan(false)
}

// Flush drains whatever remains once the stream has ended; withheld ambiguous
// tails are emitted as ordinary text in the current mode.
func (s *Scanner) Flush() []Segment {
	return s.scan(true)
}

func (s *Scanner) scan(final bool) []Segment {
	var segs []Segment
	emit := func(text string, reasoning bool) {
		if text == "" {
			return
		}
		segs = append(segs, Segment{Text: text, Reasoning: reasoning})
	}

	for s.buf != "" {
		if s.reasoning {
			if end := indexFold(s.buf, markerEnd); end >= 0 {
				emit(s.buf[:end], true)
				s.buf = s.buf[end+len(markerEnd):]
				s.reasoning = false
				continue
			}
			hold := 0
			if !final {
				hold = ambiguousTail(s.buf, markerEnd)
			}
			emit(s.buf[:len(s.buf)-hold], true)
			s.buf = s.buf[len(s.buf)-hold:]
			return segs
		}

		start := indexFold(s.buf, markerStart)
		end := indexFold(s.buf, markerEnd)

		// An end marker with no start marker before it is literal text,
		// not an error.
		if end >= 0 && (start < 0 || end < start) {
			emit(s.buf[:end+len(markerEnd)], false)
			s.buf = s.buf[end+len(markerEnd):]
			continue
		}
		if start >= 0 {
			emit(s.buf[:start], false)
			s.buf = s.buf[start+len(markerStart):]
			s.reasoning = true
			continue
		}

		hold := 0
		if !final {
			hold = ambiguousTail(s.buf, markerStart, markerEnd)
		}
		emit(s.buf[:len(s.buf)-hold], false)
		s.buf = s.buf[len(s.buf)-hold:]
		return segs
	}
	return segs
}

// Extract is the one-shot normalization pass over a complete answer, built on
// the same scan routine the incremental path uses. It returns the visible text
// and the reasoning sections; an unterminated start marker extends to the end
// of the text.
func Extract(text string) (string, []string) {
	sc := NewScanner()
	segs := sc.Feed(text)
	segs = append(segs, sc.Flush()...)

	var visible strings.Builder
	var reasoning []string
	var section strings.Builder
	inSection := false

	flushSection := func() {
		if !inSection {
			return
		}
		if section.Len() > 0 {
			reasoning = append(reasoning, section.String())
		}
		section.Reset()
		inSection = false
	}

	for _, seg := range segs {
		if seg.Reasoning {
			section.WriteString(seg.Text)
			inSection = true
			continue
		}
		flushSection()
		visible.WriteString(seg.Text)
	}
	flushSection()

	return visible.String(), reasoning
}

// indexFold reports the first case-insensitive occurrence of marker in s.
// Byte-wise comparison keeps offsets stable for non-ASCII input.
func indexFold(s, marker string) int {
	n := len(marker)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], marker) {
			return i
		}
	}
	return -1
}

// ambiguousTail returns the length of the longest suffix of s that is a
// proper, case-insensitive prefix of any of the markers.
func ambiguousTail(s string, markers ...string) int {
	longest := 0
	for _, m := range markers {
		limit := len(m) - 1
		if limit > len(s) {
			limit = len(s)
		}
		for k := limit; k > longest; k-- {
			if strings.EqualFold(s[len(s)-k:], m[:k]) {
				longest = k
				break
			}
		}
	}
	return longest
}
