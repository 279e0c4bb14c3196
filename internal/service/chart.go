package service

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

const (
	keyType uint8 = 1 << iota
	keyLabels
	keyDatasets

	allChartKeys = keyType | keyLabels | keyDatasets
)

// maxChartCandidates caps how many balanced objects carrying the chart keys
// are validated per top-level span.
const maxChartCandidates = 32

// frame is one open object or array while scanning.
type frame struct {
	start     int
	object    bool
	expectKey bool
	keys      uint8
}

type span struct{ start, end int }

// ExtractChart returns the first complete JSON object in text whose top-level
// keys include type, labels and datasets. The keys may appear in any order.
// Objects without those keys are not returned but their members are searched,
// so a chart nested in a wrapper object is still found. Returns nil when
// nothing matches; the chart contents are not validated.
//
// The text is walked once, tracking nesting and string state. Only balanced
// objects that carry all three keys are parsed, earliest start first.
func ExtractChart(text string) json.RawMessage {
	var (
		stack []frame
		found []span
	)
	flush := func() json.RawMessage {
		sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })
		for i, c := range found {
			if i == maxChartCandidates {
				break
			}
			if raw := compactObject(text[c.start:c.end]); raw != nil {
				return raw
			}
		}
		found = found[:0]
		return nil
	}

	for i := 0; i < len(text); i++ {
		switch ch := text[i]; ch {
		case '{', '[':
			stack = append(stack, frame{start: i, object: ch == '{', expectKey: ch == '{'})
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case top.object != (ch == '}'):
				// mismatched close, whatever is open cannot be JSON
				stack = stack[:0]
			case top.object && top.keys == allChartKeys:
				found = append(found, span{top.start, i + 1})
			}
			if len(stack) == 0 && len(found) > 0 {
				if raw := flush(); raw != nil {
					return raw
				}
			}
		case '"':
			// quotes in prose outside any object are not strings
			if len(stack) == 0 {
				continue
			}
			end := stringEnd(text, i)
			if end < 0 {
				i = len(text)
				continue
			}
			if top := &stack[len(stack)-1]; top.object && top.expectKey {
				top.keys |= chartKey(text[i : end+1])
				top.expectKey = false
			}
			i = end
		case ',':
			if n := len(stack); n > 0 && stack[n-1].object {
				stack[n-1].expectKey = true
			}
		}
	}
	if len(found) > 0 {
		return flush()
	}
	return nil
}

// stringEnd returns the index of the quote closing the string opened at
// text[start], or -1 if it never closes.
func stringEnd(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func chartKey(quoted string) uint8 {
	key := quoted[1 : len(quoted)-1]
	if strings.IndexByte(key, '\\') >= 0 {
		if err := json.Unmarshal([]byte(quoted), &key); err != nil {
			return 0
		}
	}
	switch key {
	case "type":
		return keyType
	case "labels":
		return keyLabels
	case "datasets":
		return keyDatasets
	}
	return 0
}

// compactObject validates s as JSON and returns it without insignificant
// whitespace, or nil if it is not valid.
func compactObject(s string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil
	}
	return buf.Bytes()
}
