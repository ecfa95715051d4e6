package farmindex

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// byteRange is a half-open [Start, End) byte range within the input
// file. End always lands on the first byte of whatever follows the
// range: the next row's start, or EOF.
type byteRange struct {
	Start int64
	End   int64
}

// scanCSVRows walks a whole CSV input, quote-aware, and returns the
// header row's range plus the range of every subsequent non-blank
// data row. Blank lines are skipped entirely and never counted as the
// header. Embedded newlines inside a quoted field do not end a row.
func scanCSVRows(data []byte) (byteRange, []byteRange, error) {
	var rows []byteRange
	var header byteRange
	headerSeen := false

	n := len(data)
	inQuotes := false
	rowStart := 0

	finish := func(contentEnd, nextStart int) {
		if contentEnd == rowStart {
			return // blank line
		}
		if !headerSeen {
			headerSeen = true
			header = byteRange{Start: int64(rowStart), End: int64(nextStart)}
			return
		}
		rows = append(rows, byteRange{Start: int64(rowStart), End: int64(nextStart)})
	}

	i := 0
	for i < n {
		b := data[i]
		switch {
		case b == '"':
			inQuotes = !inQuotes
			i++
		case !inQuotes && b == '\r' && i+1 < n && data[i+1] == '\n':
			finish(i, i+2)
			i += 2
			rowStart = i
		case !inQuotes && (b == '\n' || b == '\r'):
			finish(i, i+1)
			i++
			rowStart = i
		default:
			i++
		}
	}
	if rowStart < n {
		finish(n, n)
	}

	return header, rows, nil
}

// scanJSONRows walks a top-level JSON array and returns the exact byte
// range of each element, using the decoder's own position tracking
// rather than re-parsing: raw captures the exact bytes of one element,
// so its end position minus its length is that element's exact start.
func scanJSONRows(data []byte) ([]byteRange, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json input: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, fmt.Errorf("json input: expected a top-level array")
	}

	var rows []byteRange
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("json input: decoding element %d: %w", len(rows), err)
		}
		end := dec.InputOffset()
		start := end - int64(len(raw))
		rows = append(rows, byteRange{Start: start, End: end})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("json input: closing array: %w", err)
	}

	return rows, nil
}
