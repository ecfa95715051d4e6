package farmindex

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/datahen/farmindex/internal/utils"
)

// ParseInput reads the byte range node occupies in the input file and
// decodes it into a typed row: a column-name-to-value map for CSV, or
// the decoded value for a JSON array element. Parse errors are
// returned to the caller wrapped with context (the parser's error is
// the cause), without mutating the index. See
// spec.md §4.6.5.
func (ix *Indexer) ParseInput(node indexfile.Node) (any, error) {
	inF, err := os.Open(ix.cfg.InputPath)
	if err != nil {
		return nil, utils.WrapError("parse_input: open input", err)
	}
	defer inF.Close()

	if node.InputEnd < node.InputStart {
		return nil, &utils.Error{Kind: utils.KindInvalidValue, Context: "parse_input: input_end precedes input_start", Offset: -1}
	}
	raw := make([]byte, node.InputEnd-node.InputStart)
	if _, err := inF.ReadAt(raw, int64(node.InputStart)); err != nil {
		return nil, utils.WrapError("parse_input: reading row bytes", err)
	}

	switch ix.cfg.InputKind {
	case indexfile.InputKindCSV:
		return ix.parseCSVRow(inF, raw)
	case indexfile.InputKindJSON:
		return parseJSONRow(raw)
	default:
		return nil, &utils.Error{Kind: utils.KindInvalidValue, Context: "parse_input: unknown input kind", Offset: -1}
	}
}

// csvColumns returns the column names recorded in inF's first
// non-empty line, caching the result for the lifetime of ix since the
// header row never changes independently of a rebuild.
func (ix *Indexer) csvColumns(inF *os.File) ([]string, error) {
	if ix.csvHeader != nil {
		return ix.csvHeader, nil
	}
	if _, err := inF.Seek(0, io.SeekStart); err != nil {
		return nil, utils.WrapError("parse_input: seek csv header", err)
	}
	scanner := bufio.NewScanner(inF)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cols, err := csv.NewReader(bytes.NewReader([]byte(line))).Read()
		if err != nil {
			return nil, utils.WrapError("parse_input: parsing csv header", err)
		}
		ix.csvHeader = cols
		return cols, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, utils.WrapError("parse_input: scanning csv header", err)
	}
	return nil, &utils.Error{Kind: utils.KindInvalidValue, Context: "parse_input: input has no header row", Offset: -1}
}

func (ix *Indexer) parseCSVRow(inF *os.File, raw []byte) (map[string]string, error) {
	cols, err := ix.csvColumns(inF)
	if err != nil {
		return nil, err
	}
	fields, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if err != nil {
		return nil, utils.WrapError("parse_input: parsing csv row", err)
	}
	row := make(map[string]string, len(cols))
	for i, col := range cols {
		if i < len(fields) {
			row[col] = fields[i]
		} else {
			row[col] = ""
		}
	}
	return row, nil
}

func parseJSONRow(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, utils.WrapError("parse_input: parsing json row", err)
	}
	return v, nil
}
