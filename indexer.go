package farmindex

import (
	"io"
	"os"

	"github.com/datahen/farmindex/internal/bloomindex"
	"github.com/datahen/farmindex/internal/fingerprint"
	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/datahen/farmindex/internal/utils"
)

// Indexer builds and navigates one on-disk index file. A single
// Indexer is not safe for concurrent use; serializing access across
// goroutines or processes is the caller's responsibility.
type Indexer struct {
	cfg    Config
	file   *os.File
	header *indexfile.Header

	rootID    uint64
	rootKnown bool

	bloom     *bloomindex.Filter
	csvHeader []string
}

// New constructs an Indexer against cfg. It performs no I/O; the index
// file is opened lazily by the first operation that needs it.
func New(cfg Config) *Indexer {
	return &Indexer{cfg: cfg}
}

// Close flushes and releases the index file handle, if one is open.
func (ix *Indexer) Close() error {
	if ix.file == nil {
		return nil
	}
	err := ix.file.Close()
	ix.file = nil
	return utils.WrapError("indexer: close", err)
}

func (ix *Indexer) ensureFile() (*os.File, error) {
	if ix.file != nil {
		return ix.file, nil
	}
	f, err := os.OpenFile(ix.cfg.IndexPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, utils.WrapError("indexer: open index file", err)
	}
	ix.file = f
	return f, nil
}

func (ix *Indexer) ensureHeader() error {
	if ix.header != nil {
		return nil
	}
	f, err := ix.ensureFile()
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return utils.WrapError("indexer: stat index file", err)
	}
	if info.Size() == 0 {
		return utils.NewUnavailableError("indexer: no index built yet", StatusNew.String())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return utils.WrapError("indexer: seek header", err)
	}
	header, err := indexfile.ReadHeader(f)
	if err != nil {
		return err
	}
	ix.header = header
	return nil
}

// Build scans the input file and appends one node per data row,
// resuming an interrupted build when possible and refusing to touch
// an index whose recorded fingerprint no longer matches the input.
// See spec.md §4.6.1.
func (ix *Indexer) Build() (Status, error) {
	inF, err := os.Open(ix.cfg.InputPath)
	if err != nil {
		return StatusNew, utils.WrapError("build: open input", err)
	}
	defer inF.Close()

	fp, err := fingerprint.Compute(inF)
	if err != nil {
		return StatusNew, err
	}

	idxF, err := ix.ensureFile()
	if err != nil {
		return StatusNew, err
	}

	info, err := idxF.Stat()
	if err != nil {
		return StatusNew, utils.WrapError("build: stat index", err)
	}

	var existingCount uint64
	var header *indexfile.Header

	if info.Size() > 0 {
		if _, err := idxF.Seek(0, io.SeekStart); err != nil {
			return StatusNew, utils.WrapError("build: seek", err)
		}
		header, err = indexfile.ReadHeader(idxF)
		if err != nil {
			return StatusCorrupted, utils.NewUnavailableError("build: reading existing header", StatusCorrupted.String())
		}

		if !fingerprint.Matches(header, fp) {
			return StatusWrongInputFile, utils.NewUnavailableError("build: input file changed since last build", StatusWrongInputFile.String())
		}
		if header.Indexed {
			ix.header = header
			return StatusIndexed, nil
		}
		existingCount = header.IndexedCount
	} else {
		header = &indexfile.Header{
			Version:      indexfile.Version,
			Indexed:      false,
			IndexedCount: 0,
			InputKind:    ix.cfg.InputKind,
			HashPresent:  true,
			Fingerprint:  fp,
		}
		if _, err := idxF.Seek(0, io.SeekStart); err != nil {
			return StatusNew, utils.WrapError("build: seek", err)
		}
		if err := header.WriteTo(idxF); err != nil {
			return StatusNew, err
		}
	}
	ix.header = header

	if _, err := inF.Seek(0, io.SeekStart); err != nil {
		return StatusNew, utils.WrapError("build: seek input", err)
	}
	data, err := io.ReadAll(inF)
	if err != nil {
		return StatusNew, utils.WrapError("build: read input", err)
	}

	var rows []byteRange
	switch ix.cfg.InputKind {
	case indexfile.InputKindCSV:
		_, allRows, serr := scanCSVRows(data)
		if serr != nil {
			return StatusNew, utils.WrapError("build: scan csv", serr)
		}
		rows = allRows
	case indexfile.InputKindJSON:
		allRows, serr := scanJSONRows(data)
		if serr != nil {
			return StatusNew, utils.WrapError("build: scan json", serr)
		}
		rows = allRows
	default:
		return StatusNew, &utils.Error{Kind: utils.KindInvalidValue, Context: "build: unknown input kind", Offset: -1}
	}

	if existingCount > uint64(len(rows)) {
		return StatusCorrupted, &utils.Error{
			Kind:    utils.KindInvalidValue,
			Context: "build: existing index has more rows than the input now contains",
			Offset:  -1,
		}
	}

	appendOffset, err := indexfile.Offset(existingCount + 1)
	if err != nil {
		return StatusNew, err
	}
	if _, err := idxF.Seek(int64(appendOffset), io.SeekStart); err != nil {
		return StatusNew, utils.WrapError("build: seek append position", err)
	}

	count := existingCount
	for i := existingCount; i < uint64(len(rows)); i++ {
		row := rows[i]
		node := indexfile.Node{
			Status:     indexfile.StatusPending,
			InputStart: uint64(row.Start),
			InputEnd:   uint64(row.End),
		}
		if err := node.WriteTo(idxF); err != nil {
			return StatusNew, err
		}
		count++
	}

	if err := idxF.Sync(); err != nil {
		return StatusNew, utils.WrapError("build: flush nodes", err)
	}

	header.Indexed = true
	header.IndexedCount = count
	if _, err := idxF.Seek(0, io.SeekStart); err != nil {
		return StatusNew, utils.WrapError("build: seek header rewrite", err)
	}
	if err := header.WriteTo(idxF); err != nil {
		return StatusNew, err
	}
	if err := idxF.Sync(); err != nil {
		return StatusNew, utils.WrapError("build: fsync header", err)
	}

	ix.header = header
	return StatusIndexed, nil
}

// Healthcheck reports which lifecycle state the index file is
// currently in without mutating anything. See spec.md §4.6.4.
func (ix *Indexer) Healthcheck() (Status, error) {
	info, err := os.Stat(ix.cfg.IndexPath)
	if os.IsNotExist(err) {
		return StatusNew, nil
	}
	if err != nil {
		return StatusNew, utils.WrapError("healthcheck: stat index", err)
	}
	if info.Size() == 0 {
		return StatusNew, nil
	}

	f, err := os.Open(ix.cfg.IndexPath)
	if err != nil {
		return StatusNew, utils.WrapError("healthcheck: open index", err)
	}
	defer f.Close()

	header, err := indexfile.ReadHeader(f)
	if err != nil {
		return StatusCorrupted, nil
	}

	dataSize := info.Size() - int64(indexfile.HeaderBytes)
	if dataSize < 0 || dataSize%int64(indexfile.NodeBytes) != 0 {
		return StatusCorrupted, nil
	}
	actualCount := uint64(dataSize / int64(indexfile.NodeBytes))

	if header.Indexed {
		if actualCount != header.IndexedCount {
			return StatusCorrupted, nil
		}
		return StatusIndexed, nil
	}

	if header.HashPresent {
		if matches, ferr := ix.inputFingerprintMatches(header); ferr == nil && matches {
			if actualCount != header.IndexedCount {
				return StatusIncomplete, nil
			}
		}
	}
	return StatusIndexing, nil
}

func (ix *Indexer) inputFingerprintMatches(header *indexfile.Header) (bool, error) {
	inF, err := os.Open(ix.cfg.InputPath)
	if err != nil {
		return false, err
	}
	defer inF.Close()

	fp, err := fingerprint.Compute(inF)
	if err != nil {
		return false, err
	}
	return fingerprint.Matches(header, fp), nil
}

// Value returns the node at 1-based id, or nil if id is 0 or beyond
// indexed_count. See spec.md §4.6.2.
func (ix *Indexer) Value(id uint64) (*indexfile.Node, error) {
	if id == 0 {
		return nil, nil
	}
	if err := ix.ensureHeader(); err != nil {
		return nil, err
	}
	if id > ix.header.IndexedCount {
		return nil, nil
	}

	f, err := ix.ensureFile()
	if err != nil {
		return nil, err
	}
	off, err := indexfile.Offset(id)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
		return nil, utils.WrapError("value: seek", err)
	}
	node, err := indexfile.ReadNode(f)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// SaveValue overwrites the node at 1-based id with node, in a single
// seek-and-write. See spec.md §4.6.2.
func (ix *Indexer) SaveValue(id uint64, node indexfile.Node) error {
	if id == 0 {
		return &utils.Error{Kind: utils.KindInvalidValue, Context: "save_value: id 0 is the nil sentinel", Offset: -1}
	}
	f, err := ix.ensureFile()
	if err != nil {
		return err
	}
	off, err := indexfile.Offset(id)
	if err != nil {
		return err
	}
	if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
		return utils.WrapError("save_value: seek", err)
	}
	return node.WriteTo(f)
}

// UpdateIndexValue is save_value under the name spec.md §4.6.2 gives
// the same operation when called out as its own API.
func (ix *Indexer) UpdateIndexValue(id uint64, node indexfile.Node) error {
	return ix.SaveValue(id, node)
}

// IndexedCount returns the number of nodes the header currently
// declares, loading the header if necessary.
func (ix *Indexer) IndexedCount() (uint64, error) {
	if err := ix.ensureHeader(); err != nil {
		return 0, err
	}
	return ix.header.IndexedCount, nil
}
