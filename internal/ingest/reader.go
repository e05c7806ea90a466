package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// Reader loads data files from disk. Safe for reuse across files.
type Reader struct {
	parser *channel.Parser
	logger *slog.Logger
}

// NewReader creates a reader with the default header parser. A nil
// logger discards logs.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{parser: channel.NewParser(), logger: logger}
}

// ReadFile loads one file, sniffing delimiter and encoding for text
// formats. Supported extensions: .csv, .txt, .tsv, .dat as delimited
// text; .xlsx and .xls as Excel (first sheet).
func (r *Reader) ReadFile(path string) (*model.DataFile, error) {
	f := model.NewDataFile()
	f.SetFilepath(path)

	var headers []string
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		f.Delimiter = ""
		f.Encoding = ""
		headers, records, err = readExcel(path)
	case ".csv", ".txt", ".tsv", ".dat":
		headers, records, err = r.readDelimited(path, f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Filename, err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%s has no header row", f.Filename)
	}

	if err := r.populate(f, headers, records); err != nil {
		return nil, err
	}
	r.logger.Info("loaded data file",
		"file", f.Filename, "rows", f.Frame.NumRows(), "columns", len(f.Headers),
		"time_column", f.TimeColumn)
	return f, nil
}

// Reload re-reads a data file from its recorded path using its stored
// delimiter and encoding, preserving id and all settings. A missing
// backing file is a recoverable error: the data file keeps its config
// and stays unloaded.
func (r *Reader) Reload(f *model.DataFile) error {
	if _, err := os.Stat(f.Filepath); err != nil {
		return fmt.Errorf("data file %s is unavailable: %w", f.Filename, err)
	}

	var headers []string
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(f.Filepath)) {
	case ".xlsx", ".xls":
		headers, records, err = readExcel(f.Filepath)
	default:
		headers, records, err = readDelimitedWith(f.Filepath, f.Delimiter, f.Encoding)
	}
	if err != nil {
		return fmt.Errorf("reloading %s: %w", f.Filename, err)
	}

	timeCol := f.TimeColumn
	if err := r.populate(f, headers, records); err != nil {
		return err
	}
	// Keep the user's time column choice if it survived the reload.
	if timeCol != "" {
		if err := f.SetTimeColumn(timeCol); err != nil {
			r.logger.Warn("time column gone after reload",
				"file", f.Filename, "column", timeCol)
		}
	}
	return nil
}

// ReadFiles loads several files, continuing past per-file failures.
// Errors are returned keyed by path.
func (r *Reader) ReadFiles(paths []string) ([]*model.DataFile, map[string]error) {
	var out []*model.DataFile
	errs := make(map[string]error)
	for _, path := range paths {
		f, err := r.ReadFile(path)
		if err != nil {
			r.logger.Error("skipping file", "path", path, "error", err)
			errs[path] = err
			continue
		}
		out = append(out, f)
	}
	return out, errs
}

// populate fills a data file's headers, metadata, frame, and time column
// from parsed rows.
func (r *Reader) populate(f *model.DataFile, headers []string, records [][]string) error {
	f.Headers = append([]string(nil), headers...)

	f.ChannelMetadata = make(map[string]*channel.Metadata, len(headers))
	for _, h := range headers {
		f.ChannelMetadata[h] = r.parser.Parse(h)
	}

	cols := make(map[string][]float64, len(headers))
	for _, h := range headers {
		cols[h] = make([]float64, len(records))
	}
	for i, rec := range records {
		for j, h := range headers {
			if j < len(rec) {
				cols[h][i] = parseValue(rec[j])
			} else {
				cols[h][i] = math.NaN()
			}
		}
	}
	fr, err := frame.FromColumns(headers, cols)
	if err != nil {
		return fmt.Errorf("building table for %s: %w", f.Filename, err)
	}
	f.Frame = fr

	return f.SetTimeColumn(DetectTimeColumn(headers))
}

// parseValue converts one cell to a float. Unparseable cells, including
// empty ones, become NaN.
func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (r *Reader) readDelimited(path string, f *model.DataFile) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	f.Encoding = DetectEncoding(raw)
	text, err := decode(raw, f.Encoding)
	if err != nil {
		return nil, nil, err
	}
	f.Delimiter = DetectDelimiter(text)
	r.logger.Debug("sniffed file format",
		"file", f.Filename, "delimiter", f.Delimiter, "encoding", f.Encoding)

	return parseDelimited(text, f.Delimiter)
}

func readDelimitedWith(path, delimiter, encodingName string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	text, err := decode(raw, encodingName)
	if err != nil {
		return nil, nil, err
	}
	if delimiter == "" {
		delimiter = DetectDelimiter(text)
	}
	return parseDelimited(text, delimiter)
}

func parseDelimited(text, delimiter string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = []rune(delimiter)[0]
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, rows[1:], nil
}

// decode converts raw bytes in the named encoding to a UTF-8 string,
// dropping any byte-order mark.
func decode(raw []byte, name string) (string, error) {
	var enc encoding.Encoding
	switch name {
	case "", "utf-8", "utf8":
		enc = unicode.UTF8BOM
	case "utf-16-le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16-be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "windows-1252", "latin-1", "iso-8859-1", "cp1252":
		enc = charmap.Windows1252
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", name, err)
	}
	return string(out), nil
}

// readExcel reads the first sheet of a workbook as header plus data
// rows.
func readExcel(path string) ([]string, [][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}
