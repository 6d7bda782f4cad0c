// Package csvfile implements store.Store as one delimited text file per
// table inside a directory, optionally Shift_JIS encoded.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jask/finecalc/internal/store"
)

// Encoding names accepted by New.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// headerAliases maps the Japanese headers of the legacy wanted_list.csv
// sheet onto column names.
var headerAliases = map[string]string{
	"ID/Name":  store.ColSubjectID,
	"指名手配開始時刻": store.ColStartTime,
	"指名手配解除時刻": store.ColEndTime,
	"罪状":       store.ColCharges,
	"罰金額":      store.ColTotalFine,
}

// Store keeps each table in <dir>/<table>.csv with a header row.
type Store struct {
	dir string
	enc encoding.Encoding
}

// New returns a store rooted at dir. An empty encoding means UTF-8.
func New(dir, encodingName string) (*Store, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, enc: enc}, nil
}

// LookupEncoding resolves an encoding name accepted by New.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		return unicode.UTF8, nil
	case EncodingShiftJIS, "sjis", "shift-jis":
		return japanese.ShiftJIS, nil
	}
	return nil, fmt.Errorf("unsupported csv encoding %q", name)
}

func (s *Store) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Read returns no rows when the file does not exist yet.
func (s *Store) Read(ctx context.Context, table string) ([]store.Record, error) {
	if _, err := store.Columns(table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("read", table, err)
	}
	f, err := os.Open(s.path(table))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, store.Wrap("read", table, err)
	}
	defer f.Close()

	recs, err := Decode(transform.NewReader(bufio.NewReader(f), s.enc.NewDecoder()))
	return recs, store.Wrap("read", table, err)
}

// Decode reads a header row and the rows under it. Known Japanese headers
// are mapped onto column names.
func Decode(r io.Reader) ([]store.Record, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true

	header, err := csvr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		cols[i] = h
	}

	var out []store.Record
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := make(store.Record, len(cols))
		for i, col := range cols {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Write replaces the file atomically via a temp file and rename.
func (s *Store) Write(ctx context.Context, table string, rows []store.Record) error {
	cols, err := store.Columns(table)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Wrap("write", table, err)
	}
	return store.Wrap("write", table, s.write(table, cols, rows))
}

func (s *Store) write(table string, cols []string, rows []store.Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := s.path(table)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	tw := transform.NewWriter(f, s.enc.NewEncoder())
	err = Encode(tw, cols, rows)
	if err == nil {
		err = tw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Encode writes a header row followed by rows.
func Encode(w io.Writer, cols []string, rows []store.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			rec[i] = row.String(col)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
