// Package store defines the narrow tabular interface the session talks to.
// Drivers live in sub-packages (sqlite, csvfile, memory) and a TTL read cache
// can wrap any of them.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Record is one row keyed by column name. Cells hold int64, string or nil.
type Record map[string]any

// Store reads and replaces whole tables.
type Store interface {
	Read(ctx context.Context, table string) ([]Record, error)
	// Write replaces the entire table with rows.
	Write(ctx context.Context, table string, rows []Record) error
}

// Invalidator is implemented by caching stores.
type Invalidator interface {
	Invalidate(table string)
}

// Default table names.
const (
	TableCrimes  = "crimes"
	TablePresets = "presets"
	TableWanted  = "wanted"
)

// Column names per table.
const (
	ColCrimeID = "crime_id"
	ColCrime   = "crime"
	ColFine    = "fine"

	ColPresetName = "preset_name"
	ColMemberList = "member_list"

	ColSubjectID = "subject_id"
	ColStartTime = "start_time"
	ColEndTime   = "end_time"
	ColCharges   = "charges"
	ColTotalFine = "total_fine"
)

// Schema lists the columns of each known table in storage order.
var Schema = map[string][]string{
	TableCrimes:  {ColCrimeID, ColCrime, ColFine},
	TablePresets: {ColPresetName, ColMemberList},
	TableWanted:  {ColSubjectID, ColStartTime, ColEndTime, ColCharges, ColTotalFine},
}

// ErrUnknownTable is returned for a table outside Schema.
var ErrUnknownTable = errors.New("unknown table")

// Columns returns the column list for table.
func Columns(table string) ([]string, error) {
	cols, ok := Schema[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return cols, nil
}

// ConnectionError reports that the backing store could not be reached or
// failed an I/O operation.
type ConnectionError struct {
	Op    string // "open", "read" or "write"
	Table string
	Err   error
}

func (e *ConnectionError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Wrap turns a driver error into a *ConnectionError. nil stays nil and
// ErrUnknownTable is passed through unchanged.
func Wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnknownTable) {
		return err
	}
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConnectionError{Op: op, Table: table, Err: err}
}

// Unavailable stands in for a backend that failed to open. Every call
// returns Err, so a session over it starts with warnings and empty tables.
type Unavailable struct {
	Err *ConnectionError
}

func (u Unavailable) Read(ctx context.Context, table string) ([]Record, error) {
	if _, err := Columns(table); err != nil {
		return nil, err
	}
	return nil, u.Err
}

func (u Unavailable) Write(ctx context.Context, table string, rows []Record) error {
	if _, err := Columns(table); err != nil {
		return err
	}
	return u.Err
}

// String returns a text cell; ints are formatted, nil is empty.
func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
