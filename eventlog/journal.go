package eventlog

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	amino "github.com/tendermint/go-amino"
	"github.com/waynedobson/remittance/errors"
)

// maxRecordSize protects the reader from a corrupted length prefix.
const maxRecordSize = 1 << 20

// Journal is an append only file of records.
type Journal struct {
	mu  sync.Mutex
	fd  *os.File
	cdc *amino.Codec
}

var _ Publisher = (*Journal)(nil)

// OpenJournal opens the journal file at given path for appending,
// creating it if necessary.
func OpenJournal(path string, cdc *amino.Codec) (*Journal, error) {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open journal: %s", err)
	}
	return &Journal{fd: fd, cdc: cdc}, nil
}

// Publish appends all records and syncs the file.
func (j *Journal) Publish(_ context.Context, records ...Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i := range records {
		raw, err := j.cdc.MarshalBinaryLengthPrefixed(records[i])
		if err != nil {
			return errors.Wrapf(errors.ErrType, "encode record: %s", err)
		}
		if _, err := j.fd.Write(raw); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "write journal: %s", err)
		}
	}
	if err := j.fd.Sync(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "sync journal: %s", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fd.Close()
}

// ReadJournal calls fn with every record of the journal at given path, in
// the order they were appended. A missing journal has no records.
func ReadJournal(path string, cdc *amino.Codec, fn func(Record) error) error {
	fd, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "open journal: %s", err)
	}
	defer fd.Close()
	return readRecords(bufio.NewReader(fd), cdc, fn)
}

func readRecords(r *bufio.Reader, cdc *amino.Codec, fn func(Record) error) error {
	for {
		if _, err := r.Peek(1); err == io.EOF {
			return nil
		}
		var rec Record
		if _, err := cdc.UnmarshalBinaryLengthPrefixedReader(r, &rec, maxRecordSize); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "corrupted journal: %s", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
