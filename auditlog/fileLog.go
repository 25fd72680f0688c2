package auditlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/juju/fslock"
)

var _ Log = (*FileLog)(nil)

type FileLog struct {
	lockFile *fslock.Lock

	dataFile *os.File
	reader   *bufio.Reader
}

const (
	EOL             = '\n'
	defaultLockFile = "/tmp/consentd_audit_lock"
)

func countLines(r io.Reader) (uint64, error) {
	var count uint64
	buf := make([]byte, bufio.MaxScanTokenSize)
	for {
		bufferSize, err := r.Read(buf)
		if err != nil && err != io.EOF {
			return 0, err
		}

		var buffPosition int
		for {
			i := bytes.IndexByte(buf[buffPosition:], EOL)
			if i == -1 || bufferSize == buffPosition {
				break
			}
			buffPosition += i + 1
			count++
		}
		if err == io.EOF {
			break
		}
	}

	return count, nil
}

// InitFileLog inits an append-only audit log file
// It takes two arguments: filename - path to a data file, lockFilename (optional) - path to a lock file
func InitFileLog(filename string, lockFilename ...string) (Log, error) {
	var (
		fl  FileLog
		err error
	)
	if len(lockFilename) > 0 {
		fl.lockFile = fslock.New(lockFilename[0])
	} else {
		fl.lockFile = fslock.New(defaultLockFile)
	}

	if fl.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, err
	}
	fl.reader = bufio.NewReader(fl.dataFile)
	return &fl, nil
}

// Append writes an event to the append-only audit file, returns the event with offset and id
func (fl *FileLog) Append(event Event) (Event, error) {
	var (
		err error
	)
	if err = fl.lockFile.Lock(); err != nil {
		return event, err
	}
	defer fl.lockFile.Unlock()

	event.ID = uuid.New().String()
	if event.At.IsZero() {
		event.At = time.Now()
	}

	if _, err = fl.dataFile.Seek(0, 0); err != nil { // otherwise countLines will return zero
		return event, err
	}
	if event.Offset, err = countLines(fl.dataFile); err != nil {
		return event, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return event, err
	}
	data = append(data, EOL)
	_, err = fl.dataFile.Write(data)
	return event, err
}

// Read returns a slice of events from the audit file starting at the given offset
func (fl *FileLog) Read(offset uint64) ([]Event, error) {
	var (
		events []Event
		err    error
		row    []byte
		data   Event
	)
	if _, err = fl.dataFile.Seek(0, 0); err != nil {
		return nil, err
	}
	for {
		row, err = fl.reader.ReadBytes(EOL)
		if err != nil {
			break
		}

		if offset > 0 {
			offset--
			continue
		}

		if err = json.Unmarshal(row, &data); err != nil {
			return nil, err
		}
		events = append(events, data)
	}
	if err != io.EOF {
		return nil, err
	}
	return events, nil
}

func (fl *FileLog) Close() error {
	return fl.dataFile.Close()
}
