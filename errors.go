package jsondict

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrValueNotFound   = errors.New("value not found")
	ErrEmptyCollection = errors.New("empty collection")
	ErrWrongKind       = errors.New("wrong kind")
	ErrUnsupportedType = errors.New("unsupported type")
)

// DataError reports remote bytes that cannot be decoded into a document.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}

// StoreError wraps a failure of the underlying Store. The in-memory tree is
// not rolled back when a save fails.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Error() string {
	return "jsondict: " + e.Op + " " + strconv.Quote(e.Key) + ": " + e.Err.Error()
}

// NodeError reports a failed access to an element of a live tree. Path
// addresses the element, e.g. `proposal.runs[2]`.
type NodeError struct {
	Path string
	Err  error
}

func nodeErrf(path string, err error, format string, args ...any) error {
	if format == "" {
		return &NodeError{path, err}
	}
	return &NodeError{path, fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))}
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Error() string {
	var buf strings.Builder
	buf.WriteString("jsondict: ")
	if e.Path == "" {
		buf.WriteString("<root>")
	} else {
		buf.WriteString(e.Path)
	}
	buf.WriteString(": ")
	buf.WriteString(e.Err.Error())
	return buf.String()
}
