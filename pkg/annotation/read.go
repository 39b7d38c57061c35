package annotation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/promiscuity/pkg/errors"
)

// DefaultColumn is the zero-based tab column holding the annotation JSON in
// batch files.
const DefaultColumn = 2

const maxLineSize = 16 << 20

// Decode parses and validates one JSON annotation.
func Decode(data []byte) (*Annotation, error) {
	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode annotation")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReadJSON decodes and validates a single annotation from r. It does not
// close r.
func ReadJSON(r io.Reader) (*Annotation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read annotation")
	}
	return Decode(data)
}

// ImportJSON reads the annotation stored at path.
func ImportJSON(path string) (*Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Record is one line of batch input.
type Record struct {
	// Line is the one-based line number.
	Line int
	// Annotation is the decoded record; nil when Err is set.
	Annotation *Annotation
	// Err is the decode or validation failure for this line.
	Err error
}

// Reader reads line-oriented batch input. Blank lines are skipped.
type Reader struct {
	// Column is the tab column holding the JSON. Negative means the whole line.
	Column int

	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r that takes the JSON from [DefaultColumn].
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{Column: DefaultColumn, sc: sc}
}

// Next returns the next record. A malformed line is reported in Record.Err
// and reading can continue; the returned error is io.EOF at the end of input
// or a read failure.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		rec := Record{Line: r.line}
		data, err := r.column(raw)
		if err != nil {
			rec.Err = err
			return rec, nil
		}
		a, err := Decode(data)
		if err != nil {
			rec.Err = errors.Wrap(errors.GetCode(err), err, "line %d", r.line)
			return rec, nil
		}
		if a.ID == "" {
			a.ID = strconv.Itoa(r.line)
		}
		rec.Annotation = a
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read line %d", r.line+1)
	}
	return Record{}, io.EOF
}

// ReadAll returns every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func (r *Reader) column(raw []byte) ([]byte, error) {
	if r.Column < 0 || !bytes.Contains(raw, []byte{'\t'}) {
		return raw, nil
	}
	cols := bytes.Split(raw, []byte{'\t'})
	if r.Column >= len(cols) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: has %d columns, want at least %d", r.line, len(cols), r.Column+1)
	}
	return cols[r.Column], nil
}
