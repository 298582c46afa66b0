package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrParse         = errors.New("unable to parse record")
	ErrInvalidColumn = errors.New("invalid column index")
)

// CSVOptions configures how records are mapped to points
type CSVOptions struct {
	// Header skips the first record when set to true
	Header bool

	// Comma is the field delimiter. Defaults to ','
	Comma rune

	// XColumn and YColumn are the zero based column indexes holding each coordinate
	XColumn int
	YColumn int
}

// NewDefaultCSVOptions reads headerless comma separated records with x in the first column
// and y in the second
func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Comma:   ',',
		XColumn: 0,
		YColumn: 1,
	}
}

// Validate fills in defaults on a nil receiver and checks the column layout
func (o *CSVOptions) Validate() (*CSVOptions, error) {
	if o == nil {
		o = NewDefaultCSVOptions()
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.XColumn < 0 || o.YColumn < 0 {
		return nil, fmt.Errorf("x column %d, y column %d, %w", o.XColumn, o.YColumn, ErrInvalidColumn)
	}
	if o.XColumn == o.YColumn {
		return nil, fmt.Errorf("x and y share column %d, %w", o.XColumn, ErrInvalidColumn)
	}
	return o, nil
}

// ReadCSV parses every record of r into a point. Blank lines are skipped by the csv reader.
func ReadCSV(r io.Reader, opt *CSVOptions) (Points, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	minFields := max(opt.XColumn, opt.YColumn) + 1

	var pnts Points
	for rec := 0; ; rec++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError carries its own line number
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if rec == 0 && opt.Header {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) < minFields {
			return nil, fmt.Errorf("line %d has %d fields but need %d, %w", line, len(record), minFields, ErrParse)
		}

		x, err := parseField(record[opt.XColumn])
		if err != nil {
			line, _ = reader.FieldPos(opt.XColumn)
			return nil, fmt.Errorf("line %d x value, %w: %w", line, ErrParse, err)
		}
		y, err := parseField(record[opt.YColumn])
		if err != nil {
			line, _ = reader.FieldPos(opt.YColumn)
			return nil, fmt.Errorf("line %d y value, %w: %w", line, ErrParse, err)
		}
		pnts = append(pnts, Point{X: x, Y: y})
	}

	if len(pnts) == 0 {
		return nil, ErrNoTrainingData
	}
	return pnts, nil
}

func parseField(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}
