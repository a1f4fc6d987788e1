package recio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/lanrat/recsort"
)

// CSVOptions adjusts CSV parsing and rendering. A nil options value selects
// the defaults.
type CSVOptions struct {
	// Comma is the field delimiter; 0 selects ','.
	Comma rune
	// NoHeader treats the first row as data and names the columns
	// col_1, col_2, ...
	NoHeader bool
}

func (o *CSVOptions) comma() rune {
	if o == nil || o.Comma == 0 {
		return ','
	}
	return o.Comma
}

func (o *CSVOptions) noHeader() bool {
	return o != nil && o.NoHeader
}

// ReadCSV streams records from CSV data in r. The first row names the
// fields unless opts.NoHeader is set. Cell values are inferred: numbers
// become float64, true/false become bool, anything else stays a string,
// and an empty cell leaves the field absent from the record.
func ReadCSV(ctx context.Context, r io.Reader, opts *CSVOptions) (<-chan recsort.Record, <-chan error) {
	out := make(chan recsort.Record, readBuffSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.Comma = opts.comma()
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1

		var headers []string
		for {
			cells, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- fmt.Errorf("parse csv: %w", err)
				return
			}
			if headers == nil {
				if opts.noHeader() {
					headers = make([]string, len(cells))
					for i := range headers {
						headers[i] = fmt.Sprintf("col_%d", i+1)
					}
					// the first row is data, fall through
				} else {
					headers = slices.Clone(cells)
					continue
				}
			}
			rec := make(recsort.Record, len(headers))
			for i, cell := range cells {
				name := ""
				if i < len(headers) {
					name = headers[i]
				} else {
					// row wider than the header
					name = fmt.Sprintf("col_%d", i+1)
				}
				if v := inferValue(cell); v != nil {
					rec[name] = v
				}
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return out, errCh
}

// WriteCSV drains in and writes the records to w as CSV: a header row with
// the sorted union of all field names, then one row per record in input
// order. The stream is buffered in full first because the header cannot be
// known until every record has been seen. Absent and nil fields render as
// empty cells. Reports the number of records written.
func WriteCSV(w io.Writer, in <-chan recsort.Record, opts *CSVOptions) (int, error) {
	var records []recsort.Record
	for rec := range in {
		records = append(records, rec)
	}

	fields := make(map[string]bool)
	for _, rec := range records {
		for name := range rec {
			fields[name] = true
		}
	}
	headers := slices.Sorted(maps.Keys(fields))

	writer := csv.NewWriter(w)
	writer.Comma = opts.comma()
	if !opts.noHeader() {
		if err := writer.Write(headers); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}
	count := 0
	row := make([]string, len(headers))
	for _, rec := range records {
		for i, name := range headers {
			v, ok := rec.Get(name)
			if !ok || v == nil {
				row[i] = ""
				continue
			}
			row[i] = formatValue(v)
		}
		if err := writer.Write(row); err != nil {
			return count, fmt.Errorf("write record: %w", err)
		}
		count++
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("flush output: %w", err)
	}
	return count, nil
}

// inferValue parses a CSV cell as a number or bool, keeping anything else
// as a string. Empty cells return nil so the field is treated as absent.
func inferValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	return s
}

// formatValue renders a record value as a CSV cell.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
