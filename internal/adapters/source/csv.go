package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/reelrank/internal/domain/model"
)

// ctxCheckEvery controls how often long reads look at ctx.
const ctxCheckEvery = 1024

// row gives header-addressed access to one CSV record.
type row struct {
	header map[string]int
	fields []string
}

func (r row) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// mapFunc turns one data row (0-based index) into a canonical record. The
// bool result is false when the row must be skipped.
type mapFunc func(r row, index int) (model.CanonicalRecord, bool)

// CSVAdapter reads one source family from a CSV file.
type CSVAdapter struct {
	source model.Source
	path   string
	mapRow mapFunc
}

// Name implements Adapter.
func (a *CSVAdapter) Name() model.Source { return a.source }

// Load implements Adapter. A missing file is an unavailable source and
// yields no records and no error.
func (a *CSVAdapter) Load(ctx context.Context) ([]model.CanonicalRecord, error) {
	if a.path == "" {
		return nil, nil
	}
	f, err := os.Open(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w: %w", a.source, ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	return a.Read(ctx, f)
}

// Read maps every row of r. Rows with the wrong field count are tolerated.
func (a *CSVAdapter) Read(ctx context.Context, r io.Reader) ([]model.CanonicalRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", a.source, ErrMissingHeader, err)
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var out []model.CanonicalRecord
	for index := 0; ; index++ {
		if index%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%s: %w", a.source, err)
			}
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: line %d: %w", a.source, ErrRead, index+2, err)
		}
		rec, ok := a.mapRow(row{header: header, fields: fields}, index)
		if !ok {
			continue
		}
		rec.Source = a.source
		out = append(out, rec)
	}
	return out, nil
}
