package ingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
)

// Row is one vehicle from a partner CSV export.
type Row struct {
	ID          string
	Description string
}

// descriptionColumns and idColumns are the accepted header spellings, in
// preference order. "versionc" and "id_crabi" are legacy partner exports.
var (
	descriptionColumns = []string{"description", "versionc"}
	idColumns          = []string{"id", "id_crabi"}
)

// ReadCSV parses vehicle rows from a CSV stream. Rows missing an identifier
// or a description are skipped with a warning; the skipped count is
// returned alongside the valid rows.
func ReadCSV(r io.Reader, logger *slog.Logger) ([]Row, int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, 0, ErrMissingHeader
		}
		return nil, 0, err
	}

	descIdx := columnIndex(header, descriptionColumns)
	idIdx := columnIndex(header, idColumns)
	if descIdx < 0 || idIdx < 0 {
		return nil, 0, ErrMissingHeader
	}

	var rows []Row
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}

		var id, description string
		if idIdx < len(record) {
			id = strings.TrimSpace(record[idIdx])
		}
		if descIdx < len(record) {
			description = strings.TrimSpace(record[descIdx])
		}

		if id == "" || description == "" {
			skipped++
			logger.Warn("skipping invalid csv row", "id", id, "line", len(rows)+skipped+1)
			continue
		}

		rows = append(rows, Row{ID: id, Description: description})
	}

	logger.Info("read vehicle rows from csv", "rows", len(rows), "skipped", skipped)
	return rows, skipped, nil
}

func columnIndex(header, names []string) int {
	for _, name := range names {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}
