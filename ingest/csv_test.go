package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := `description,id
"FIAT MOBI 2024 TREKKING, L4, 1.0L, 69 CP, 5 PUERTAS, AUT",FM-100
"RENAULT KWID ICONIC 1.0 MT 2023",RK-200
`
	rows, skipped, err := ReadCSV(strings.NewReader(input), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "FM-100", rows[0].ID)
	assert.Equal(t, "FIAT MOBI 2024 TREKKING, L4, 1.0L, 69 CP, 5 PUERTAS, AUT", rows[0].Description)
	assert.Equal(t, "RK-200", rows[1].ID)
}

func TestReadCSV_LegacyColumns(t *testing.T) {
	input := `versionc,id_crabi
"FIAT MOBI 2024 TREKKING, L4, 1.0L",FM-100
`
	rows, skipped, err := ReadCSV(strings.NewReader(input), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "FM-100", rows[0].ID)
}

func TestReadCSV_SkipsInvalidRows(t *testing.T) {
	input := `description,id
"FIAT MOBI 2024",FM-100
"",FM-101
"RENAULT KWID 2023",
"NISSAN MARCH 2022",NM-300
`
	rows, skipped, err := ReadCSV(strings.NewReader(input), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "FM-100", rows[0].ID)
	assert.Equal(t, "NM-300", rows[1].ID)
}

func TestReadCSV_MissingHeader(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("foo,bar\nx,y\n"), nil)
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, _, err = ReadCSV(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrMissingHeader)
}
