package tabular

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRowPads(t *testing.T) {
	table := New("a", "b", "c")
	table.AppendRow([]*string{String("1")})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", *table.Rows[0][0])
	assert.Nil(t, table.Rows[0][1])
	assert.Nil(t, table.Rows[0][2])
}

func TestAddDropColumn(t *testing.T) {
	table := New("a", "b")
	table.AppendRow([]*string{String("1"), String("2")})

	idx := table.AddColumn("c")
	assert.Equal(t, 2, idx)
	assert.Nil(t, table.Rows[0][idx])
	assert.Equal(t, idx, table.AddColumn("c"), "adding an existing column returns its index")

	table.DropColumn("b")
	assert.Equal(t, []string{"a", "c"}, table.Columns)
	require.Len(t, table.Rows[0], 2)
	assert.Equal(t, "1", *table.Rows[0][0])

	table.DropColumn("missing") // no-op
	assert.Equal(t, []string{"a", "c"}, table.Columns)
}

func TestRenameColumns(t *testing.T) {
	table := New("Flight ID", "Date")
	table.RenameColumns(map[string]string{"Flight ID": "Flight Number"})
	assert.Equal(t, []string{"Flight Number", "Date"}, table.Columns)
}

func TestReorder(t *testing.T) {
	table := New("c", "a", "b")
	table.AppendRow([]*string{String("3"), String("1"), String("2")})

	table.Reorder([]string{"a", "b", "missing"})

	assert.Equal(t, []string{"a", "b", "c"}, table.Columns)
	assert.Equal(t, "1", *table.Rows[0][0])
	assert.Equal(t, "2", *table.Rows[0][1])
	assert.Equal(t, "3", *table.Rows[0][2])
}

func TestApply(t *testing.T) {
	table := New("a")
	table.AppendRow([]*string{String(" x ")})
	table.AppendRow([]*string{nil})

	table.Apply("a", strings.TrimSpace)

	assert.Equal(t, "x", *table.Rows[0][0])
	assert.Nil(t, table.Rows[1][0], "null cells stay null")
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	table := New("Flight Number", "Date of Flight", "TripFuel", "Note")
	table.AppendRow([]*string{String("123"), String("01/05/2024"), String("1.23456"), nil})
	table.AppendRow([]*string{String("456"), String("02/05/2024"), nil, String("diverted")})

	require.NoError(t, Write(path, "Sheet1", table, true))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, table.Columns, got.Columns)
	require.Len(t, got.Rows, 2)

	assert.Equal(t, "123", *got.Rows[0][0])
	assert.Equal(t, "01/05/2024", *got.Rows[0][1])
	assert.Equal(t, "1.235", *got.Rows[0][2], "numbers are rounded to 3 places")
	assert.Nil(t, got.Rows[0][3], "blank cells come back as nulls")
	assert.Equal(t, "diverted", *got.Rows[1][3])
}

func TestWriteTextColumnsPreserveLeadingZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	table := New("Flight Number", "TripFuel")
	table.AppendRow([]*string{String("0123"), String("5.5")})

	require.NoError(t, Write(path, "Sheet1", table, false, "Flight Number"))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "0123", *got.Rows[0][0], "identifier columns round-trip verbatim")
	assert.Equal(t, "5.5", *got.Rows[0][1], "other columns still coerce to numbers")
}

func TestFromRowsHeaderOffset(t *testing.T) {
	rows := [][]string{
		{"Report"},
		{},
		{"a", "b"},
		{"1", ""},
	}

	table, err := FromRows(rows, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", *table.Rows[0][0])
	assert.Nil(t, table.Rows[0][1])

	_, err = FromRows(rows, 10)
	assert.Error(t, err)
}
