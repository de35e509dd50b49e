package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/habitatshift/internal/synth"
)

func TestWriteCSV(t *testing.T) {
	table := synth.NewSeeded(synth.DefaultSeed).Generate()

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, synth.FilterByYear(table, 2013)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"year", "mean_temperature", "sighting_count", "lat", "lon"}, records[0])
	for _, rec := range records[1:] {
		assert.Equal(t, "2013", rec[0])
	}
}

func TestSelectRows(t *testing.T) {
	table := synth.NewSeeded(synth.DefaultSeed).Generate()
	year := func(y int) *int { return &y }

	assert.Len(t, selectRows(table, nil), synth.RowCount)
	assert.Len(t, selectRows(table, year(2013)), synth.RecordsPerYear)

	for _, y := range []int{0, 1999, 2025} {
		rows := selectRows(table, year(y))
		assert.NotNil(t, rows, "year %d", y)
		assert.Empty(t, rows, "year %d", y)
	}
}

func TestGenerateYearFlag(t *testing.T) {
	tests := []struct {
		args []string
		want *int
	}{
		{[]string{"generate"}, nil},
		{[]string{"generate", "--year", "0"}, new(int)},
		{[]string{"generate", "--year=2013"}, func() *int { y := 2013; return &y }()},
	}
	for _, tt := range tests {
		var cli struct {
			Generate GenerateCmd `cmd:""`
		}
		parser, err := kong.New(&cli)
		require.NoError(t, err)
		_, err = parser.Parse(tt.args)
		require.NoError(t, err, "args %v", tt.args)
		assert.Equal(t, tt.want, cli.Generate.Year, "args %v", tt.args)
	}
}
