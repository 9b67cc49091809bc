package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fontpair/internal/seed"
	"fontpair/pkg/models"
)

func TestWriteFontsCSV(t *testing.T) {
	f := models.Font{
		FontRecord: models.FontRecord{
			Family:     "Lora",
			Category:   models.CategorySerif,
			Weights:    []int{400, 700},
			Foundry:    "Cyreal",
			Legibility: models.LegibilityHigh,
		},
		FontDetails: models.FontDetails{Designers: []string{"Cyreal"}, Popularity: 12},
	}
	f.Normalize()

	var buf bytes.Buffer
	require.NoError(t, WriteFontsCSV(&buf, []models.Font{f}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, FontHeader, rows[0])
	assert.Equal(t, []string{"Lora", "serif", "400,700", "Cyreal", "cyreal", "high", "Cyreal", "12", "", "", "", ""}, rows[1])
}

func TestToFileWritesSeedFoundries(t *testing.T) {
	d := seed.MustLoad()
	path := filepath.Join(t.TempDir(), "nested", "foundries.csv")

	require.NoError(t, ToFile(path, func(w io.Writer) error {
		return WriteFoundriesCSV(w, d.Foundries)
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, len(d.Foundries)+1)
}

func TestFontsCSVRoundTrip(t *testing.T) {
	want := seed.MustLoad().Fonts

	var buf bytes.Buffer
	require.NoError(t, WriteFontsCSV(&buf, want))
	got, err := ReadFontsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].FontRecord, got[i].FontRecord, want[i].Family)
	}
}

func TestFoundriesCSVRoundTrip(t *testing.T) {
	want := seed.MustLoad().Foundries

	var buf bytes.Buffer
	require.NoError(t, WriteFoundriesCSV(&buf, want))
	got, err := ReadFoundriesCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFontsCSVByHeaderName(t *testing.T) {
	in := "legibility,family,weights,category,extra\n" +
		"low,Pacifico,400,Handwriting,x\n" +
		",,,,\n" +
		",Inter,\"700,300,300\",sans serif,\n"

	got, err := ReadFontsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.CategoryHandwriting, got[0].Category)
	assert.Equal(t, models.LegibilityLow, got[0].Legibility)
	assert.Equal(t, []int{300, 700}, got[1].Weights)
	assert.Equal(t, models.LegibilityHigh, got[1].Legibility, "defaults from category")

	_, err = ReadFontsCSV(strings.NewReader("family,weights\nLora,bold\n"))
	assert.ErrorContains(t, err, "line 2 (Lora)")
}
