package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"maskeval/internal/models"
	"maskeval/pkg/labelstats"
)

func sampleHistogram() *labelstats.Histogram {
	return &labelstats.Histogram{
		IDs: models.LabelList{1, 4},
		Rows: [][]float64{
			{0.25, 0.75, 0},
			{0, 0, 1},
		},
		Regions: []int{2, 1},
		Bins:    3,
	}
}

// TestFormatHistogramNoIDs verifies the bin index column is written without label columns
func TestFormatHistogramNoIDs(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatHistogram(&buf, &labelstats.Histogram{Bins: 3}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if buf.String() != "1\n2\n3\n" {
		t.Errorf("Expected bare bin indices, got %q", buf.String())
	}
}

// TestFormatHistogram verifies the column layout of the table
func TestFormatHistogram(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatHistogram(&buf, sampleHistogram()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	expected := [][]float64{
		{1, 0.25, 0},
		{2, 0.75, 0},
		{3, 0, 1},
	}
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("Line %d: expected 3 columns, got %d", i, len(fields))
		}
		if fields[0] != strconv.Itoa(i+1) {
			t.Errorf("Line %d: expected bin index %d, got %s", i, i+1, fields[0])
		}
		for k, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				t.Fatalf("Line %d column %d: %v", i, k, err)
			}
			if math.Abs(v-expected[i][k]) > 1e-15 {
				t.Errorf("Line %d column %d: expected %f, got %f", i, k, expected[i][k], v)
			}
		}
	}
}

// TestWriteHistogram verifies the file is written and replaced
func TestWriteHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultHistogramFile)
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteHistogram(path, sampleHistogram()); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "1 2.500000000000000000e-01 ") {
		t.Errorf("Unexpected file content: %q", string(data))
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected only the histogram file, found %d entries", len(entries))
	}
}

// TestConsole verifies the summary line formats
func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.TotalArea("topo.npz", 16)
	c.FrontalFractions("topo.npz", 0.126, 0.5)
	c.Moments([]labelstats.Moments{{ID: 1, Mean: 12.345, Var: 4, Std: 2}})
	c.PlanAreaFractions([]int{1}, []float64{0.5})
	c.Regions(sampleHistogram())

	out := buf.String()
	for _, want := range []string{
		" Total area of topo.npz domain:\n Atot = 16 m^2 \n",
		" Ae/Atot = 0.13, An/Atot = 0.50\n",
		" Mask 1 mean, var, std = 12.35, 4.00, 2.00 \n",
		" Mask 1 plan area fraction = 0.50 \n",
		" Mask 4 connected regions = 1 \n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}
