package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"trendmoni/models"
)

// OwnSeriesName labels the company's own growth series in exports.
const OwnSeriesName = "own"

// CSVWriter exports growth series to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"series", "date", "reach", "engagement", "profit"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteDataset writes the own series followed by every competitor series.
func (c *CSVWriter) WriteDataset(ds *models.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeSeries(OwnSeriesName, ds.GrowthData); err != nil {
		return err
	}
	for _, comp := range ds.Competitors {
		if err := c.writeSeries(comp.Name, comp.GrowthData); err != nil {
			return err
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVWriter) writeSeries(name string, points []models.TimeSeriesPoint) error {
	for _, p := range points {
		row := []string{
			name,
			p.Date,
			strconv.FormatInt(p.Reach, 10),
			strconv.FormatInt(p.Engagement, 10),
			strconv.FormatInt(p.Profit, 10),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
