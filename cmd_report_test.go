package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"trendmoni/config"
	"trendmoni/models"
	"trendmoni/utils"
)

func setReportFlags(t *testing.T, niches []string, seed int64, format, csvPath string) {
	t.Helper()
	cfg = config.FromEnv()
	cfg.CSVOutputPath = filepath.Join(t.TempDir(), "default.csv")
	logger = utils.NewNopLogger()
	reportNiches, reportSeed, reportFormat, reportCSV = niches, seed, format, csvPath
	t.Cleanup(func() {
		reportNiches, reportSeed, reportFormat, reportCSV = nil, 0, "text", ""
	})
}

func TestReportJSON(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out", "growth.csv")
	setReportFlags(t, []string{"tech", "Food"}, 42, "json", csvPath)

	var out bytes.Buffer
	require.NoError(t, runReport(&out))

	var report models.GrowthReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, []string{"Tech", "Food"}, report.Niches)
	assert.Equal(t, 14, report.Points)
	assert.Equal(t, 3, report.TrendsByNiche["Tech"])
	assert.NotEmpty(t, report.Recommendations)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "series,date,reach,engagement,profit", lines[0])
	// own series plus two competitors per niche, 14 weeks each
	assert.Len(t, lines, 1+14*5)
}

func TestReportSeedIsReproducible(t *testing.T) {
	setReportFlags(t, []string{"Education"}, 7, "json", "")
	var a, b bytes.Buffer
	require.NoError(t, runReport(&a))
	require.NoError(t, runReport(&b))
	assert.Equal(t, a.String(), b.String())
}

func TestReportYAML(t *testing.T) {
	setReportFlags(t, []string{"Fashion"}, 3, "yaml", "")

	var out bytes.Buffer
	require.NoError(t, runReport(&out))

	var report models.GrowthReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, []string{"Fashion"}, report.Niches)
	assert.Equal(t, 14, report.Points)
}

func TestReportCSVFromConfig(t *testing.T) {
	setReportFlags(t, []string{"Tech"}, 1, "text", csvFromConfig)

	var out bytes.Buffer
	require.NoError(t, runReport(&out))
	assert.Contains(t, out.String(), "TREND-MONI GROWTH REPORT")
	assert.FileExists(t, cfg.CSVOutputPath)
}

func TestReportRejectsBadInput(t *testing.T) {
	setReportFlags(t, []string{"  "}, 0, "text", "")
	err := runReport(&bytes.Buffer{})
	var verr *models.InputValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "niche", verr.Field)

	setReportFlags(t, []string{"Tech"}, 0, "xml", "")
	err = runReport(&bytes.Buffer{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "format", verr.Field)
}
