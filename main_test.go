package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSeller  = "64b7f0c2a1e4d3b2c1a09f8e"
	testProduct = "5f1e2d3c4b5a69788796a5b4"
)

func writeEvents(t *testing.T) string {
	t.Helper()
	var records []string
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i)
		qty := 4
		if d.Weekday() == time.Saturday {
			qty = 9
		}
		records = append(records, fmt.Sprintf(
			`{"role":"seller","entityId":%q,"productId":%q,"date":%q,"quantity":%d}`,
			testSeller, testProduct, d.Format(time.RFC3339), qty))
	}
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("["+strings.Join(records, ",")+"]"), 0o644))
	return path
}

func runPredict(t *testing.T, args ...string) (predictOutput, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"predict"}, args...))

	var out predictOutput
	if err := cmd.Execute(); err != nil {
		return out, err
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	return out, nil
}

func TestPredictFromFile(t *testing.T) {
	out, err := runPredict(t,
		"--input", writeEvents(t),
		"--entity", testSeller,
		"--product", testProduct,
		"--days", "7",
		"--as-of", "2024-03-01",
	)
	require.NoError(t, err)
	assert.False(t, out.IsSynthetic)
	require.Len(t, out.Points, 7)
	assert.Equal(t, "2024-03-01", out.Points[0].DS)
	assert.Equal(t, "2024-03-07", out.Points[6].DS)
}

func TestPredictColdStartForUnknownEntity(t *testing.T) {
	out, err := runPredict(t,
		"--input", writeEvents(t),
		"--role", "buyer",
		"--entity", testSeller,
		"--product", testProduct,
		"--days", "3",
		"--as-of", "2024-03-01",
	)
	require.NoError(t, err)
	assert.True(t, out.IsSynthetic)
	assert.Equal(t, "insufficient_history", out.FallbackReason)
	require.Len(t, out.Points, 3)
	assert.Equal(t, "2024-03-02", out.Points[0].DS)
}

func TestPredictNeedsASource(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := runPredict(t, "--entity", testSeller, "--product", testProduct)
	assert.EqualError(t, err, "either --input or DATABASE_URL is required")
}

func TestPredictErrors(t *testing.T) {
	_, err := runPredict(t, "--input", writeEvents(t), "--role", "admin", "--entity", testSeller, "--product", testProduct)
	assert.Error(t, err)

	_, err = runPredict(t, "--input", writeEvents(t), "--product", testProduct)
	assert.Error(t, err)

	_, err = runPredict(t, "--input", filepath.Join(t.TempDir(), "missing.json"), "--entity", testSeller, "--product", testProduct)
	assert.Error(t, err)

	_, err = runPredict(t, "--input", writeEvents(t), "--entity", testSeller, "--product", testProduct, "--as-of", "March")
	assert.Error(t, err)
}
