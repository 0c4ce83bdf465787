package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"leaseintake/internal/config"
	"leaseintake/internal/trace"

	"github.com/stretchr/testify/require"
)

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	require.Equal(t, 2, run(nil, &out, &errOut))
	require.Contains(t, errOut.String(), "usage:")

	errOut.Reset()
	require.Equal(t, 2, run([]string{"bogus"}, &out, &errOut))
	require.Contains(t, errOut.String(), "unknown command")
}

func TestRunRequiresFile(t *testing.T) {
	t.Setenv("LEASEINTAKE_DATA_OUT", t.TempDir())
	var out, errOut bytes.Buffer
	require.Equal(t, 2, run([]string{"run", "-email", "a@b.c"}, &out, &errOut))
	require.Contains(t, errOut.String(), "-file is required")
}

func TestVisionPagesUsesLatestTrace(t *testing.T) {
	dataOut := t.TempDir()
	t.Setenv("LEASEINTAKE_DATA_OUT", dataOut)
	dir := config.Config{DataOutRoot: dataOut}.TraceDir()

	rec := trace.NewRecorder(dir, "cli-run", time.Now())
	require.NoError(t, rec.Append(trace.Entry{Page: 3, Summary: "Landlord signature line."}))
	path, _, err := rec.Flush()
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"vision-pages"}, &out, &errOut), errOut.String())

	var got struct {
		Trace string `json:"trace"`
		Pages []int  `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, path, got.Trace)
	require.Equal(t, []int{3}, got.Pages)
}

func TestVisionPagesNoTrace(t *testing.T) {
	t.Setenv("LEASEINTAKE_DATA_OUT", t.TempDir())
	var out, errOut bytes.Buffer
	require.Equal(t, 1, run([]string{"vision-pages"}, &out, &errOut))
}
