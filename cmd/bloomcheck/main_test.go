package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDictionary(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o600))
	return path
}

func TestRun(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
	t.Setenv("DEBUG", "")

	t.Run("interactive session", func(t *testing.T) {
		dict := writeDictionary(t, "apple", "banana")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-d", dict}, strings.NewReader("apple\nzzz_not_inserted\n:q\n"), &stdout, &stderr)

		require.Equal(t, exitOK, code, stderr.String())
		out := stdout.String()
		assert.Contains(t, out, " zero indices\n")
		assert.Contains(t, out, "bloom filter holds 10000 bits in 1.3 kB using 3 murmur3 hashes\n")
		assert.Contains(t, out, "apple has probability 0.908 of being in filter\n")
		assert.Contains(t, out, "zzz_not_inserted definitely not in filter\n")
		assert.Contains(t, stderr.String(), `"msg":"Sizing advice"`)
	})

	t.Run("xxh3 and tracked", func(t *testing.T) {
		dict := writeDictionary(t, "apple")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-d", dict, "--hash", "xxh3", "--tracked"}, strings.NewReader("apple\n"), &stdout, &stderr)

		require.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "using 3 xxh3 hashes\n")
		assert.Contains(t, stdout.String(), "apple has probability 1.000 of being in filter\n")
	})

	t.Run("missing dictionary", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-d", filepath.Join(t.TempDir(), "missing")}, strings.NewReader(""), &stdout, &stderr)
		assert.Equal(t, exitFailure, code)
		assert.Contains(t, stderr.String(), "Failed to load dictionary")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-s", "0"}, strings.NewReader(""), &stdout, &stderr)
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr.String(), "array_size must be positive")
	})

	t.Run("help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"--help"}, strings.NewReader(""), &stdout, &stderr)
		assert.Equal(t, exitOK, code)
		assert.Contains(t, stderr.String(), "--array_size")
	})

	t.Run("interrupted", func(t *testing.T) {
		dict := writeDictionary(t, "apple")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var stdout, stderr bytes.Buffer
		code := run(ctx, []string{"-d", dict}, strings.NewReader("apple\n"), &stdout, &stderr)
		assert.Equal(t, exitInterrupted, code)
	})
}
