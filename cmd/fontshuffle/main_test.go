/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/fontshuffle"
	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/shuffle"
	"github.com/unidoc/fontshuffle/internal/testutil"
)

func testConfig(t *testing.T) *config {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "synthetic.ttf")
	require.NoError(t, os.WriteFile(fontPath, testutil.Font(), 0644))

	cfg := defaultConfig()
	cfg.font = fontPath
	cfg.text = testutil.SampleText
	cfg.seed = 11
	cfg.verify = true
	return cfg
}

func restoreLogger(t *testing.T) {
	prev := common.Log
	t.Cleanup(func() { common.SetLogger(prev) })
}

func TestConfigOptions(t *testing.T) {
	cfg := defaultConfig()
	opts, err := cfg.options()
	require.NoError(t, err)
	assert.Equal(t, fontshuffle.DefaultOptions(), opts)

	cfg.rangeSpec = "0x0400-0x04FF"
	cfg.full = true
	cfg.keepNotdef = false
	cfg.seed = 3
	opts, err = cfg.options()
	require.NoError(t, err)
	assert.Equal(t, shuffle.Range{Start: 0x0400, End: 0x04FF}, opts.Range)
	assert.False(t, opts.Subset)
	assert.False(t, opts.KeepNotdef)
	assert.Equal(t, int64(3), opts.Seed)

	cfg.rangeSpec = "9FFF-4E00"
	_, err = cfg.options()
	assert.Error(t, err)
}

func TestRunText(t *testing.T) {
	restoreLogger(t)
	cfg := testConfig(t)
	cfg.out = filepath.Join(filepath.Dir(cfg.font), "out.ttf")

	var stdout bytes.Buffer
	require.NoError(t, run(cfg, &stdout))

	text := strings.TrimSuffix(stdout.String(), "\n")
	assert.Equal(t, len([]rune(testutil.SampleText)), len([]rune(text)))
	assert.NotEqual(t, testutil.SampleText, text)

	data, err := os.ReadFile(cfg.out)
	require.NoError(t, err)
	font, err := fontshuffle.ParseFont(data)
	require.NoError(t, err)
	assert.Equal(t, 1+len([]rune(testutil.SampleText)), font.NumGlyphs())
}

func TestRunBase64(t *testing.T) {
	restoreLogger(t)
	cfg := testConfig(t)
	cfg.base64 = true
	cfg.textOut = filepath.Join(filepath.Dir(cfg.font), "text.txt")
	cfg.out = filepath.Join(filepath.Dir(cfg.font), "font.b64")

	var stdout bytes.Buffer
	require.NoError(t, run(cfg, &stdout))
	assert.Empty(t, stdout.String())

	encoded, err := os.ReadFile(cfg.out)
	require.NoError(t, err)
	data, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)
	_, err = fontshuffle.ParseFont(data)
	require.NoError(t, err)

	text, err := os.ReadFile(cfg.textOut)
	require.NoError(t, err)
	assert.Equal(t, len([]rune(testutil.SampleText)), len([]rune(string(text))))
}

func TestRunTextFile(t *testing.T) {
	restoreLogger(t)
	cfg := testConfig(t)
	cfg.text = ""
	cfg.textFile = filepath.Join(filepath.Dir(cfg.font), "input.txt")
	require.NoError(t, os.WriteFile(cfg.textFile, []byte("ABC"), 0644))
	cfg.base64 = true

	var stdout bytes.Buffer
	require.NoError(t, run(cfg, &stdout))
	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ABC", lines[0])
	_, err := base64.StdEncoding.DecodeString(lines[1])
	assert.NoError(t, err)
}

func TestRunHTML(t *testing.T) {
	restoreLogger(t)
	cfg := testConfig(t)
	cfg.html = filepath.Join(filepath.Dir(cfg.font), "page.html")
	require.NoError(t, os.WriteFile(cfg.html, []byte(`<html><head></head><body><h1 class="custom-font">ABC</h1></body></html>`), 0644))

	var stdout bytes.Buffer
	require.NoError(t, run(cfg, &stdout))
	assert.Contains(t, stdout.String(), "@font-face")
	assert.Contains(t, stdout.String(), ">ABC</h1>")
}

func TestRunErrors(t *testing.T) {
	restoreLogger(t)

	cfg := testConfig(t)
	cfg.loglevel = "verbose"
	assert.Error(t, run(cfg, &bytes.Buffer{}))

	cfg = testConfig(t)
	cfg.font = filepath.Join(t.TempDir(), "missing.ttf")
	assert.Error(t, run(cfg, &bytes.Buffer{}))

	cfg = testConfig(t)
	cfg.rangeSpec = "nonsense"
	assert.Error(t, run(cfg, &bytes.Buffer{}))

	cfg = testConfig(t)
	cfg.html = filepath.Join(t.TempDir(), "missing.html")
	assert.Error(t, run(cfg, &bytes.Buffer{}))
}
