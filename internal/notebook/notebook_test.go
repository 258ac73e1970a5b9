package notebook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "metadata": {},
   "source": ["# Title\n", "select * from t"]
  },
  {
   "cell_type": "code",
   "execution_count": 2,
   "metadata": {"tags": ["etl"]},
   "outputs": [],
   "source": ["%%sql\n", "select 1"]
  },
  {
   "cell_type": "code",
   "execution_count": null,
   "metadata": {},
   "outputs": [],
   "source": "x = 1\n"
  }
 ],
 "metadata": {"kernelspec": {"name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestParse_CountsCells(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	require.NoError(t, err)
	assert.Equal(t, 3, nb.Cells())
}

func TestParse_MissingCells(t *testing.T) {
	_, err := Parse([]byte(`{"nbformat": 4}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing cells")
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	require.Error(t, err)
}

func TestFormatCells_OnlyCodeCells(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	require.NoError(t, err)

	var seen []string
	changed, err := nb.FormatCells(func(cell string) (string, bool) {
		seen = append(seen, cell)
		return cell, false
	})
	require.NoError(t, err)

	assert.Zero(t, changed)
	assert.Equal(t, []string{"%%sql\nselect 1", "x = 1\n"}, seen)
}

func TestFormatCells_RewritesChangedSource(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	require.NoError(t, err)

	changed, err := nb.FormatCells(func(cell string) (string, bool) {
		if !strings.HasPrefix(cell, "%%sql") {
			return cell, false
		}
		return "%%sql\nSELECT\n  1", true
	})
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	var src []string
	require.NoError(t, json.Unmarshal(nb.cells[1]["source"], &src))
	assert.Equal(t, []string{"%%sql\n", "SELECT\n", "  1"}, src)
}

func TestEncode_RoundTripsUntouchedFields(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	require.NoError(t, err)

	data, err := nb.Encode()
	require.NoError(t, err)

	reparsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 3, reparsed.Cells())
	assert.JSONEq(t, `{"kernelspec": {"name": "python3"}}`, string(reparsed.top["metadata"]))
	assert.JSONEq(t, `{"tags": ["etl"]}`, string(reparsed.cells[1]["metadata"]))
	assert.JSONEq(t, `2`, string(reparsed.cells[1]["execution_count"]))
}

func TestFormatCells_RewrittenSourceNotHTMLEscaped(t *testing.T) {
	nb, err := Parse([]byte(`{"cells": [{"cell_type": "code", "source": "select 9"}]}`))
	require.NoError(t, err)

	changed, err := nb.FormatCells(func(string) (string, bool) {
		return "SELECT 1 < 2 AND a & b", true
	})
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	data, err := nb.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "SELECT 1 < 2 AND a & b")
	assert.NotContains(t, string(data), `\u003c`)
	assert.NotContains(t, string(data), `\u0026`)
}

func TestEncode_DoesNotEscapeHTML(t *testing.T) {
	nb, err := Parse([]byte(`{"cells": [{"cell_type": "code", "source": "select 1 < 2"}]}`))
	require.NoError(t, err)

	data, err := nb.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "select 1 < 2")
	assert.NotContains(t, string(data), `\u003c`)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(sampleNotebook), 0o644))

	nb, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, nb.Save(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, nb.Cells(), again.Cells())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ipynb"))
	require.Error(t, err)
}

func TestSplitSource(t *testing.T) {
	assert.Equal(t, []string{}, splitSource(""))
	assert.Equal(t, []string{"a\n", "b"}, splitSource("a\nb"))
	assert.Equal(t, []string{"a\n", "b\n"}, splitSource("a\nb\n"))
}
