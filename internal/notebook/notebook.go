// Package notebook reads and writes Jupyter .ipynb files so cells can
// be formatted on disk, outside a live kernel. Only code cell sources
// are touched; all other fields round-trip as raw JSON.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// filePerm is used when writing notebooks back to disk.
const filePerm = 0o644

// Notebook is a loaded .ipynb document.
type Notebook struct {
	// top holds every top-level field verbatim; cells is the decoded
	// "cells" array.
	top   map[string]json.RawMessage
	cells []map[string]json.RawMessage
}

// Load reads and decodes a notebook file.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	nb := &Notebook{}
	if err := json.Unmarshal(data, &nb.top); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	raw, ok := nb.top["cells"]
	if !ok {
		return nil, fmt.Errorf("decode notebook: missing cells field")
	}
	if err := json.Unmarshal(raw, &nb.cells); err != nil {
		return nil, fmt.Errorf("decode notebook cells: %w", err)
	}
	return nb, nil
}

// Cells returns the number of cells.
func (n *Notebook) Cells() int {
	return len(n.cells)
}

// FormatCells runs fn over every code cell's source and writes back
// any changed cell. It returns the number of cells modified.
func (n *Notebook) FormatCells(fn func(cell string) (string, bool)) (int, error) {
	changed := 0
	for _, cell := range n.cells {
		if cellType(cell) != "code" {
			continue
		}
		src, err := cellSource(cell)
		if err != nil {
			return changed, err
		}
		out, ok := fn(src)
		if !ok || out == src {
			continue
		}
		enc, err := marshalRaw(splitSource(out))
		if err != nil {
			return changed, fmt.Errorf("encode cell source: %w", err)
		}
		cell["source"] = enc
		changed++
	}
	return changed, nil
}

// Encode serializes the notebook back to indented JSON.
func (n *Notebook) Encode() ([]byte, error) {
	enc, err := marshalRaw(n.cells)
	if err != nil {
		return nil, fmt.Errorf("encode cells: %w", err)
	}
	n.top["cells"] = enc

	var buf bytes.Buffer
	e := json.NewEncoder(&buf)
	e.SetIndent("", " ")
	e.SetEscapeHTML(false)
	if err := e.Encode(n.top); err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the notebook to path.
func (n *Notebook) Save(path string) error {
	data, err := n.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}

// marshalRaw serializes v without HTML escaping. json.Marshal escapes
// <, >, and & unconditionally, which would mangle SQL comparison
// operators in cell sources before Encode's own encoder ever sees them.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	e := json.NewEncoder(&buf)
	e.SetEscapeHTML(false)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func cellType(cell map[string]json.RawMessage) string {
	raw, ok := cell["cell_type"]
	if !ok {
		return ""
	}
	var t string
	if err := json.Unmarshal(raw, &t); err != nil {
		return ""
	}
	return t
}

// cellSource joins a cell's source, which the format allows to be
// either a single string or a list of line strings.
func cellSource(cell map[string]json.RawMessage) (string, error) {
	raw, ok := cell["source"]
	if !ok {
		return "", nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, ""), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("decode cell source: %w", err)
	}
	return s, nil
}

// splitSource breaks text into the line-list form, each line keeping
// its trailing newline.
func splitSource(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
