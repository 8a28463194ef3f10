package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestJSON(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, JSON(map[string]int{"count": 3}))
	})

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 3, decoded["count"])
	// Indented output spans multiple lines.
	assert.True(t, strings.Contains(out, "\n  "))
}

func TestYAML(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, YAML(map[string]string{"status": "ok"}))
	})

	assert.Contains(t, out, "status: ok")
}

func TestTable(t *testing.T) {
	out := captureStdout(func() {
		tbl := NewTable("NAME", "SCORE")
		tbl.AddRow("alpha", "9.5")
		tbl.AddRow("bravo-longer", "4.0")
		tbl.Render()
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[1], "----")
	assert.Contains(t, lines[2], "alpha")
	assert.Contains(t, lines[3], "bravo-longer")

	// Columns are padded to the widest cell.
	assert.True(t, strings.Index(lines[2], "9.5") == strings.Index(lines[3], "4.0"))
}

func TestTableEmpty(t *testing.T) {
	out := captureStdout(func() {
		NewTable("A").Render()
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "A")
}
