package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/tradedoc-reader/internal/document"
)

// writePDF renders one page per entry, one text line per string, and
// returns the file path.
func writePDF(t *testing.T, dir, name string, pages ...[]string) string {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 10)
	for _, lines := range pages {
		doc.AddPage()
		for i, line := range lines {
			doc.Text(10, 20+float64(i)*8, line)
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

// writeDump writes pages as a JSON page dump and returns the file path.
func writeDump(t *testing.T, dir, name string, pages ...document.Page) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, WriteDump(f, pages))
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
