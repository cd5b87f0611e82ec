package mcp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/tradedoc-reader/internal/config"
	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/pdf"
)

func invoicePages() []document.Page {
	s := document.Str
	return []document.Page{
		{
			Text: "COMMERCIAL INVOICE\nShipment Number: 0042\n" +
				"4006381333931 HAND CREAM 0,055 G 12 2.50 30.00 3304 DE L1",
			Tables: []document.Table{
				{{s("a"), s("b")}, {s("c"), s("d")}, {s("EDI"), s("EDI-9")}},
				{{s("a")}, {s("b")}, {s("c")}, {s("Delivery"), s("DLV-9")}},
				{{s("Invoice"), s("INV-9"), s("Date"), s("05.11.2024")}},
			},
		},
		{Text: "GENERAL TERMS OF SALE"},
	}
}

func packingPages() []document.Page {
	return []document.Page{{
		Text: "PACKING LIST\nYour Reference EDI7\nShip Group ID: 0000123\n" +
			"33049900 ACME ABC1234 Night cream 1,008 4006381333931 B001 01-02-2024 01-02-2027 FR N\n" +
			"33049900 ACME ABC1234 Night cream 42 4006381333931 B001 01-02-2024 01-02-2027 FR N\n",
	}}
}

func writeDump(t *testing.T, dir, name string, pages []document.Page) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, pdf.WriteDump(f, pages))
	return path
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Directory = dir
	cfg.MaxFileSize = 1024 * 1024
	cfg.ServerName = "test-server"
	return cfg
}

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()

	cfg := testConfig(dir)
	svc, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory)
	require.NoError(t, err)
	s, err := NewServer(cfg, svc)
	require.NoError(t, err)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

// extractTextFromResult joins the text content of a tool result.
func extractTextFromResult(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
