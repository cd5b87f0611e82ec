package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpc sends one JSON-RPC message through the MCP server and decodes the reply.
func rpc(t *testing.T, s *Server, message string) map[string]any {
	t.Helper()

	reply := s.mcpServer.HandleMessage(context.Background(), json.RawMessage(message))
	require.NotNil(t, reply)

	raw, err := json.Marshal(reply)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Nil(t, decoded["error"], string(raw))
	return decoded
}

func TestServerIntegration_ListTools(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	rpc(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	reply := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	result := reply["result"].(map[string]any)
	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{
		"tradedoc_parse_file", "tradedoc_parse_batch", "tradedoc_classify",
		"tradedoc_validate_file", "tradedoc_search_directory", "tradedoc_stats_directory",
		"tradedoc_export_xlsx", "tradedoc_server_info",
	}, names)
}

func TestServerIntegration_CallTool(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "0001 PL.json", packingPages())
	s := newTestServer(t, dir)

	rpc(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	reply := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"tradedoc_classify","arguments":{"path":"0001 PL.json"}}}`)

	result := reply["result"].(map[string]any)
	content := result["content"].([]any)
	require.NotEmpty(t, content)
	text := content[0].(map[string]any)["text"].(string)
	assert.Contains(t, text, "packing_list")
}
