// Package mcp exposes the trade document engine as Model Context Protocol tools.
package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/tradedoc-reader/internal/config"
	"github.com/a3tai/tradedoc-reader/internal/descriptions"
	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/export"
	"github.com/a3tai/tradedoc-reader/internal/logger"
	"github.com/a3tai/tradedoc-reader/internal/parser"
	"github.com/a3tai/tradedoc-reader/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	parser     *parser.Parser
	mcpServer  *server.MCPServer
	log        zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	log := logger.WithComponent("mcp")

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		parser: parser.New(pdfService,
			parser.WithDuplicatePolicy(cfg.DuplicatePolicy()),
			parser.WithLogger(logger.WithComponent("parser")),
		),
		mcpServer: mcpServer,
		log:       log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	docType := mcp.WithString("document_type",
		mcp.Description("Document family: auto, invoice or packing_list (defaults to the server setting)"),
		mcp.Enum("auto", "invoice", "packing_list"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_parse_file",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_parse_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a PDF or JSON page dump, absolute or relative to the default directory"),
		),
		docType,
	), s.handleParseFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_parse_batch",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_parse_batch")),
		mcp.WithString("paths",
			mcp.Description("Comma or newline separated file paths; empty means every source in directory"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory to take sources from when paths is empty (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("File name filter applied when sources come from a directory"),
		),
		mcp.WithString("document_types",
			mcp.Description("One document type for all files, or a comma separated list with one per file"),
		),
	), s.handleParseBatch)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_classify",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_classify")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a PDF or JSON page dump"),
		),
	), s.handleClassify)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a PDF or JSON page dump"),
		),
	), s.handleValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for file name matching"),
		),
	), s.handleSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_stats_directory",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_stats_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to analyze (uses default if empty)"),
		),
	), s.handleStatsDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_export_xlsx",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_export_xlsx")),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Workbook path ending in .xlsx, inside the default directory"),
		),
		mcp.WithString("paths",
			mcp.Description("Comma or newline separated file paths; empty means every source in directory"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory to take sources from when paths is empty (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("File name filter applied when sources come from a directory"),
		),
		mcp.WithString("document_types",
			mcp.Description("One document type for all files, or a comma separated list with one per file"),
		),
	), s.handleExportXLSX)

	s.mcpServer.AddTool(mcp.NewTool(
		"tradedoc_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("tradedoc_server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleParseFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.documentType(request.GetString("document_type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.parser.ParseDocument(ctx, path, t)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.jsonResult(s.formatParseSummary(result), result)
}

func (s *Server) handleParseBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	batch, err := s.runBatch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := fmt.Sprintf("Batch %s: %d parsed, %d failed\n", batch.ID, batch.Succeeded, batch.Failed)
	for _, r := range batch.Results {
		summary += "  " + s.formatParseSummary(&r)
	}
	return s.jsonResult(summary, batch)
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c := s.parser.Classify(ctx, path)

	text := fmt.Sprintf("%s is classified as %s (method: %s)\n", path, c.Type, c.Method)
	if c.Method == "content" {
		text += fmt.Sprintf("Scores: invoice %d, packing list %d\n", c.InvoiceScore, c.PackingScore)
	}
	if matched := c.Matched(); len(matched) > 0 {
		text += fmt.Sprintf("Evidence: %s\n", strings.Join(matched, ", "))
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("%s is a valid %s source with %d pages", result.Path, result.Format, result.Pages)
	} else {
		responseText = fmt.Sprintf("Validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.SearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
	}

	result, err := s.pdfService.SearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatSearchDirectoryResult(result)), nil
}

func (s *Server) handleStatsDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.StatsDirectory(pdf.StatsDirectoryRequest{
		Directory: request.GetString("directory", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Directory: %s\n", result.Directory)
	text += fmt.Sprintf("Sources: %d (%d pdf, %d json)\n",
		result.TotalFiles, result.ByFormat[pdf.FormatPDF], result.ByFormat[pdf.FormatDump])
	text += fmt.Sprintf("Total size: %d bytes, average %d bytes\n", result.TotalSize, result.AverageFileSize)
	if result.TotalFiles > 0 {
		text += fmt.Sprintf("Largest: %s (%d bytes)\n", result.LargestFileName, result.LargestFileSize)
		text += fmt.Sprintf("Smallest: %s (%d bytes)\n", result.SmallestFileName, result.SmallestFileSize)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExportXLSX(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !strings.EqualFold(filepath.Ext(output), ".xlsx") {
		return mcp.NewToolResultError("output must end in .xlsx"), nil
	}
	resolved, err := s.pdfService.ResolvePath(output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	batch, err := s.runBatch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	invoices, items := batch.Invoices(), batch.PackingItems()
	if err := export.SaveXLSX(resolved, invoices, items, export.WithLogger(s.log)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Workbook written: %s\n", resolved)
	text += fmt.Sprintf("Invoices: %d, packing list items: %d\n", len(invoices), len(items))
	text += fmt.Sprintf("Sources: %d parsed, %d failed\n", batch.Succeeded, batch.Failed)
	for _, r := range batch.Results {
		if r.Failed() {
			text += fmt.Sprintf("  failed: %s: %s\n", r.FilePath, r.Error)
		}
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// runBatch parses the sources named by the paths argument, or every
// source found in the directory argument when paths is empty.
func (s *Server) runBatch(ctx context.Context, request mcp.CallToolRequest) (*parser.BatchResult, error) {
	paths := splitList(request.GetString("paths", ""))
	if len(paths) == 0 {
		found, err := s.pdfService.SearchDirectory(pdf.SearchDirectoryRequest{
			Directory: request.GetString("directory", ""),
			Query:     request.GetString("query", ""),
		})
		if err != nil {
			return nil, err
		}
		paths = found.Paths()
	}
	if len(paths) == 0 {
		return nil, errors.New("no sources to parse")
	}

	var types []document.Type
	for _, name := range splitList(request.GetString("document_types", "")) {
		t, err := document.ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		types = []document.Type{s.config.DocumentType()}
	}

	return s.parser.ParseBatch(ctx, paths, types...)
}

// documentType parses name, falling back to the configured default when empty.
func (s *Server) documentType(name string) (document.Type, error) {
	if strings.TrimSpace(name) == "" {
		return s.config.DocumentType(), nil
	}
	return document.ParseType(name)
}

func (s *Server) jsonResult(summary string, v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	buf.WriteString(summary)
	buf.WriteString("\n")
	if err := export.WriteJSON(&buf, v); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) formatParseSummary(r *parser.Result) string {
	if r.Failed() {
		return fmt.Sprintf("%s: error: %s\n", r.FilePath, r.Error)
	}
	method := "unknown"
	if r.Classification != nil {
		method = string(r.Classification.Method)
	}
	return fmt.Sprintf("%s: %s (%s), %d pages, %d records\n", r.FilePath, r.DocumentType, method, r.Pages, r.Count)
}

func (s *Server) formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d sources in %s", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf(" matching '%s'", result.SearchQuery)
	}
	text += ":\n\n"

	for _, file := range result.Files {
		text += fmt.Sprintf("• %s [%s] (%d bytes, modified %s)\n  %s\n",
			file.Name, file.Format, file.Size, file.ModifiedTime, file.Path)
	}
	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Duplicate EAN policy: %s\n\n", s.config.DuplicatePolicy())

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d sources found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No sources found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("  • %s\n", tool.Name)
	}

	text += "\n" + result.UsageGuidance
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode %q", s.config.Mode)
	}
}

// runStdioMode runs the server over standard I/O until stdin closes
func (s *Server) runStdioMode(_ context.Context) error {
	s.log.Info().
		Str("directory", s.config.Directory).
		Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the SSE transport on the configured address until
// ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	baseURL := "http://" + ln.Addr().String()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	httpServer := &http.Server{
		Handler:           sse,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.log.Info().
		Str("address", ln.Addr().String()).
		Str("sse_endpoint", baseURL+"/sse").
		Str("directory", s.config.Directory).
		Msg("starting MCP server in server mode")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sse.Shutdown(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("SSE shutdown failed")
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// splitList splits a comma or newline separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
