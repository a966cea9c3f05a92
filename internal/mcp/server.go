package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/evidencelab/clinextract/internal/config"
	"github.com/evidencelab/clinextract/internal/extract"
)

// Server exposes the PDF extraction operations as MCP tools.
type Server struct {
	config    *config.Config
	extractor *extract.Extractor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, extractor *extract.Extractor) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // tool set is static
	)

	s := &Server{
		config:    cfg,
		extractor: extractor,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"pdf_extract_search_results",
		mcp.WithDescription("Extract PDF pages into search-result records, one per non-blank page"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Maximum number of pages to process from the start of the document"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractSearchResults)

	metadataTool := mcp.NewTool(
		"pdf_extract_metadata",
		mcp.WithDescription("Get the page count and document metadata of a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(metadataTool, s.handleExtractMetadata)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)
}

// Handler functions

func (s *Server) handleExtractSearchResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxPages := s.config.MaxPages
	if raw, ok := request.GetArguments()["max_pages"].(float64); ok && raw > 0 {
		maxPages = int(raw)
	}

	results, err := s.extractor.SearchResults(path, maxPages)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(encoded)), nil
}

func (s *Server) handleExtractMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.extractor.Metadata(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDocumentInfo(path, info)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.extractor.Validator().DeepValidate(path); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %v", path, err)), nil
	}

	pages, err := s.extractor.Validator().PageCount(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid but page count failed: %v", path, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable (%d pages)", path, pages)), nil
}

// formatDocumentInfo renders document info as readable text.
func formatDocumentInfo(path string, info *extract.DocumentInfo) string {
	text := "PDF Document Info\n"
	text += fmt.Sprintf("File: %s\n", path)
	text += fmt.Sprintf("Pages: %d\n", info.NumPages)

	if len(info.Metadata) == 0 {
		text += "Metadata: none\n"
		return text
	}

	keys := make([]string, 0, len(info.Metadata))
	for key := range info.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	text += "Metadata:\n"
	for _, key := range keys {
		text += fmt.Sprintf("  %s: %s\n", key, info.Metadata[key])
	}

	return text
}

// Run starts the MCP server in the configured mode.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsStdioMode() {
		return s.runStdioMode(ctx)
	}
	// The mark3labs transport only serves stdio; server mode falls back.
	log.Printf("server mode not supported by the stdio transport, falling back to stdio")
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server over standard I/O.
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting clinextract MCP server in stdio mode")
		log.Printf("Default page limit: %d", s.config.MaxPages)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
