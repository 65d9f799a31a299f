// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the published vault to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/noteservice"
)

// SyntaxURI identifies the note syntax guide resource.
const SyntaxURI = "vault://syntax"

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all vault tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vaultpress",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_vault",
		mcp.WithDescription("Search published notes. Plain queries match titles and bodies "+
			"case-insensitively; a query starting with \"tag:\" filters by tag. "+
			"Returns at most 20 results as JSON."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchVault)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a published note as JSON: metadata, backlinks and body "+
			"with comments removed and wikilinks rendered as HTML."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path (folder/note.md) or route (folder/note)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("vault_tree",
		mcp.WithDescription("Return the navigation tree of published notes as JSON."),
	), s.vaultTree)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve the target of a [[wikilink]] to a published note path and route."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Link target as written between the brackets")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all published notes that link to the specified note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path or route of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddResource(
		mcp.NewResource(SyntaxURI, "Note Syntax",
			mcp.WithResourceDescription("How front-matter, wikilinks, comments and routes work in this vault."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error, what string) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", what))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) searchVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return errorResult(err, query), nil
	}
	return jsonResult(results)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, path)
	if err != nil {
		return errorResult(err, path), nil
	}
	return jsonResult(note)
}

func (s *Server) vaultTree(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := s.svc.Tree(ctx)
	if err != nil {
		return errorResult(err, "tree"), nil
	}
	return jsonResult(tree)
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	link, err := s.svc.Resolve(ctx, target)
	if err != nil {
		return errorResult(err, target), nil
	}
	return jsonResult(link)
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, path)
	if err != nil {
		return errorResult(err, path), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) readSyntaxResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SyntaxURI,
			MIMEType: "text/markdown",
			Text:     SyntaxGuide,
		},
	}, nil
}
