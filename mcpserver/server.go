// Package mcpserver exposes the documentation of a Codebase as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhamidi/doclet/codebase"
	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/java/javadoc"
)

const defaultLimit = 20

const instructions = `Documentation of a Java API. Use search_docs to find entities by name,
lookup_doc to read the documentation of one entity, and unresolved_refs to list
cross references that point outside the documented sources.`

type Server struct {
	mcpServer *server.MCPServer
	codebase  *codebase.Codebase
}

func NewServer(c *codebase.Codebase, version string) *Server {
	s := &Server{codebase: c}

	mcpServer := server.NewMCPServer(
		"doclet",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// ServeStdio serves MCP requests on standard input and output.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("lookup_doc",
			mcp.WithDescription("Show the declaration and documentation of a package, type or member. Names are qualified (com.example.Foo#bar(int)) or written the way a {@link} tag would be, relative to scope."),
			mcp.WithString("name",
				mcp.Description("Entity or reference to look up"),
				mcp.Required(),
			),
			mcp.WithString("scope",
				mcp.Description("Qualified name of the type or package the reference is written in"),
			),
		),
		s.handleLookupDoc,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("Find documented entities whose qualified name contains the query, ignoring case."),
			mcp.WithString("query",
				mcp.Description("Part of a qualified name"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("unresolved_refs",
			mcp.WithDescription("List the cross references that did not resolve to a documented entity."),
		),
		s.handleUnresolvedRefs,
	)
}

func (s *Server) handleLookupDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	scope, _ := args["scope"].(string)

	if s.codebase.Snapshot() == nil {
		return mcp.NewToolResultError(notBuilt(s.codebase.Err())), nil
	}
	md, ok := s.codebase.Describe(name, doc.QualifiedName(scope))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no documentation for %q", name)), nil
	}
	return mcp.NewToolResultText(md), nil
}

type searchResult struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Summary    string `json:"summary,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := defaultLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	results := []searchResult{}
	for _, e := range s.codebase.Search(query, limit) {
		results = append(results, searchResult{
			Name:       string(e.Name),
			Kind:       e.Kind.String(),
			Summary:    javadoc.PlainText(e.Summary),
			Deprecated: e.Deprecated,
		})
	}
	resultJSON, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleUnresolvedRefs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.codebase.Snapshot() == nil {
		return mcp.NewToolResultError(notBuilt(s.codebase.Err())), nil
	}
	missing := s.codebase.Unresolved()
	if missing == nil {
		missing = []doc.MissingRef{}
	}
	resultJSON, _ := json.MarshalIndent(missing, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func notBuilt(err error) string {
	if err != nil {
		return fmt.Sprintf("documentation is not available: %v", err)
	}
	return "documentation is not built yet"
}
