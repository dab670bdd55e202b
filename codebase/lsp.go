package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/java"
)

const lsName = "doclet"

// LSPServer answers hover and workspace symbol requests from the
// documentation of the workspace it is initialized with.
type LSPServer struct {
	codebase *Codebase
	watcher  *Watcher
	opts     []Option
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string, opts ...Option) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
		WorkspaceSymbol:       ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}

	ls.codebase = New([]string{rootDir}, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKind(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true
	capabilities.WorkspaceSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if _, err := ls.codebase.Rebuild(context.Background()); err != nil {
		log.Errorf("initial build: %s", err)
	}
	w, err := NewWatcher(ls.codebase)
	if err != nil {
		log.Warningf("file watching disabled: %s", err)
		return nil
	}
	w.Start(context.Background())
	ls.watcher = w
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		return ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// changed rebuilds after an edit, debounced when a watcher is running.
func (ls *LSPServer) changed() {
	if ls.watcher != nil {
		ls.watcher.Schedule()
		return
	}
	if _, err := ls.codebase.Rebuild(context.Background()); err != nil {
		log.Warningf("%s", err)
	}
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.changed()
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.changed()
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.CloseFile(path)
	ls.changed()
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.CloseFile(path)
	}
	ls.changed()
	return nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	content, err := ls.codebase.File(path)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)
	lines := strings.Split(string(content), "\n")
	if line > len(lines) {
		return nil, nil
	}
	ref := java.ReferenceAt(lines[line-1], col)
	if ref == "" {
		return nil, nil
	}
	scope := java.EnclosingType(context.Background(), content, line, col)

	md, ok := ls.codebase.Describe(ref, doc.QualifiedName(scope))
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md,
		},
	}, nil
}

const maxSymbols = 200

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	var symbols []protocol.SymbolInformation
	for _, e := range ls.codebase.Search(params.Query, maxSymbols) {
		if e.Kind == doc.KindPackage || e.Position.File == "" {
			continue
		}
		line := protocol.UInteger(max(0, e.Position.Line-1))
		pos := protocol.Position{Line: line}
		sym := protocol.SymbolInformation{
			Name: e.Signature(),
			Kind: symbolKind(e),
			Location: protocol.Location{
				URI:   pathToURI(e.Position.File),
				Range: protocol.Range{Start: pos, End: pos},
			},
		}
		if container := containerName(e); container != "" {
			sym.ContainerName = &container
		}
		if e.Deprecated {
			sym.Deprecated = boolPtr(true)
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func containerName(e *doc.DocEntity) string {
	if e.Scope != "" {
		return string(e.Scope)
	}
	return string(e.Package)
}

func symbolKind(e *doc.DocEntity) protocol.SymbolKind {
	switch e.Kind {
	case doc.KindField:
		return protocol.SymbolKindField
	case doc.KindConstructor:
		return protocol.SymbolKindConstructor
	case doc.KindMethod:
		return protocol.SymbolKindMethod
	case doc.KindPackage:
		return protocol.SymbolKindPackage
	}
	if e.Info != nil {
		switch e.Info.Kind {
		case string(java.ClassKindInterface), string(java.ClassKindAnnotation):
			return protocol.SymbolKindInterface
		case string(java.ClassKindEnum):
			return protocol.SymbolKindEnum
		case string(java.ClassKindRecord):
			return protocol.SymbolKindStruct
		}
	}
	return protocol.SymbolKindClass
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
