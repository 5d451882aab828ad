package project

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/aidlyzer/aidl"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "aidlyzer"

// LSPServer serves diagnostics, outline, hover and go-to-definition over
// a Project keyed by file path.
type LSPServer struct {
	project *Project[string]
	handler protocol.Handler
	server  *server.Server
	rootDir string
	version string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		project: New[string](),
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDefinition:     ls.textDocumentDefinition,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	ls.rootDir = "."
	if params.RootPath != nil && *params.RootPath != "" {
		ls.rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(string(*params.RootURI)); err == nil {
			ls.rootDir = path
		}
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.scanAll()
	ls.publishAll(ctx)
	return nil
}

func (ls *LSPServer) scanAll() {
	filepath.Walk(ls.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".aidl" {
			if content, err := os.ReadFile(path); err == nil {
				ls.project.AddContent(path, string(content))
			}
		}
		return nil
	})
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.project.AddContent(path, params.TextDocument.Text)
	ls.publishAll(ctx)
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
			ls.project.AddContent(path, textChange.Text)
			ls.publishAll(ctx)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.project.AddContent(path, *params.Text)
	} else if content, err := os.ReadFile(path); err == nil {
		ls.project.AddContent(path, string(content))
	}
	ls.publishAll(ctx)
	return nil
}

// publishAll revalidates the whole project and pushes fresh diagnostics
// for every unit. Cross-file dependencies mean one edit can change the
// diagnostics of any unit.
func (ls *LSPServer) publishAll(ctx *glsp.Context) {
	for path, diagnostics := range ls.project.Validate() {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: toProtocolDiagnostics(path, diagnostics),
		})
	}
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	unit := ls.project.Unit(path)
	if unit == nil || unit.AST == nil {
		return nil, nil
	}

	var root *protocol.DocumentSymbol
	aidl.VisitSymbols(unit.AST, aidl.SymbolsItemsAndElements, func(s aidl.Symbol) {
		detail := s.Details()
		sym := protocol.DocumentSymbol{
			Name:           s.Name(),
			Detail:         &detail,
			Kind:           toProtocolSymbolKind(s.Kind),
			Range:          toProtocolRange(s.FullRange()),
			SelectionRange: toProtocolRange(s.Range()),
		}
		if root == nil {
			root = &sym
			return
		}
		root.Children = append(root.Children, sym)
	})
	if root == nil {
		return nil, nil
	}
	return []protocol.DocumentSymbol{*root}, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	symbol, ok := ls.symbolAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("```aidl\n")
	b.WriteString(symbol.Signature())
	b.WriteString("\n```")
	if doc := symbol.Doc(); doc != "" {
		b.WriteString("\n\n")
		b.WriteString(doc)
	}

	hoverRange := toProtocolRange(symbol.Range())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &hoverRange,
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	symbol, ok := ls.symbolAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	typeNode, ok := symbol.Node.(*aidl.Type)
	if !ok || typeNode.Definition == "" {
		return nil, nil
	}
	path, unit := ls.project.FindItem(typeNode.Definition)
	if unit == nil || unit.AST == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(path),
		Range: toProtocolRange(unit.AST.Item.ItemSymbolRange()),
	}, nil
}

func (ls *LSPServer) symbolAt(uri string, pos protocol.Position) (aidl.Symbol, bool) {
	path, err := uriToPath(uri)
	if err != nil {
		return aidl.Symbol{}, false
	}
	unit := ls.project.Unit(path)
	if unit == nil || unit.AST == nil {
		return aidl.Symbol{}, false
	}
	return aidl.SymbolAt(unit.AST, int(pos.Line)+1, int(pos.Character)+1)
}

func toProtocolDiagnostics(path string, diagnostics []aidl.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		severity := protocol.DiagnosticSeverityError
		if d.Kind == aidl.DiagnosticWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		message := d.Message
		if d.Hint != "" {
			message += "\n" + d.Hint
		}
		diag := protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: &severity,
			Message:  message,
		}
		for _, info := range d.RelatedInfos {
			diag.RelatedInformation = append(diag.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   pathToURI(path),
					Range: toProtocolRange(info.Range),
				},
				Message: info.Message,
			})
		}
		out = append(out, diag)
	}
	return out
}

func toProtocolRange(r aidl.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(r.Start),
		End:   toProtocolPosition(r.End),
	}
}

func toProtocolPosition(p aidl.Position) protocol.Position {
	line := p.Line - 1
	col := p.Col - 1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(col),
	}
}

func toProtocolSymbolKind(kind aidl.SymbolKind) protocol.SymbolKind {
	switch kind {
	case aidl.SymbolInterface:
		return protocol.SymbolKindInterface
	case aidl.SymbolParcelable:
		return protocol.SymbolKindClass
	case aidl.SymbolEnum:
		return protocol.SymbolKindEnum
	case aidl.SymbolMethod:
		return protocol.SymbolKindMethod
	case aidl.SymbolConst:
		return protocol.SymbolKindConstant
	case aidl.SymbolField:
		return protocol.SymbolKindField
	case aidl.SymbolEnumElement:
		return protocol.SymbolKindEnumMember
	case aidl.SymbolPackage:
		return protocol.SymbolKindPackage
	}
	return protocol.SymbolKindVariable
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
	if strings.HasPrefix(path, "file://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
