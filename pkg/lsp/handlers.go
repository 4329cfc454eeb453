package lsp

import (
	"fmt"

	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.logger.Debug("Initializing", "client", params.ClientInfo.Name)
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindIncremental

	resolve := true
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{string(suggest.TriggerChar)},
		ResolveProvider:   &resolve,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	message := fmt.Sprintf("%s %s ready with %d functions", Name, s.version, s.completer.Len())
	if s.completer.Len() == 0 {
		message = fmt.Sprintf("%s %s ready, no functions loaded from %s", Name, s.version, s.completer.Source())
	}
	ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.logger.Debug("Shutting down", "open_documents", s.documents.Len())
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if !s.documents.Apply(params.TextDocument.URI, params.ContentChanges) {
		s.logger.Warnf("Change for unopened document %s ignored", params.TextDocument.URI)
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.documents.Close(params.TextDocument.URI)
	return nil
}

// completion answers with NullList for documents the server has not seen.
func (s *Server) completion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		return toCompletionItems(suggest.NullList()), nil
	}

	candidates := s.completer.Suggest(text, suggest.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	})
	return toCompletionItems(candidates), nil
}

func (s *Server) completionResolve(ctx *glsp.Context, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return item, nil
}

// toCompletionItems converts candidates to protocol items. The NullList
// item has a label and nothing else.
func toCompletionItems(candidates suggest.CandidateList) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, len(candidates))
	for i, c := range candidates {
		items[i] = protocol.CompletionItem{Label: c.Label}
		if c.Kind != suggest.KindNone {
			kind := protocol.CompletionItemKind(c.Kind)
			items[i].Kind = &kind
		}
	}
	return items
}
