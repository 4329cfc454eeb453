/*
Package lsp serves Whistle builtin function completions over the Language Server Protocol.

The server advertises "$" as its only completion trigger character. A completion
request on an open document returns every loaded function when the character
left of the cursor is "$", and the single empty sentinel item otherwise. Open
documents are kept in memory and updated from incremental or full changes.

	srv := lsp.New(completer, lsp.WithVersion("1.0.0"))
	err := srv.Run(config.TransportStdio, "")
*/
package lsp

import (
	"fmt"

	"github.com/bastiangx/wstlserve/internal/logger"
	"github.com/bastiangx/wstlserve/pkg/config"
	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

// Name is reported to clients as the server name.
const Name = "wstl-language-server"

// Server is a Whistle language server.
type Server struct {
	completer suggest.ICompleter
	documents *Documents
	handler   protocol.Handler
	logger    *log.Logger
	version   string
	debug     bool
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported in the initialize result.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithDebug turns on protocol tracing in the transport.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// New creates a server answering completions from completer.
func New(completer suggest.ICompleter, opts ...Option) *Server {
	s := &Server{
		completer: completer,
		documents: NewDocuments(),
		logger:    logger.New("lsp"),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentCompletion: s.completion,
		CompletionItemResolve:  s.completionResolve,
	}
	return s
}

// Documents returns the open document store.
func (s *Server) Documents() *Documents {
	return s.documents
}

// Handler returns the protocol handler, for embedding in another transport.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

// Run serves on the given transport until the connection ends.
func (s *Server) Run(transport, address string) error {
	verbosity := 1
	if s.debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	srv := glspserver.NewServer(&s.handler, Name, s.debug)
	s.logger.Debug("Starting language server", "transport", transport, "address", address,
		"functions", s.completer.Len())

	switch transport {
	case config.TransportStdio:
		return srv.RunStdio()
	case config.TransportTCP:
		return srv.RunTCP(address)
	case config.TransportWebSocket:
		return srv.RunWebSocket(address)
	default:
		return fmt.Errorf("unknown lsp transport %q", transport)
	}
}
