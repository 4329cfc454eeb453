package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wstlserve/internal/logger"
	"github.com/bastiangx/wstlserve/internal/utils"
	"github.com/bastiangx/wstlserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for function completions
type Server struct {
	completer    suggest.ICompleter
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(completer suggest.ICompleter, r io.Reader, w io.Writer) *Server {
	return &Server{
		completer: completer,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
		logger:    logger.New("ipc"),
	}
}

// Start sends the ready message and serves requests until the input ends.
// A clean EOF returns nil.
func (s *Server) Start() error {
	s.logger.Debug("Starting IPC server")

	if err := s.encoder.Encode(map[string]string{"status": "ready"}); err != nil {
		return fmt.Errorf("writing ready message: %w", err)
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("reading request: %w", err)
		}
		s.requestCount++

		if err := s.handleRequest(raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes one message and answers it. Only write failures are
// returned; bad requests get an error response.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	var request Request
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError(requestID(raw), "invalid msgpack request", 400)
	}

	switch request.Action {
	case ActionComplete:
		return s.send(s.handleComplete(request))
	case ActionHealth:
		return s.send(InfoResponse{ID: request.ID, Status: "ok"})
	case ActionInfo:
		return s.send(InfoResponse{
			ID:        request.ID,
			Status:    "ok",
			Functions: s.completer.Len(),
			Source:    s.completer.Source(),
		})
	default:
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), 400)
	}
}

// requestID recovers the id of a request that failed to decode as a whole,
// or "" when there is none.
func requestID(raw msgpack.RawMessage) string {
	var envelope struct {
		ID string `msgpack:"id"`
	}
	if err := msgpack.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.ID
}

// handleComplete evaluates a completion request and ranks the result by position.
func (s *Server) handleComplete(request Request) CompletionResponse {
	start := time.Now()
	candidates := s.completer.Suggest(request.Document, suggest.Position{
		Line:      request.Line,
		Character: request.Character,
	})
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(candidates))
	suggestions := make([]CompletionSuggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = CompletionSuggestion{
			Label: c.Label,
			Kind:  uint8(c.Kind),
			Rank:  ranks[i],
		}
	}

	s.logger.Debugf("Took [ %v ] for request %s (%d suggestions)", elapsed, request.ID, len(suggestions))
	return CompletionResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
