/*
Package server implements msgpack IPC for Whistle function completion.

It is the non-LSP way to drive the completer: editors and scripts that do not
speak the Language Server Protocol write msgpack messages to stdin and read
msgpack messages from stdout, one value after another, no framing.

# IPC

Every request carries an ID that is echoed in the response. A completion
request sends the whole document and a zero-based cursor position:

	{"id": "req_001", "d": "root.x = $", "ln": 0, "ch": 10}

The response lists the candidates with their rank, kind, and the time taken in
microseconds:

	{"id": "req_001", "s": [{"l": "Div", "k": 3, "r": 1}, {"l": "Mul", "k": 3, "r": 2}], "c": 2, "t": 12}

When no suggestion applies the list holds the single empty sentinel item
(label "", kind 0), so "s" is never empty.

Control requests set an action instead:

	{"id": "h1", "action": "health"}
	{"id": "i1", "action": "get_info"}

Malformed requests are answered with an error and the loop keeps going:

	{"id": "req_002", "e": "unknown action: reload", "c": 400}

The server writes {"status": "ready"} once before reading the first request.
*/
package server

// Actions understood by the server. An empty action is a completion request.
const (
	ActionComplete = ""
	ActionHealth   = "health"
	ActionInfo     = "get_info"
)

// Request is any message sent by a client.
type Request struct {
	ID        string `msgpack:"id"`
	Action    string `msgpack:"action,omitempty"`
	Document  string `msgpack:"d"`
	Line      int    `msgpack:"ln"`
	Character int    `msgpack:"ch"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Label string `msgpack:"l"`
	Kind  uint8  `msgpack:"k"`
	Rank  uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// InfoResponse answers health and get_info.
type InfoResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Functions int    `msgpack:"functions,omitempty"`
	Source    string `msgpack:"source,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
