package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Documents tracks the text of open documents by URI.
type Documents struct {
	texts map[protocol.DocumentUri]string
	mu    sync.RWMutex
}

// NewDocuments creates an empty document store.
func NewDocuments() *Documents {
	return &Documents{texts: make(map[protocol.DocumentUri]string)}
}

// Open stores the full text of a newly opened document.
func (d *Documents) Open(uri protocol.DocumentUri, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[uri] = text
}

// Get returns the current text of uri.
func (d *Documents) Get(uri protocol.DocumentUri) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.texts[uri]
	return text, ok
}

// Close forgets uri.
func (d *Documents) Close(uri protocol.DocumentUri) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.texts, uri)
}

// Len returns the number of open documents.
func (d *Documents) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.texts)
}

// Apply applies content changes to uri in order and reports whether the
// document was open. Range changes splice the text; whole changes replace it.
func (d *Documents) Apply(uri protocol.DocumentUri, changes []any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, ok := d.texts[uri]
	if !ok {
		return false
	}
	for _, change := range changes {
		text = applyChange(text, change)
	}
	d.texts[uri] = text
	return true
}

func applyChange(text string, change any) string {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text
		}
		start, end := c.Range.IndexesIn(text)
		start = min(max(start, 0), len(text))
		end = min(max(end, start), len(text))
		return text[:start] + c.Text + text[end:]
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text
	default:
		return text
	}
}
