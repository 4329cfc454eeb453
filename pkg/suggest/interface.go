// Package suggest is the core, deciding whether a cursor position in a Whistle document warrants function completions and returning them.
package suggest

// ICompleter defines the interface for function completion engines
type ICompleter interface {
	// Suggest returns the candidates for the cursor position in document
	Suggest(document string, position Position) CandidateList

	// Functions returns the full candidate list loaded at construction
	Functions() CandidateList

	// Filter returns the loaded candidates whose label starts with prefix
	Filter(prefix string) CandidateList

	// Len returns the number of real (non-sentinel) candidates
	Len() int

	// Source returns where the candidates were loaded from, if known
	Source() string
}
