package suggest

// TriggerChar is the character that, placed right before the cursor,
// asks for Whistle builtin function completions.
const TriggerChar = '$'

// Kind tags a candidate. Values match the LSP CompletionItemKind numbering.
type Kind uint8

const (
	// KindNone is carried only by the NullList sentinel.
	KindNone     Kind = 0
	KindFunction Kind = 3
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindNone:
		return ""
	default:
		return "unknown"
	}
}

// Candidate is a single suggestible function name.
type Candidate struct {
	Label string
	Kind  Kind
}

// NewFunction returns a function candidate for label.
func NewFunction(label string) Candidate {
	return Candidate{Label: label, Kind: KindFunction}
}

// CandidateList is an ordered list of candidates.
//
// "No suggestions" is never an empty list: it is NullList, a single
// candidate with an empty label. Consumers can always rely on len >= 1.
type CandidateList []Candidate

// NullList returns the sentinel list. Each call returns a fresh slice so
// callers cannot corrupt it for others.
func NullList() CandidateList {
	return CandidateList{{}}
}

// IsNull reports whether l is the NullList sentinel.
func (l CandidateList) IsNull() bool {
	return len(l) == 1 && l[0] == Candidate{}
}

// Labels returns the labels of l in order.
func (l CandidateList) Labels() []string {
	labels := make([]string, len(l))
	for i, c := range l {
		labels[i] = c.Label
	}
	return labels
}
