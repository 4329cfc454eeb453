package suggest

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// buildTrie indexes the candidate labels, storing each candidate's
// position in the list as the item.
func buildTrie(functions CandidateList) *patricia.Trie {
	trie := patricia.NewTrie()
	if functions.IsNull() {
		return trie
	}
	for i, c := range functions {
		trie.Insert(patricia.Prefix(c.Label), i)
	}
	return trie
}

// Filter returns the loaded functions whose label starts with prefix, in
// trie visit order. An empty prefix returns every function. No match yields
// NullList.
func (c *Completer) Filter(prefix string) CandidateList {
	if prefix == "" {
		return c.functions
	}

	var matches CandidateList
	err := c.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		idx, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for function %s", item, p)
			return nil
		}
		matches = append(matches, c.functions[idx])
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return NullList()
	}

	if len(matches) == 0 {
		return NullList()
	}
	return matches
}
