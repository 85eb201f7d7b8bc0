// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-export pipeline.
// Implements: Record (one extracted article) and HarvestConfig (the
// immutable run configuration).
package types

// Record is one article extracted from a PubMed search-result page.
type Record struct {
	// Title is the article heading with newlines removed and surrounding
	// whitespace trimmed. Never empty for an emitted record.
	Title string `json:"title" yaml:"title"`

	// Link is the absolute article URL, resolved against the base URL.
	Link string `json:"link" yaml:"link"`

	// Keywords is the comma-separated keyword list taken from the
	// article's abstract block. Nil means the article has no abstract
	// paragraph at all; an empty string means the paragraph was present
	// but cleaned down to nothing.
	Keywords *string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// KeywordsOrEmpty returns the keyword list, or "" when it is absent.
func (r Record) KeywordsOrEmpty() string {
	if r.Keywords == nil {
		return ""
	}
	return *r.Keywords
}

// HasKeywords reports whether the article carried an abstract paragraph.
func (r Record) HasKeywords() bool {
	return r.Keywords != nil
}

// Cells returns the record as output row cells in column order
// (title, link, keywords).
func (r Record) Cells() []string {
	return []string{r.Title, r.Link, r.KeywordsOrEmpty()}
}

// Headers returns the fixed output schema, one entry per Record column.
func Headers() []string {
	return []string{"Name", "Link", "Keywords"}
}
