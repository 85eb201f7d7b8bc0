// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "fmt"

// Required fields of an article node.
const (
	FieldTitle = "title"
	FieldLink  = "link"
)

// MalformedRecordError reports an article node that matched ArticleSelector
// but lacks a field every record must carry.
type MalformedRecordError struct {
	// Index is the article's 0-based position among matched nodes.
	Index int

	// Field is FieldTitle or FieldLink.
	Field string

	// Reason describes what was missing.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed article %d: %s: %s", e.Index, e.Field, e.Reason)
}
