// Package content turns the raw content-block strings of a project tab into
// HTML. Blocks are classified by the shape of their opening tag: list
// fragments are buffered and joined, recognised block-level tags are inserted
// as they are, and everything else becomes a paragraph.
package content

import (
	"regexp"
	"strings"
)

// Kind is the classification of a single content block.
type Kind int

const (
	// Text is plain or inline content wrapped in a paragraph.
	Text Kind = iota
	// ListFragment is a piece of an ordered/unordered list (<ul>, <li>, </ol>, ...).
	ListFragment
	// BlockTag is a block-level element inserted without a paragraph wrapper.
	BlockTag
)

func (k Kind) String() string {
	switch k {
	case ListFragment:
		return "list"
	case BlockTag:
		return "block"
	default:
		return "text"
	}
}

var (
	listFragmentPattern = regexp.MustCompile(`(?i)^<(ol|ul|li|/ol|/ul)`)
	blockTagPattern     = regexp.MustCompile(`(?i)^<(h[1-6]|hr|img|figure|blockquote|iframe|video|pre|code|table|a)\b`)
)

// Classify trims raw and reports which kind of block it is.
func Classify(raw string) Kind {
	s := strings.TrimSpace(raw)
	switch {
	case listFragmentPattern.MatchString(s):
		return ListFragment
	case blockTagPattern.MatchString(s):
		return BlockTag
	default:
		return Text
	}
}
