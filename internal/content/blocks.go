package content

import "strings"

// Block is one output node: a paragraph, a raw block element, or a run of
// list fragments joined together.
type Block struct {
	Kind Kind
	HTML string
}

// Blocks classifies items in order and returns the output nodes. Every text
// item and every block tag yields its own node; each maximal run of adjacent
// list fragments yields one node holding the fragments concatenated verbatim.
func Blocks(items []string) []Block {
	if len(items) == 0 {
		return nil
	}

	out := make([]Block, 0, len(items))
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		out = append(out, Block{Kind: ListFragment, HTML: strings.Join(buffer, "")})
		buffer = buffer[:0]
	}

	for _, item := range items {
		html := strings.TrimSpace(item)

		switch Classify(html) {
		case ListFragment:
			buffer = append(buffer, html)
		case BlockTag:
			flush()
			out = append(out, Block{Kind: BlockTag, HTML: html})
		default:
			flush()
			out = append(out, Block{Kind: Text, HTML: "<p>" + html + "</p>"})
		}
	}
	flush()

	return out
}

// body is the paragraph content of a Text block, without the <p> wrapper.
func (b Block) body() string {
	return strings.TrimSuffix(strings.TrimPrefix(b.HTML, "<p>"), "</p>")
}

// Join concatenates the HTML of every block.
func Join(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk.HTML)
	}
	return b.String()
}
