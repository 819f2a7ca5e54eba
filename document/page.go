// Package document turns raw page sources into a region-based block model.
//
// A page source is a markup document whose root element names the page kind:
//
//	<page>
//	  <title>Tove</title>
//	  <heading>Hello</heading>
//	  <content>
//	    <markdown>Hello *world*</markdown>
//	  </content>
//	</page>
//
// Direct children named after a requested region hold the blocks of that region.
package document

// Block kinds with a known meaning.
const (
	KindMarkdown = "markdown"
)

// Block is one typed content unit within a region.
type Block interface {
	// Kind reports the element name the block was read from.
	Kind() string
}

// MarkdownBlock carries verbatim markdown text, surrounding whitespace included.
type MarkdownBlock struct {
	Text string
}

func (MarkdownBlock) Kind() string { return KindMarkdown }

// RawBlock is any block whose kind has no dedicated variant. It parses fine
// and is left to the renderer to accept or reject.
type RawBlock struct {
	Tag  string
	Text string
}

func (b RawBlock) Kind() string { return b.Tag }

// Region is a named, ordered slot of blocks.
type Region struct {
	Name   string
	Blocks []Block
}

// Page is the parsed form of one content source file.
type Page struct {
	Kind    string
	Title   string
	Heading string
	Regions []Region
}

// Region returns the blocks of the named region, or nil when it was not requested.
func (p *Page) Region(name string) []Block {
	for _, region := range p.Regions {
		if region.Name == name {
			return region.Blocks
		}
	}
	return nil
}

// RegionNames lists the regions in the order they were requested.
func (p *Page) RegionNames() []string {
	names := make([]string, 0, len(p.Regions))
	for _, region := range p.Regions {
		names = append(names, region.Name)
	}
	return names
}

func (p *Page) region(name string) *Region {
	for i := range p.Regions {
		if p.Regions[i].Name == name {
			return &p.Regions[i]
		}
	}
	return nil
}
