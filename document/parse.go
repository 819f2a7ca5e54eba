package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const (
	titleTag   = "title"
	headingTag = "heading"
)

// Parse reads a page source and collects the blocks of the requested regions.
// Region names are validated before the source is looked at; duplicates are
// collapsed in first-seen order.
func Parse(src []byte, regionNames []string) (*Page, error) {
	names := make([]string, 0, len(regionNames))
	seen := make(map[string]struct{}, len(regionNames))
	for _, name := range regionNames {
		if IsReservedRegionName(name) {
			return nil, &ReservedRegionNameError{Name: name}
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if err := checkWellFormed(src); err != nil {
		return nil, &MalformedDocumentError{Reason: "unable to parse markup", Err: err}
	}
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(src); err != nil {
		return nil, &MalformedDocumentError{Reason: "unable to parse markup", Err: err}
	}
	root := tree.Root()
	if root == nil {
		return nil, &MalformedDocumentError{Reason: "no root element"}
	}

	page := &Page{Kind: root.Tag, Regions: make([]Region, 0, len(names))}
	for _, name := range names {
		page.Regions = append(page.Regions, Region{Name: name})
	}

	var hasTitle, hasHeading bool
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case titleTag:
			if !hasTitle {
				page.Title = textContent(child)
				hasTitle = true
			}
		case headingTag:
			if !hasHeading {
				page.Heading = textContent(child)
				hasHeading = true
			}
		default:
			region := page.region(child.Tag)
			if region == nil {
				continue
			}
			for _, node := range child.ChildElements() {
				region.Blocks = append(region.Blocks, newBlock(node))
			}
		}
	}

	if !hasTitle {
		return nil, &MalformedDocumentError{Reason: "missing <title> element"}
	}
	if !hasHeading {
		return nil, &MalformedDocumentError{Reason: "missing <heading> element"}
	}
	return page, nil
}

func newBlock(el *etree.Element) Block {
	text := textContent(el)
	if el.Tag == KindMarkdown {
		return MarkdownBlock{Text: text}
	}
	return RawBlock{Tag: el.Tag, Text: text}
}

// textContent concatenates all character data below el, untrimmed.
func textContent(el *etree.Element) string {
	var sb strings.Builder
	writeText(&sb, el)
	return sb.String()
}

func writeText(sb *strings.Builder, el *etree.Element) {
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			writeText(sb, t)
		}
	}
}

// checkWellFormed runs a strict token pass; etree tolerates some unbalanced
// input and content after the root element.
func checkWellFormed(src []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(src))
	depth, roots := 0, 0
	for {
		token, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("extra element <%s> after the root element", t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text outside the root element")
			}
		}
	}
}
