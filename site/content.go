package site

import (
	"strings"

	"github.com/iedon/eyebrow-go/document"
)

// RenderBlocks converts the blocks of one region into HTML, in order.
func (s *Service) RenderBlocks(region string, blocks []document.Block) (string, error) {
	var sb strings.Builder
	for _, block := range blocks {
		switch b := block.(type) {
		case document.MarkdownBlock:
			html, err := s.renderer.RenderString(b.Text, s.cfg.Offset())
			if err != nil {
				return "", err
			}
			sb.WriteString(html)
		default:
			return "", &UnknownBlockKindError{Kind: block.Kind(), Region: region}
		}
	}
	return sb.String(), nil
}
