package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// TOCItem 目录条目，Anchor 对应渲染后标题的 id
type TOCItem struct {
	Level  int    `bson:"level" json:"level"`
	Title  string `bson:"title" json:"title"`
	Anchor string `bson:"anchor" json:"anchor"`
}

func extractTOC(doc ast.Node, source []byte) []TOCItem {
	var toc []TOCItem

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		item := TOCItem{
			Level: heading.Level,
			Title: string(heading.Text(source)),
		}
		if id, found := heading.AttributeString("id"); found {
			if b, ok := id.([]byte); ok {
				item.Anchor = string(b)
			}
		}
		toc = append(toc, item)
		return ast.WalkSkipChildren, nil
	})

	return toc
}
