package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	gutil "github.com/yuin/goldmark/util"
)

// Result 渲染产物：净化后的 HTML 与标题目录
type Result struct {
	HTML string
	TOC  []TOCItem
}

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		&mathExtension{},
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			gutil.Prioritized(&tableAlignTransformer{}, 100),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		renderer.WithNodeRenderers(
			gutil.Prioritized(&codeBlockRenderer{}, 500),
		),
	),
)

var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(math|code-block|language-[\w+-]+|align-(left|right|center))$`)).
		OnElements("div", "pre", "code", "td", "th")
	p.AllowAttrs("data-language").Matching(regexp.MustCompile(`^[\w+-]+$`)).OnElements("pre")
	return p
}

// Render 将 Markdown 原文渲染为净化后的 HTML，并抽取标题目录。
// 公式块($$...$$)原样透传给前端的公式引擎，代码块带语言标注，
// 表格对齐方式转为 class 便于样式接管。
func Render(raw string) (*Result, error) {
	source := []byte(raw)

	doc := engine.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, source, doc); err != nil {
		return nil, err
	}

	return &Result{
		HTML: sanitizer.Sanitize(buf.String()),
		TOC:  extractTOC(doc, source),
	}, nil
}

// tableAlignTransformer 将表格单元格的对齐信息改写为 class 属性
type tableAlignTransformer struct{}

func (t *tableAlignTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if cell, ok := n.(*east.TableCell); ok && cell.Alignment != east.AlignNone {
			cell.SetAttributeString("class", []byte("align-"+cell.Alignment.String()))
		}
		return ast.WalkContinue, nil
	})
}

// codeBlockRenderer 覆盖默认的代码块渲染，输出语言标注
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w gutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		lang := "plain"
		if l := n.Language(source); l != nil {
			lang = string(l)
		}
		_, _ = fmt.Fprintf(w, `<pre class="code-block" data-language="%s"><code class="language-%s">`, lang, lang)
		l := n.Lines().Len()
		for i := 0; i < l; i++ {
			line := n.Lines().At(i)
			_, _ = w.WriteString(stdhtml.EscapeString(string(line.Value(source))))
		}
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}
