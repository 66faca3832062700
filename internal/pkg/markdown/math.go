package markdown

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	gutil "github.com/yuin/goldmark/util"
)

// MathBlock $$ 公式块节点。内容不做 Markdown 解析，交由前端公式引擎处理。
type MathBlock struct {
	ast.BaseBlock
}

var KindMathBlock = ast.NewNodeKind("MathBlock")

func (n *MathBlock) Kind() ast.NodeKind {
	return KindMathBlock
}

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

func NewMathBlock() *MathBlock {
	return &MathBlock{}
}

var mathFence = []byte("$$")

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (b *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}
	// 开栅线上除 $$ 外不允许其他内容
	rest := bytes.TrimSpace(line[pos+len(mathFence):])
	if len(rest) != 0 {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return NewMathBlock(), parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if bytes.Equal(bytes.TrimSpace(line), mathFence) {
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *mathBlockParser) CanAcceptIndentedLine() bool {
	return false
}

type mathBlockRenderer struct{}

func (r *mathBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathBlock, r.render)
}

func (r *mathBlockRenderer) render(w gutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="math">$$`)
		l := node.Lines().Len()
		for i := 0; i < l; i++ {
			line := node.Lines().At(i)
			_, _ = w.WriteString(stdhtml.EscapeString(string(line.Value(source))))
		}
	} else {
		_, _ = w.WriteString("$$</div>\n")
	}
	return ast.WalkContinue, nil
}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		gutil.Prioritized(&mathBlockParser{}, 701),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		gutil.Prioritized(&mathBlockRenderer{}, 501),
	))
}
