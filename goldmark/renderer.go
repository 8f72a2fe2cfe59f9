package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type ansiRenderer struct {
	code relay.CodeFormatter

	bold       lipgloss.Style
	italic     lipgloss.Style
	inlineCode lipgloss.Style
	h1         lipgloss.Style
	h2         lipgloss.Style
	minor      lipgloss.Style
	bullet     lipgloss.Style
	accent     lipgloss.Style
	muted      lipgloss.Style
	underline  lipgloss.Style
	plain      lipgloss.Style
}

func newRenderer(theme relay.Theme, o options) *ansiRenderer {
	r := o.renderer
	return &ansiRenderer{
		code:       o.code,
		bold:       r.NewStyle().Bold(true),
		italic:     r.NewStyle().Italic(true),
		inlineCode: r.NewStyle().Foreground(ansiColor(theme.InlineCode)).Background(ansiColor(theme.CodeBg)),
		h1:         r.NewStyle().Foreground(ansiColor(theme.Heading)).Bold(true).Underline(true),
		h2:         r.NewStyle().Foreground(ansiColor(theme.Subheading)).Bold(true),
		minor:      r.NewStyle().Foreground(ansiColor(theme.Minor)),
		bullet:     r.NewStyle().Foreground(ansiColor(theme.Bullet)),
		accent:     r.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:      r.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline:  r.NewStyle().Underline(true),
		plain:      r.NewStyle(),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	p := goldmark.DefaultParser()
	reader := text.NewReader(source)
	doc := p.Parse(reader)

	var buf bytes.Buffer
	r.walkBlock(doc, source, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) walkBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
	}
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		inline := r.collectInline(n, source)
		r.writeBlock(buf, r.plain.Width(width).Render(inline), n)

	case *ast.Heading:
		inline := r.collectInline(n, source)
		styled := r.heading(n.Level).Render(inline)
		r.writeBlock(buf, r.plain.Width(width).Render(styled), n)

	case *ast.FencedCodeBlock:
		lang := string(n.Language(source))
		buf.WriteString(r.rule(lang, width))
		buf.WriteString("\n")
		r.writeBlock(buf, r.codeBlock(blockText(n, source), lang), n)

	case *ast.CodeBlock:
		r.writeBlock(buf, r.codeBlock(blockText(n, source), ""), n)

	case *ast.List:
		r.renderList(n, source, width, buf, 0)
		if n.NextSibling() != nil {
			buf.WriteString("\n")
		}

	case *ast.ThematicBreak:
		r.writeBlock(buf, r.muted.Render(strings.Repeat("─", min(width, 40))), n)

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(source))
		}

	default:
		// Blockquotes and other unrecognized blocks: recurse into children.
		r.walkBlock(node, source, width, buf)
	}
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	ordered := node.IsOrdered()
	start := node.Start
	itemNum := 0

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", depth)
		var marker string
		if ordered {
			itemNum++
			marker = fmt.Sprintf("%d. ", start+itemNum-1)
		} else {
			marker = r.bullet.Render("•") + " "
		}

		// Collect item content.
		var itemBuf bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				inline := r.collectInline(in, source)
				itemBuf.WriteString(inline)
			case *ast.List:
				if itemBuf.Len() > 0 {
					r.writeListItem(buf, indent, marker, itemBuf.String(), width)
					itemBuf.Reset()
				}
				r.renderList(in, source, width, buf, depth+1)
				marker = strings.Repeat(" ", lipgloss.Width(marker))
			default:
				r.renderBlock(ic, source, width, &itemBuf)
			}
		}

		if itemBuf.Len() > 0 {
			r.writeListItem(buf, indent, marker, itemBuf.String(), width)
		}
	}
}

// writeListItem writes a list item with proper continuation-line indentation.
func (r *ansiRenderer) writeListItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	prefix := indent + marker
	prefixWidth := lipgloss.Width(prefix)
	itemWidth := width - prefixWidth
	if itemWidth < 10 {
		itemWidth = 10
	}
	wrapped := r.plain.Width(itemWidth).Render(content)
	lines := strings.Split(wrapped, "\n")
	continuation := strings.Repeat(" ", prefixWidth)
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
		} else {
			buf.WriteString(continuation + line + "\n")
		}
	}
}

// collectInline recursively collects styled inline text from a node's children.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		switch n.Level {
		case 1:
			buf.WriteString(r.italic.Render(inner))
		default:
			// Level 2 = bold. Goldmark represents ***bold italic*** as
			// nested Emphasis nodes, so level 3+ is not reachable.
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		inner := r.collectInline(n, source)
		buf.WriteString(r.inlineCode.Render(inner))

	case *ast.Link:
		inner := r.collectInline(n, source)
		url := string(n.Destination)
		buf.WriteString(r.underline.Render(inner))
		buf.WriteString(" ")
		buf.WriteString(r.muted.Render("(" + url + ")"))

	case *ast.AutoLink:
		url := string(n.URL(source))
		buf.WriteString(r.underline.Render(url))

	case *ast.Image:
		alt := r.collectInline(n, source)
		url := string(n.Destination)
		buf.WriteString(r.underline.Render(alt))
		buf.WriteString(" ")
		buf.WriteString(r.muted.Render("(" + url + ")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		// Recurse for any unrecognized inline.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}

// writeBlock writes a rendered block followed by a newline, plus a blank
// line when another block follows.
func (r *ansiRenderer) writeBlock(buf *bytes.Buffer, rendered string, n ast.Node) {
	buf.WriteString(rendered)
	buf.WriteString("\n")
	if n.NextSibling() != nil {
		buf.WriteString("\n")
	}
}

func (r *ansiRenderer) heading(level int) lipgloss.Style {
	switch level {
	case 1:
		return r.h1
	case 2:
		return r.h2
	default:
		return r.minor
	}
}

// codeBlock highlights code when a formatter is set and prefixes every line
// with a gutter.
func (r *ansiRenderer) codeBlock(code, lang string) string {
	if r.code != nil {
		code = r.code.FormatCode(code, lang)
	}
	gutter := r.muted.Render("│") + " "
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = gutter + line
	}
	return strings.Join(lines, "\n")
}

// rule returns a horizontal rule labelled with the block's language.
func (r *ansiRenderer) rule(lang string, width int) string {
	label := ""
	if lang != "" {
		label = " " + lang + " "
	}
	n := max(min(width, 40)-runewidth.StringWidth(label)-2, 2)
	return r.muted.Render("──" + label + strings.Repeat("─", n))
}

// blockText returns the raw lines of a code block without the final newline.
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
