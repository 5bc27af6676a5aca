package processor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	AttributeRewriterName = "attribute_rewriter"
	DefaultMarkerPrefix   = "data-ssg"
	placeholderSuffix     = "-placeholder"
)

// KeyGenerator produces a single output key on demand. *generator.Registry
// implements it.
type KeyGenerator interface {
	GenerateKey(key, route, content string, md metadata.Metadata) (string, bool)
}

// voidElements never have children or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// AttributeRewriter resolves marker attributes in one forward pass over the
// document. With the default prefix:
//
//	data-ssg-placeholder="K"  replaces the whole element with the value of K
//	data-ssg="K"              replaces the element's inner HTML (or a meta content attribute)
//	data-ssg-<attr>="K"       sets <attr> to the value of K
//
// Marker attributes are always stripped, so a second pass is a no-op.
type AttributeRewriter struct {
	Prefix     string
	Generators KeyGenerator
}

// NewAttributeRewriter creates a rewriter using the default data-ssg prefix.
func NewAttributeRewriter(generators KeyGenerator) *AttributeRewriter {
	return &AttributeRewriter{Prefix: DefaultMarkerPrefix, Generators: generators}
}

func (p *AttributeRewriter) Name() string { return AttributeRewriterName }

func (p *AttributeRewriter) prefix() string {
	if p.Prefix == "" {
		return DefaultMarkerPrefix
	}
	return p.Prefix
}

// pageContext carries the per-page inputs through one rewrite.
type pageContext struct {
	md      metadata.Metadata
	outputs generator.Outputs
	content string
	route   string
}

// markers are the marker attributes found on one element.
type markers struct {
	placeholder    string
	hasPlaceholder bool
	content        string
	hasContent     bool
	attrs          []attrMarker
}

type attrMarker struct {
	name string
	key  string
}

func (p *AttributeRewriter) Process(doc string, md metadata.Metadata, outputs generator.Outputs, content string) (string, error) {
	page := pageContext{md: md, outputs: outputs, content: content, route: md.GetOr("path", "/")}
	prefix := p.prefix()

	z := html.NewTokenizer(strings.NewReader(doc))
	var b strings.Builder
	b.Grow(len(doc))

	var open []string
	var pending *token
	for {
		var t token
		if pending != nil {
			t, pending = *pending, nil
		} else {
			t = nextToken(z)
		}
		switch t.typ {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("tokenize document: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			open = closeImplied(open, t.tok.Data)
			m, attrs := splitMarkers(t.tok.Attr, prefix)
			if !m.any() {
				b.WriteString(t.raw)
				if t.typ == html.StartTagToken && !voidElements[t.tok.Data] {
					open = append(open, t.tok.Data)
				}
				continue
			}
			tok := t.tok
			tok.Attr = attrs
			var opened bool
			opened, pending = p.rewrite(z, &b, tok, t.typ == html.SelfClosingTagToken, m, page, open)
			if opened {
				open = append(open, tok.Data)
			}

		case html.EndTagToken:
			b.WriteString(t.raw)
			if i := lastIndex(open, t.tok.Data); i >= 0 {
				open = open[:i]
			}

		default:
			b.WriteString(t.raw)
		}
	}
}

// rewrite writes the rewritten element. It reports whether the element was
// left open for the main loop to stream its children, and returns a token
// that implicitly closed a skipped element so the caller can emit it.
func (p *AttributeRewriter) rewrite(z *html.Tokenizer, b *strings.Builder, tok html.Token, selfClosing bool, m markers, page pageContext, open []string) (bool, *token) {
	hasChildren := !selfClosing && !voidElements[tok.Data]

	if m.hasPlaceholder {
		var next *token
		if hasChildren {
			next = skipChildren(z, tok.Data, open)
		}
		b.WriteString(p.resolvePlaceholder(m.placeholder, page))
		return false, next
	}

	for _, am := range m.attrs {
		setAttr(&tok, am.name, p.resolveAttribute(am.key, page))
	}

	if !m.hasContent {
		writeStartTag(b, tok, selfClosing)
		return hasChildren, nil
	}

	value, resolved := p.resolveContent(m.content, page)

	if tok.Data == "meta" && hasAttr(tok, "content") {
		if resolved {
			setAttr(&tok, "content", value)
		}
		writeStartTag(b, tok, selfClosing)
		return false, nil
	}

	switch {
	case voidElements[tok.Data]:
		writeStartTag(b, tok, selfClosing)
		return false, nil
	case selfClosing:
		if !resolved {
			writeStartTag(b, tok, true)
			return false, nil
		}
		writeStartTag(b, tok, false)
		b.WriteString(value)
		writeEndTag(b, tok.Data)
		return false, nil
	case !resolved:
		// Preserve: keep streaming the original children.
		writeStartTag(b, tok, false)
		return true, nil
	default:
		writeStartTag(b, tok, false)
		next := skipChildren(z, tok.Data, open)
		b.WriteString(value)
		writeEndTag(b, tok.Data)
		return false, next
	}
}

// resolveGenerated looks key up in the page's outputs, then asks the
// generators to produce it on demand.
func (p *AttributeRewriter) resolveGenerated(key string, page pageContext) (string, bool) {
	if v, found := page.outputs[key]; found {
		return v, true
	}
	if p.Generators != nil {
		if v, found := p.Generators.GenerateKey(key, page.route, page.content, page.md); found {
			return v, true
		}
	}
	return "", false
}

func (p *AttributeRewriter) resolvePlaceholder(key string, page pageContext) string {
	if v, found := p.resolveGenerated(key, page); found {
		return v
	}
	return "<!-- no generator found for key " + html.EscapeString(key) + " -->"
}

// resolveAttribute falls back to metadata, then to an empty value.
func (p *AttributeRewriter) resolveAttribute(key string, page pageContext) string {
	if v, found := p.resolveGenerated(key, page); found {
		return v
	}
	return page.md[key]
}

// resolveContent reports false when the element's existing children should be kept.
func (p *AttributeRewriter) resolveContent(key string, page pageContext) (string, bool) {
	if v, found := p.resolveGenerated(key, page); found {
		return v, true
	}
	if key == "content" {
		return page.content, true
	}
	if v, found := page.md[key]; found {
		return v, true
	}
	return "", false
}

func (m markers) any() bool {
	return m.hasPlaceholder || m.hasContent || len(m.attrs) > 0
}

// splitMarkers separates marker attributes from the attributes to keep.
func splitMarkers(attrs []html.Attribute, prefix string) (markers, []html.Attribute) {
	var m markers
	kept := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if a.Namespace != "" {
			kept = append(kept, a)
			continue
		}
		switch {
		case a.Key == prefix:
			if !m.hasContent {
				m.content, m.hasContent = a.Val, true
			}
		case a.Key == prefix+placeholderSuffix:
			if !m.hasPlaceholder {
				m.placeholder, m.hasPlaceholder = a.Val, true
			}
		case strings.HasPrefix(a.Key, prefix+"-") && len(a.Key) > len(prefix)+1:
			m.attrs = append(m.attrs, attrMarker{name: a.Key[len(prefix)+1:], key: a.Val})
		default:
			kept = append(kept, a)
		}
	}
	return m, kept
}

// token is one tokenizer step with its raw text copied out.
type token struct {
	typ html.TokenType
	raw string
	tok html.Token
}

func nextToken(z *html.Tokenizer) token {
	t := token{typ: z.Next()}
	if t.typ == html.ErrorToken {
		return t
	}
	// Token rewrites the tokenizer buffer in place, so copy the raw text first.
	t.raw = string(z.Raw())
	switch t.typ {
	case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
		t.tok = z.Token()
	}
	return t
}

// pCloser holds the start tags that close an open <p>.
var pCloser = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "div": true, "dl": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hgroup": true, "hr": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "ul": true,
}

// impliedEnd maps elements whose end tag may be omitted to the sibling
// start tags that close them.
var impliedEnd = map[string]map[string]bool{
	"p":        pCloser,
	"li":       {"li": true},
	"dt":       {"dt": true, "dd": true},
	"dd":       {"dt": true, "dd": true},
	"option":   {"option": true, "optgroup": true},
	"optgroup": {"optgroup": true},
	"tr":       {"tr": true, "tbody": true, "thead": true, "tfoot": true},
	"td":       {"td": true, "th": true, "tr": true, "tbody": true, "thead": true, "tfoot": true},
	"th":       {"td": true, "th": true, "tr": true, "tbody": true, "thead": true, "tfoot": true},
}

// closeImplied pops the elements on top of stack that a start tag named
// next closes.
func closeImplied(stack []string, next string) []string {
	for len(stack) > 0 && impliedEnd[stack[len(stack)-1]][next] {
		stack = stack[:len(stack)-1]
	}
	return stack
}

func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}

// skipChildren consumes the children of the element name and its end tag.
// open is the stack of elements enclosing it. When the end tag is omitted,
// skipping stops at the token that closes the element implicitly: a
// sibling start tag or the end tag of an enclosing element. That token is
// returned unwritten.
func skipChildren(z *html.Tokenizer, name string, open []string) *token {
	var inner []string
	for {
		t := nextToken(z)
		switch t.typ {
		case html.ErrorToken:
			return nil
		case html.StartTagToken:
			n := t.tok.Data
			inner = closeImplied(inner, n)
			// Block elements cannot nest in <p>, so they close it at any depth.
			if impliedEnd[name][n] && (len(inner) == 0 || name == "p") {
				return &t
			}
			if !voidElements[n] {
				inner = append(inner, n)
			}
		case html.EndTagToken:
			n := t.tok.Data
			if i := lastIndex(inner, n); i >= 0 {
				inner = inner[:i]
				continue
			}
			if n == name {
				return nil
			}
			if lastIndex(open, n) >= 0 {
				return &t
			}
		}
	}
}

func hasAttr(tok html.Token, name string) bool {
	for _, a := range tok.Attr {
		if a.Namespace == "" && a.Key == name {
			return true
		}
	}
	return false
}

func setAttr(tok *html.Token, name, value string) {
	for i, a := range tok.Attr {
		if a.Namespace == "" && a.Key == name {
			tok.Attr[i].Val = value
			return
		}
	}
	tok.Attr = append(tok.Attr, html.Attribute{Key: name, Val: value})
}

func writeStartTag(b *strings.Builder, tok html.Token, selfClosing bool) {
	b.WriteByte('<')
	b.WriteString(tok.Data)
	for _, a := range tok.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
}

func writeEndTag(b *strings.Builder, name string) {
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}
