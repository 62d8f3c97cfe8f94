// Package render walks a decoded block document and produces the final
// HTML for the public-facing surface. Half-filled blocks are suppressed
// here; the editor is the place that shows empty-state placeholders.
package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/inkwell-blog/inkwell/internal/cache"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/style"
)

// Document renders all blocks of a document in order. An empty document
// renders as empty output.
func Document(doc model.Document, syntaxTheme string) []byte {
	var buf strings.Builder
	for _, b := range doc.Blocks {
		Block(&buf, b, syntaxTheme)
	}
	return []byte(buf.String())
}

// Mutex to protect the check-render-set operation in DocumentCached
var renderCacheMutex sync.Mutex

// DocumentCached renders a document through the process-wide cache,
// keyed by the encoded content's hash and the syntax theme.
func DocumentCached(doc model.Document, contentHash, syntaxTheme string) []byte {
	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return Document(doc, syntaxTheme)
	}

	// First check the cache without locking (fast path for cache hits)
	if cached, found := cache.GetRenderedDocument(contentHash, syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache hit for rendered document")
		return cached
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache miss for rendered document")
	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	rendered := Document(doc, syntaxTheme)
	cache.SetRenderedDocument(contentHash, syntaxTheme, rendered)

	return rendered
}

// Block renders a single block, or nothing when the block's suppression
// rule applies. Unknown block types render as nothing and never fail:
// content created by a newer registry must stay inert, not crash.
func Block(buf *strings.Builder, b model.Block, syntaxTheme string) {
	switch data := b.Data.(type) {
	case model.HeadingData:
		renderHeading(buf, data)
	case model.ParagraphData:
		renderParagraph(buf, data)
	case model.ImageData:
		renderImage(buf, data)
	case model.ListData:
		renderList(buf, data)
	case model.QuoteData:
		renderQuote(buf, data)
	case model.CodeData:
		renderCode(buf, data, syntaxTheme)
	case model.DividerData:
		renderDivider(buf, data)
	case model.VideoData:
		renderVideo(buf, data)
	case model.SpacerData:
		renderSpacer(buf, data)
	default:
		renderLogger.Debug().Str("type", string(b.Type)).Str("id", string(b.ID)).Msg("Skipping unknown block type")
	}
}

// open writes the block wrapper element carrying the resolved styles
// and font size class.
func open(buf *strings.Builder, blockType string, o style.Overrides, headingLevel int) {
	computed := style.Resolve(o, blockType)
	fontClass := style.FontSizeClass(o, blockType, headingLevel)

	buf.WriteString(`<div class="block block-`)
	buf.WriteString(blockType)
	buf.WriteString(` text-`)
	buf.WriteString(fontClass)
	buf.WriteString(`"`)
	if css := computed.InlineCSS(); css != "" {
		buf.WriteString(` style="`)
		buf.WriteString(css)
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
}

func closeBlock(buf *strings.Builder) {
	buf.WriteString("</div>\n")
}

func renderHeading(buf *strings.Builder, d model.HeadingData) {
	level := model.ClampHeadingLevel(d.Level)

	open(buf, "heading", d.StyleMap, level)
	fmt.Fprintf(buf, "<h%d>%s</h%d>", level, html.EscapeString(d.Text), level)
	closeBlock(buf)
}

func renderParagraph(buf *strings.Builder, d model.ParagraphData) {
	if d.Text == "" {
		return
	}

	open(buf, "paragraph", d.StyleMap, 0)
	buf.WriteString("<p>")
	buf.WriteString(html.EscapeString(d.Text))
	buf.WriteString("</p>")
	closeBlock(buf)
}

func renderImage(buf *strings.Builder, d model.ImageData) {
	if d.URL == "" {
		return
	}

	open(buf, "image", d.StyleMap, 0)
	buf.WriteString(`<figure><img src="`)
	buf.WriteString(html.EscapeString(d.URL))
	buf.WriteString(`" alt="`)
	buf.WriteString(html.EscapeString(d.Caption))
	buf.WriteString(`">`)
	if d.Caption != "" {
		buf.WriteString("<figcaption>")
		buf.WriteString(html.EscapeString(d.Caption))
		buf.WriteString("</figcaption>")
	}
	buf.WriteString("</figure>")
	closeBlock(buf)
}

func renderList(buf *strings.Builder, d model.ListData) {
	items := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return
	}

	tag := "ul"
	if d.Style == model.ListOrdered {
		tag = "ol"
	}

	open(buf, "list", d.StyleMap, 0)
	buf.WriteString("<" + tag + ">")
	for _, item := range items {
		buf.WriteString("<li>")
		buf.WriteString(html.EscapeString(item))
		buf.WriteString("</li>")
	}
	buf.WriteString("</" + tag + ">")
	closeBlock(buf)
}

func renderQuote(buf *strings.Builder, d model.QuoteData) {
	if d.Text == "" {
		return
	}

	open(buf, "quote", d.StyleMap, 0)
	buf.WriteString("<blockquote><p>")
	buf.WriteString(html.EscapeString(d.Text))
	buf.WriteString("</p>")
	if d.Author != "" {
		buf.WriteString("<cite>")
		buf.WriteString(html.EscapeString(d.Author))
		buf.WriteString("</cite>")
	}
	buf.WriteString("</blockquote>")
	closeBlock(buf)
}

func renderCode(buf *strings.Builder, d model.CodeData, syntaxTheme string) {
	if d.Code == "" {
		return
	}

	open(buf, "code", d.StyleMap, 0)
	highlighted := HighlightCode(d.Code, d.Language, syntaxTheme)
	buf.WriteString(`<div class="highlight">`)
	buf.WriteString(highlighted)
	buf.WriteString("</div>")
	closeBlock(buf)
}

func renderDivider(buf *strings.Builder, d model.DividerData) {
	open(buf, "divider", d.StyleMap, 0)
	buf.WriteString("<hr>")
	closeBlock(buf)
}

func renderVideo(buf *strings.Builder, d model.VideoData) {
	if d.URL == "" {
		return
	}

	open(buf, "video", d.StyleMap, 0)
	buf.WriteString(`<iframe src="`)
	buf.WriteString(html.EscapeString(NormalizeVideoURL(d.URL)))
	buf.WriteString(`" frameborder="0" allowfullscreen></iframe>`)
	closeBlock(buf)
}

func renderSpacer(buf *strings.Builder, d model.SpacerData) {
	open(buf, "spacer", d.StyleMap, 0)
	closeBlock(buf)
}

// NormalizeVideoURL rewrites the two common YouTube URL forms to their
// embeddable form by literal substring replacement. Any other URL is
// passed through untouched.
func NormalizeVideoURL(url string) string {
	url = strings.Replace(url, "watch?v=", "embed/", 1)
	url = strings.Replace(url, "youtu.be/", "www.youtube.com/embed/", 1)
	return url
}
