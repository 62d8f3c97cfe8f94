package cache

var renderedDocCache = NewCache[string, []byte]()

// Rendered documents are keyed by content hash and syntax theme: the
// same document highlighted under a different theme is a different
// entry.
func renderedKey(contentHash, syntaxTheme string) string {
	return contentHash + ":" + syntaxTheme
}

func GetRenderedDocument(contentHash, syntaxTheme string) ([]byte, bool) {
	return renderedDocCache.Get(renderedKey(contentHash, syntaxTheme))
}

func SetRenderedDocument(contentHash, syntaxTheme string, html []byte) {
	renderedDocCache.Set(renderedKey(contentHash, syntaxTheme), html)
}

func ClearRenderedDocumentCache() {
	renderedDocCache.Clear()
}
