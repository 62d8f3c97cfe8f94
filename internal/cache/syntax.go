package cache

import "html/template"

// Generated chroma stylesheets keyed by syntax theme name. Generating
// a stylesheet walks every token type, so it is done once per theme.
var syntaxCache = NewCache[string, template.CSS]()

func GetSyntaxCSS(theme string) (template.CSS, bool) {
	return syntaxCache.Get(theme)
}

func SetSyntaxCSS(theme string, css template.CSS) {
	syntaxCache.Set(theme, css)
}
