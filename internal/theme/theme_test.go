package theme

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-blog/inkwell/internal/config"
)

func setupMockConfig() {
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{
			Theme: config.ThemeConfig{
				Default: "dark",
				SyntaxHighlighting: config.SyntaxConfig{
					DefaultDark:  "gruvbox",
					DefaultLight: "catppuccin-latte",
				},
			},
		}
	}
}

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		theme string
	}{
		{"Valid Theme - Monokai", "monokai"},
		{"Valid Theme - Github", "github"},
		{"Valid Theme - Gruvbox", "gruvbox"},
		{"Non-existent Theme - Fallback", "nonexistent-theme-12345"},
		{"Empty Theme Name", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.theme)
			if css1 == "" {
				t.Error("Expected CSS content, but got empty")
			}
			if !strings.Contains(string(css1), ".chroma") {
				t.Error("Expected CSS to contain '.chroma' class")
			}

			// Second call should hit the cache and return identical CSS
			css2 := GenerateSyntaxCSS(tc.theme)
			if css1 != css2 {
				t.Error("Expected second call to return identical CSS from cache")
			}
		})
	}
}

func TestGetFormatter(t *testing.T) {
	formatter := GetFormatter()
	if formatter == nil {
		t.Fatal("Expected formatter to be non-nil")
	}
}

func TestGetSyntaxThemes(t *testing.T) {
	themes := GetSyntaxThemes()
	if len(themes) == 0 {
		t.Error("Expected at least one syntax theme")
	}

	for i := 1; i < len(themes); i++ {
		if themes[i-1] > themes[i] {
			t.Errorf("Themes are not sorted: %s > %s", themes[i-1], themes[i])
		}
	}

	commonThemes := []string{"github", "monokai", "gruvbox"}
	for _, want := range commonThemes {
		found := false
		for _, available := range themes {
			if available == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected common theme %s to be available", want)
		}
	}
}

func TestGetThemeFromRequest(t *testing.T) {
	setupMockConfig()

	testCases := []struct {
		name          string
		cookieValue   string
		hasCookie     bool
		expectedTheme string
	}{
		{"No cookie - use default", "", false, config.AppConfig.Theme.Default},
		{"Valid light theme cookie", "light", true, "light"},
		{"Valid dark theme cookie", "dark", true, "dark"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.hasCookie {
				req.AddCookie(&http.Cookie{
					Name:  config.CookieTheme,
					Value: tc.cookieValue,
				})
			}

			theme := GetThemeFromRequest(req)
			if theme != tc.expectedTheme {
				t.Errorf("Expected theme %s, got %s", tc.expectedTheme, theme)
			}
		})
	}
}

func TestGetSyntaxThemeFromRequest(t *testing.T) {
	setupMockConfig()

	testCases := []struct {
		name            string
		themeCookie     string
		syntaxCookie    string
		hasThemeCookie  bool
		hasSyntaxCookie bool
		expectedTheme   string
	}{
		{
			name:          "No cookies - use default for default theme",
			expectedTheme: GetDefaultSyntaxTheme(config.AppConfig.Theme.Default),
		},
		{
			name:           "Only theme cookie - use default syntax for that theme",
			themeCookie:    "light",
			hasThemeCookie: true,
			expectedTheme:  GetDefaultSyntaxTheme("light"),
		},
		{
			name:            "Both cookies - use syntax cookie",
			themeCookie:     "dark",
			syntaxCookie:    "monokai",
			hasThemeCookie:  true,
			hasSyntaxCookie: true,
			expectedTheme:   "monokai",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.hasThemeCookie {
				req.AddCookie(&http.Cookie{
					Name:  config.CookieTheme,
					Value: tc.themeCookie,
				})
			}
			if tc.hasSyntaxCookie {
				req.AddCookie(&http.Cookie{
					Name:  config.CookieSyntaxTheme,
					Value: tc.syntaxCookie,
				})
			}

			theme := GetSyntaxThemeFromRequest(req)
			if theme != tc.expectedTheme {
				t.Errorf("Expected syntax theme %s, got %s", tc.expectedTheme, theme)
			}
		})
	}
}

func TestGetDefaultSyntaxTheme(t *testing.T) {
	setupMockConfig()

	if got := GetDefaultSyntaxTheme(config.LightTheme); got != config.AppConfig.Theme.SyntaxHighlighting.DefaultLight {
		t.Errorf("Light theme default = %q", got)
	}
	if got := GetDefaultSyntaxTheme(config.DarkTheme); got != config.AppConfig.Theme.SyntaxHighlighting.DefaultDark {
		t.Errorf("Dark theme default = %q", got)
	}
	if got := GetDefaultSyntaxTheme("unknown"); got != "" {
		t.Errorf("Unknown theme default = %q, want empty", got)
	}
}

func TestGetThemeIcon(t *testing.T) {
	setupMockConfig()

	if GetThemeIcon(config.LightTheme) != config.DarkThemeIcon {
		t.Error("Light theme should offer the dark icon")
	}
	if GetThemeIcon(config.DarkTheme) != config.LightThemeIcon {
		t.Error("Dark theme should offer the light icon")
	}
}

func BenchmarkGenerateSyntaxCSS(b *testing.B) {
	GenerateSyntaxCSS("monokai")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateSyntaxCSS("monokai")
	}
}
