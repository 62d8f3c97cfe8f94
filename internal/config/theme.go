package config

const (
	LightTheme = "light"
	DarkTheme  = "dark"

	DefaultTheme = DarkTheme

	LightThemeIcon = `<i class="fas fa-sun"></i>`
	DarkThemeIcon  = `<i class="fas fa-moon"></i>`

	// Syntax themes paired with each UI theme when the user has not
	// picked one explicitly.
	DefaultDarkSyntaxTheme  = "gruvbox"
	DefaultLightSyntaxTheme = "catppuccin-latte"
)
