package domain

// Page is the top level destination of the storefront
type Page string

// Pages
const (
	PageHome  Page = "home"
	PageLogin Page = "login"
	PageAdmin Page = "admin"
)

// Screen is what the view layer renders for the current state
type Screen string

// Screens
const (
	ScreenGrid         Screen = "grid"
	ScreenDetail       Screen = "detail"
	ScreenLogin        Screen = "login"
	ScreenAdmin        Screen = "admin"
	ScreenAccessDenied Screen = "access-denied"
)

// Theme is the persisted color scheme preference
type Theme string

// Themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme falls back to light for anything that is not "dark"
func ParseTheme(raw string) Theme {
	if raw == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
