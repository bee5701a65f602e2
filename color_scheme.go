package console

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ColorScheme defines the color configuration for the console.
type ColorScheme struct {
	Name       string `json:"name" yaml:"name"`
	Prefix     Color  `json:"prefix" yaml:"prefix"`         // Prompt message
	Input      Color  `json:"input" yaml:"input"`           // Text being typed
	Output     Color  `json:"output" yaml:"output"`         // StyleOutput lines
	Echo       Color  `json:"echo" yaml:"echo"`             // StyleInput lines
	Error      Color  `json:"error" yaml:"error"`           // StyleError lines
	Background *Color `json:"background" yaml:"background"` // nil for transparent
}

// Color represents an RGB color with optional formatting.
type Color struct {
	R    uint8 `json:"r" yaml:"r"`
	G    uint8 `json:"g" yaml:"g"`
	B    uint8 `json:"b" yaml:"b"`
	Bold bool  `json:"bold" yaml:"bold"`
}

// ThemeDefault is the default color scheme with green prefix and white text
var ThemeDefault = &ColorScheme{
	Name:   "default",
	Prefix: Color{R: 0, G: 255, B: 0, Bold: true},
	Input:  Color{R: 255, G: 255, B: 255, Bold: true},
	Output: Color{R: 200, G: 200, B: 200},
	Echo:   Color{R: 128, G: 128, B: 128},
	Error:  Color{R: 255, G: 85, B: 85, Bold: true},
}

// ThemeDark is a dark theme with light blue prefix and off-white text
var ThemeDark = &ColorScheme{
	Name:       "dark",
	Prefix:     Color{R: 102, G: 217, B: 239, Bold: true},
	Input:      Color{R: 248, G: 248, B: 242},
	Output:     Color{R: 189, G: 147, B: 249},
	Echo:       Color{R: 98, G: 114, B: 164},
	Error:      Color{R: 255, G: 184, B: 108, Bold: true},
	Background: &Color{R: 40, G: 42, B: 54},
}

// ThemeLight is a light theme with blue prefix and dark gray text
var ThemeLight = &ColorScheme{
	Name:       "light",
	Prefix:     Color{R: 0, G: 119, B: 187, Bold: true},
	Input:      Color{R: 36, G: 41, B: 46},
	Output:     Color{R: 88, G: 96, B: 105},
	Echo:       Color{R: 149, G: 157, B: 165},
	Error:      Color{R: 215, G: 58, B: 73, Bold: true},
	Background: &Color{R: 255, G: 255, B: 255},
}

// ThemeSolarizedDark is the Solarized Dark color scheme
var ThemeSolarizedDark = &ColorScheme{
	Name:       "solarized-dark",
	Prefix:     Color{R: 133, G: 153, B: 0, Bold: true},
	Input:      Color{R: 147, G: 161, B: 161},
	Output:     Color{R: 131, G: 148, B: 150},
	Echo:       Color{R: 88, G: 110, B: 117},
	Error:      Color{R: 220, G: 50, B: 47, Bold: true},
	Background: &Color{R: 0, G: 43, B: 54},
}

// ThemeAccessible is a colorblind-safe theme with high contrast
var ThemeAccessible = &ColorScheme{
	Name:   "accessible",
	Prefix: Color{R: 0, G: 114, B: 178, Bold: true},
	Input:  Color{R: 255, G: 255, B: 255},
	Output: Color{R: 255, G: 255, B: 255},
	Echo:   Color{R: 204, G: 204, B: 204},
	Error:  Color{R: 230, G: 159, B: 0, Bold: true},
}

// ThemeDracula is the Dracula color scheme
var ThemeDracula = &ColorScheme{
	Name:       "dracula",
	Prefix:     Color{R: 255, G: 121, B: 198, Bold: true},
	Input:      Color{R: 248, G: 248, B: 242},
	Output:     Color{R: 139, G: 233, B: 253},
	Echo:       Color{R: 98, G: 114, B: 164},
	Error:      Color{R: 255, G: 85, B: 85, Bold: true},
	Background: &Color{R: 40, G: 42, B: 54},
}

// ThemeMonokai is the Monokai color scheme
var ThemeMonokai = &ColorScheme{
	Name:       "monokai",
	Prefix:     Color{R: 249, G: 38, B: 114, Bold: true},
	Input:      Color{R: 248, G: 248, B: 242},
	Output:     Color{R: 166, G: 226, B: 46},
	Echo:       Color{R: 117, G: 113, B: 94},
	Error:      Color{R: 253, G: 151, B: 31, Bold: true},
	Background: &Color{R: 39, G: 40, B: 34},
}

var (
	themesMu sync.RWMutex
	themes   = map[string]*ColorScheme{}
)

func init() {
	for _, scheme := range []*ColorScheme{
		ThemeDefault, ThemeDark, ThemeLight, ThemeSolarizedDark,
		ThemeAccessible, ThemeDracula, ThemeMonokai,
	} {
		themes[themeKey(scheme.Name)] = scheme
	}
}

func themeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// RegisterTheme makes scheme available to SetTheme under name.
func RegisterTheme(name string, scheme *ColorScheme) {
	themesMu.Lock()
	defer themesMu.Unlock()
	themes[themeKey(name)] = scheme
}

// LookupTheme returns the scheme registered under name, or ThemeDefault.
// Names are case-insensitive and spaces match dashes.
func LookupTheme(name string) *ColorScheme {
	themesMu.RLock()
	defer themesMu.RUnlock()
	if scheme, ok := themes[themeKey(name)]; ok {
		return scheme
	}
	return ThemeDefault
}

// ThemeNames returns the registered theme names in sorted order.
func ThemeNames() []string {
	themesMu.RLock()
	defer themesMu.RUnlock()
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StyleColor returns the color used for lines tagged with style.
func (cs *ColorScheme) StyleColor(style Style) Color {
	switch style {
	case StyleInput:
		return cs.Echo
	case StyleError:
		return cs.Error
	default:
		return cs.Output
	}
}

// ToANSI converts a Color to an ANSI escape sequence.
func (c Color) ToANSI() string {
	var codes []string

	// Bold formatting comes first
	if c.Bold {
		codes = append(codes, "1")
	}

	// RGB color (true color support)
	codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B))

	return fmt.Sprintf("\x1b[%sm", strings.Join(codes, ";"))
}

// BackgroundANSI converts a Color to an ANSI background escape sequence.
func (c Color) BackgroundANSI() string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Reset returns the ANSI reset sequence.
func Reset() string {
	return "\x1b[0m"
}
