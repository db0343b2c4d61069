package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// Color palette. Every styled surface (workflow, selector, reports,
// fang help) pulls from here so the binary has one look.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // purple
	ColorSecondary = lipgloss.Color("#06B6D4") // cyan
	ColorSuccess   = lipgloss.Color("#10B981") // green
	ColorWarning   = lipgloss.Color("#F59E0B") // amber
	ColorError     = lipgloss.Color("#EF4444") // red
	ColorMuted     = lipgloss.Color("#6B7280") // gray
	ColorHighlight = lipgloss.Color("#f048ff") // pink

	ColorText    = lipgloss.Color("#F9FAFB") // near white
	ColorTextDim = lipgloss.Color("#9CA3AF") // light gray
)

// styleWrapper wraps a lipgloss style
type styleWrapper struct {
	style lipgloss.Style
}

// Render renders the string with the style
func (s styleWrapper) Render(str string) string {
	return s.style.Render(str)
}

// Bold returns a new style with bold enabled
func (s styleWrapper) Bold(v bool) styleWrapper {
	return styleWrapper{s.style.Bold(v)}
}

// Text styles
var (
	Bold      = styleWrapper{lipgloss.NewStyle().Bold(true)}
	Dim       = styleWrapper{lipgloss.NewStyle().Foreground(ColorTextDim)}
	Muted     = styleWrapper{lipgloss.NewStyle().Foreground(ColorMuted)}
	Success   = styleWrapper{lipgloss.NewStyle().Foreground(ColorSuccess)}
	Warning   = styleWrapper{lipgloss.NewStyle().Foreground(ColorWarning)}
	Error     = styleWrapper{lipgloss.NewStyle().Foreground(ColorError)}
	Primary   = styleWrapper{lipgloss.NewStyle().Foreground(ColorPrimary)}
	Secondary = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary)}
	Highlight = styleWrapper{lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)}
)

// Status marks. Functions rather than rendered constants so styling
// picks up the active color profile at call time.

func GetCheckMark() string { return Success.Render("✓") }
func GetCrossMark() string { return Error.Render("✗") }
func GetWarnMark() string  { return Warning.Render("⚠") }
func GetInfoMark() string  { return Secondary.Render("ℹ") }
func GetBullet() string    { return Muted.Render("•") }

// boxWrapper wraps a bordered lipgloss style
type boxWrapper struct {
	style lipgloss.Style
}

func (b boxWrapper) Render(str string) string {
	return b.style.Render(str)
}

// Bordered panels
var (
	Box = boxWrapper{lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)}

	SuccessBox = boxWrapper{lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1)}

	ErrorBox = boxWrapper{lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)}
)

// Headings
var (
	Title = styleWrapper{lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)}

	SectionHeader = styleWrapper{lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)}
)

// Workflow task states
var (
	StepPending  = styleWrapper{lipgloss.NewStyle().Foreground(ColorMuted)}
	StepRunning  = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary)}
	StepComplete = styleWrapper{lipgloss.NewStyle().Foreground(ColorSuccess)}
	StepFailed   = styleWrapper{lipgloss.NewStyle().Foreground(ColorError)}
)

// FormatKeyValue formats a key-value pair with a dimmed key
func FormatKeyValue(key, value string) string {
	return Dim.Render(key+": ") + value
}

// FangColorScheme maps the palette onto fang's help and error output
func FangColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           ColorText,
		Title:          ColorPrimary,
		Description:    ColorTextDim,
		Codeblock:      c(lipgloss.Color("#1F2937"), lipgloss.Color("#2F2E36")),
		Program:        ColorSecondary,
		DimmedArgument: ColorMuted,
		Comment:        ColorMuted,
		Flag:           ColorSuccess,
		FlagDefault:    ColorTextDim,
		Command:        ColorHighlight,
		QuotedString:   ColorSecondary,
		Argument:       ColorText,
		Help:           ColorTextDim,
		Dash:           ColorMuted,
		ErrorHeader:    [2]color.Color{ColorText, ColorError},
		ErrorDetails:   ColorError,
	}
}

// BannerASCII is the help-screen banner
const BannerASCII = `
                                                                   /$$
                                                                  | $$
  /$$$$$$  /$$   /$$ /$$$$$$$  /$$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$$
 /$$__  $$| $$  | $$| $$__  $$/$$_____/  |____  $$ /$$__  $$ /$$__  $$
| $$  \__/| $$  | $$| $$  \ $$| $$        /$$$$$$$| $$  \__/| $$  | $$
| $$      | $$  | $$| $$  | $$| $$       /$$__  $$| $$      | $$  | $$
| $$      |  $$$$$$/| $$  | $$|  $$$$$$$|  $$$$$$$| $$      |  $$$$$$$
|__/       \______/ |__/  |__/ \_______/ \_______/|__/       \_______/
`

// RenderGradientBanner fades the banner from the primary to the
// secondary color, one blend step per line.
func RenderGradientBanner(banner string) string {
	lines := strings.Split(strings.Trim(banner, "\n"), "\n")
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		t := 0.0
		if len(lines) > 1 {
			t = float64(i) / float64(len(lines)-1)
		}
		c := blend(ColorPrimary, ColorSecondary, t)
		out[i] = lipgloss.NewStyle().Foreground(c).Render(line)
	}
	return "\n" + strings.Join(out, "\n") + "\n"
}

// blend interpolates between two colors in RGB space; t runs 0..1.
func blend(a, b color.Color, t float64) color.Color {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	lerp := func(x, y uint32) uint8 {
		return uint8((float64(x) + (float64(y)-float64(x))*t) / 257)
	}
	return color.RGBA{R: lerp(ar, br), G: lerp(ag, bg), B: lerp(ab, bb), A: 0xFF}
}
