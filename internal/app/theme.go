package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MeasureTheme provides a custom theme for the measurement viewport.
type MeasureTheme struct{}

var _ fyne.Theme = (*MeasureTheme)(nil)

func (t *MeasureTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x2E, G: 0xAF, B: 0x4F, A: 0xFF} // Matches the calibration line
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0x80} // Matches the minimap frame
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *MeasureTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *MeasureTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *MeasureTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
