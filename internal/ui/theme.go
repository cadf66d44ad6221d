// Package ui provides the ShapeFit application UI components.
//
// This file defines a custom compact Fyne theme for a dense editor layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ShapeFitTheme wraps the default Fyne theme with compact sizing overrides
// so both grids get as much of the window as possible.
type ShapeFitTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewShapeFitTheme creates a ShapeFitTheme that follows the system variant.
func NewShapeFitTheme() *ShapeFitTheme {
	return &ShapeFitTheme{
		base:   theme.DefaultTheme(),
		system: true,
	}
}

// NewShapeFitThemeWithVariant creates a ShapeFitTheme with a fixed
// light/dark variant.
func NewShapeFitThemeWithVariant(variant fyne.ThemeVariant) *ShapeFitTheme {
	t := NewShapeFitTheme()
	t.SetVariant(variant)
	return t
}

// ThemeForName returns the theme for a config theme name: "light", "dark",
// or anything else to follow the system.
func ThemeForName(name string) *ShapeFitTheme {
	switch name {
	case "light":
		return NewShapeFitThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewShapeFitThemeWithVariant(theme.VariantDark)
	default:
		return NewShapeFitTheme()
	}
}

// SetVariant pins the theme to a light/dark variant.
func (t *ShapeFitTheme) SetVariant(variant fyne.ThemeVariant) {
	t.system = false
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *ShapeFitTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *ShapeFitTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *ShapeFitTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *ShapeFitTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
