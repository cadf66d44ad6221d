package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// newSearchButton creates a labelled search-bar button with a hover tooltip.
func newSearchButton(label string, icon fyne.Resource, tooltip string, importance widget.Importance, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon(label, icon, tapped)
	btn.SetToolTip(tooltip)
	btn.Importance = importance
	return btn
}

// setButtonState swaps a search-bar button's label, icon and tooltip
// together, so the hover text always describes what a tap will do.
func setButtonState(btn *ttwidget.Button, label string, icon fyne.Resource, tooltip string) {
	btn.SetText(label)
	btn.SetIcon(icon)
	btn.SetToolTip(tooltip)
}
