package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Title     lipgloss.Style
	StepCount lipgloss.Style

	// Progress indicator
	SegmentDone    lipgloss.Style
	SegmentPending lipgloss.Style

	// Fields
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	FieldError   lipgloss.Style

	// Review
	Section     lipgloss.Style
	Value       lipgloss.Style
	Placeholder lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonPrimary  lipgloss.Style
	ButtonSubmit   lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Banners and toasts
	LockBanner   lipgloss.Style
	Receipt      lipgloss.Style
	Toast        lipgloss.Style
	ToastTitle   lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	Spinner lipgloss.Style
	Footer  lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")),

	StepCount: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	SegmentDone: lipgloss.NewStyle().
		Foreground(lipgloss.Color("33")), // Blue for reached steps

	SegmentPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")),

	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	LabelFocused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	FieldError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Section: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Value: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")),

	Placeholder: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("243")),

	Button: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("238")),

	ButtonPrimary: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("25")),

	ButtonSubmit: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("28")),

	ButtonDisabled: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("244")).
		Background(lipgloss.Color("236")),

	LockBanner: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("124")).
		Padding(0, 1),

	Receipt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Toast: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		PaddingLeft(1),

	ToastTitle: lipgloss.NewStyle().
		Bold(true),

	ToastInfo:    lipgloss.NewStyle().BorderForeground(lipgloss.Color("39")),
	ToastSuccess: lipgloss.NewStyle().BorderForeground(lipgloss.Color("82")),
	ToastWarning: lipgloss.NewStyle().BorderForeground(lipgloss.Color("214")),
	ToastError:   lipgloss.NewStyle().BorderForeground(lipgloss.Color("196")),

	Spinner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),
}
