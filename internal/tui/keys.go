package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the form's key bindings. It implements help.KeyMap.
type keyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
	Advance   key.Binding
	Back      key.Binding
	Step1     key.Binding
	Step2     key.Binding
	Step3     key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "campo siguiente"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "campo anterior"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "siguiente"),
		),
		Advance: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "siguiente paso"),
		),
		Back: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "anterior"),
		),
		Step1: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1-f3", "ir al paso")),
		Step2: key.NewBinding(key.WithKeys("f2")),
		Step3: key.NewBinding(key.WithKeys("f3")),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "salir"),
		),
	}
}

// forStep enables the bindings that apply on the given step and state.
func (k *keyMap) forStep(step int, onReview, locked, busy bool) {
	editing := !onReview && !busy
	navigable := !locked && !busy
	k.NextField.SetEnabled(editing)
	k.PrevField.SetEnabled(editing)
	k.Advance.SetEnabled(editing && !locked)
	k.Back.SetEnabled(step > 0 && navigable)
	k.Step1.SetEnabled(navigable)
	k.Step2.SetEnabled(navigable)
	k.Step3.SetEnabled(navigable)

	if onReview {
		k.Confirm.SetHelp("enter", "enviar")
		k.Confirm.SetEnabled(!busy)
	} else {
		k.Confirm.SetHelp("enter", "siguiente")
		k.Confirm.SetEnabled(true)
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Confirm, k.Advance, k.Back, k.Step1, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.Confirm, k.Advance, k.Back},
		{k.Step1, k.Quit},
	}
}
