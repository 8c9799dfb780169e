package ui

import (
	"strings"
	"time"

	"alarmdemo/internal/alarm"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field identifies a focusable element of the alarm form.
type Field int

const (
	FieldDate Field = iota
	FieldTime
	FieldMessage
	FieldSet
	FieldCancel

	fieldCount
)

// Button is a clickable trigger of the form.
type Button int

const (
	ButtonNone Button = iota
	ButtonSet
	ButtonCancel
)

// Input formats shown to the user and used to prefill the fields.
const (
	dateFormat = "02.01.2006"
	timeFormat = "15:04"
)

// Form layout inside its border, used for mouse hit testing:
// title, blank, then label+input+blank for each field, then buttons.
const (
	formBorder     = 1
	formPaddingX   = 1
	formButtonsRow = formBorder + 2 + 3*3
	buttonGap      = "  "
)

// AlarmForm holds the date, time and message inputs and the two buttons.
type AlarmForm struct {
	inputs [3]textinput.Model
	focus  Field
	width  int
	styles *Styles
}

// NewAlarmForm creates a form prefilled with the date and time one minute
// after now.
func NewAlarmForm(styles *Styles, now time.Time) *AlarmForm {
	next := now.Add(time.Minute)

	date := textinput.New()
	date.Placeholder = "TT.MM.JJJJ"
	date.CharLimit = len(dateFormat)
	date.Width = 12
	date.SetValue(next.Format(dateFormat))

	clock := textinput.New()
	clock.Placeholder = "hh:mm"
	clock.CharLimit = len(timeFormat)
	clock.Width = 8
	clock.SetValue(next.Format(timeFormat))

	message := textinput.New()
	message.Placeholder = "Message"
	message.CharLimit = 200
	message.Width = 30

	f := &AlarmForm{
		inputs: [3]textinput.Model{date, clock, message},
		styles: styles,
	}
	for i := range f.inputs {
		f.inputs[i].PromptStyle = styles.InputPromptStyle
		f.inputs[i].TextStyle = styles.InputTextStyle
	}
	f.SetFocus(FieldDate)
	return f
}

// SetSize sets the form width.
func (f *AlarmForm) SetSize(width int) {
	f.width = width
	f.inputs[FieldMessage].Width = max(10, min(60, width-8))
}

// Focused returns the focused element.
func (f *AlarmForm) Focused() Field {
	return f.focus
}

// SetFocus moves focus to field, blurring every other input.
func (f *AlarmForm) SetFocus(field Field) tea.Cmd {
	if field < 0 || field >= fieldCount {
		return nil
	}
	f.focus = field
	for i := range f.inputs {
		if Field(i) == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	if field <= FieldMessage {
		return textinput.Blink
	}
	return nil
}

// Next moves focus forward, wrapping around.
func (f *AlarmForm) Next() tea.Cmd {
	return f.SetFocus((f.focus + 1) % fieldCount)
}

// Prev moves focus backward, wrapping around.
func (f *AlarmForm) Prev() tea.Cmd {
	return f.SetFocus((f.focus + fieldCount - 1) % fieldCount)
}

// Values returns the raw date, time and message text.
func (f *AlarmForm) Values() (dateText, timeText, message string) {
	return f.inputs[FieldDate].Value(), f.inputs[FieldTime].Value(), f.inputs[FieldMessage].Value()
}

// SetValues replaces the field contents.
func (f *AlarmForm) SetValues(dateText, timeText, message string) {
	f.inputs[FieldDate].SetValue(dateText)
	f.inputs[FieldTime].SetValue(timeText)
	f.inputs[FieldMessage].SetValue(message)
}

// Update forwards msg to the focused input.
func (f *AlarmForm) Update(msg tea.Msg) tea.Cmd {
	if f.focus > FieldMessage {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// ButtonAt returns the button under (x, y), relative to the form's top-left.
func (f *AlarmForm) ButtonAt(x, y int) Button {
	if y != formButtonsRow {
		return ButtonNone
	}
	x -= formBorder + formPaddingX
	setWidth := lipgloss.Width(f.renderButton("Set", false))
	cancelStart := setWidth + len(buttonGap)
	cancelWidth := lipgloss.Width(f.renderButton("Cancel", false))

	switch {
	case x >= 0 && x < setWidth:
		return ButtonSet
	case x >= cancelStart && x < cancelStart+cancelWidth:
		return ButtonCancel
	}
	return ButtonNone
}

// View renders the form. When armed, the pending alarm is summarized
// under the buttons.
func (f *AlarmForm) View(pending *alarm.Request) string {
	var b strings.Builder

	b.WriteString(f.styles.PaneTitleStyle.Render("⏰ Alarm"))
	b.WriteString("\n\n")

	labels := [3]string{"Date", "Time", "Message"}
	for i, label := range labels {
		style := f.styles.LabelStyle
		if Field(i) == f.focus {
			style = f.styles.LabelFocusedStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(f.renderButton("Set", f.focus == FieldSet))
	b.WriteString(buttonGap)
	b.WriteString(f.renderButton("Cancel", f.focus == FieldCancel))

	if pending != nil {
		b.WriteString("\n\n")
		summary := "Next: " + pending.FireAt.Format(dateFormat+" "+timeFormat)
		if pending.Payload.Body != "" {
			summary += " · " + truncateText(pending.Payload.Body, 40)
		}
		b.WriteString(f.styles.DateStyle.Render(summary))
	}

	style := f.styles.PaneFocusedStyle
	if f.width > 0 {
		style = style.Width(max(20, f.width-2))
	}
	return style.Render(b.String())
}

func (f *AlarmForm) renderButton(label string, focused bool) string {
	if focused {
		return f.styles.ButtonFocusedStyle.Render(label)
	}
	return f.styles.ButtonStyle.Render(label)
}

// truncateText shortens s to at most n runes, marking the cut with an ellipsis.
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
