package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	FieldTypePassword
	FieldTypeSelect
)

// Option is one choice of a select field.
type Option struct {
	Label string
	Value string
}

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Options     []Option // For select fields
	Placeholder string
	Required    bool

	// Internal state
	textInput   textinput.Model
	selectedIdx int // -1 when nothing is selected
}

func (f *FormField) isText() bool {
	return f.Type != FieldTypeSelect
}

func (f *FormField) value() string {
	if f.isText() {
		return f.textInput.Value()
	}
	if f.selectedIdx < 0 || f.selectedIdx >= len(f.Options) {
		return ""
	}
	return f.Options[f.selectedIdx].Value
}

// Form is a vertical list of inputs. up/down move focus, left/right cycle
// select options. Submission is left to the owning screen.
type Form struct {
	fields     []FormField
	focusIndex int
	width      int
	height     int

	// Styling
	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		fields:     make([]FormField, 0),
		focusIndex: 0,

		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true).
			MarginRight(1),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Background(palette.BackgroundAlt).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Background(palette.BackgroundAlt).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		mutedStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
	}
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label string, required bool, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = 40
	ti.Placeholder = placeholder

	switch fieldType {
	case FieldTypePassword:
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	case FieldTypeNumber:
		if placeholder == "" {
			ti.Placeholder = "0"
		}
	}

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: placeholder,
		Required:    required,
		textInput:   ti,
		selectedIdx: -1,
	})

	// Focus first field
	if len(f.fields) == 1 && f.fields[0].isText() {
		f.fields[0].textInput.Focus()
	}

	return f
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// SetFieldValue sets the value of a field. For a select field the option
// with that value is selected; an unknown value clears the selection.
func (f *Form) SetFieldValue(name, value string) *Form {
	field := f.field(name)
	if field == nil {
		return f
	}
	if field.isText() {
		if field.textInput.Value() != value {
			field.textInput.SetValue(value)
		}
		return f
	}
	field.selectedIdx = -1
	for i, opt := range field.Options {
		if opt.Value == value {
			field.selectedIdx = i
			break
		}
	}
	return f
}

// SetFieldOptions replaces the options of a select field, keeping the
// current selection when it is still offered.
func (f *Form) SetFieldOptions(name string, options []Option) *Form {
	field := f.field(name)
	if field == nil || field.isText() {
		return f
	}
	current := field.value()
	field.Options = options
	return f.SetFieldValue(name, current)
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return field.value()
	}
	return ""
}

// GetValues returns all form field values as a map
func (f *Form) GetValues() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i := range f.fields {
		values[f.fields[i].Name] = f.fields[i].value()
	}
	return values
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if f.focusIndex < len(f.fields) {
		return f.fields[f.focusIndex].Name
	}
	return ""
}

// Init initializes the form (for compatibility with tea.Model interface)
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "down":
			f.nextField()
			return f, nil
		case "up":
			f.prevField()
			return f, nil
		case "right":
			if !f.fields[f.focusIndex].isText() {
				f.nextSelectOption()
				return f, nil
			}
		case "left":
			if !f.fields[f.focusIndex].isText() {
				f.prevSelectOption()
				return f, nil
			}
		}
	}

	// Update the focused field
	field := &f.fields[f.focusIndex]
	if !field.isText() {
		return f, nil
	}
	var cmd tea.Cmd
	field.textInput, cmd = field.textInput.Update(msg)
	return f, cmd
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var content strings.Builder

	for i := range f.fields {
		field := &f.fields[i]

		label := field.Label
		if field.Required {
			label += " *"
		}
		content.WriteString(f.labelStyle.Render(label))
		content.WriteString("\n")

		fieldStyle := f.inputStyle
		if i == f.focusIndex {
			fieldStyle = f.focusedStyle
		}

		var fieldView string
		if field.isText() {
			fieldView = fieldStyle.Render(field.textInput.View())
		} else {
			fieldView = fieldStyle.Render(f.selectText(field, i == f.focusIndex))
		}

		content.WriteString(fieldView)
		content.WriteString("\n")
	}

	return content.String()
}

func (f *Form) selectText(field *FormField, focused bool) string {
	var text string
	switch {
	case len(field.Options) == 0:
		text = f.mutedStyle.Render("no options")
	case field.selectedIdx < 0:
		text = f.mutedStyle.Render(field.Placeholder)
	default:
		text = field.Options[field.selectedIdx].Label
	}
	if focused && len(field.Options) > 0 {
		text = "◀ " + text + " ▶"
	}
	return text
}

// nextField moves focus to the next field
func (f *Form) nextField() {
	f.focus((f.focusIndex + 1) % len(f.fields))
}

// prevField moves focus to the previous field
func (f *Form) prevField() {
	idx := f.focusIndex - 1
	if idx < 0 {
		idx = len(f.fields) - 1
	}
	f.focus(idx)
}

func (f *Form) focus(idx int) {
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = idx
	if f.fields[idx].isText() {
		f.fields[idx].textInput.Focus()
	}
}

// nextSelectOption moves to the next option in a select field
func (f *Form) nextSelectOption() {
	field := &f.fields[f.focusIndex]
	if len(field.Options) == 0 {
		return
	}
	field.selectedIdx = (field.selectedIdx + 1) % len(field.Options)
}

// prevSelectOption moves to the previous option in a select field
func (f *Form) prevSelectOption() {
	field := &f.fields[f.focusIndex]
	if len(field.Options) == 0 {
		return
	}
	field.selectedIdx--
	if field.selectedIdx < 0 {
		field.selectedIdx = len(field.Options) - 1
	}
}

// Reset clears all form fields
func (f *Form) Reset() *Form {
	for i := range f.fields {
		f.fields[i].textInput.SetValue("")
		f.fields[i].selectedIdx = -1
	}
	if len(f.fields) > 0 {
		f.focus(0)
	}
	return f
}

// SetSize sets the form dimensions
func (f *Form) SetSize(width, height int) *Form {
	f.width = width
	f.height = height

	inputWidth := width - 8 // Account for padding and borders
	if inputWidth > 60 {
		inputWidth = 60
	}
	if inputWidth > 10 {
		for i := range f.fields {
			f.fields[i].textInput.Width = inputWidth
		}
	}

	return f
}
