package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type panicMsg struct{}

// mockModel is a test UI model
type mockModel struct {
	panicOnView bool
	updates     int
}

func (m *mockModel) Init() tea.Cmd { return nil }

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(panicMsg); ok {
		panic("update panic test")
	}
	m.updates++
	return m, func() tea.Msg { return nil }
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func TestSafeUIWrapper(t *testing.T) {
	model := &mockModel{}
	wrapper := NewSafeUIWrapper(model, zap.NewNop())

	assert.Nil(t, wrapper.Init())

	next, cmd := wrapper.Update(nil)
	assert.Same(t, wrapper, next)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, model.updates)
	assert.Equal(t, "Test UI", wrapper.View())
	assert.Zero(t, wrapper.Panics())
}

func TestSafeUIWrapperRecoversUpdatePanic(t *testing.T) {
	model := &mockModel{}
	wrapper := NewSafeUIWrapper(model, zap.NewNop())

	next, cmd := wrapper.Update(panicMsg{})
	assert.Same(t, wrapper, next)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, wrapper.Panics())

	// the model keeps working after the panic
	wrapper.Update(nil)
	assert.Equal(t, 1, model.updates)
	assert.Same(t, model, wrapper.Model())
}

func TestSafeUIWrapperRecoversViewPanic(t *testing.T) {
	wrapper := NewSafeUIWrapper(&mockModel{panicOnView: true}, zap.NewNop())

	assert.Equal(t, "UI Error: View crashed. Press Ctrl+C to exit.", wrapper.View())
	assert.Equal(t, 1, wrapper.Panics())
}
