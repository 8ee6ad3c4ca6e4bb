package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
)

const fieldPassphrase = "passphrase"

// ConnectScreen prompts for the keystore passphrase.
type ConnectScreen struct {
	keyMap       ui.KeyMap
	keystorePath string
	width        int
	height       int

	form    *component.Form
	helpBar *component.HelpBar
}

// NewConnectScreen creates the passphrase prompt for the keystore at path.
func NewConnectScreen(keystorePath string) *ConnectScreen {
	keyMap := ui.DefaultKeyMap()
	return &ConnectScreen{
		keyMap:       keyMap,
		keystorePath: keystorePath,
		form: component.NewForm().
			AddField(fieldPassphrase, component.FieldTypePassword, "Passphrase", true, ""),
		helpBar: component.NewHelpBar().
			SetKeyBindings(keyMap.ContextualHelp(ui.RouteConnect, false)),
	}
}

// Init initializes the connect screen
func (s *ConnectScreen) Init() tea.Cmd {
	s.form.Reset()
	return s.form.Init()
}

// Update handles screen updates
func (s *ConnectScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, s.keyMap.Enter) {
		passphrase := []byte(s.form.GetValue(fieldPassphrase))
		s.form.Reset()
		return s, tea.Sequence(
			func() tea.Msg { return ui.CloseOverlayMsg{} },
			func() tea.Msg { return ui.ConnectRequestMsg{Passphrase: passphrase} },
		)
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

// View renders the connect screen
func (s *ConnectScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("🔑 Connect wallet"))
	b.WriteString("\n")
	b.WriteString(style.MutedStyle.Render("Keystore: " + s.keystorePath))
	b.WriteString("\n\n")
	b.WriteString(s.form.View())
	b.WriteString(s.helpBar.SetWidth(s.width).View())
	return style.ActivePanelStyle.Render(b.String())
}

// SetSize sets the screen dimensions
func (s *ConnectScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetSize(width-8, height)
}
