package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/apperr"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/portfolio"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/swap"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/component"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/router"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/screen"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/state"
	"github.com/rovshanmuradov/solana-wallet-tracker/internal/ui/style"
	"go.uber.org/zap"
)

// fetchTimeout bounds a single balance, history or stake fetch.
const fetchTimeout = 30 * time.Second

// chromeHeight is the number of lines taken by header, tabs, status and help.
const chromeHeight = 9

// Below this width the help bar drops descriptions.
const compactHelpWidth = 90

// AppOptions configures the root model.
type AppOptions struct {
	Title        string
	Network      string
	KeystorePath string
}

// AppModel represents the main TUI application model. It owns the state and
// runs every service call; screens only render state and emit requests.
type AppModel struct {
	services ui.ServiceProvider
	state    *state.AppState
	router   *router.Router
	keyMap   ui.KeyMap
	logs     screen.LogSource
	opts     AppOptions
	logger   *zap.Logger

	header  *component.StatusHeader
	tabs    *component.TabBar
	helpBar *component.HelpBar

	width  int
	height int
}

// NewAppModel creates a new application model
func NewAppModel(services ui.ServiceProvider, logs screen.LogSource, opts AppOptions) *AppModel {
	st := state.New()
	tabs := map[ui.Route]router.Screen{
		ui.RouteHome:     screen.NewHomeScreen(st),
		ui.RouteSwap:     screen.NewSwapScreen(st),
		ui.RouteSearch:   screen.NewSearchScreen(st),
		ui.RouteDelegate: screen.NewDelegateScreen(st),
	}

	return &AppModel{
		services: services,
		state:    st,
		router:   router.New(tabs, ui.RouteHome),
		keyMap:   ui.DefaultKeyMap(),
		logs:     logs,
		opts:     opts,
		logger:   services.GetLogger().Named("app"),
		header:   component.NewStatusHeader(opts.Title, opts.Network),
		tabs:     component.NewTabBar(),
		helpBar:  component.NewHelpBar(),
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return m.router.Init()
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.tabs.SetWidth(msg.Width)
		m.helpBar.SetWidth(msg.Width).SetCompact(msg.Width < compactHelpWidth)
		m.router.SetSize(msg.Width, max(msg.Height-chromeHeight, 0))
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case ui.RouterMsg:
		return m, m.switchTab(msg.To)

	case ui.ConnectRequestMsg:
		return m, m.connect(msg.Passphrase)

	case ui.WalletConnectedMsg:
		return m, m.onConnected(msg)

	case ui.WalletErrorMsg:
		m.state.Connecting = false
		m.state.SetError(msg.Err)
		return m, nil

	case ui.BalancesMsg:
		m.onBalances(msg)
		return m, nil

	case ui.HistoryMsg:
		m.onHistory(msg)
		return m, nil

	case ui.SearchRequestMsg:
		return m, m.search(msg.Input)

	case ui.SearchResultMsg:
		m.onSearchResult(msg)
		return m, nil

	case ui.SwapRequestMsg:
		return m, m.swap(msg.Request)

	case ui.SwapResultMsg:
		return m, m.onSwapResult(msg)

	case ui.DelegationsMsg:
		m.onDelegations(msg)
		return m, nil

	case ui.ClipboardMsg:
		if msg.Err != nil {
			m.logger.Warn("Clipboard write failed", zap.Error(msg.Err))
			m.state.SetError(apperr.Wrap(apperr.KindUnknown, "Could not copy the address.", msg.Err))
		} else {
			m.state.SetStatus("Address copied to clipboard.")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keyMap.Quit) {
		return tea.Quit
	}

	// overlays get every other key; esc closes them in the router
	if m.router.HasOverlay() {
		var cmd tea.Cmd
		m.router, cmd = m.router.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Home):
		return m.switchTab(ui.RouteHome)
	case key.Matches(msg, m.keyMap.Swap):
		return m.switchTab(ui.RouteSwap)
	case key.Matches(msg, m.keyMap.Search):
		return m.switchTab(ui.RouteSearch)
	case key.Matches(msg, m.keyMap.Delegate):
		return m.switchTab(ui.RouteDelegate)
	case key.Matches(msg, m.keyMap.Tab):
		return m.switchTab(ui.NextTab(m.state.ActiveTab))
	case key.Matches(msg, m.keyMap.ShiftTab):
		return m.switchTab(ui.PrevTab(m.state.ActiveTab))

	case key.Matches(msg, m.keyMap.Connect):
		if m.state.Connected || m.state.Connecting {
			return nil
		}
		return m.router.Push(screen.NewConnectScreen(m.opts.KeystorePath))
	case key.Matches(msg, m.keyMap.Disconnect):
		return m.disconnect()
	case key.Matches(msg, m.keyMap.Logs):
		return m.router.Push(screen.NewLogsScreen(m.logs))
	case key.Matches(msg, m.keyMap.Refresh):
		return m.refresh()
	}

	if m.state.ActiveTab == ui.RouteHome && m.state.Connected {
		switch {
		case key.Matches(msg, m.keyMap.Copy):
			return m.copyAddress()
		case key.Matches(msg, m.keyMap.ShowQR):
			m.state.ShowQR = !m.state.ShowQR
			return nil
		}
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	return cmd
}

// switchTab changes the active tab. Forms are cleared on every change.
func (m *AppModel) switchTab(route ui.Route) tea.Cmd {
	if !m.state.SwitchTab(route) {
		return nil
	}
	m.tabs.SetActive(route)
	cmds := []tea.Cmd{
		m.router.Broadcast(ui.ResetMsg{}),
		m.router.SwitchTab(route),
	}
	if route == ui.RouteDelegate && m.state.Connected && !m.state.DelegationsLoaded && !m.state.LoadingDelegations {
		cmds = append(cmds, m.fetchDelegations())
	}
	return tea.Batch(cmds...)
}

func (m *AppModel) connect(passphrase []byte) tea.Cmd {
	if m.state.Connected || m.state.Connecting {
		clear(passphrase)
		return nil
	}
	m.state.Connecting = true
	m.state.SetStatus("Unlocking keystore…")

	session := m.services.GetSession()
	ctx := m.services.GetContext()
	return func() tea.Msg {
		defer clear(passphrase)
		addr, err := session.Connect(ctx, passphrase)
		if err != nil {
			return ui.WalletErrorMsg{Err: err}
		}
		return ui.WalletConnectedMsg{Address: addr}
	}
}

func (m *AppModel) onConnected(msg ui.WalletConnectedMsg) tea.Cmd {
	if !m.state.Connecting {
		m.logger.Debug("Dropping connect completion", zap.String("address", msg.Address.String()))
		return nil
	}
	m.state.Connect(msg.Address)
	m.state.SetStatus("Wallet connected.")

	cmds := []tea.Cmd{m.fetchWallet(msg.Address)}
	if m.state.ActiveTab == ui.RouteDelegate {
		cmds = append(cmds, m.fetchDelegations())
	}
	return tea.Batch(cmds...)
}

// disconnect drops the session and every piece of wallet-derived state.
func (m *AppModel) disconnect() tea.Cmd {
	if !m.state.Connected {
		return nil
	}
	m.services.GetSession().Disconnect()
	m.state.Reset()
	m.state.SetStatus("Wallet disconnected.")
	m.tabs.SetActive(ui.RouteHome)
	return tea.Batch(
		m.router.Broadcast(ui.ResetMsg{}),
		m.router.SwitchTab(ui.RouteHome),
	)
}

func (m *AppModel) refresh() tea.Cmd {
	switch m.state.ActiveTab {
	case ui.RouteHome:
		if m.state.Connected {
			return m.fetchWallet(m.state.Wallet)
		}
	case ui.RouteSearch:
		if !m.state.SearchAddress.IsZero() {
			return m.search(m.state.SearchAddress.String())
		}
	case ui.RouteDelegate:
		if m.state.Connected {
			return m.fetchDelegations()
		}
	}
	return nil
}

func (m *AppModel) fetchWallet(addr solana.PublicKey) tea.Cmd {
	m.state.LoadingBalances = true
	m.state.LoadingHistory = true

	svc := m.services.GetPortfolio()
	ctx := m.services.GetContext()
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
			balances, err := svc.Balances(ctx, addr)
			return ui.BalancesMsg{Address: addr, Balances: balances, Err: err}
		},
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
			records, err := svc.History(ctx, addr)
			return ui.HistoryMsg{Address: addr, Records: records, Err: err}
		},
	)
}

func (m *AppModel) onBalances(msg ui.BalancesMsg) {
	if !m.state.IsCurrentWallet(msg.Address) {
		m.logger.Debug("Dropping stale balances", zap.String("address", msg.Address.String()))
		return
	}
	m.state.LoadingBalances = false
	if msg.Err != nil {
		m.state.Tokens = nil
		m.state.SetError(msg.Err)
		return
	}
	m.state.Tokens = msg.Balances
}

func (m *AppModel) onHistory(msg ui.HistoryMsg) {
	if !m.state.IsCurrentWallet(msg.Address) {
		m.logger.Debug("Dropping stale history", zap.String("address", msg.Address.String()))
		return
	}
	m.state.LoadingHistory = false
	if msg.Err != nil {
		m.state.Transactions = nil
		m.state.SetError(msg.Err)
		return
	}
	m.state.Transactions = msg.Records
}

// search starts a history fetch for input. A newer search supersedes any
// fetch still in flight.
func (m *AppModel) search(input string) tea.Cmd {
	addr, ok, err := portfolio.ParseAddress(input)
	if err != nil {
		m.state.SetError(err)
		return nil
	}
	if !ok {
		return nil
	}

	m.state.Error = ""
	m.state.SearchAddress = addr
	m.state.SearchResults = nil
	m.state.Searching = true
	m.state.Searched = false

	svc := m.services.GetPortfolio()
	ctx := m.services.GetContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		records, err := svc.History(ctx, addr)
		return ui.SearchResultMsg{Address: addr, Records: records, Err: err}
	}
}

func (m *AppModel) onSearchResult(msg ui.SearchResultMsg) {
	if !m.state.IsCurrentSearch(msg.Address) {
		m.logger.Debug("Dropping stale search result", zap.String("address", msg.Address.String()))
		return
	}
	m.state.Searching = false
	m.state.Searched = true
	if msg.Err != nil {
		m.state.SearchResults = nil
		m.state.SetError(msg.Err)
		return
	}
	m.state.SearchResults = msg.Records
}

// swap validates synchronously so form errors never reach the network.
func (m *AppModel) swap(req swap.Request) tea.Cmd {
	if m.state.Swap.Pending {
		return nil
	}
	svc := m.services.GetSwap()
	if err := svc.Validate(req); err != nil {
		m.state.SetError(err)
		return nil
	}

	m.state.Swap.Pending = true
	m.state.Swap.Last = nil
	m.state.SetStatus("Swapping…")

	addr := m.state.Wallet
	ctx := m.services.GetContext()
	return func() tea.Msg {
		result, err := svc.Execute(ctx, req)
		return ui.SwapResultMsg{Address: addr, Result: result, Err: err}
	}
}

func (m *AppModel) onSwapResult(msg ui.SwapResultMsg) tea.Cmd {
	if !m.state.IsCurrentWallet(msg.Address) {
		m.logger.Debug("Dropping swap result for a closed session", zap.String("address", msg.Address.String()))
		return nil
	}
	m.state.Swap.Pending = false
	if msg.Err != nil {
		m.state.SetError(msg.Err)
		return nil
	}
	if m.state.ActiveTab == ui.RouteSwap {
		m.state.Swap.Last = msg.Result
	}
	m.state.SetStatus(msg.Result.Message())
	return m.fetchWallet(msg.Address)
}

func (m *AppModel) fetchDelegations() tea.Cmd {
	m.state.LoadingDelegations = true

	addr := m.state.Wallet
	svc := m.services.GetStake()
	ctx := m.services.GetContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		delegations, err := svc.Delegations(ctx, addr)
		return ui.DelegationsMsg{Address: addr, Delegations: delegations, Err: err}
	}
}

func (m *AppModel) onDelegations(msg ui.DelegationsMsg) {
	if !m.state.IsCurrentWallet(msg.Address) {
		m.logger.Debug("Dropping stale delegations", zap.String("address", msg.Address.String()))
		return
	}
	m.state.LoadingDelegations = false
	m.state.DelegationsLoaded = true
	if msg.Err != nil {
		m.state.Delegations = nil
		m.state.SetError(msg.Err)
		return
	}
	m.state.Delegations = msg.Delegations
}

func (m *AppModel) copyAddress() tea.Cmd {
	addr := m.state.Wallet.String()
	services := m.services
	return func() tea.Msg {
		return ui.ClipboardMsg{Err: services.CopyToClipboard(addr)}
	}
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	m.header.SetWallet(m.state.Wallet, m.state.Connected)
	m.header.SetBusy(m.busyLabel())

	parts := []string{
		m.header.View(),
		m.tabs.View(),
		style.ContainerStyle.Render(m.router.View()),
		m.statusLine(),
	}
	if !m.router.HasOverlay() {
		bindings := m.keyMap.ContextualHelp(m.state.ActiveTab, m.state.Connected)
		parts = append(parts, m.helpBar.SetKeyBindings(bindings).View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *AppModel) statusLine() string {
	switch {
	case m.state.Error != "":
		return style.ErrorStyle.Render("❌ " + m.state.Error)
	case m.state.Status != "":
		return style.InfoStyle.Render(m.state.Status)
	default:
		return ""
	}
}

func (m *AppModel) busyLabel() string {
	var labels []string
	st := m.state
	if st.Connecting {
		labels = append(labels, "connecting")
	}
	if st.LoadingBalances || st.LoadingHistory {
		labels = append(labels, "loading wallet")
	}
	if st.Searching {
		labels = append(labels, "searching")
	}
	if st.Swap.Pending {
		labels = append(labels, "swapping")
	}
	if st.LoadingDelegations {
		labels = append(labels, "loading stakes")
	}
	return strings.Join(labels, ", ")
}
