package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"go.withmatt.com/paperdrop/internal/bridge"
	"go.withmatt.com/paperdrop/internal/cache"
	"go.withmatt.com/paperdrop/internal/config"
	"go.withmatt.com/paperdrop/internal/coordinator"
	"go.withmatt.com/paperdrop/internal/gmail"
	"go.withmatt.com/paperdrop/internal/paperless"
)

// Model is the TUI application state
type Model struct {
	ui        uiState
	inbox     inboxState
	selection selectionState
	advanced  advancedState

	keys     keyMap
	theme    config.Theme
	uiConfig config.UIConfig

	// Gmail clients for fetching data (one per account)
	clients      []*gmail.Client
	accountNames []string

	// Tags pre-checked on every advanced upload form.
	defaultTags []string

	// serviceURL is the Paperless web UI base, for opening in a browser.
	serviceURL string

	dispatcher *bridge.Dispatcher
	sessions   *bridge.Sessions
	coord      *coordinator.Coordinator

	// Context for cancellation
	ctx context.Context
}

// New creates a new TUI model
func New(
	ctx context.Context,
	clients []*gmail.Client,
	accountNames []string,
	defaultTags []string,
	serviceURL string,
	theme config.Theme,
	uiConfig config.UIConfig,
	dispatcher *bridge.Dispatcher,
	sessions *bridge.Sessions,
	coord *coordinator.Coordinator,
) Model {
	ui := newUIState()
	ui.help = newHelpModel(theme)
	ui.alert = newAlertModel(theme, 0)

	model := Model{
		ui: ui,
		inbox: inboxState{
			threads: nil, // Will be loaded async
			loading: true,
		},
		keys:         newKeyMap(),
		theme:        theme,
		uiConfig:     uiConfig,
		clients:      clients,
		accountNames: accountNames,
		defaultTags:  defaultTags,
		serviceURL:   serviceURL,
		dispatcher:   dispatcher,
		sessions:     sessions,
		coord:        coord,
		ctx:          ctx,
	}
	model.logf("debug logging enabled")
	return model
}

// Init initializes the TUI and kicks off inbox loading
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadInboxCmd(inboxLoadInit),
		m.ui.spinner.Tick,
		m.ui.alert.Init(),
	)
}

// programNotifier surfaces coordinator status text as toast messages. The
// program pointer is set before Run; Send is safe from any goroutine.
type programNotifier struct {
	p *tea.Program
}

func (n *programNotifier) Notify(text string) {
	if n.p != nil {
		n.p.Send(notificationMsg{text: text})
	}
}

// programOpener turns coordinator dialog-open requests into messages the
// running model picks up. The dialog hydrates itself from the session id.
type programOpener struct {
	p *tea.Program
}

func (o *programOpener) OpenSelectionDialog(sessionID string) {
	if o.p != nil {
		o.p.Send(openSelectionDialogMsg{sessionID: sessionID})
	}
}

func (o *programOpener) OpenAdvancedDialog(sessionID string) {
	if o.p != nil {
		o.p.Send(openAdvancedDialogMsg{sessionID: sessionID})
	}
}

// Run starts the TUI
func Run(
	ctx context.Context,
	clients []*gmail.Client,
	accountNames []string,
	docs *paperless.Client,
	lists *cache.Store,
	defaultTags []string,
	serviceURL string,
	theme config.Theme,
	uiConfig config.UIConfig,
) error {
	notifier := &programNotifier{}
	opener := &programOpener{}

	hosts := make([]coordinator.MailHost, len(clients))
	for i, client := range clients {
		hosts[i] = client
	}

	sessions := bridge.NewSessions()
	dispatcher := bridge.NewDispatcher()
	coord := coordinator.New(hosts, docs, sessions, lists, notifier, opener)
	coord.Register(dispatcher)

	p := tea.NewProgram(
		New(ctx, clients, accountNames, defaultTags, serviceURL, theme, uiConfig, dispatcher, sessions, coord),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	notifier.p = p
	opener.p = p

	_, err := p.Run()
	return err
}
