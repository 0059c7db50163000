// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Bubble Tea model for the chat surface.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	convo "github.com/morganforge/aiconsole/internal/chat"
	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/ui/styles"
)

// sidebarWidth is the fixed width of the session sidebar.
const sidebarWidth = 28

// statusTimeout is how long transient status messages stay visible.
const statusTimeout = 3 * time.Second

// defaultModelCycle lists the models Ctrl+O cycles through. The empty
// entry lets the service pick.
var defaultModelCycle = []string{"", "llama3", "gpt-oss"}

// Options configures the chat surface.
type Options struct {
	// ShowThinking opens the reasoning panel by default.
	ShowThinking bool

	// Models overrides the model cycle. Empty means defaultModelCycle.
	Models []string
}

// Model is the Bubble Tea model for the chat surface.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	store *state.Store
	orch  *convo.Orchestrator

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// send delivers messages from streaming goroutines into the update
	// loop. Set via SetSender once the program exists.
	send func(tea.Msg)

	renderer *glamour.TermRenderer

	// Streaming state
	generating   bool
	thinkingText string
	streamStart  time.Time
	cancelTurn   context.CancelFunc

	// View state
	showThinking   bool
	sidebarVisible bool
	showHelp       bool
	statusText     string

	modelCycle []string
	modelIndex int
}

// New creates the chat surface bound to a store and orchestrator.
func New(store *state.Store, orch *convo.Orchestrator, opts Options) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = theme.InputPrompt.Render("> ")
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		renderer = nil
	}

	cycle := opts.Models
	if len(cycle) == 0 {
		cycle = defaultModelCycle
	}
	modelIndex := 0
	for i, m := range cycle {
		if m == orch.Model() {
			modelIndex = i
			break
		}
	}

	return &Model{
		theme:          theme,
		keyMap:         DefaultKeyMap(),
		store:          store,
		orch:           orch,
		input:          input,
		spinner:        sp,
		renderer:       renderer,
		showThinking:   opts.ShowThinking,
		sidebarVisible: true,
		modelCycle:     cycle,
		modelIndex:     modelIndex,
	}
}

// SetSender installs the delivery hook for streaming goroutines.
// Call this with Program.Send before Program.Run.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Generating reports whether a turn is currently streaming.
func (m *Model) Generating() bool {
	return m.generating
}

// CurrentModel returns the model the next turn will use.
func (m *Model) CurrentModel() string {
	return m.modelCycle[m.modelIndex]
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// startTurn kicks off a streaming turn for the submitted text.
// The orchestrator owns persistence; this goroutine only forwards
// segments into the update loop.
func (m *Model) startTurn(text string) tea.Cmd {
	sessionID := ""
	if sess, ok := m.store.ActiveSession(); ok {
		sessionID = sess.ID
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel
	m.generating = true
	m.thinkingText = ""
	m.streamStart = time.Now()

	send := m.send
	orch := m.orch

	go func() {
		defer cancel()
		if send == nil {
			return
		}
		send(StreamStartMsg{SessionID: sessionID, StartTime: time.Now()})
		err := orch.Send(ctx, text, convo.TurnCallbacks{
			OnThinking: func(t string) {
				send(StreamSegmentMsg{SessionID: sessionID, Text: t, Thinking: true})
			},
			OnAnswer: func(t string) {
				send(StreamSegmentMsg{SessionID: sessionID, Text: t})
			},
		})
		send(StreamDoneMsg{SessionID: sessionID, Err: err})
	}()

	return m.spinner.Tick
}

// =============================================================================
// SESSION NAVIGATION
// =============================================================================

// activeSessionIndex returns the index of the active session in the
// store's most-recent-first ordering, or -1.
func (m *Model) activeSessionIndex() int {
	active, ok := m.store.ActiveSession()
	if !ok {
		return -1
	}
	for i, sess := range m.store.Sessions() {
		if sess.ID == active.ID {
			return i
		}
	}
	return -1
}

// selectSession makes the session at the given list index active.
func (m *Model) selectSession(index int) {
	sessions := m.store.Sessions()
	if index < 0 || index >= len(sessions) {
		return
	}
	m.store.Dispatch(state.SetActiveSession{ID: sessions[index].ID})
}

// cycleModel advances to the next model in the cycle and updates the
// orchestrator so the next turn uses it.
func (m *Model) cycleModel() {
	m.modelIndex = (m.modelIndex + 1) % len(m.modelCycle)
	m.orch.SetModel(m.modelCycle[m.modelIndex])
}

// modelLabel returns the display name for a model cycle entry.
func modelLabel(model string) string {
	if model == "" {
		return "auto"
	}
	return model
}

// newProjectName picks the next free "Project N" name.
func (m *Model) newProjectName() string {
	return fmt.Sprintf("Project %d", len(m.store.Projects())+1)
}

// statusCmd shows a transient status message and schedules its removal.
func statusCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// renderMarkdown renders assistant content through glamour, falling back
// to the raw text when rendering is unavailable.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
