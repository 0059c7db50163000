// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Update loop for the chat surface.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/aiconsole/internal/state"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		m.thinkingText = ""
		return m, nil

	case StreamSegmentMsg:
		if msg.Thinking {
			m.thinkingText += msg.Text
		} else {
			// The orchestrator already patched the message in the
			// store; the viewport just re-renders.
			m.refreshViewport()
		}
		return m, nil

	case StreamDoneMsg:
		m.generating = false
		m.cancelTurn = nil
		m.refreshViewport()
		if msg.Err != nil {
			return m, tea.Batch(statusCmd(m.theme.ErrorText.Render(msg.Err.Error())), clearStatusAfter())
		}
		return m, nil

	case SubmitInputMsg:
		return m.handleSubmit(msg.Text)

	case StatusMsg:
		m.statusText = msg.Text
		return m, nil

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpWidth := m.viewportWidth()
	vpHeight := m.viewportHeight()

	if !m.ready {
		m.viewport = newViewport(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if m.cancelTurn != nil {
			m.cancelTurn()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.generating && m.cancelTurn != nil {
			m.cancelTurn()
			return m, tea.Batch(statusCmd("Cancelled"), clearStatusAfter())
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		text := m.input.Value()
		m.input.Reset()
		return m.handleSubmit(text)

	case key.Matches(msg, m.keyMap.NewSession):
		m.store.Dispatch(state.CreateSession{})
		m.thinkingText = ""
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.NewProject):
		name := m.newProjectName()
		m.store.Dispatch(state.CreateProject{Name: name})
		return m, tea.Batch(statusCmd("Created "+name), clearStatusAfter())

	case key.Matches(msg, m.keyMap.NextSession):
		m.selectSession(m.activeSessionIndex() + 1)
		m.thinkingText = ""
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevSession):
		m.selectSession(m.activeSessionIndex() - 1)
		m.thinkingText = ""
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.CycleModel):
		m.cycleModel()
		return m, tea.Batch(statusCmd("Model: "+modelLabel(m.CurrentModel())), clearStatusAfter())

	case key.Matches(msg, m.keyMap.ToggleThinking):
		m.showThinking = !m.showThinking
		m.syncViewportSize()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		m.syncViewportSize()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.syncViewportSize()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit validates input and starts a streaming turn.
func (m *Model) handleSubmit(text string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if m.generating {
		return m, tea.Batch(statusCmd("Still generating..."), clearStatusAfter())
	}

	cmd := m.startTurn(text)
	m.refreshViewport()
	return m, cmd
}
