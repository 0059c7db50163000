// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chat surface.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/util"
)

const (
	headerHeight    = 1
	statusBarHeight = 1
	inputHeight     = 3
	thinkingHeight  = 6
	helpHeight      = 2
	minViewportSize = 1
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// viewportWidth returns the width available to the message viewport.
func (m *Model) viewportWidth() int {
	w := m.width
	if m.sidebarVisible {
		w -= sidebarWidth + 1
	}
	if w < minViewportSize {
		return minViewportSize
	}
	return w
}

// viewportHeight returns the height available to the message viewport.
func (m *Model) viewportHeight() int {
	h := m.height - headerHeight - statusBarHeight - inputHeight
	if m.thinkingVisible() {
		h -= thinkingHeight
	}
	if m.showHelp {
		h -= helpHeight
	}
	if h < minViewportSize {
		return minViewportSize
	}
	return h
}

// thinkingVisible reports whether the reasoning panel occupies layout space.
func (m *Model) thinkingVisible() bool {
	return m.showThinking && (m.generating || m.thinkingText != "")
}

// syncViewportSize re-applies layout after a panel toggle.
func (m *Model) syncViewportSize() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.viewportWidth()
	m.viewport.Height = m.viewportHeight()
}

// refreshViewport re-renders the active conversation into the viewport
// and pins the view to the newest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Starting aiconsole..."
	}

	main := m.viewport.View()
	if m.thinkingVisible() {
		main = lipgloss.JoinVertical(lipgloss.Left, main, m.renderThinking())
	}
	main = lipgloss.JoinVertical(lipgloss.Left, main, m.renderInput())

	body := main
	if m.sidebarVisible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}

	sections := []string{m.renderHeader(), body}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m *Model) renderHeader() string {
	title := "aiconsole"
	if sess, ok := m.store.ActiveSession(); ok {
		title = sess.Title
	}
	left := m.theme.HeaderTitle.Render(util.TruncateWidth(util.SingleLine(title), m.width-14))
	right := m.theme.ModelBadge.Render(modelLabel(m.CurrentModel()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	projects := m.store.Projects()
	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	active, _ := m.store.ActiveSession()
	for _, sess := range m.store.Sessions() {
		label := util.TruncateWidth(util.SingleLine(sess.Title), sidebarWidth-4)
		if sess.ProjectID != "" {
			if name, ok := projectNames[sess.ProjectID]; ok {
				b.WriteString(m.theme.SidebarProject.Render(util.TruncateWidth(name, sidebarWidth-4)))
				b.WriteString("\n")
			}
		}
		if sess.ID == active.ID {
			b.WriteString(m.theme.SidebarItemSelected.Render("> " + label))
		} else {
			b.WriteString(m.theme.SidebarItem.Render("  " + label))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewportHeight() + m.extraMainHeight()).
		Render(b.String())
}

// extraMainHeight is the height of the panels below the viewport, so the
// sidebar spans the full main column.
func (m *Model) extraMainHeight() int {
	h := inputHeight
	if m.thinkingVisible() {
		h += thinkingHeight
	}
	return h
}

// renderMessages renders the active session transcript.
func (m *Model) renderMessages() string {
	sess, ok := m.store.ActiveSession()
	if !ok || len(sess.Messages) == 0 {
		return m.theme.Container.Render("No messages yet. Say something.")
	}

	width := m.viewportWidth() - 4
	var b strings.Builder
	for i, msg := range sess.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg state.Message, width int) string {
	label := m.theme.RoleLabel.Render(msg.Role.DisplayName())
	stamp := m.theme.Timestamp.Render(msg.CreatedAt.Format("15:04"))
	head := label + " " + stamp

	content := msg.Content
	if content == "" && m.generating {
		content = m.spinner.View() + " thinking"
	}

	var bubble string
	switch msg.Role {
	case state.RoleUser:
		bubble = m.theme.UserBubble.MaxWidth(width).Render(content)
	default:
		bubble = m.theme.AssistantBubble.MaxWidth(width).Render(m.renderMarkdown(content))
	}

	return head + "\n" + bubble
}

func (m *Model) renderThinking() string {
	text := m.thinkingText
	if text == "" {
		text = m.spinner.View() + " reasoning..."
	}
	// Show the tail; the newest reasoning is the interesting part.
	lines := strings.Split(text, "\n")
	visible := thinkingHeight - 2
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	return m.theme.ThinkingPanel.
		Width(m.viewportWidth() - 2).
		Height(thinkingHeight - 2).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderInput() string {
	return m.theme.InputContainer.
		Width(m.viewportWidth() - 2).
		Render(m.input.View())
}

func (m *Model) renderStatusBar() string {
	if m.statusText != "" {
		return m.theme.StatusBar.Width(m.width).Render(m.statusText)
	}

	var parts []string
	if m.generating {
		parts = append(parts, m.spinner.View()+" generating")
	}
	parts = append(parts,
		m.theme.ShortcutKey.Render("C-n")+m.theme.ShortcutDesc.Render(" new"),
		m.theme.ShortcutKey.Render("C-o")+m.theme.ShortcutDesc.Render(" model"),
		m.theme.ShortcutKey.Render("C-t")+m.theme.ShortcutDesc.Render(" reasoning"),
		m.theme.ShortcutKey.Render("C-g")+m.theme.ShortcutDesc.Render(" help"),
	)
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *Model) renderHelp() string {
	rows := []string{
		"Enter send   Esc cancel   C-c quit   C-b sidebar   PgUp/PgDn scroll",
		"C-n new chat   C-p new project   C-j/C-k switch session   C-o model   C-t reasoning",
	}
	return m.theme.ShortcutDesc.Render(strings.Join(rows, "\n"))
}
