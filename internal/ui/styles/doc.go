// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aiconsole TUI.

All colors use Lip Gloss AdaptiveColor so the same palette reads well on
light and dark terminals.

# Color System (colors.go)

Primary accents:

  - Purple - assistant messages and selections
  - Cyan - brand color, commands, user highlights
  - Emerald - success states
  - Amber - warnings
  - Rose - errors

Message bubbles use semantic tokens (UserBubbleBg, AssistantBubbleFg,
and so on) rather than raw palette entries, and text follows a simple
hierarchy: TextPrimary, TextSecondary, TextMuted, TextInverse.

# Theme System (theme.go)

The Theme struct groups every style the chat surface needs and adapts to
the terminal at startup:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	header := theme.Header.Render("aiconsole")
*/
package styles
