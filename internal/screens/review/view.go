package review

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/review"
	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
	"github.com/abhisek/studypack/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.mode == modeLoading {
		return components.Frame(theme.Hint.Render("Loading AI draft..."), width, height)
	}

	var b strings.Builder

	b.WriteString(s.renderInfo(cw))
	b.WriteString("\n")
	if banner := s.renderBanner(cw); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(label("Summary", s.focus == fieldSummary && s.mode == modeEdit))
	b.WriteString("\n")
	b.WriteString(s.summary.View())
	b.WriteString("\n\n")
	b.WriteString(label("Key points", s.focus == fieldKeyPoints && s.mode == modeEdit))
	b.WriteString("\n")
	b.WriteString(s.points.View())
	b.WriteString("\n\n")

	if s.mode == modeNotes {
		b.WriteString(s.notes.View())
	} else {
		b.WriteString(s.renderButtons())
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) renderInfo(cw int) string {
	status := s.view.status
	if status == "" {
		status = review.StatusPendingReview
	}
	left := theme.StatusBadge.Render(status)
	if s.view.packID != "" && s.view.packID != review.NewDraftID {
		left += theme.Hint.Render("  draft " + shortID(s.view.packID))
	}
	right := ""
	if s.view.videoURL != "" {
		right = lipgloss.NewStyle().Foreground(theme.Secondary).Render(s.view.videoURL)
	}
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (s *Screen) renderBanner(cw int) string {
	if s.mode == modeBusy {
		msg := "Publishing draft..."
		if s.busy == review.BusyRegenerate {
			msg = "Regenerating draft with AI. This can take a minute..."
		}
		return theme.Hint.Render(msg)
	}
	if s.view.err != "" {
		return layout.RenderBanner(s.view.err, true, cw)
	}
	return layout.RenderBanner(s.view.notice, false, cw)
}

func (s *Screen) renderButtons() string {
	buttons := make([]components.Button, len(s.buttons))
	copy(buttons, s.buttons)
	busyIdx := -1
	for i := range buttons {
		buttons[i].Enabled = s.mode == modeEdit
	}
	switch s.busy {
	case review.BusyApprove:
		busyIdx = 0
	case review.BusyRegenerate:
		busyIdx = 1
	}
	return components.ButtonRow(buttons, busyIdx)
}

func label(text string, focused bool) string {
	if focused {
		return theme.Heading.Render("▸ " + text)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("  " + text)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
