package generate

import (
	"fmt"
	"strings"

	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
	"github.com/abhisek/studypack/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Heading.Render("Generating study pack"))
	if s.title != "" {
		b.WriteString(theme.Hint.Render("  " + s.title))
	}
	b.WriteString("\n\n")
	b.WriteString(s.renderStages())
	b.WriteString("\n")

	done := max(s.current.Step-1, 0)
	if s.done && s.err == nil {
		done = len(stages)
	}
	b.WriteString(components.NewStepProgress("", done, len(stages), cw-6).View())
	b.WriteString("\n")

	switch {
	case s.err != nil:
		b.WriteString("\n")
		b.WriteString(layout.RenderBanner("Failed to generate study pack: "+s.err.Error(), true, cw-6))
	case s.done:
		b.WriteString("\n")
		b.WriteString(s.renderOutcome(cw - 6))
	case s.current.Label != "":
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.current.Label))
	}

	return components.Frame(components.Card(b.String(), cw), width, height)
}

func (s *Screen) renderStages() string {
	var b strings.Builder
	for i, st := range stages {
		step := i + 1
		var mark string
		switch {
		case s.done && s.err == nil, step < s.current.Step:
			mark = theme.Correct.Render("✓")
		case step == s.current.Step && s.err != nil:
			mark = theme.Incorrect.Render("✗")
		case step == s.current.Step:
			mark = s.spinner.View()
		default:
			mark = theme.Hint.Render("·")
		}
		fmt.Fprintf(&b, " %s %s\n", mark, theme.Body.Render(st.label))
	}
	return b.String()
}

func (s *Screen) renderOutcome(width int) string {
	var b strings.Builder
	if p := s.outcome.Pack; p != nil {
		b.WriteString(theme.Correct.Render("Study pack ready"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d key points  ·  %d quiz questions  ·  %d flashcards\n",
			len(p.KeyPoints), len(p.Quiz.Questions), len(p.Flashcards))
		b.WriteString(theme.Hint.Render("Pack " + p.ID))
		b.WriteString("\n\n")
	}

	switch {
	case s.outcome.Uploaded:
		b.WriteString(layout.RenderBanner("Uploaded for instructor review.", false, width))
	case s.outcome.UploadErr != nil:
		b.WriteString(layout.RenderBanner("Saved locally. Upload failed: "+s.outcome.UploadErr.Error(), true, width))
	default:
		b.WriteString(theme.Hint.Render("Saved locally. Sign in with `studypack login` to upload it for review."))
	}
	return b.String()
}
