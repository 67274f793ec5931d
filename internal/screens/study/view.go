package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/study"
	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
	"github.com/abhisek/studypack/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.loading {
		return components.Frame(theme.Hint.Render("Loading study pack..."), width, height)
	}
	if s.pack == nil {
		return components.Frame(s.renderLoadError(), width, height)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(s.tabs.View(cw))
	b.WriteString("\n\n")

	// tabs, status line and padding
	bodyHeight := max(height-6, 4)
	switch s.tabs.Active {
	case tabSummary:
		b.WriteString(s.renderSummary(cw, bodyHeight))
	case tabQuiz:
		b.WriteString(s.renderQuiz(cw))
	case tabFlashcards:
		b.WriteString(s.renderDeck(cw))
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(layout.RenderBanner(s.status, s.statusErr, cw))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) renderLoadError() string {
	if s.notFound() {
		return theme.Subtitle.Render("Study pack not found or not ready.\n\nAsk your instructor to approve the AI draft.")
	}
	return theme.Incorrect.Render("Failed to load study pack") + "\n\n" + theme.Hint.Render(s.loadErr.Error())
}

func (s *Screen) renderSummary(cw, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(layout.Wrap(study.SummaryText(s.pack.Summary), cw))
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render("Key points"))
	if s.pack.VideoURL != "" {
		b.WriteString(theme.Hint.Render("  press enter on a timestamp to jump into the video"))
	}
	b.WriteString("\n")

	used := lipgloss.Height(b.String())
	b.WriteString(s.keyPoints.View(cw, max(height-used, 3)))
	return b.String()
}

func (s *Screen) renderQuiz(cw int) string {
	if s.quiz.Len() == 0 {
		return theme.Hint.Render("This study pack has no quiz yet.")
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.quiz.Index()+1, s.quiz.Len())))
	b.WriteString("\n")
	b.WriteString(components.NewStepProgress("", s.quiz.Index()+1, s.quiz.Len(), cw).View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.submitting {
		return b.String()
	}
	if s.quiz.Finished() {
		q := s.quiz.Current()
		if q.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(layout.Wrap(theme.Hint.Render(q.Explanation), cw))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(s.renderScore())
	} else if s.quiz.CanFinish() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("All set. Press S to submit your answers."))
	}
	return b.String()
}

func (s *Screen) renderScore() string {
	correct, total := s.quiz.Score()
	if res := s.quiz.Result(); res != nil && res.Total > 0 {
		correct, total = res.Score, res.Total
	}
	style := theme.Correct
	if total > 0 && correct*2 < total {
		style = theme.Incorrect
	}
	return style.Render(fmt.Sprintf("You scored %d / %d", correct, total))
}

func (s *Screen) renderDeck(cw int) string {
	if s.deck.Len() == 0 {
		return theme.Hint.Render("This study pack has no flashcards yet.")
	}
	side := "Front"
	if s.deck.Flipped() {
		side = "Back"
	}
	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Card %d of %d  ·  %s", s.deck.Index()+1, s.deck.Len(), side)))
	b.WriteString("\n\n")
	b.WriteString(components.FlashCard(s.deck.Face(), s.deck.Flipped(), cw))
	return b.String()
}
