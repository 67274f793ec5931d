package studypack

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypack/internal/llm"
)

func quizJSON(letters ...string) string {
	type item struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
	}
	var items []item
	for _, l := range letters {
		items = append(items, item{
			Question:      "Which organelle produces energy?",
			Options:       []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
			CorrectAnswer: l,
			Explanation:   "Mitochondria run cellular respiration.",
		})
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func newTestProducer(responses ...llm.MockResponse) (*Producer, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return NewProducer(mock, DefaultConfig(), nil), mock
}

func TestProducer_Summary(t *testing.T) {
	p, mock := newTestProducer(llm.MockText("  Cells are the basic unit of life.  "))

	got := p.Summary(context.Background(), "transcript about cells", "")
	assert.Equal(t, "Cells are the basic unit of life.", got)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Nil(t, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "transcript about cells")
	assert.Contains(t, req.Messages[0].Content, "2-3 paragraphs")
}

func TestProducer_SummaryIncludesNotes(t *testing.T) {
	p, mock := newTestProducer(llm.MockText("ok"))

	p.Summary(context.Background(), "content", "  Focus on definitions.  ")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Instructor notes")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Focus on definitions.")
}

func TestProducer_SummaryFallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"empty text", llm.MockText("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProducer(tt.resp)
			assert.Equal(t, FallbackSummary(), p.Summary(context.Background(), "content", ""))
		})
	}
}

func TestProducer_Quiz(t *testing.T) {
	p, mock := newTestProducer(llm.MockText("```json\n" + quizJSON("B", "D") + "\n```"))

	quiz := p.Quiz(context.Background(), "content", "")
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 1, quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, 3, quiz.Questions[1].CorrectAnswer)
	assert.NotEqual(t, quiz.Questions[0].ID, quiz.Questions[1].ID)
	assert.NotEmpty(t, quiz.ID)

	assert.Contains(t, mock.Calls[0].Messages[0].Content, "exactly 8 multiple-choice questions")
}

func TestProducer_QuizDropsInvalidLetters(t *testing.T) {
	p, _ := newTestProducer(llm.MockText(quizJSON("A", "E", "C")))

	quiz := p.Quiz(context.Background(), "content", "")
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 0, quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, 2, quiz.Questions[1].CorrectAnswer)
}

func TestProducer_QuizAllInvalidLettersFallsBack(t *testing.T) {
	p, _ := newTestProducer(llm.MockText(quizJSON("E", "Z")))

	r := p.GenerateQuiz(context.Background(), "content", "")
	require.NotNil(t, r.Err)
	assert.ErrorIs(t, r.Err, ErrNoValidQuestions)
}

func TestProducer_QuizFallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("boom")}},
		{"no array", llm.MockText("Sorry, I can't do that.")},
		{"malformed json", llm.MockText(`[{"question": "q", `)},
		{"three options", llm.MockText(`[{"question":"q","options":["a","b","c"],"correctAnswer":"A","explanation":"e"}]`)},
		{"empty array", llm.MockText(`[]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProducer(tt.resp)
			quiz := p.Quiz(context.Background(), "content", "")
			require.Len(t, quiz.Questions, 1)
			q := quiz.Questions[0]
			assert.Len(t, q.Options, 4)
			assert.GreaterOrEqual(t, q.CorrectAnswer, 0)
			assert.LessOrEqual(t, q.CorrectAnswer, 3)
		})
	}
}

func TestProducer_Flashcards(t *testing.T) {
	p, mock := newTestProducer(llm.MockText(`Sure! [{"front":"What is ATP?","back":"The cell's energy currency."},{"front":"Define osmosis","back":"Diffusion of water."}]`))

	cards := p.Flashcards(context.Background(), "content", "")
	require.Len(t, cards, 2)
	assert.Equal(t, "What is ATP?", cards[0].Front)
	assert.Equal(t, "Diffusion of water.", cards[1].Back)
	assert.NotEmpty(t, cards[0].ID)

	assert.Contains(t, mock.Calls[0].Messages[0].Content, "exactly 12 flashcards")
}

func TestProducer_FlashcardFallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: errors.New("boom")}},
		{"missing back", llm.MockText(`[{"front":"q"}]`)},
		{"not json", llm.MockText("[not json]")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProducer(tt.resp)
			cards := p.Flashcards(context.Background(), "content", "")
			require.Len(t, cards, 1)
			assert.NotEmpty(t, cards[0].Front)
			assert.NotEmpty(t, cards[0].Back)
		})
	}
}

func TestProducer_StructuredMode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText(`{"questions":`+quizJSON("C")+`}`),
		llm.MockText(`{"flashcards":[{"front":"f","back":"b"}]}`),
	)
	cfg := DefaultConfig()
	cfg.Structured = true
	p := NewProducer(mock, cfg, nil)

	quiz := p.Quiz(context.Background(), "content", "")
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 2, quiz.Questions[0].CorrectAnswer)

	cards := p.Flashcards(context.Background(), "content", "")
	require.Len(t, cards, 1)

	assert.Same(t, QuizSchema, mock.Calls[0].Schema)
	assert.Same(t, FlashcardSchema, mock.Calls[1].Schema)
}

func TestProducer_TagsPurpose(t *testing.T) {
	p, mock := newTestProducer()
	ctx := context.Background()

	p.Summary(ctx, "c", "")
	p.Quiz(ctx, "c", "")
	p.Flashcards(ctx, "c", "")

	assert.Equal(t, []string{"summary", "quiz", "flashcards"}, mock.Purposes)
}
