package studypack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studypack/internal/llm"
)

// ErrEmptySummary means the model answered with no summary text.
var ErrEmptySummary = errors.New("empty summary")

// ErrNoValidQuestions means every generated question was rejected.
var ErrNoValidQuestions = errors.New("no question had a valid answer letter")

// Producer turns transcript content into summaries, quizzes and flashcards.
// Each public operation is total: failures are logged and replaced with
// the stage's fallback artifact.
type Producer struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewProducer creates a Producer. A nil logger discards log output.
func NewProducer(provider llm.Provider, cfg Config, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{provider: provider, cfg: cfg, logger: logger.Named("producer")}
}

// Summary returns a prose summary of content.
func (p *Producer) Summary(ctx context.Context, content, notes string) string {
	return ApplyFallback(report(p.logger, p.GenerateSummary(ctx, content, notes)), FallbackSummary)
}

// Quiz returns a multiple-choice quiz about content.
func (p *Producer) Quiz(ctx context.Context, content, notes string) Quiz {
	return ApplyFallback(report(p.logger, p.GenerateQuiz(ctx, content, notes)), FallbackQuiz)
}

// Flashcards returns a flashcard deck about content.
func (p *Producer) Flashcards(ctx context.Context, content, notes string) []Flashcard {
	return ApplyFallback(report(p.logger, p.GenerateFlashcards(ctx, content, notes)), FallbackFlashcards)
}

// GenerateSummary runs the summary stage without applying a fallback.
func (p *Producer) GenerateSummary(ctx context.Context, content, notes string) Result[string] {
	ctx = llm.WithPurpose(ctx, string(StageSummary))

	resp, err := p.provider.Generate(ctx, p.request(summarySystemPrompt, buildSummaryMessage(content, notes), nil))
	if err != nil {
		return Fail[string](StageSummary, err)
	}

	text := resp.Text()
	if text == "" {
		return Fail[string](StageSummary, ErrEmptySummary)
	}
	return Ok(text)
}

type quizItemOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuiz runs the quiz stage without applying a fallback. Questions
// whose answer letter is not A-D are dropped; the stage fails only when
// none survive.
func (p *Producer) GenerateQuiz(ctx context.Context, content, notes string) Result[Quiz] {
	ctx = llm.WithPurpose(ctx, string(StageQuiz))

	var schema *llm.Schema
	if p.cfg.Structured {
		schema = QuizSchema
	}
	msg := buildQuizMessage(content, notes, p.cfg.QuizQuestions)

	var items []quizItemOutput
	if err := p.generateArray(ctx, p.request(quizSystemPrompt, msg, schema), quizArraySchema, &items); err != nil {
		return Fail[Quiz](StageQuiz, err)
	}

	quiz := Quiz{ID: NewID()}
	for i, it := range items {
		idx := AnswerIndex(it.CorrectAnswer)
		if idx < 0 {
			p.logger.Warn("dropping question with invalid answer letter",
				zap.Int("index", i), zap.String("letter", it.CorrectAnswer))
			continue
		}
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			ID:            NewID(),
			Question:      it.Question,
			Options:       it.Options,
			CorrectAnswer: idx,
			Explanation:   it.Explanation,
		})
	}
	if len(quiz.Questions) == 0 {
		return Fail[Quiz](StageQuiz, ErrNoValidQuestions)
	}
	return Ok(quiz)
}

type flashcardOutput struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerateFlashcards runs the flashcard stage without applying a fallback.
func (p *Producer) GenerateFlashcards(ctx context.Context, content, notes string) Result[[]Flashcard] {
	ctx = llm.WithPurpose(ctx, string(StageFlashcards))

	var schema *llm.Schema
	if p.cfg.Structured {
		schema = FlashcardSchema
	}
	msg := buildFlashcardMessage(content, notes, p.cfg.Flashcards)

	var items []flashcardOutput
	if err := p.generateArray(ctx, p.request(flashcardSystemPrompt, msg, schema), flashcardArraySchema, &items); err != nil {
		return Fail[[]Flashcard](StageFlashcards, err)
	}

	cards := make([]Flashcard, len(items))
	for i, it := range items {
		cards[i] = Flashcard{ID: NewID(), Front: it.Front, Back: it.Back}
	}
	return Ok(cards)
}

func (p *Producer) request(system, user string, schema *llm.Schema) llm.Request {
	return llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		Schema:      schema,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}
}

// generateArray calls the provider, extracts the embedded JSON array,
// validates it against itemsSchema and decodes it into out.
func (p *Producer) generateArray(ctx context.Context, req llm.Request, itemsSchema *llm.Schema, out any) error {
	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return err
	}

	raw, err := ExtractJSONArray(resp.Text())
	if err != nil {
		return err
	}
	if err := llm.ValidateJSON(itemsSchema, []byte(raw)); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", itemsSchema.Name, err)
	}
	return nil
}

// report logs a failed stage and passes the result through.
func report[T any](logger *zap.Logger, r Result[T]) Result[T] {
	if r.Err != nil {
		logger.Warn("generation failed, using fallback",
			zap.String("stage", string(r.Err.Stage)),
			zap.Error(r.Err.Err))
	}
	return r
}
