package studypack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrAssembly is returned when a study pack could not be assembled.
var ErrAssembly = errors.New("failed to generate study pack")

// Generator is the set of total generation operations the Assembler runs.
// *Producer implements it.
type Generator interface {
	Summary(ctx context.Context, content, notes string) string
	Quiz(ctx context.Context, content, notes string) Quiz
	Flashcards(ctx context.Context, content, notes string) []Flashcard
}

// Progress describes the stage about to run.
type Progress struct {
	Step  int
	Total int
	Stage Stage
	Label string
}

// ProgressFunc receives a Progress before each stage starts.
type ProgressFunc func(Progress)

// Assembler runs the three generation stages strictly in sequence with a
// fixed pause between them, bounding the request rate against the model's
// quota.
type Assembler struct {
	gen    Generator
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewAssembler creates an Assembler over gen.
func NewAssembler(gen Generator, cfg Config, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{gen: gen, cfg: cfg, logger: logger.Named("assembler"), now: time.Now}
}

const stageCount = 3

// Assemble builds a ready StudyPack for m. Quiz and flashcard failures are
// absorbed into fallbacks; a summary stage that cannot return at all, or a
// cancelled ctx, yields ErrAssembly.
func (a *Assembler) Assemble(ctx context.Context, m Material, notes string, progress ProgressFunc) (*StudyPack, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	log := a.logger.With(zap.String("material_id", m.ID))
	log.Info("generating study pack")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	progress(Progress{Step: 1, Total: stageCount, Stage: StageSummary, Label: "Step 1/3: Generating summary..."})
	summary, err := runStage(func() string { return a.gen.Summary(ctx, m.Content, notes) })
	if err != nil {
		log.Error("summary stage failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	if err := pause(ctx, a.cfg.Pacing); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	progress(Progress{Step: 2, Total: stageCount, Stage: StageQuiz, Label: "Step 2/3: Generating quiz..."})
	quiz := absorb(log, StageQuiz, func() Quiz { return a.gen.Quiz(ctx, m.Content, notes) }, FallbackQuiz)

	if err := pause(ctx, a.cfg.Pacing); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	progress(Progress{Step: 3, Total: stageCount, Stage: StageFlashcards, Label: "Step 3/3: Generating flashcards..."})
	cards := absorb(log, StageFlashcards, func() []Flashcard { return a.gen.Flashcards(ctx, m.Content, notes) }, FallbackFlashcards)

	pack := &StudyPack{
		ID:         NewID(),
		MaterialID: m.ID,
		Summary:    summary,
		KeyPoints:  DeriveKeyPoints(m.Content, summary, a.cfg.KeyPoints),
		Quiz:       quiz,
		Flashcards: cards,
		CreatedAt:  a.now().UTC(),
		Status:     StatusReady,
	}
	log.Info("study pack ready",
		zap.String("pack_id", pack.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("flashcards", len(cards)))
	return pack, nil
}

// runStage invokes fn, converting a panic into an error.
func runStage[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()
	return fn(), nil
}

// absorb runs a non-fatal stage and substitutes its fallback on failure.
func absorb[T any](log *zap.Logger, stage Stage, fn func() T, fallback func() T) T {
	v, err := runStage(fn)
	if err != nil {
		log.Warn("stage failed, using fallback", zap.String("stage", string(stage)), zap.Error(err))
		return ApplyFallback(Fail[T](stage, err), fallback)
	}
	return ApplyFallback(Ok(v), fallback)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
