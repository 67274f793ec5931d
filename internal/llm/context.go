package llm

import "context"

type purposeKey struct{}

// WithPurpose labels the calls made with ctx by the pack stage that makes
// them ("summary", "quiz", "flashcards"). The label is what `llm stats`
// groups by.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the stage label on ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
