package studypack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackRecordConversion(t *testing.T) {
	pack := &StudyPack{
		ID:         "p1",
		MaterialID: "m1",
		Summary:    "summary",
		KeyPoints:  []string{"1:00 - a"},
		Quiz:       FallbackQuiz(),
		Flashcards: FallbackFlashcards(),
		CreatedAt:  time.UnixMilli(1_700_000_000_000).UTC(),
		Status:     StatusReady,
	}

	rec, err := PackRecord(pack, ReviewPending, "note")
	require.NoError(t, err)
	assert.Equal(t, ReviewPending, rec.ReviewStatus)
	assert.Equal(t, "note", rec.Notes)

	back, err := PackFromRecord(&rec)
	require.NoError(t, err)
	assert.Equal(t, pack, back)
}
