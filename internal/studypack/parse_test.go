package studypack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerIndex(t *testing.T) {
	tests := []struct {
		letter string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"C", 2},
		{"D", 3},
		{"E", -1},
		{"a", -1},
		{"", -1},
		{"AB", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnswerIndex(tt.letter), "letter %q", tt.letter)
	}
}

func TestExtractJSONArray(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		got, err := ExtractJSONArray(`[{"front":"a","back":"b"}]`)
		require.NoError(t, err)
		assert.Equal(t, `[{"front":"a","back":"b"}]`, got)
	})

	t.Run("markdown fence and prose", func(t *testing.T) {
		text := "Here are your cards:\n```json\n[{\"front\":\"a\",\"back\":\"b\"}]\n```\nEnjoy!"
		got, err := ExtractJSONArray(text)
		require.NoError(t, err)
		assert.Equal(t, `[{"front":"a","back":"b"}]`, got)
	})

	t.Run("object wrapper", func(t *testing.T) {
		got, err := ExtractJSONArray(`{"questions":[{"question":"q"}]}`)
		require.NoError(t, err)
		assert.Equal(t, `[{"question":"q"}]`, got)
	})

	t.Run("no array", func(t *testing.T) {
		_, err := ExtractJSONArray("I cannot help with that.")
		assert.ErrorIs(t, err, ErrNoJSONArray)
	})

	t.Run("reversed brackets", func(t *testing.T) {
		_, err := ExtractJSONArray("] oops [")
		assert.ErrorIs(t, err, ErrNoJSONArray)
	})
}
