package study

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/studypack/internal/studypack"
)

func TestDeck(t *testing.T) {
	d := NewDeck([]studypack.Flashcard{
		{ID: "1", Front: "f1", Back: "b1"},
		{ID: "2", Front: "f2", Back: "b2"},
	})

	assert.Equal(t, "f1", d.Face())
	d.Flip()
	assert.True(t, d.Flipped())
	assert.Equal(t, "b1", d.Face())

	d.Next()
	assert.Equal(t, 1, d.Index())
	assert.False(t, d.Flipped())
	assert.Equal(t, "f2", d.Face())

	d.Flip()
	d.Next()
	assert.Equal(t, 1, d.Index())
	assert.True(t, d.Flipped())

	d.Prev()
	assert.Equal(t, 0, d.Index())
	assert.False(t, d.Flipped())

	d.Prev()
	assert.Equal(t, 0, d.Index())
}

func TestDeck_Empty(t *testing.T) {
	d := NewDeck(nil)
	assert.Empty(t, d.Face())
	d.Next()
	d.Prev()
	assert.Equal(t, 0, d.Index())
}
