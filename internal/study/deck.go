package study

import "github.com/abhisek/studypack/internal/studypack"

// Deck is a flashcard viewer with a flip flag and a position.
type Deck struct {
	cards   []studypack.Flashcard
	idx     int
	flipped bool
}

// NewDeck creates a deck over cards.
func NewDeck(cards []studypack.Flashcard) *Deck {
	return &Deck{cards: cards}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Index returns the current position.
func (d *Deck) Index() int { return d.idx }

// Flipped reports whether the back is showing.
func (d *Deck) Flipped() bool { return d.flipped }

// Current returns the current card. It panics on an empty deck.
func (d *Deck) Current() studypack.Flashcard { return d.cards[d.idx] }

// Face returns the visible side of the current card.
func (d *Deck) Face() string {
	if d.Len() == 0 {
		return ""
	}
	if d.flipped {
		return d.Current().Back
	}
	return d.Current().Front
}

// Flip turns the current card over.
func (d *Deck) Flip() { d.flipped = !d.flipped }

// Next moves to the next card, showing its front.
func (d *Deck) Next() {
	if d.idx < d.Len()-1 {
		d.idx++
		d.flipped = false
	}
}

// Prev moves to the previous card, showing its front.
func (d *Deck) Prev() {
	if d.idx > 0 {
		d.idx--
		d.flipped = false
	}
}
