package animate

import (
	"strings"
	"sync"
)

// GlyphState is the visual state of one character.
type GlyphState uint8

const (
	// GlyphHidden is a character waiting for its reveal toggle.
	GlyphHidden GlyphState = iota
	// GlyphShown is fully visible.
	GlyphShown
	// GlyphFaded has been dismissed.
	GlyphFaded
)

// Glyph is one character of a cell.
type Glyph struct {
	Char  rune
	State GlyphState
}

// Cell is a piece of on-screen text made of individually animated glyphs.
// Every rewrite bumps the generation so toggles scheduled for earlier content
// land nowhere.
type Cell struct {
	mu     sync.Mutex
	glyphs []Glyph
	gen    uint64
}

// NewCell returns an empty cell.
func NewCell() *Cell {
	return &Cell{}
}

// Text returns every character regardless of state, like a DOM textContent.
func (c *Cell) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for _, g := range c.glyphs {
		b.WriteRune(g.Char)
	}
	return b.String()
}

// Glyphs returns a snapshot for painting.
func (c *Cell) Glyphs() []Glyph {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Glyph, len(c.glyphs))
	copy(out, c.glyphs)
	return out
}

// Set writes text with every glyph already shown.
func (c *Cell) Set(text string) {
	c.reset(text, GlyphShown)
}

// Clear empties the cell.
func (c *Cell) Clear() {
	c.reset("", GlyphShown)
}

// Settled reports whether no glyph is still hidden.
func (c *Cell) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.glyphs {
		if g.State == GlyphHidden {
			return false
		}
	}
	return true
}

// Visible returns the characters currently shown, hidden and faded ones
// excluded.
func (c *Cell) Visible() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for _, g := range c.glyphs {
		if g.State == GlyphShown {
			b.WriteRune(g.Char)
		}
	}
	return b.String()
}

func (c *Cell) reset(text string, state GlyphState) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	runes := []rune(text)
	c.glyphs = make([]Glyph, len(runes))
	for i, r := range runes {
		c.glyphs[i] = Glyph{Char: r, State: state}
	}
	return c.gen
}

// restyle keeps the characters, sets every glyph to state and returns the new
// generation and glyph count.
func (c *Cell) restyle(state GlyphState) (uint64, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for i := range c.glyphs {
		c.glyphs[i].State = state
	}
	return c.gen, len(c.glyphs)
}

func (c *Cell) toggle(gen uint64, i int, state GlyphState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || i >= len(c.glyphs) {
		return
	}
	c.glyphs[i].State = state
}
