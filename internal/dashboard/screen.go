package dashboard

import (
	"sync"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/upstream"
)

// Summary defaults shown whenever there is no data.
const (
	DefaultTotalSize  = "0"
	DefaultPageIndex  = "1"
	DefaultTotalPages = "1"
	DefaultPageSize   = "50"

	PlaceholderText = "No data"
	ActionLabel     = "Revert"
	missingText     = "-"
)

// Button is a clickable control. Target is the page a pagination button
// leads to.
type Button struct {
	Label    string
	Disabled bool
	Target   int
}

// Row is one rendered record.
type Row struct {
	ID     *animate.Cell
	Date   *animate.Cell
	Count  *animate.Cell
	Action Button
	Record upstream.Record

	// Leaving is set once the row's cells are being dismissed.
	Leaving bool
}

func newRow(rec upstream.Record) *Row {
	return &Row{
		ID:     animate.NewCell(),
		Date:   animate.NewCell(),
		Count:  animate.NewCell(),
		Action: Button{Label: ActionLabel},
		Record: rec,
	}
}

func (r *Row) cells() []*animate.Cell {
	return []*animate.Cell{r.ID, r.Date, r.Count}
}

// Screen is the render target. Only the Dashboard mutates it; painters read
// it through Frame.
type Screen struct {
	mu sync.RWMutex

	loaded bool
	footer string

	Quota      *animate.Cell
	TotalSize  *animate.Cell
	PageIndex  *animate.Cell
	TotalPages *animate.Cell
	PageSize   *animate.Cell

	pageInfo    string
	placeholder bool
	rows        []*Row
	prev, next  Button
}

// NewScreen returns a screen in its initial no-data state.
func NewScreen() *Screen {
	s := &Screen{
		Quota:      animate.NewCell(),
		TotalSize:  animate.NewCell(),
		PageIndex:  animate.NewCell(),
		TotalPages: animate.NewCell(),
		PageSize:   animate.NewCell(),
		prev:       Button{Label: "Prev", Disabled: true},
		next:       Button{Label: "Next", Disabled: true},
	}
	s.showPlaceholder()
	return s
}

func (s *Screen) summaryCells() []*animate.Cell {
	return []*animate.Cell{s.TotalSize, s.PageIndex, s.TotalPages, s.PageSize}
}

func (s *Screen) showPlaceholder() {
	s.TotalSize.Set(DefaultTotalSize)
	s.PageIndex.Set(DefaultPageIndex)
	s.TotalPages.Set(DefaultTotalPages)
	s.PageSize.Set(DefaultPageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.placeholder = true
	s.pageInfo = pageInfo(1, 1)
}

func (s *Screen) setRows(rows []*Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.placeholder = false
}

func (s *Screen) setPageInfo(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageInfo = text
}

func (s *Screen) setButtons(prev, next Button) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev, s.next = prev, next
}

func (s *Screen) markLeaving(r *Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Leaving = true
}

func (s *Screen) setLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
}

// SetFooter replaces the status line below the table.
func (s *Screen) SetFooter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.footer = text
}

// Rows returns the rendered rows, placeholder excluded.
func (s *Screen) Rows() []*Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the row at 1-based position n.
func (s *Screen) Row(n int) (*Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 1 || n > len(s.rows) {
		return nil, false
	}
	return s.rows[n-1], true
}

// Placeholder reports whether the no-data row is displayed.
func (s *Screen) Placeholder() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placeholder
}

// Buttons returns the pagination buttons.
func (s *Screen) Buttons() (prev, next Button) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prev, s.next
}

// RowFrame is a painter snapshot of one row.
type RowFrame struct {
	ID, Date, Count []animate.Glyph
	Action          Button
	Leaving         bool
}

// Frame is a consistent snapshot of the whole screen.
type Frame struct {
	Loaded      bool
	Footer      string
	Quota       []animate.Glyph
	TotalSize   []animate.Glyph
	PageIndex   []animate.Glyph
	TotalPages  []animate.Glyph
	PageSize    []animate.Glyph
	PageInfo    string
	Placeholder bool
	Rows        []RowFrame
	Prev, Next  Button
}

// Frame snapshots the screen for painting.
func (s *Screen) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := Frame{
		Loaded:      s.loaded,
		Footer:      s.footer,
		Quota:       s.Quota.Glyphs(),
		TotalSize:   s.TotalSize.Glyphs(),
		PageIndex:   s.PageIndex.Glyphs(),
		TotalPages:  s.TotalPages.Glyphs(),
		PageSize:    s.PageSize.Glyphs(),
		PageInfo:    s.pageInfo,
		Placeholder: s.placeholder,
		Prev:        s.prev,
		Next:        s.next,
	}
	for _, r := range s.rows {
		f.Rows = append(f.Rows, RowFrame{
			ID:      r.ID.Glyphs(),
			Date:    r.Date.Glyphs(),
			Count:   r.Count.Glyphs(),
			Action:  r.Action,
			Leaving: r.Leaving,
		})
	}
	return f
}
