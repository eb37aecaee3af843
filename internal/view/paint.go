// Package view paints a dashboard Screen to the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pterm/pterm"
	"github.com/samber/lo"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/dashboard"
)

const Title = "Coupon send records"

var (
	faint = lipgloss.NewStyle().Faint(true)
	bold  = lipgloss.NewStyle().Bold(true)
)

// Glyphs renders a cell: hidden characters keep their place as spaces and
// faded ones are drawn faint.
func Glyphs(gs []animate.Glyph) string {
	var b strings.Builder
	for _, g := range gs {
		switch g.State {
		case animate.GlyphHidden:
			b.WriteByte(' ')
		case animate.GlyphFaded:
			b.WriteString(faint.Render(string(g.Char)))
		default:
			b.WriteRune(g.Char)
		}
	}
	return b.String()
}

// Plain renders a cell ignoring glyph state.
func Plain(gs []animate.Glyph) string {
	return string(lo.Map(gs, func(g animate.Glyph, _ int) rune { return g.Char }))
}

func button(b dashboard.Button, key string) string {
	label := fmt.Sprintf("[%s] %s", key, b.Label)
	if b.Disabled {
		return faint.Render(label)
	}
	return label
}

func action(r dashboard.RowFrame) string {
	switch {
	case r.Leaving:
		return ""
	case r.Action.Disabled:
		return faint.Render(r.Action.Label)
	default:
		return r.Action.Label
	}
}

// Table returns the records table of f as pterm table data.
func Table(f dashboard.Frame, cell func([]animate.Glyph) string) pterm.TableData {
	data := pterm.TableData{{"#", "ID", "Created", "Count", "Action"}}
	if f.Placeholder {
		return append(data, []string{"", dashboard.PlaceholderText, "", "", ""})
	}
	for i, r := range f.Rows {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			cell(r.ID),
			cell(r.Date),
			cell(r.Count),
			action(r),
		})
	}
	return data
}

// Frame renders the whole screen. tick drives the title blink shown until
// the first load completes.
func Frame(f dashboard.Frame, tick int) string {
	var b strings.Builder

	title := bold.Render(Title)
	if !f.Loaded && tick%2 == 1 {
		title = faint.Render(Title)
	}
	b.WriteString(title + "\n\n")

	fmt.Fprintf(&b, "Remaining quota: %s\n", Glyphs(f.Quota))
	fmt.Fprintf(&b, "Total: %s   Page: %s / %s   Page size: %s\n\n",
		Glyphs(f.TotalSize), Glyphs(f.PageIndex), Glyphs(f.TotalPages), Glyphs(f.PageSize))

	table, err := pterm.DefaultTable.WithHasHeader().WithData(Table(f, Glyphs)).Srender()
	if err != nil {
		table = err.Error()
	}
	b.WriteString(table + "\n\n")

	fmt.Fprintf(&b, "%s   %s   %s\n", button(f.Prev, "p"), f.PageInfo, button(f.Next, "n"))
	if f.Footer != "" {
		b.WriteString("\n" + faint.Render(f.Footer) + "\n")
	}
	return b.String()
}

// PrintSnapshot prints the settled screen without animation.
func PrintSnapshot(f dashboard.Frame) error {
	pterm.Printfln("Remaining quota: %s", Plain(f.Quota))
	pterm.Printfln("Total: %s   Page: %s / %s   Page size: %s",
		Plain(f.TotalSize), Plain(f.PageIndex), Plain(f.TotalPages), Plain(f.PageSize))
	pterm.Println()
	if err := pterm.DefaultTable.WithHasHeader().WithData(Table(f, Plain)).Render(); err != nil {
		return err
	}
	pterm.Println(f.PageInfo)
	return nil
}
