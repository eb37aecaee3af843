package cmd

import (
	"strings"

	"github.com/pterm/pterm"
)

// PrintTableNoPad prints a table without the trailing padding pterm adds to
// the last column.
func PrintTableNoPad(data pterm.TableData, withHeader bool) {
	t := pterm.DefaultTable.WithData(data)
	if withHeader {
		t = t.WithHasHeader()
	}
	out, err := t.Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	pterm.Println(strings.Join(lines, "\n"))
}
