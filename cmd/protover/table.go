package main

import (
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/anyhost/protover/internal/protover"
)

var asTable bool

type protocolList[K fmt.Stringer] interface {
	fmt.Stringer
	All() iter.Seq2[K, protover.RangeSet]
}

// printList writes the list on one line, or as a table with one row per
// protocol when --table is set.
func printList[K fmt.Stringer](w io.Writer, list protocolList[K]) {
	if !asTable {
		fmt.Fprintln(w, list)
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Protocol", "Versions", "Count"})
	for name, versions := range list.All() {
		table.Append([]string{name.String(), versions.String(), strconv.FormatUint(versions.Len(), 10)})
	}
	table.Render()
}
