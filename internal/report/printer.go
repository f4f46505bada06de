// Package report renders the contents of a duplicate index: as a table
// for the interactive prompt, or as a JSON document exported to a file.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/owatch/dupescan/internal/dupe"
)

// Enumerator yields bucket chains in ascending bucket order.
type Enumerator interface {
	Each(fn func(bucket int, c dupe.Chain) error) error
}

// Printer writes duplicate groups in table layout. Each group starts
// with a header naming the base name and its occurrence count, followed
// by one line per file with its sequence number, modification time and
// full path.
type Printer struct {
	Out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

// PrintGroup writes one group followed by a blank line. Empty groups
// print nothing.
func (p *Printer) PrintGroup(g dupe.Group) error {
	if len(g.Files) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(p.Out, "FILE (x%d): %-64s\n", len(g.Files), g.Name); err != nil {
		return err
	}
	for i, rec := range g.Files {
		_, err := fmt.Fprintf(p.Out, "\t%d:\t%-32s%-32s\n",
			i+1, rec.Modified.Format(time.ANSIC), rec.Path)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(p.Out)
	return err
}

// PrintSearch writes the outcome of a name search. An empty chain
// prints the no-match message instead of a table.
func (p *Printer) PrintSearch(name string, c dupe.Chain) error {
	if len(c) == 0 {
		_, err := fmt.Fprintln(p.Out, "Sorry, no match found!")
		return err
	}
	return p.PrintGroup(dupe.Group{Name: name, Files: c})
}

// PrintAll writes every group in the index, in bucket order. Within a
// bucket, groups follow the first occurrence of each name in the chain.
func (p *Printer) PrintAll(e Enumerator) error {
	return e.Each(func(_ int, c dupe.Chain) error {
		for _, g := range c.Groups() {
			if err := p.PrintGroup(g); err != nil {
				return err
			}
		}
		return nil
	})
}
