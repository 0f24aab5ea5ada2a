// Package output renders matching results in the supported output formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	default:
		return FormatText
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON/TOON serialization.
	RenderData() any
}

// Formatter writes results to stdout or a file in one format.
type Formatter struct {
	format  Format
	w       io.Writer
	closer  io.Closer
	colored bool
}

// NewFormatter creates a formatter. An empty output path means stdout; a file
// destination disables color.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return &Formatter{format: format, w: os.Stdout, colored: colored}, nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}

	return &Formatter{format: format, w: f, closer: f}, nil
}

// Close closes the destination if it's a file.
func (f *Formatter) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}

	return nil
}

// Output writes data in the configured format. Renderables pick their own
// text and markdown shape; everything else serializes.
func (f *Formatter) Output(data any) error {
	r, isRenderable := data.(Renderable)

	switch f.format {
	case FormatText, FormatMarkdown:
		if !isRenderable {
			break
		}

		if f.format == FormatMarkdown {
			return r.RenderMarkdown(f.w)
		}

		return r.RenderText(f.w, f.colored)
	}

	if isRenderable {
		data = r.RenderData()
	}

	if f.format == FormatTOON {
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(f.w, string(out))

		return err
	}

	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}

// Table is a Renderable table with headers and rows. classmatch tables are
// small and flat: no footers, no nested sections.
type Table struct {
	Title   string     `json:"-"`
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	Data    any        `json:"data,omitempty"`
}

// RenderData returns the wrapped structured data, or the rows keyed by
// header when none was provided.
func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}

	result := make([]map[string]string, len(t.Rows))

	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Headers))

		for j, h := range t.Headers {
			if j < len(row) {
				m[h] = row[j]
			}
		}

		result[i] = m
	}

	return result
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		if colored {
			color.New(color.Bold).Fprintln(w, t.Title)
		} else {
			fmt.Fprintln(w, t.Title)
		}

		fmt.Fprintln(w, strings.Repeat("=", len(t.Title)))
		fmt.Fprintln(w)
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{Separators: tw.Separators{BetweenColumns: tw.Off}},
		}),
	)

	table.Header(t.Headers)

	for _, row := range t.Rows {
		table.Append(row)
	}

	table.Render()
	fmt.Fprintln(w)

	return nil
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	writeRow := func(cells []string) {
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}

	writeRow(t.Headers)

	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}

	writeRow(seps)

	for _, row := range t.Rows {
		writeRow(row)
	}

	fmt.Fprintln(w)

	return nil
}
