package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
)

// forEachPage opens path and calls fn for every page in order
func forEachPage(path string, fn func(pdf.Page) error) error {
	doc, err := pdf.Open(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <file.pdf>",
		Short: "Print the text lines of every page as the text fallback sees them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return forEachPage(args[0], func(page pdf.Page) error {
				fmt.Fprintf(out, "=== Page %d (%.2f x %.2f) ===\n", page.GetPageNumber(), page.GetWidth(), page.GetHeight())
				text := page.ExtractText(a.cfg.TextOptions()...)
				if text == "" {
					fmt.Fprintln(out, "No text found on this page")
					return nil
				}
				fmt.Fprintln(out, text)
				return nil
			})
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <file.pdf>",
		Short: "Print the tables detected on every page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return forEachPage(args[0], func(page pdf.Page) error {
				fmt.Fprintf(out, "=== Page %d ===\n", page.GetPageNumber())
				tables := page.ExtractTables(a.cfg.TableOptions()...)
				if len(tables) == 0 {
					fmt.Fprintln(out, "  No tables found")
					return nil
				}
				for i, t := range tables {
					fmt.Fprintf(out, "  Table %d: %d rows x %d columns, bbox (%.2f, %.2f)-(%.2f, %.2f)\n",
						i+1, len(t.Rows), maxColumns(t.Rows), t.BBox.X0, t.BBox.Y0, t.BBox.X1, t.BBox.Y1)
					printRows(out, t.Rows)
				}
				return nil
			})
		},
	}
}

func maxColumns(rows [][]string) int {
	n := 0
	for _, row := range rows {
		n = max(n, len(row))
	}
	return n
}

// printRows prints cells padded to their column's display width
func printRows(out io.Writer, rows [][]string) {
	widths := make([]int, maxColumns(rows))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], runewidth.StringWidth(flatten(cell)))
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = runewidth.FillRight(flatten(cell), widths[j])
		}
		fmt.Fprintf(out, "    | %s |\n", strings.Join(cells, " | "))
	}
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
