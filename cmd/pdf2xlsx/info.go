package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.pdf>",
		Short: "Validate a PDF and print its document information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "open")
			}
			defer f.Close()

			info, err := pdf.Inspect(f)
			if err != nil {
				return err
			}

			backend := "none"
			if doc, err := pdf.Open(path); err == nil {
				backend = doc.Backend()
				doc.Close()
			} else {
				a.log.WithError(err).Warn("no reader backend can extract this file")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:     %s\n", path)
			fmt.Fprintf(out, "Pages:    %d\n", info.PageCount)
			fmt.Fprintf(out, "Reader:   %s\n", backend)
			for _, field := range []struct{ name, value string }{
				{"Title", info.Title},
				{"Author", info.Author},
				{"Subject", info.Subject},
				{"Creator", info.Creator},
				{"Producer", info.Producer},
			} {
				if field.value != "" {
					fmt.Fprintf(out, "%-9s %s\n", field.name+":", strings.TrimSpace(field.value))
				}
			}
			return nil
		},
	}
}
