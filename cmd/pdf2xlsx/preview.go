package main

import (
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pdf2xlsx/pkg/output"
	"github.com/pyhub-apps/pdf2xlsx/pkg/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview <file.pdf>",
		Short: "Print the first rows of the extracted and processed tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := output.ValidateFile(path, a.cfg.Upload.MaxBytes); err != nil {
				return err
			}

			extracted, _, err := a.conv.Recover(path)
			if err != nil {
				return err
			}
			processed, _ := a.conv.Process(extracted)

			out := cmd.OutOrStdout()
			if err := preview.Render(out, "extracted", extracted, rows); err != nil {
				return err
			}
			return preview.Render(out, "processed", processed, rows)
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", preview.DefaultRows, "Rows to show")
	return cmd
}
