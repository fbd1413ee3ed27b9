package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pdf2xlsx"
	"github.com/pyhub-apps/pdf2xlsx/pkg/output"
)

func newConvertCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a statement and save the annotated workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, args[0], outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Workbook path (default: <name>_processed.xlsx in the output directory)")
	cmd.Flags().String("dir", "", "Output directory (default: ~/Downloads, else the temp dir)")
	cmd.Flags().String("suffix", output.DefaultSuffix, "Suffix added to the PDF's base name")
	return cmd
}

func (a *app) convert(cmd *cobra.Command, path, outPath string) error {
	if err := output.ValidateFile(path, a.cfg.Upload.MaxBytes); err != nil {
		return err
	}

	res, err := a.conv.Convert(path)
	if err != nil {
		a.log.WithError(err).WithField("file", path).Error("conversion failed")
		return err
	}

	saved := outPath
	if saved != "" {
		err = output.WriteFile(saved, res.Data)
	} else {
		saved, err = output.Save(a.cfg.OutputDir(), path, a.cfg.Output.Suffix, res.Data)
	}
	if err != nil {
		err = &pdf2xlsx.RenderError{Op: "save", Err: err}
		a.log.WithError(err).Error("workbook not saved")
		return err
	}

	a.log.WithFields(logrus.Fields{
		"file":   saved,
		"rows":   len(res.Table),
		"runs":   res.Report.Runs,
		"red":    res.Report.RedRows,
		"orange": res.Report.OrangeRows,
	}).Info("saved workbook")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d rows x %d columns, %d red rows, %d orange rows)\n",
		saved, len(res.Table), res.Table.Width(), res.Report.RedRows, res.Report.OrangeRows)
	return nil
}
