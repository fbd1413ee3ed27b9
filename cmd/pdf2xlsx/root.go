package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyhub-apps/pdf2xlsx"
	"github.com/pyhub-apps/pdf2xlsx/pkg/config"
	"github.com/pyhub-apps/pdf2xlsx/pkg/logging"
	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf"
)

// flagKeys maps command line flags to configuration keys. Only flags
// defined on the running command are bound.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"strategy":       "extract.strategy",
	"expense-marker": "annotate.expense_marker",
	"dir":            "output.dir",
	"suffix":         "output.suffix",
	"addr":           "server.addr",
}

// app is the state shared by every subcommand once flags are parsed
type app struct {
	configFile string
	envFile    string

	cfg  *config.Config
	log  *logrus.Logger
	conv *pdf2xlsx.Converter
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "pdf2xlsx",
		Short: "Convert PDF payment statements into annotated Excel workbooks",
		Long: `pdf2xlsx recovers the transaction table of a PDF statement, drops the
structural columns, sorts by counterparty and time, and writes a workbook
where repeated expense amounts are red and large amounts are orange.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (yaml, toml or json)")
	pf.StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before PDF2XLSX_* variables are read")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatText, "Log format: text or json")
	pf.String("strategy", pdf.StrategyLines, "Table detection strategy: lines or text")
	pf.String("expense-marker", "支出", "Text marking an outgoing payment")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newPreviewCmd(a),
		newInfoCmd(a),
		newTextCmd(a),
		newTablesCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	a.cfg, err = config.Load(v)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	a.log, err = logging.New(a.cfg.Log.Level, a.cfg.Log.Format)
	if err != nil {
		return err
	}
	a.conv, err = pdf2xlsx.NewConverter(a.cfg, pdf2xlsx.WithLogger(a.log))
	return err
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind --%s", name)
		}
	}
	return nil
}
