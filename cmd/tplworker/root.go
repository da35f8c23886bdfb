package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tplworker "github.com/goliatone/go-tplworker"
	"github.com/goliatone/go-tplworker/internal/config"
	"github.com/goliatone/go-tplworker/internal/logging"
	"github.com/goliatone/go-tplworker/pkg/catalog"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "tplworker [engines]",
		Short: "Render stdin templates through many template engines",
		Long: `Reads one template per line from stdin, renders it with every active engine
concurrently and writes a JSON object mapping engine names to output, followed
by a line containing __END__. Failures are reported as values prefixed with ❌.

The optional argument is a comma separated, case-insensitive engine list;
unknown names are ignored.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runServe,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", logging.DefaultLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().String("catalog", "", "engine catalog file replacing the embedded one")
	root.PersistentFlags().String("scratch-dir", "", "parent directory for temporary template files")
	root.Flags().Bool("no-preload", false, "skip the warmup pass")

	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("catalog", root.PersistentFlags().Lookup("catalog"))
	_ = a.v.BindPFlag("scratch_dir", root.PersistentFlags().Lookup("scratch-dir"))

	root.AddCommand(newListCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command, args []string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if len(args) > 0 {
		cfg.Engines = args[0]
	}
	if noPreload, _ := cmd.Flags().GetBool("no-preload"); noPreload {
		cfg.Preload = false
	}

	logger, err := logging.New(a.stderr, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func (a *app) newWorker(cfg config.Config, c catalog.Catalog, logger *slog.Logger) (*tplworker.Worker, error) {
	return tplworker.New(
		tplworker.WithCatalog(c),
		tplworker.WithScratchDir(cfg.ScratchDir),
		tplworker.WithEngines(cfg.Engines),
		tplworker.WithPreload(cfg.Preload),
		tplworker.WithLogger(logger),
		tplworker.WithDiagnostics(a.stderr),
	)
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, args)
	if err != nil {
		return err
	}
	c, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	w, err := a.newWorker(cfg, c, logger)
	if err != nil {
		return err
	}
	if err := w.Run(cmd.Context(), a.stdin, a.stdout); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
