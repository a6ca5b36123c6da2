// Command teacup runs demo programs on the teacup runtime
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/teacup/config"
	"github.com/lixenwraith/teacup/tea"
)

// flags mirror the config file; only flags set on the command line
// override the file
type flags struct {
	config        string
	altScreen     bool
	mouse         string
	fps           int
	noPaste       bool
	reportFocus   bool
	escapeTimeout int
	logFile       string
	logLevel      string
}

func main() {
	var f flags
	root := &cobra.Command{
		Use:   "teacup",
		Short: "Demo programs for the teacup terminal runtime",
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "TOML config file")
	pf.BoolVar(&f.altScreen, "alt-screen", false, "Run on the alternate screen")
	pf.StringVar(&f.mouse, "mouse", "none", "Mouse reporting: none, cell or all")
	pf.IntVar(&f.fps, "fps", 60, "Frame rate cap")
	pf.BoolVar(&f.noPaste, "no-bracketed-paste", false, "Disable bracketed paste")
	pf.BoolVar(&f.reportFocus, "report-focus", false, "Report focus changes")
	pf.IntVar(&f.escapeTimeout, "escape-timeout", 50, "Lone ESC timeout in milliseconds")
	pf.StringVar(&f.logFile, "log-file", "", "Write diagnostics to this file")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level")

	root.AddCommand(
		&cobra.Command{
			Use:   "counter",
			Short: "Clock-driven counter with key and mouse input",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := f.load(cmd)
				if err != nil {
					return err
				}
				return run(cmd.Context(), cfg, newCounter(cfg.Keys))
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "Show every decoded key, mouse and resize event",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := f.load(cmd)
				if err != nil {
					return err
				}
				// The inspector always wants the mouse
				if cfg.Mouse == "none" {
					cfg.Mouse = "all"
				}
				return run(cmd.Context(), cfg, newInspector())
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the effective configuration as TOML",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := f.load(cmd)
				if err != nil {
					return err
				}
				return cfg.Encode(cmd.OutOrStdout())
			},
		},
	)

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// load reads the config file, then applies explicitly set flags
func (f *flags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}

	set := cmd.Flags().Changed
	if set("alt-screen") {
		cfg.AltScreen = f.altScreen
	}
	if set("mouse") {
		cfg.Mouse = f.mouse
	}
	if set("fps") {
		cfg.FPS = f.fps
	}
	if set("no-bracketed-paste") {
		cfg.BracketedPaste = !f.noPaste
	}
	if set("report-focus") {
		cfg.ReportFocus = f.reportFocus
	}
	if set("escape-timeout") {
		cfg.EscapeTimeoutMS = f.escapeTimeout
	}
	if set("log-file") {
		cfg.Log.File = f.logFile
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}

// run executes model with the configured options. An interrupt is a
// normal way to leave a demo.
func run(ctx context.Context, cfg config.Config, model tea.Model) error {
	logger, closer, err := cfg.OpenLogger("teacup")
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := append(cfg.ProgramOptions(), tea.WithContext(ctx), tea.WithLogger(logger))
	p := tea.NewProgram(model, opts...)
	logger.Info("run", "program", p.ID(), "config", fmt.Sprintf("%+v", cfg))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrInterrupted) {
		logger.Error("program failed", "err", err)
		return err
	}
	return nil
}
