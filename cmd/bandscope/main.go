// Command bandscope is a terminal spectrum-band meter driven by the
// default capture device.
//
// Usage:
//
//	bandscope [flags]
//
// Keys:
//
//	space  start/stop capture
//	+/-    adjust sensitivity
//	[/]    adjust smoothing
//	q      quit
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-reactive/analyzer"
	"github.com/cwbudde/algo-reactive/internal/scopeui"
)

var version = "0.1.0"

// CLI defines the command-line interface. Flag values override the
// config file.
type CLI struct {
	Version       bool    `short:"v" help:"Show version information"`
	Config        string  `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Sensitivity   float64 `help:"Gain applied to band values (overrides config)"`
	Smoothing     float64 `default:"-1" help:"EMA smoothing factor in [0,1) (overrides config)"`
	TransformSize int     `name:"fft" help:"Transform size, power of two >= 32 (overrides config)"`
	FPS           int     `help:"Display refresh rate (overrides config)"`
	DebugLog      string  `type:"path" help:"Write debug logs to this file"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("bandscope"),
		kong.Description("Terminal audio band meter"),
		kong.UsageOnError(),
	)

	if cliArgs.Version {
		fmt.Printf("bandscope %s\n", version)
		os.Exit(0)
	}

	setupLogging(cliArgs.DebugLog)

	cfg, err := resolveConfig(cliArgs)
	if err != nil {
		ctx.Errorf("%v", err)
		os.Exit(1)
	}

	if !analyzer.SourceAvailable() {
		fmt.Fprintln(os.Stderr, "bandscope: no capture device available")
		os.Exit(1)
	}

	an := analyzer.New(
		analyzer.WithSensitivity(cfg.Sensitivity),
		analyzer.WithSmoothing(cfg.Smoothing),
		analyzer.WithTransformSize(cfg.TransformSize),
	)
	defer an.Dispose()

	program := tea.NewProgram(scopeui.NewModel(an, cfg.FPS), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "bandscope: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes logrus away from the TUI; stderr output would
// shred the alternate screen.
func setupLogging(path string) {
	logrus.SetOutput(io.Discard)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bandscope: opening debug log: %v\n", err)
		return
	}
	logrus.SetOutput(f)
	logrus.SetLevel(logrus.DebugLevel)
}

func resolveConfig(cliArgs *CLI) (scopeui.Config, error) {
	cfg := scopeui.DefaultConfig()
	if cliArgs.Config != "" {
		loaded, err := scopeui.LoadConfig(cliArgs.Config)
		if err != nil {
			return scopeui.Config{}, err
		}
		cfg = loaded
	}

	if cliArgs.Sensitivity > 0 {
		cfg.Sensitivity = cliArgs.Sensitivity
	}
	if cliArgs.Smoothing >= 0 {
		cfg.Smoothing = cliArgs.Smoothing
	}
	if cliArgs.TransformSize > 0 {
		cfg.TransformSize = cliArgs.TransformSize
	}
	if cliArgs.FPS > 0 {
		cfg.FPS = cliArgs.FPS
	}

	return cfg, nil
}
