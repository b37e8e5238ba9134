package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livedom/internal/config"
	lerrors "github.com/vango-dev/livedom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ┬┬  ┬┌─┐┌┬┐┌─┐┌┬┐
  ║  │└┐┌┘├┤  │││ ││││
  ╩═╝┴ └┘ └─┘─┴┘└─┘┴ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		lerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "livedom",
		Short: "Live DOM pages without a virtual DOM",
		Long: `livedom serves pages whose DOM is owned by the server.

Elements bind reactive values directly to nodes. Client events run
server-side handlers, and the resulting node changes stream back to
the browser as binary patches.

This binary serves, renders and snapshots the bundled todo app.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				lerrors.DisableColors()
			}
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return lerrors.Newf(lerrors.CategoryCLI, "%v", err).
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to livedom.json (default: ./livedom.json if present)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		serveCmd(opts),
		renderCmd(opts),
		snapshotCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration named by --config, or ./livedom.json
// when it exists, and applies environment overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(".")
		if lerrors.Code(err) == "L302" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

var (
	successMark = color.New(color.FgGreen)
	warnMark    = color.New(color.FgYellow)
)

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successMark.Sprint("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnMark.Sprint("⚠"), fmt.Sprintf(format, args...))
}
