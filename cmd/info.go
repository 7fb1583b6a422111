package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/v4lgrab/internal/config"
)

// CreateInfoCmd creates the info command.
func CreateInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show device capabilities and current settings",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *config.Options) {
			logger := initLogging(opts)
			exitOnError(logger, "Info failed", runInfo(opts, os.Stdout, logger))
		}),
	}
}

func runInfo(opts *config.Options, out io.Writer, logger *slog.Logger) error {
	g, err := openGrabber(opts, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	win, err := g.Window()
	if err != nil {
		return fmt.Errorf("query window: %w", err)
	}
	pic, err := g.Picture()
	if err != nil {
		return fmt.Errorf("query picture: %w", err)
	}

	caps := g.Capabilities()
	features := make([]string, 0)
	for _, f := range caps.Features() {
		features = append(features, f.String())
	}

	fmt.Fprintf(out, "Device:     %s\n", g.Path())
	fmt.Fprintf(out, "Capability: %s\n", caps)
	fmt.Fprintf(out, "Features:   %s\n", strings.Join(features, ", "))
	fmt.Fprintf(out, "Window:     %s\n", win)
	fmt.Fprintf(out, "Picture:    %s\n", pic)
	return nil
}
