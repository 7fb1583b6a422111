package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/v4lgrab/internal/config"
)

// CreateSetCmd creates the set command.
func CreateSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Change picture or window settings",
		Long: `Writes picture fields (brightness, hue, colour, contrast, whiteness, depth, palette) ` +
			`and window fields (x, y, width, height, chromakey, flags, clipcount), then prints what ` +
			`the device reports. Keys may be qualified as picture.<field> or window.<field>.`,
		Example: "  v4lgrab set brightness=40000 palette=rgb565 depth=16 width=320 height=240",
		Args:    cobra.MinimumNArgs(1),
		Run: humacli.WithOptions(func(_ *cobra.Command, args []string, opts *config.Options) {
			logger := initLogging(opts)
			exitOnError(logger, "Set failed", runSet(opts, args, os.Stdout, logger))
		}),
	}
}

func runSet(opts *config.Options, args []string, out io.Writer, logger *slog.Logger) error {
	a, err := config.ParseAssignments(args)
	if err != nil {
		return err
	}

	g, err := openGrabber(opts, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	if len(a.Window) > 0 {
		win, err := g.UpdateWindow(a.ApplyWindow)
		if err != nil {
			return fmt.Errorf("set window: %w", err)
		}
		fmt.Fprintf(out, "Window:  %s\n", win)
	}
	if len(a.Picture) > 0 {
		pic, err := g.UpdatePicture(a.ApplyPicture)
		if err != nil {
			return fmt.Errorf("set picture: %w", err)
		}
		fmt.Fprintf(out, "Picture: %s\n", pic)
	}
	return nil
}
