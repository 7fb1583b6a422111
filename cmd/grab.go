package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/pkg/ppm"
)

// CreateGrabCmd creates the grab command.
func CreateGrabCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "grab",
		Short: "Capture one frame as a P6 PPM image",
		Long: `Sets the capture size and pixel format from the capture options, reads one frame ` +
			`and writes it as a binary PPM. With --capture-depth 0 the device is asked for ` +
			`rgb24, rgb565 and rgb555 in turn.`,
		Args: cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *config.Options) {
			logger := initLogging(opts)
			exitOnError(logger, "Grab failed", runGrab(opts, output, os.Stdout, logger))
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

func runGrab(opts *config.Options, output string, stdout io.Writer, logger *slog.Logger) error {
	width, height, depth, err := opts.CaptureMode()
	if err != nil {
		return err
	}

	g, err := openGrabber(opts, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	win, pic, err := g.Prepare(width, height, depth, opts.CapturePalette)
	if err != nil {
		return fmt.Errorf("set capture mode: %w", err)
	}
	logger.Info("Capture mode", "window", win.String(), "picture", pic.String())

	frame, err := g.Capture()
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	rgb, err := frame.RGB24()
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		return ppm.Encode(stdout, int(frame.Width), int(frame.Height), rgb)
	}

	if err := writePPM(output, int(frame.Width), int(frame.Height), rgb); err != nil {
		return err
	}
	logger.Info("Wrote frame", "path", output, "width", frame.Width, "height", frame.Height)
	return nil
}

// writePPM writes a P6 file at path. A partly written file is removed.
func writePPM(path string, width, height int, rgb []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = ppm.Encode(f, width, height, rgb)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
