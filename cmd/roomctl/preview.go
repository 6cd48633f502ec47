package main

import (
	"github.com/spf13/cobra"

	"github.com/roomcraft/roomcraft/backend-go/internal/preview"
)

var (
	previewOut  string
	previewSize int
	previewGrid bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [design.json]",
	Short: "Render the floor plan as a PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "output", "o", "plan.png", "output file, - for stdout")
	previewCmd.Flags().IntVar(&previewSize, "size", 0, "image side in pixels (default PREVIEW_SIZE)")
	previewCmd.Flags().BoolVar(&previewGrid, "grid", true, "draw the one-meter grid")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	e, err := loadDesign(args[0])
	if err != nil {
		return err
	}
	_, cfg, err := newEngine()
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	if cfg.PreviewSize > 0 {
		opts.Size = cfg.PreviewSize
	}
	if previewSize > 0 {
		opts.Size = previewSize
	}
	opts.GridEnabled = previewGrid

	png, err := preview.RenderGraph(e.Graph(), opts)
	if err != nil {
		return err
	}
	f, closeFn, err := output(previewOut)
	if err != nil {
		return err
	}
	if _, err := f.Write(png); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
