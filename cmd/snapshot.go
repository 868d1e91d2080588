package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/echograph3d/graphics"
	"github.com/TFMV/echograph3d/render"
	"github.com/TFMV/echograph3d/scene"
)

func snapshotCmd() *cobra.Command {
	var (
		input     string
		format    string
		output    string
		steps     int
		width     int
		height    int
		timestamp bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Settle a graph layout and write it as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("steps") {
				steps = cfg.Loop.SettleFrames
			}

			g, err := loadGraph(cfg, input, format)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			pal := palette(cfg.Render.Palette)
			svg := render.NewSVGRenderer(f, float64(width), float64(height))
			svg.Background = pal.Background
			svg.Timestamp = timestamp

			nodeFactory, linkFactory := styledFactories(pal)
			coord, err := graphics.New(g, graphics.Config[scene.Object]{
				Physics:     cfg.Physics,
				Renderer:    svg,
				Camera:      scene.DefaultCamera(width, height),
				NodeFactory: nodeFactory,
				LinkFactory: linkFactory,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			defer coord.Dispose(graphics.DisposeOptions{})

			taken := 0
			for taken < steps {
				taken++
				if coord.Layout().Step() {
					break
				}
			}
			logger.Debug("layout settled", "steps", taken)

			fitCamera(coord.Camera(), g, coord.Layout())
			if err := coord.RenderOneFrame(); err != nil {
				return err
			}

			Good.Printf("  wrote %s", output)
			Subtle.Printf("  %d nodes, %d links, %d steps\n", g.NodeCount(), g.LinkCount(), taken)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Graph file (.json, .csv, .log)")
	cmd.Flags().StringVar(&format, "format", "", "Input format, defaults to the file extension")
	cmd.Flags().StringVarP(&output, "output", "o", "output.svg", "Path to output file")
	cmd.Flags().IntVar(&steps, "steps", 1000, "Maximum simulation steps before rendering")
	cmd.Flags().IntVar(&width, "width", 800, "Width of the image")
	cmd.Flags().IntVar(&height, "height", 600, "Height of the image")
	cmd.Flags().BoolVar(&timestamp, "timestamp", false, "Include timestamp in the image")

	return cmd
}
