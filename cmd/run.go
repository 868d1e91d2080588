package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/echograph3d/generate"
	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/graphics"
	"github.com/TFMV/echograph3d/loop"
	"github.com/TFMV/echograph3d/render"
	"github.com/TFMV/echograph3d/scene"
	"github.com/TFMV/echograph3d/server"
)

func runCmd() *cobra.Command {
	var (
		input   string
		format  string
		frames  int
		animate bool
		listen  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate a graph layout in the terminal",
		Long: `Lay out a graph and draw it in the terminal until interrupted.

  echograph3d run                          # 10x10 grid
  echograph3d run --input graph.json       # parsed graph
  echograph3d run --animate                # add and remove nodes over time
  echograph3d run --listen :8080           # also serve /api/graph and /snapshot.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("animate") {
				cfg.Animate.Enabled = animate
			}
			if noColor {
				cfg.Render.Color = false
			}

			g, err := loadGraph(cfg, input, format)
			if err != nil {
				return err
			}
			interval, err := time.ParseDuration(cfg.Animate.Interval)
			if err != nil {
				return fmt.Errorf("invalid animate interval: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			terminal := render.NewTerminal(os.Stdout, cfg.Render.Width, cfg.Render.Height)
			terminal.ANSI = cfg.Render.Color
			lp := loop.New(cfg.Loop.FPS)

			nodeFactory, linkFactory := styledFactories(palette(cfg.Render.Palette))
			coord, err := graphics.New(g, graphics.Config[scene.Object]{
				Interactive: cfg.Render.Interactive,
				Physics:     cfg.Physics,
				Container:   terminal,
				Scheduler:   lp,
				NodeFactory: nodeFactory,
				LinkFactory: linkFactory,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			defer coord.Dispose(graphics.DisposeOptions{})

			watch := &frameWatch{
				coord:   coord,
				graph:   g,
				limit:   frames,
				autoFit: !cfg.Render.Interactive,
				done:    cancel,
			}
			coord.OnFrame(watch.onFrame)
			if cfg.Render.Color {
				fmt.Print("\x1b[2J")
			}
			if err := lp.Post(ctx, coord.Run); err != nil {
				return err
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return lp.Run(ctx)
			})
			if cfg.Animate.Enabled {
				animator := generate.NewAnimator(g, generate.AnimatorOptions{
					MaxNodes: cfg.Animate.MaxNodes,
					Seed:     cfg.Animate.Seed,
					Logger:   logger,
				})
				eg.Go(func() error {
					return animator.Run(ctx, lp, interval)
				})
			}
			if listen != "" {
				srv := server.New(server.Config{
					Addr:   listen,
					Poster: lp,
					Graph:  g,
					Layout: coord.Layout(),
					Scene:  coord.Scene(),
					Camera: coord.Camera(),
					Wake:   coord.ResetStable,
					Logger: logger,
				})
				eg.Go(func() error {
					return srv.ListenAndServe(ctx)
				})
			}

			err = eg.Wait()
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, loop.ErrStopped) {
				Bad.Fprintf(os.Stderr, "echograph3d: %v\n", err)
				return err
			}

			fmt.Println()
			Good.Printf("  %d frames", watch.frames)
			Subtle.Printf("  %d nodes, %d links, stable=%t\n", g.NodeCount(), g.LinkCount(), coord.IsStable())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Graph file (.json, .csv, .log)")
	cmd.Flags().StringVar(&format, "format", "", "Input format, defaults to the file extension")
	cmd.Flags().IntVar(&frames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
	cmd.Flags().BoolVar(&animate, "animate", false, "Add and remove nodes while running")
	cmd.Flags().StringVar(&listen, "listen", "", "Serve the live graph over HTTP on this address")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Plain output without ANSI escapes")

	return cmd
}

// frameWatch counts rendered frames, keeps the graph in view while it
// settles and calls done once limit frames are drawn. Interactive sessions
// leave the camera to the controls.
type frameWatch struct {
	coord   *graphics.Coordinator[scene.Object]
	graph   *graph.Graph
	limit   int
	autoFit bool
	done    func()
	frames  int
}

func (w *frameWatch) onFrame() {
	w.frames++
	if w.autoFit && !w.coord.IsStable() {
		fitCamera(w.coord.Camera(), w.graph, w.coord.Layout())
	}
	if w.limit > 0 && w.frames >= w.limit {
		w.done()
	}
}
