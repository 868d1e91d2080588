// Package graphics keeps the visual representation of a mutable graph in
// sync with a running layout simulation and a frame-driven render loop.
//
// A Coordinator owns one visual proxy per visible node and link. It builds
// proxies for the graph's current content, follows the graph's change
// stream to add and remove proxies incrementally, advances the layout until
// it converges, and copies simulated positions into the proxies before each
// frame is drawn.
//
// The coordinator is single-threaded: Run, RenderOneFrame, graph mutations
// and Dispose must all happen on the goroutine that drives the frames.
package graphics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/TFMV/echograph3d/controls"
	"github.com/TFMV/echograph3d/physics"
	"github.com/TFMV/echograph3d/render"
	"github.com/TFMV/echograph3d/scene"
)

var (
	// ErrDisposed is returned by operations invoked after Dispose
	ErrDisposed = errors.New("graphics: coordinator disposed")
	// ErrNoRenderer is returned when no renderer is supplied and none can be built
	ErrNoRenderer = errors.New("graphics: no renderer")
	// ErrNoFactory is returned when a factory or renderer adapter is missing
	ErrNoFactory = errors.New("graphics: missing factory")
)

// Default terminal size used when no container is supplied
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Graph is the container the coordinator follows
type Graph = physics.Source

// Scheduler runs a callback on the next display refresh
type Scheduler interface {
	RequestFrame(fn func())
}

// Config configures a Coordinator. Every collaborator that is set replaces
// the corresponding default and is never destroyed by Dispose.
type Config[H comparable] struct {
	// Interactive enables fly controls on the camera
	Interactive bool

	// Layout is a pre-built simulation; Physics tunes the default one
	Layout  physics.Simulator
	Physics physics.Settings

	Renderer  render.Renderer[H]
	Camera    *scene.Camera
	Scene     scene.Container[H]
	Container render.Host
	Scheduler Scheduler

	NodeFactory  NodeFactory[H]
	LinkFactory  LinkFactory[H]
	NodeRenderer NodeRenderer[H]
	LinkRenderer LinkRenderer[H]

	Logger *slog.Logger
}

// Coordinator binds a graph, a layout simulation and a renderer.
type Coordinator[H comparable] struct {
	graph     Graph
	layout    physics.Simulator
	renderer  render.Renderer[H]
	camera    *scene.Camera
	scene     scene.Container[H]
	container render.Host
	controls  controls.Controls
	scheduler Scheduler
	logger    *slog.Logger

	// owned collaborators were built by the coordinator and die with it
	ownsLayout   bool
	ownsScene    bool
	ownsControls bool
	mounted      *render.Canvas

	nodeFactory  NodeFactory[H]
	linkFactory  LinkFactory[H]
	nodeRenderer NodeRenderer[H]
	linkRenderer LinkRenderer[H]
	beforeFrame  func()

	nodes *store[*NodeUI[H]]
	links *store[*LinkUI[H]]

	stable      bool
	disposed    bool
	unsubscribe func()
	run         func()
}

// New creates a coordinator drawing cubes and lines with the bundled
// renderers. Missing factories, adapters and the renderer take their
// defaults; without a container the output goes to a headless terminal.
func New(g Graph, cfg Config[scene.Object]) (*Coordinator[scene.Object], error) {
	if cfg.NodeFactory == nil {
		cfg.NodeFactory = DefaultNodeFactory
	}
	if cfg.LinkFactory == nil {
		cfg.LinkFactory = DefaultLinkFactory
	}
	if cfg.NodeRenderer == nil {
		cfg.NodeRenderer = DefaultNodeRenderer
	}
	if cfg.LinkRenderer == nil {
		cfg.LinkRenderer = DefaultLinkRenderer
	}
	return newCoordinator(g, cfg, func(width, height int) render.Renderer[scene.Object] {
		return render.NewASCIIRenderer(width, height)
	})
}

// NewWith creates a coordinator for a custom visual object type. The
// factories, adapters and renderer must be supplied.
func NewWith[H comparable](g Graph, cfg Config[H]) (*Coordinator[H], error) {
	return newCoordinator(g, cfg, nil)
}

func newCoordinator[H comparable](g Graph, cfg Config[H], makeRenderer func(width, height int) render.Renderer[H]) (*Coordinator[H], error) {
	if cfg.NodeFactory == nil || cfg.LinkFactory == nil || cfg.NodeRenderer == nil || cfg.LinkRenderer == nil {
		return nil, ErrNoFactory
	}
	if cfg.Renderer == nil && makeRenderer == nil {
		return nil, ErrNoRenderer
	}

	c := &Coordinator[H]{
		graph:        g,
		scheduler:    cfg.Scheduler,
		logger:       cfg.Logger,
		nodeFactory:  cfg.NodeFactory,
		linkFactory:  cfg.LinkFactory,
		nodeRenderer: cfg.NodeRenderer,
		linkRenderer: cfg.LinkRenderer,
		nodes:        newStore[*NodeUI[H]](),
		links:        newStore[*LinkUI[H]](),
	}
	c.run = c.Run
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.layout = cfg.Layout
	if c.layout == nil {
		layout, err := physics.NewForceLayout(g, cfg.Physics)
		if err != nil {
			return nil, fmt.Errorf("failed to create layout: %w", err)
		}
		c.layout = layout
		c.ownsLayout = true
	}

	width, height := defaultWidth, defaultHeight
	c.container = cfg.Container
	if c.container != nil {
		width, height = c.container.Size()
	}

	c.renderer = cfg.Renderer
	if c.renderer == nil {
		if c.container == nil {
			c.container = render.NewTerminal(io.Discard, defaultWidth, defaultHeight)
		}
		c.renderer = makeRenderer(width, height)
		if surface, ok := c.renderer.(render.Surface); ok {
			surface.SetSize(width, height)
			c.container.AppendChild(surface.Canvas())
			c.mounted = surface.Canvas()
		}
	}

	c.camera = cfg.Camera
	if c.camera == nil {
		c.camera = scene.DefaultCamera(width, height)
	}

	c.scene = cfg.Scene
	if c.scene == nil {
		c.scene = scene.New[H]()
		c.ownsScene = true
	}

	c.controls = controls.Noop{}
	if cfg.Interactive {
		c.controls = controls.NewFly(c.camera)
		c.ownsControls = true
	}

	if err := c.initialize(); err != nil {
		c.releaseProxies()
		c.detachAll()
		c.Dispose(DisposeOptions{KeepScene: true})
		return nil, err
	}

	c.logger.Debug("graphics coordinator created",
		"nodes", c.nodes.len(),
		"links", c.links.len(),
		"interactive", cfg.Interactive,
		"owns_layout", c.ownsLayout)
	return c, nil
}

// initialize builds proxies for the current graph and follows its changes
func (c *Coordinator[H]) initialize() error {
	if err := c.populate(); err != nil {
		return err
	}
	c.unsubscribe = c.graph.On(c.onGraphChanged)
	return nil
}

// Renderer returns the renderer
func (c *Coordinator[H]) Renderer() render.Renderer[H] { return c.renderer }

// Camera returns the camera
func (c *Coordinator[H]) Camera() *scene.Camera { return c.camera }

// Scene returns the scene the proxies live in
func (c *Coordinator[H]) Scene() scene.Container[H] { return c.scene }

// Layout returns the simulation driver
func (c *Coordinator[H]) Layout() physics.Simulator { return c.layout }

// Controls returns the navigation controls
func (c *Coordinator[H]) Controls() controls.Controls { return c.controls }

// Container returns the host the renderer surface is mounted on, if any
func (c *Coordinator[H]) Container() render.Host { return c.container }

// IsStable reports whether the layout has converged since the last change
func (c *Coordinator[H]) IsStable() bool { return c.stable }

// IsDisposed reports whether Dispose has been called
func (c *Coordinator[H]) IsDisposed() bool { return c.disposed }

// NodeUI returns the proxy of a node, if it has one
func (c *Coordinator[H]) NodeUI(id string) (*NodeUI[H], bool) {
	return c.nodes.get(id)
}

// LinkUI returns the proxy of a link, if it has one
func (c *Coordinator[H]) LinkUI(id string) (*LinkUI[H], bool) {
	return c.links.get(id)
}

// OnFrame sets a hook called before every frame is drawn. nil removes it.
func (c *Coordinator[H]) OnFrame(hook func()) *Coordinator[H] {
	c.beforeFrame = hook
	return c
}

// CreateNodeUI replaces the node factory and rebuilds every proxy.
func (c *Coordinator[H]) CreateNodeUI(factory NodeFactory[H]) error {
	if c.disposed {
		return ErrDisposed
	}
	if factory == nil {
		return ErrNoFactory
	}
	c.nodeFactory = factory
	return c.Rebuild()
}

// CreateLinkUI replaces the link factory and rebuilds every proxy.
func (c *Coordinator[H]) CreateLinkUI(factory LinkFactory[H]) error {
	if c.disposed {
		return ErrDisposed
	}
	if factory == nil {
		return ErrNoFactory
	}
	c.linkFactory = factory
	return c.Rebuild()
}

// RenderNode replaces the node renderer adapter. nil is ignored.
func (c *Coordinator[H]) RenderNode(adapter NodeRenderer[H]) *Coordinator[H] {
	if adapter != nil {
		c.nodeRenderer = adapter
	}
	return c
}

// RenderLink replaces the link renderer adapter. nil is ignored.
func (c *Coordinator[H]) RenderLink(adapter LinkRenderer[H]) *Coordinator[H] {
	if adapter != nil {
		c.linkRenderer = adapter
	}
	return c
}
