package graphics

import (
	"fmt"

	"github.com/TFMV/echograph3d/physics"
	"github.com/TFMV/echograph3d/scene"
)

// DisposeOptions selects what Dispose leaves behind. The zero value tears
// everything down.
type DisposeOptions struct {
	// KeepLayout leaves the simulation running so another coordinator can
	// reuse it
	KeepLayout bool
	// KeepSurface leaves the controls and the render surface attached
	KeepSurface bool
	// KeepScene leaves the retained resources of the visual objects alone
	KeepScene bool
}

// Run advances the simulation, calls the frame hook, updates the controls
// and draws one frame, then asks the scheduler to call it again on the next
// refresh. It becomes a no-op once the coordinator is disposed, including
// for a frame that was already queued.
func (c *Coordinator[H]) Run() {
	if c.disposed {
		return
	}
	if c.scheduler != nil {
		c.scheduler.RequestFrame(c.run)
	}

	if !c.stable {
		c.stable = c.layout.Step()
	}
	if !c.callHook() {
		return
	}
	c.controls.Update(1)

	if err := c.draw(); err != nil {
		c.logger.Error("failed to render frame", "error", err)
	}
}

// RenderOneFrame calls the frame hook, copies simulated positions into
// every link proxy then every node proxy, and draws the scene. It does not
// advance the simulation.
func (c *Coordinator[H]) RenderOneFrame() error {
	if c.disposed {
		return ErrDisposed
	}
	if !c.callHook() {
		return ErrDisposed
	}
	return c.draw()
}

// callHook runs the frame hook and reports whether the coordinator is
// still alive afterwards
func (c *Coordinator[H]) callHook() bool {
	if c.beforeFrame != nil {
		c.beforeFrame()
	}
	return !c.disposed
}

func (c *Coordinator[H]) draw() error {
	c.links.forEach(func(_ string, ui *LinkUI[H]) {
		ui.From = c.layout.Position(ui.Link.FromID)
		ui.To = c.layout.Position(ui.Link.ToID)
		c.linkRenderer(ui)
	})
	c.nodes.forEach(func(id string, ui *NodeUI[H]) {
		ui.Pos = c.layout.Position(id)
		c.nodeRenderer(ui)
	})

	if err := c.renderer.Render(c.scene, c.camera); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// ResetStable forces the simulation to resume stepping on the next tick.
// Simulators implementing physics.Reheater are reheated as well.
func (c *Coordinator[H]) ResetStable() {
	c.stable = false
	if r, ok := c.layout.(physics.Reheater); ok && !c.disposed {
		r.Reheat()
	}
}

// Rebuild discards every proxy and creates new ones with the current
// factories. Positions come from the running simulation, which is not
// restarted.
func (c *Coordinator[H]) Rebuild() error {
	if c.disposed {
		return ErrDisposed
	}
	c.detachAll()
	if err := c.populate(); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	c.logger.Debug("graphics rebuilt", "nodes", c.nodes.len(), "links", c.links.len())
	return nil
}

// Dispose stops the coordinator. It unsubscribes from the graph and, unless
// opts says otherwise, disposes the simulation, unmounts the render surface
// and releases the resources of the visual objects. Collaborators passed in
// through Config are never destroyed, but proxies are always removed from a
// borrowed scene. Calling Dispose again does nothing.
func (c *Coordinator[H]) Dispose(opts DisposeOptions) {
	if c.disposed {
		c.logger.Debug("graphics coordinator already disposed")
		return
	}
	c.disposed = true
	c.beforeFrame = nil
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	if !opts.KeepLayout && c.ownsLayout {
		c.layout.Dispose()
	}

	if !opts.KeepSurface {
		if c.ownsControls {
			c.controls.Dispose()
		}
		if c.mounted != nil && c.container != nil {
			c.container.RemoveChild(c.mounted)
			c.mounted = nil
		}
	}

	if !opts.KeepScene {
		if c.ownsScene {
			scene.Release(c.scene)
		} else {
			c.releaseProxies()
		}
	}

	if c.ownsScene {
		c.nodes.clear(nil)
		c.links.clear(nil)
	} else {
		// proxies never stay behind in a borrowed scene
		c.detachAll()
	}

	c.logger.Debug("graphics coordinator disposed",
		"keep_layout", opts.KeepLayout,
		"keep_surface", opts.KeepSurface,
		"keep_scene", opts.KeepScene)
}

// releaseProxies disposes the visual objects created by the factories
func (c *Coordinator[H]) releaseProxies() {
	c.nodes.forEach(func(_ string, ui *NodeUI[H]) {
		release(ui.Handle)
	})
	c.links.forEach(func(_ string, ui *LinkUI[H]) {
		release(ui.Handle)
	})
}

func release(handle any) {
	if d, ok := handle.(scene.Disposer); ok {
		d.Dispose()
	}
}
