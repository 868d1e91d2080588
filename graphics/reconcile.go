package graphics

import (
	"errors"
	"fmt"

	"github.com/TFMV/echograph3d/models"
)

// populate runs the node pass then the link pass over the current graph.
func (c *Coordinator[H]) populate() error {
	var err error
	c.graph.ForEachNode(func(node *models.Node) bool {
		err = c.initNode(node)
		return err == nil
	})
	if err != nil {
		return err
	}
	c.graph.ForEachLink(func(link *models.Link) bool {
		err = c.initLink(link)
		return err == nil
	})
	return err
}

func (c *Coordinator[H]) initNode(node *models.Node) error {
	if _, ok := c.nodes.get(node.ID); ok {
		return nil
	}
	handle, err := c.nodeFactory(node)
	if errors.Is(err, ErrSkip) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create node %q: %w", node.ID, err)
	}

	ui := &NodeUI[H]{
		Handle: handle,
		Node:   node,
		Pos:    c.layout.Position(node.ID),
	}
	c.nodes.insert(node.ID, ui)
	c.scene.Add(handle)
	return nil
}

func (c *Coordinator[H]) initLink(link *models.Link) error {
	if _, ok := c.links.get(link.ID); ok {
		return nil
	}
	handle, err := c.linkFactory(link)
	if errors.Is(err, ErrSkip) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create link %q: %w", link.ID, err)
	}

	ui := &LinkUI[H]{
		Handle: handle,
		Link:   link,
		From:   c.layout.Position(link.FromID),
		To:     c.layout.Position(link.ToID),
	}
	c.links.insert(link.ID, ui)
	c.scene.Add(handle)
	return nil
}

func (c *Coordinator[H]) removeNode(id string) {
	if ui, ok := c.nodes.remove(id); ok {
		c.scene.Remove(ui.Handle)
	}
}

func (c *Coordinator[H]) removeLink(id string) {
	if ui, ok := c.links.remove(id); ok {
		c.scene.Remove(ui.Handle)
	}
}

// onGraphChanged applies a batch of graph changes to the proxy store. A
// failing factory does not stop the batch; every error is returned.
func (c *Coordinator[H]) onGraphChanged(changes []models.Change) error {
	if c.disposed {
		return nil
	}

	var errs []error
	for _, change := range changes {
		switch change.Type {
		case models.ChangeAdd:
			if change.Node != nil {
				if err := c.initNode(change.Node); err != nil {
					errs = append(errs, err)
				}
			}
			if change.Link != nil {
				if err := c.initLink(change.Link); err != nil {
					errs = append(errs, err)
				}
			}
			c.stable = false
		case models.ChangeRemove:
			if change.Node != nil {
				c.removeNode(change.Node.ID)
			}
			if change.Link != nil {
				c.removeLink(change.Link.ID)
			}
			c.stable = false
		}
	}

	if len(errs) > 0 {
		c.logger.Warn("graph change not fully applied", "error", errors.Join(errs...))
	}
	return errors.Join(errs...)
}

// detachAll removes every proxy from the scene and empties both stores.
// Node proxies are cleared through the node store and link proxies through
// the link store.
func (c *Coordinator[H]) detachAll() {
	c.nodes.clear(func(ui *NodeUI[H]) {
		c.scene.Remove(ui.Handle)
	})
	c.links.clear(func(ui *LinkUI[H]) {
		c.scene.Remove(ui.Handle)
	})
}
