// Package tabs is the selection state machine behind a project page's tab
// strip: a fixed set of named panels with at most one active at a time.
package tabs

import (
	"errors"
	"fmt"
)

// ErrUnknownPanel is returned when selecting a panel that does not exist or
// was removed.
var ErrUnknownPanel = errors.New("unknown panel")

// Controller tracks which panel is active.
type Controller struct {
	panels []string
	active string
}

// New returns a controller over panels. active is the panel carrying the
// active marker in the initial render; it may be empty, and is ignored when
// it does not name one of panels.
func New(panels []string, active string) *Controller {
	c := &Controller{panels: append([]string(nil), panels...)}
	if c.has(active) {
		c.active = active
	}
	return c
}

// Panels returns the remaining panels in order.
func (c *Controller) Panels() []string {
	return append([]string(nil), c.panels...)
}

// Active returns the active panel, or "" when none is active.
func (c *Controller) Active() string {
	return c.active
}

// IsActive reports whether name is the active panel.
func (c *Controller) IsActive(name string) bool {
	return name != "" && c.active == name
}

// Remove drops a panel permanently. Removing the active panel leaves the
// controller with no active panel.
func (c *Controller) Remove(name string) {
	for i, p := range c.panels {
		if p == name {
			c.panels = append(c.panels[:i], c.panels[i+1:]...)
			break
		}
	}
	if c.active == name {
		c.active = ""
	}
}

// Select deactivates every panel and activates name.
func (c *Controller) Select(name string) error {
	if !c.has(name) {
		return fmt.Errorf("select %q: %w", name, ErrUnknownPanel)
	}
	c.active = name
	return nil
}

func (c *Controller) has(name string) bool {
	if name == "" {
		return false
	}
	for _, p := range c.panels {
		if p == name {
			return true
		}
	}
	return false
}
