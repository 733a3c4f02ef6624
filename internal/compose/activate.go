package compose

import (
	"fmt"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// State returns the lifecycle state of c.
func (c *Class) State() types.ClassState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the activation error cached by a failed class, or nil.
func (c *Class) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Activate runs the deferred checks of c and its ancestors. It runs at most
// once; later calls return the cached result. New calls it implicitly.
func (c *Class) Activate() error {
	c.once.Do(func() {
		err := c.runDeferred()

		c.mu.Lock()
		if err != nil {
			c.state = types.StateFailed
			c.err = err
		} else {
			c.state = types.StateActivated
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Warn("class activation failed", "class", c.origin.Name, "err", err)
			return
		}
		c.logger.Debug("activated class", "class", c.origin.Name, "checks", len(c.deferred))
	})
	return c.Err()
}

func (c *Class) runDeferred() error {
	if c.parent != nil {
		if err := c.parent.Activate(); err != nil {
			return err
		}
	}
	for _, chk := range c.deferred {
		if chk.got < chk.want {
			return types.NewCompositionError(chk.name, types.ErrArity,
				fmt.Sprintf("accepts %d, overridden member accepts %d", chk.got, chk.want),
				chk.overrider, chk.overridden)
		}
	}
	return nil
}

// New activates c and returns a new instance. Configured traits receive
// their arguments through __mixin, root class first and in declaration
// order; the constructor chain then runs with args. An abstract class is
// rejected before activation and stays composed.
func (c *Class) New(args ...any) (*Instance, error) {
	if abstract := c.table.Abstract(); len(abstract) > 0 {
		return nil, types.NewCompositionError(abstract[0], types.ErrAbstractInstance,
			fmt.Sprintf("%d abstract members", len(abstract)), c.origin)
	}
	if err := c.Activate(); err != nil {
		return nil, err
	}

	inst := newInstance(c)
	for _, k := range c.lineage() {
		for _, mx := range k.mixins {
			if !mx.configured {
				continue
			}
			entry := []impl{{member: *mx.trait.entry, scope: mx.scope}}
			if _, err := inst.invoke(entry, 0, mx.args); err != nil {
				return nil, fmt.Errorf("configuring trait %s: %w", mx.trait.origin.Name, err)
			}
		}
	}
	if len(c.ctor) > 0 {
		if _, err := inst.invoke(c.ctor, 0, args); err != nil {
			return nil, fmt.Errorf("constructing %s: %w", c.origin.Name, err)
		}
	}
	return inst, nil
}
