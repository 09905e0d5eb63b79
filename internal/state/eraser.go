package state

// erase removes every committed item the eraser at p reaches.
func (c *Canvas) erase(p Point) {
	if len(c.committed) == 0 {
		return
	}
	var removed []Item
	kept := c.committed[:0]
	for _, it := range c.committed {
		if it.Near(p, c.eraserRadius) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	if len(removed) == 0 {
		return
	}
	for i := len(kept); i < len(c.committed); i++ {
		c.committed[i] = nil
	}
	c.committed = kept

	for _, it := range removed {
		logger().Debug("item erased", "id", it.ItemID())
		c.emit(Op{Type: OpDelete, Target: it.ItemID()})
	}
	c.notify()
}
