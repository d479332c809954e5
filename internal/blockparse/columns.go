package blockparse

// ColumnOrder is an insertion ordered set of column names.
// Once a name is added it keeps its position for the lifetime of the value.
type ColumnOrder struct {
	keys []string
	seen map[string]struct{}
}

// NewColumnOrder returns an empty ColumnOrder.
func NewColumnOrder() *ColumnOrder {
	return &ColumnOrder{seen: make(map[string]struct{})}
}

// Add appends key if it has not been seen yet and reports whether it was added.
func (c *ColumnOrder) Add(key string) bool {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	c.keys = append(c.keys, key)
	return true
}

// Contains reports whether key has been added.
func (c *ColumnOrder) Contains(key string) bool {
	_, ok := c.seen[key]
	return ok
}

// Keys returns a copy of the columns in first-seen order.
func (c *ColumnOrder) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of columns.
func (c *ColumnOrder) Len() int {
	return len(c.keys)
}
