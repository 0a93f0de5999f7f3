package pricing

// LineItem is one priced cart line.
type LineItem struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (l LineItem) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Valid reports whether the line can be priced.
func (l LineItem) Valid() bool {
	return l.Quantity >= 1 && l.UnitPrice >= 0
}

// Cart keeps lines in insertion order, one line per item id. Not safe for
// concurrent use.
type Cart struct {
	lines []LineItem
	index map[string]int
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add appends item or, when the id is already in the cart, increases its quantity.
func (c *Cart) Add(item LineItem) {
	if item.Quantity <= 0 {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[item.ItemID]; ok {
		c.lines[i].Quantity += item.Quantity
		return
	}
	c.index[item.ItemID] = len(c.lines)
	c.lines = append(c.lines, item)
}

// SetQuantity sets the quantity of id; zero or less removes the line.
func (c *Cart) SetQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	if i, ok := c.index[id]; ok {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) Remove(id string) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ItemID] = j
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Quantity(id string) int {
	if i, ok := c.index[id]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) Subtotal() float64 {
	return subtotal(c.lines)
}

func subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		if item.Valid() {
			sum += item.Total()
		}
	}
	return sum
}
