package app

// Carousel is a wraparound index into an ordered picture list. An empty list behaves as a
// list of one, so the index stays at zero.
type Carousel struct {
	index  int
	length int
}

func NewCarousel(length int) Carousel {
	return Carousel{length: length}
}

func (c *Carousel) modulus() int {
	if c.length <= 0 {
		return 1
	}
	return c.length
}

func (c *Carousel) Next() int {
	c.index = (c.index + 1) % c.modulus()
	return c.index
}

func (c *Carousel) Prev() int {
	n := c.modulus()
	c.index = (c.index - 1 + n) % n
	return c.index
}

func (c *Carousel) Index() int {
	return c.index
}

func (c *Carousel) Len() int {
	return c.length
}

// Reset points the carousel at a new list, back at its first picture.
func (c *Carousel) Reset(length int) {
	c.index = 0
	c.length = length
}

// Current returns the picture at the index, ok=false for an empty list.
func (c *Carousel) Current(pictures []string) (string, bool) {
	if c.index < 0 || c.index >= len(pictures) {
		return "", false
	}
	return pictures[c.index], true
}

// Seek moves to index i, taken modulo the list length.
func (c *Carousel) Seek(i int) int {
	n := c.modulus()
	c.index = ((i % n) + n) % n
	return c.index
}
