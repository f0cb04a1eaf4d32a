package blend

import "sqshade/pkg/colors"

// styleKey identifies a computed substitute. background is empty for
// fill and stroke paints and holds the sampled pixel's hex for text.
type styleKey struct {
	color      string
	background string
}

// styleCache memoizes substitutes for the lifetime of one Blender.
type styleCache struct {
	entries map[styleKey]colors.Color
	hits    int
	misses  int
}

func newStyleCache() *styleCache {
	return &styleCache{entries: map[styleKey]colors.Color{}}
}

func (c *styleCache) get(key styleKey, compute func() colors.Color) colors.Color {
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := compute()
	c.entries[key] = v
	return v
}

func (c *styleCache) clear() {
	clear(c.entries)
	c.hits, c.misses = 0, 0
}

// CacheStats reports style cache usage.
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}

func (c *styleCache) stats() CacheStats {
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
