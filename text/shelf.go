package text

// ShelfAllocator implements shelf-based rectangle packing.
// Simple and fast algorithm suitable for glyph ranges sorted by height.
//
// The algorithm organizes rectangles in horizontal "shelves".
// Each shelf has a fixed height (determined by the tallest item placed so far).
// New items are placed left-to-right on the current shelf until no space remains,
// then a new shelf is started below.
type ShelfAllocator struct {
	width   int     // Total width of the region
	height  int     // Total height of the region
	padding int     // Padding between glyphs
	shelves []shelf // List of shelves
}

// shelf represents a horizontal strip in the region.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Current X position (next free slot)
}

// NewShelfAllocator creates a new allocator for the given dimensions.
func NewShelfAllocator(width, height, padding int) *ShelfAllocator {
	if padding < 0 {
		padding = 0
	}
	return &ShelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16), // Preallocate for typical use
	}
}

// Allocate finds space for a rectangle of the given size.
// Returns x, y position and true if space was found, or -1, -1, false if not.
//
// The algorithm:
// 1. Try to fit on an existing shelf with enough height
// 2. If no shelf fits, create a new shelf
// 3. If no space for new shelf, allocation fails
func (a *ShelfAllocator) Allocate(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return -1, -1, false
	}

	// Add padding to requested size
	paddedW := w + a.padding
	paddedH := h + a.padding

	// Try to find an existing shelf with enough space and height
	for i := range a.shelves {
		shelf := &a.shelves[i]

		// Check if item fits horizontally
		if shelf.x+paddedW > a.width {
			continue
		}

		// Check if item fits vertically in this shelf
		if h > shelf.height {
			// Item is taller than shelf - check if we can extend the shelf
			// Only possible if this is the last shelf and there's room below
			if i == len(a.shelves)-1 && shelf.y+paddedH <= a.height {
				shelf.height = h
				x, y = shelf.x, shelf.y
				shelf.x += paddedW
				return x, y, true
			}
			continue
		}

		// Item fits on this shelf
		x, y = shelf.x, shelf.y
		shelf.x += paddedW
		return x, y, true
	}

	// No existing shelf works - try to create a new one
	newY := 0
	if len(a.shelves) > 0 {
		last := a.shelves[len(a.shelves)-1]
		newY = last.y + last.height + a.padding
	}

	// Check if new shelf fits
	if paddedW > a.width || newY+paddedH > a.height {
		return -1, -1, false
	}

	a.shelves = append(a.shelves, shelf{
		y:      newY,
		height: h,
		x:      paddedW,
	})

	return 0, newY, true
}
