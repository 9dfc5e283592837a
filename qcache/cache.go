package qcache

// entry is one cached column, indexed by its current active position.
// Resident entries (data != nil) are linked into the LRU ring; the links
// stay attached to the position while payloads move between positions on
// SwapIndex.
type entry struct {
	prev, next *entry
	pos        int       // the position this node indexes; fixed at init
	data       []float64 // nil when not resident
	filled     int       // length of the valid prefix of data
}

// Cache holds up to a fixed number of kernel-matrix columns of length rows,
// evicting whole columns least-recently-used when the budget is exhausted.
//
// The Hit and Miss counters are observable for logging only; they carry no
// semantics.
type Cache struct {
	rows    int         // column length: one slot per training example
	slots   int         // resident-column budget, >= MinColumns
	unused  int         // slots never yet backed by a buffer
	freeBuf [][]float64 // released buffers available for reuse
	entries []entry     // one per position; intrusive LRU nodes
	lru     entry       // ring sentinel: lru.next is oldest, lru.prev newest

	// Hit counts Fetch calls fully served from a cached prefix;
	// Miss counts calls that had to extend or allocate a column.
	Hit, Miss int64
}

// NewCache builds a cache for columns of length rows under budgetBytes of
// column storage. A non-positive budget falls back to DefaultBudgetMB.
// The slot count is clamped so at least MinColumns columns stay resident.
//
// Errors: ErrInvalidLength when rows <= 0.
//
// Complexity: O(rows) memory for the position index; column buffers are
// allocated lazily on first use.
func NewCache(rows int, budgetBytes int64) (*Cache, error) {
	// 1) Validate shape.
	if rows <= 0 {
		return nil, ErrInvalidLength
	}

	// 2) Resolve the budget into whole-column slots.
	if budgetBytes <= 0 {
		budgetBytes = DefaultBudgetMB << 20
	}
	slots := int(budgetBytes / int64(rows*BytesPerEntry))
	if slots < MinColumns {
		slots = MinColumns
	}
	if slots > rows {
		slots = rows // never more slots than distinct columns
	}

	// 3) Initialize the position index and an empty LRU ring.
	c := &Cache{
		rows:    rows,
		slots:   slots,
		unused:  slots,
		entries: make([]entry, rows),
	}
	c.lru.prev = &c.lru
	c.lru.next = &c.lru
	for i := range c.entries {
		c.entries[i].pos = i
	}

	return c, nil
}

// Rows returns the column length the cache was built for.
func (c *Cache) Rows() int { return c.rows }

// Slots returns the resident-column budget.
func (c *Cache) Slots() int { return c.slots }

// unlink removes e from the LRU ring.
func (c *Cache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
}

// pushBack appends e as the most recently used entry.
func (c *Cache) pushBack(e *entry) {
	e.prev = c.lru.prev
	e.next = &c.lru
	e.prev.next = e
	c.lru.prev = e
}

// release returns e's buffer to the free pool and detaches e from the ring.
func (c *Cache) release(e *entry) {
	c.unlink(e)
	c.freeBuf = append(c.freeBuf, e.data)
	e.data = nil
	e.filled = 0
}

// acquire produces a zero-filled-prefix buffer for a new resident column,
// evicting the least recently used column when the budget is exhausted.
func (c *Cache) acquire() []float64 {
	// Reuse a released buffer first.
	if n := len(c.freeBuf); n > 0 {
		buf := c.freeBuf[n-1]
		c.freeBuf = c.freeBuf[:n-1]

		return buf
	}
	// Then spend a never-used slot.
	if c.unused > 0 {
		c.unused--

		return make([]float64, c.rows)
	}
	// Budget exhausted: evict the oldest resident column.
	victim := c.lru.next
	c.unlink(victim)
	buf := victim.data
	victim.data = nil
	victim.filled = 0

	return buf
}

// Fetch returns the buffer for column i together with the length of its
// already-valid prefix. The caller must fill buf[start:want] before the next
// cache call; Fetch records the column as filled to want.
//
// The returned buffer is owned by the cache and stable only until a call
// that mutates the cache; the two most recently fetched columns are
// guaranteed to stay resident (MinColumns).
//
// Complexity: O(1) amortized.
func (c *Cache) Fetch(i, want int) (buf []float64, start int) {
	e := &c.entries[i]

	// 1) Count the access before any mutation.
	if e.data != nil && e.filled >= want {
		c.Hit++
	} else {
		c.Miss++
	}

	// 2) Make the column resident, temporarily outside the ring so it can
	//    never evict itself.
	if e.data != nil {
		c.unlink(e)
	} else {
		e.data = c.acquire()
		e.filled = 0
	}

	// 3) Record the prefix the caller will extend.
	start = e.filled
	if want > e.filled {
		e.filled = want
	}

	// 4) Mark most recently used.
	c.pushBack(e)

	return e.data, start
}

// SwapIndex exchanges the roles of positions i and j: the cached columns at
// i and j trade places, and every resident column swaps its row entries at
// i and j. A column whose valid prefix covers only the smaller of the two
// rows is truncated to that prefix, since the larger row's value is unknown.
//
// Complexity: O(resident columns).
func (c *Cache) SwapIndex(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}

	// 1) Trade column payloads. Ring membership must track residency, so
	//    both nodes leave the ring around the swap and re-enter if they
	//    carry a column afterwards.
	ei, ej := &c.entries[i], &c.entries[j]
	if ei.data != nil {
		c.unlink(ei)
	}
	if ej.data != nil {
		c.unlink(ej)
	}
	ei.data, ej.data = ej.data, ei.data
	ei.filled, ej.filled = ej.filled, ei.filled
	if ei.data != nil {
		c.pushBack(ei)
	}
	if ej.data != nil {
		c.pushBack(ej)
	}

	// 2) Swap rows i and j inside every resident column.
	for e := c.lru.next; e != &c.lru; e = e.next {
		switch {
		case e.filled > j:
			e.data[i], e.data[j] = e.data[j], e.data[i]
		case e.filled > i:
			// Row j is beyond the valid prefix: the swapped value is
			// unknown, so the prefix shrinks to exclude row i.
			e.filled = i
		}
	}
}

// Update informs the cache that positions >= newActive no longer need to be
// maintained. Columns living at out-of-window positions are dropped and
// their buffers recycled.
//
// Complexity: O(resident columns).
func (c *Cache) Update(newActive int) {
	for e := c.lru.next; e != &c.lru; {
		next := e.next
		if e.pos >= newActive {
			c.release(e)
		}
		e = next
	}
}

// Rebuild discards every cached column, keeping the hit/miss counters.
// Used when the active set expands again after a reactivation pass.
//
// Complexity: O(resident columns).
func (c *Cache) Rebuild() {
	for e := c.lru.next; e != &c.lru; {
		next := e.next
		c.release(e)
		e = next
	}
}
