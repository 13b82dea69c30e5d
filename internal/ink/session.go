package ink

// Session is the in-progress point sequence of one active pointer.
type Session struct {
	ID         PointerID
	Points     []Point
	Attributes Attributes
}

// Empty reports whether the session holds no points.
func (s Session) Empty() bool {
	return len(s.Points) == 0
}

type sessionSlot struct {
	id     PointerID
	points []Point
	attrs  Attributes
	live   bool
}

// SessionTable maps active pointers to their sessions.
// Sessions live in a slot arena indexed by pointer id; freed slots are
// recycled so begin and end are O(1) amortized. Iteration order is
// unspecified.
//
// SessionTable is not safe for concurrent use.
type SessionTable struct {
	slots []sessionSlot
	index map[PointerID]int
	free  []int
}

// NewSessionTable creates an empty table.
func NewSessionTable() *SessionTable {
	return &SessionTable{index: make(map[PointerID]int)}
}

// Begin creates a session for id seeded with p and the attribute snapshot.
// It returns false and leaves the table unchanged if id is already active.
func (t *SessionTable) Begin(id PointerID, p Point, attrs Attributes) bool {
	if _, ok := t.index[id]; ok {
		return false
	}
	var i int
	if n := len(t.free); n > 0 {
		i = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, sessionSlot{})
		i = len(t.slots) - 1
	}
	s := &t.slots[i]
	s.id = id
	s.points = append(s.points[:0], p)
	s.attrs = attrs
	s.live = true
	t.index[id] = i
	return true
}

// Update appends p to the session of id. Unknown ids are ignored.
func (t *SessionTable) Update(id PointerID, p Point) bool {
	i, ok := t.index[id]
	if !ok {
		return false
	}
	t.slots[i].points = append(t.slots[i].points, p)
	return true
}

// End removes the session of id and returns it. The returned points are
// owned by the caller. An unknown id yields an empty Session.
func (t *SessionTable) End(id PointerID) Session {
	i, ok := t.index[id]
	if !ok {
		return Session{ID: id}
	}
	s := &t.slots[i]
	out := Session{ID: id, Points: s.points, Attributes: s.attrs}
	s.points = nil
	t.release(id, i)
	return out
}

// Cancel drops the session of id without returning its points.
func (t *SessionTable) Cancel(id PointerID) bool {
	i, ok := t.index[id]
	if !ok {
		return false
	}
	t.slots[i].points = t.slots[i].points[:0]
	t.release(id, i)
	return true
}

func (t *SessionTable) release(id PointerID, i int) {
	t.slots[i].live = false
	t.slots[i].attrs = Attributes{}
	delete(t.index, id)
	t.free = append(t.free, i)
}

// Drain ends every active session and returns them.
func (t *SessionTable) Drain() []Session {
	if len(t.index) == 0 {
		return nil
	}
	out := make([]Session, 0, len(t.index))
	for id := range t.index {
		out = append(out, t.End(id))
	}
	return out
}

// Reset drops every session.
func (t *SessionTable) Reset() {
	for id := range t.index {
		t.Cancel(id)
	}
}

// Has reports whether id has an active session.
func (t *SessionTable) Has(id PointerID) bool {
	_, ok := t.index[id]
	return ok
}

// Len returns the number of active sessions.
func (t *SessionTable) Len() int {
	return len(t.index)
}

// Get returns the session of id. The points alias the table's storage and
// must not be retained past the next table mutation.
func (t *SessionTable) Get(id PointerID) (Session, bool) {
	i, ok := t.index[id]
	if !ok {
		return Session{}, false
	}
	s := &t.slots[i]
	return Session{ID: s.id, Points: s.points, Attributes: s.attrs}, true
}

// Each calls fn for every active session. The points passed to fn alias
// the table's storage; fn must not mutate the table.
func (t *SessionTable) Each(fn func(Session)) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		fn(Session{ID: s.id, Points: s.points, Attributes: s.attrs})
	}
}
