package Trees

import "golang.org/x/exp/constraints"

// base holds the node arena shared by the tree variants in this package.
// ns[0] is the zero-value external sentinel described in node; all indexes
// are based on ns. free is the head of the linked list containing all the
// recycled slots, chained through node.l. min and max cache the indexes of
// the current extreme keys and are 0 iff the tree is empty.
// Children are owned by their parent; node.p is a plain back index used only
// for walking upward and must be kept in lock step with every relink.
type base[S constraints.Unsigned] struct {
	ns         []node[S]
	root, free S
	min, max   S
}

// addFree recycles slot a. The slot is zeroed so the value string is released.
func (u *base[S]) addFree(a S) {
	u.ns[a] = node[S]{l: u.free}
	u.free = a
}

// popFree returns a recycled slot, or 0 when there's none.
func (u *base[S]) popFree() S {
	b := u.free
	u.free = u.ns[u.free].l
	return b
}

// alloc returns the index of a fresh leaf, reusing recycled slots before
// growing the arena.
func (u *base[S]) alloc(k int, v string, p S) S {
	if i := u.popFree(); i != 0 {
		u.ns[i] = node[S]{k: k, v: v, p: p, ld: 1, rd: 1, sz: 1}
		return i
	}
	u.ns = append(u.ns, node[S]{k: k, v: v, p: p, ld: 1, rd: 1, sz: 1})
	return S(len(u.ns) - 1)
}

// rotateUp promotes ci above its parent: the grandparent slot (or root) is
// reseated to ci, the displaced inner subtree moves to the parent's vacated
// side, and both back references are fixed. Only the two rotated nodes get
// their sizes recomputed; the caller sets the rank diffs before rotating and
// refreshes the sizes further up afterwards.
func (u *base[S]) rotateUp(ci S) {
	pi := u.ns[ci].p
	gi := u.ns[pi].p
	u.ns[ci].p = gi
	if gi == 0 {
		u.root = ci
	} else if u.ns[gi].l == pi {
		u.ns[gi].l = ci
	} else {
		u.ns[gi].r = ci
	}
	u.ns[pi].p = ci
	if u.ns[pi].l == ci {
		t := u.ns[ci].r
		if u.ns[pi].l = t; t != 0 {
			u.ns[t].p = pi
		}
		u.ns[ci].r = pi
	} else {
		t := u.ns[ci].l
		if u.ns[pi].r = t; t != 0 {
			u.ns[t].p = pi
		}
		u.ns[ci].l = pi
	}
	u.refreshSize(pi)
	u.refreshSize(ci)
}

func (u *base[S]) refreshSize(i S) {
	n := &u.ns[i]
	n.sz = u.ns[n.l].sz + u.ns[n.r].sz + 1
}

// refreshBranch recomputes the cached sizes from i up to the root. Walking
// bottom-up means every recomputation only reads already correct children.
func (u *base[S]) refreshBranch(i S) {
	for ; i != 0; i = u.ns[i].p {
		u.refreshSize(i)
	}
}

// InOrder [Map.InOrder]. Stack based iterative traversal; the returned buffer
// holds at most the height of the tree.
func (u *base[S]) InOrder(f func(k int, v *string) bool, st []S) []S {
	curI := u.root
	for st = st[:0]; curI != 0; curI = u.ns[curI].l {
		st = append(st, curI)
	}
	for len(st) > 0 {
		curI, st = st[len(st)-1], st[:len(st)-1]
		if !f(u.ns[curI].k, &u.ns[curI].v) {
			break
		}
		for curI = u.ns[curI].r; curI != 0; curI = u.ns[curI].l {
			st = append(st, curI)
		}
	}
	return st
}

// Size [Map.Size].
// Time: O(1)
func (u *base[S]) Size() uint {
	return uint(u.ns[u.root].sz)
}

// Empty [Map.Empty].
func (u *base[S]) Empty() bool {
	return u.root == 0
}

// Clear [Map.Clear]. Doesn't allocate or release the underlying array.
func (u *base[S]) Clear() {
	u.ns = u.ns[:1]
	u.ns[0] = node[S]{}
	u.root, u.free, u.min, u.max = 0, 0, 0, 0
}
