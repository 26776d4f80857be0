package Trees

import (
	"golang.org/x/exp/constraints"
)

// WAVL is a rank-balanced binary search tree with no repeated keys. Every
// node stores the rank difference to each child and the tree keeps both
// differences in {1,2} (Haupler, Sen & Tarjan '15): weaker than AVL's rule,
// which makes insertion rebalancing cheaper, while the worst case height D
// stays below 1.45*log2(n+1.5), so D is O(log n).
// Nodes live in a growable arena indexed by S and recycled through a free
// list; parents are plain back indexes, so upward rebalancing never needs a
// search. Each node also caches its subtree size, giving O(D) order
// statistics, and the extreme keys are cached for O(1) Minimum/Maximum.
// Note that due to the way uint works in Go, and that the Map interface
// defines the return value of some functions to be uint, S shouldn't be any
// type that will cause overflow when converted to uint. Generally, you should
// let S be a wide upperbound for the size of the tree.
// This struct shouldn't be created directly using struct literal; use New or
// From.
type WAVL[S constraints.Unsigned] struct {
	base[S]
}

var _ Map[uint] = (*WAVL[uint])(nil)

// New returns an empty WAVL tree whose arena can hold hint entries before
// growing.
func New[S constraints.Unsigned](hint S) *WAVL[S] {
	return &WAVL[S]{base[S]{ns: make([]node[S], 1, hint+1)}}
}

// From builds a WAVL tree from the given keys and parallel values directly.
// This is faster than repeatedly calling Insert. keys must be sorted in
// ascending order without duplicates and len(values) must equal len(keys).
// If safe==true, the key order is checked and From panics with
// InvalidSliceError when it's broken; otherwise the check is skipped and a
// bad slice corrupts the tree. Ranks are assigned from subtree heights, so
// the mid-split shape always satisfies the diff conditions.
// Time: O(n).
func From[S constraints.Unsigned](keys []int, values []string, safe bool) *WAVL[S] {
	if safe {
		for i := 1; i < len(keys); i++ {
			if keys[i-1] >= keys[i] {
				panic(InvalidSliceError{keys[i-1], keys[i]})
			}
		}
	}
	u := &WAVL[S]{base[S]{ns: make([]node[S], 1, len(keys)+1)}}
	var build func(lo, hi int, p S) (S, int8)
	build = func(lo, hi int, p S) (S, int8) {
		if lo >= hi {
			return 0, -1
		}
		mid := (lo + hi) >> 1
		i := S(len(u.ns))
		u.ns = append(u.ns, node[S]{k: keys[mid], v: values[mid], p: p, sz: S(hi - lo)})
		li, lh := build(lo, mid, i)
		ri, rh := build(mid+1, hi, i)
		h := lh
		if rh > h {
			h = rh
		}
		h++
		u.ns[i].l, u.ns[i].r = li, ri
		u.ns[i].ld, u.ns[i].rd = h-lh, h-rh
		return i, h
	}
	u.root, _ = build(0, len(keys), 0)
	for i := u.root; i != 0; i = u.ns[i].l {
		u.min = i
	}
	for i := u.root; i != 0; i = u.ns[i].r {
		u.max = i
	}
	return u
}

// Search [Map.Search].
// Time: O(D); Space: O(1)
func (u *WAVL[S]) Search(k int) (string, bool) {
	for curI := u.root; curI != 0; {
		if cur := &u.ns[curI]; k < cur.k {
			curI = cur.l
		} else if k > cur.k {
			curI = cur.r
		} else {
			return cur.v, true
		}
	}
	return "", false
}

// Has [Map.Has].
// Time: O(D); Space: O(1)
func (u *WAVL[S]) Has(k int) bool {
	for curI := u.root; curI != 0; {
		if k < u.ns[curI].k {
			curI = u.ns[curI].l
		} else if k > u.ns[curI].k {
			curI = u.ns[curI].r
		} else {
			return true
		}
	}
	return false
}

// Insert [Map.Insert]. The new leaf starts with diffs 1/1; the walk back to
// the root then restores the rank rule case by case: promote costs 1 and
// continues at the grandparent, a single rotation costs 2 and stops, a double
// rotation costs 5 and stops (one rotation always suffices after insertion).
// Sizes on the changed branch are recomputed once the shape is final.
// Time: O(D), amortized O(1) rebalancing.
func (u *WAVL[S]) Insert(k int, v string) (int, error) {
	var pi S
	var left bool
	for curI := u.root; curI != 0; {
		cur := &u.ns[curI]
		if k == cur.k {
			return 0, ErrDuplicateKey
		}
		pi = curI
		if left = k < cur.k; left {
			curI = cur.l
		} else {
			curI = cur.r
		}
	}
	ni := u.alloc(k, v, pi)
	if pi == 0 {
		u.root, u.min, u.max = ni, ni, ni
		return 0, nil
	}
	if left {
		u.ns[pi].l = ni
	} else {
		u.ns[pi].r = ni
	}
	if k < u.ns[u.min].k {
		u.min = ni
	}
	if k > u.ns[u.max].k {
		u.max = ni
	}
	steps := u.insertFix(ni)
	u.refreshBranch(u.ns[ni].p)
	return steps, nil
}

// insertFix walks from the freshly attached leaf toward the root. At each
// level the diff on the touched side is lowered first, modelling the child's
// rank having risen by one, then exactly one case applies.
func (u *WAVL[S]) insertFix(ni S) int {
	steps := 0
	for pi := u.ns[ni].p; pi != 0; pi = u.ns[ni].p {
		p := &u.ns[pi]
		if p.l == ni {
			p.ld--
		} else {
			p.rd--
		}
		switch {
		case u.needPromote(pi):
			p.ld++
			p.rd++
			steps++
		case u.needSingleRotate(pi):
			p.ld, p.rd = 1, 1
			u.ns[ni].ld, u.ns[ni].rd = 1, 1
			u.rotateUp(ni)
			return steps + 2
		case u.needDoubleRotate(pi):
			var gi S
			if p.l == ni {
				gi = u.ns[ni].r
				g := &u.ns[gi]
				p.ld, p.rd = g.rd, 1
				u.ns[ni].ld, u.ns[ni].rd = 1, g.ld
				g.ld, g.rd = 1, 1
			} else {
				gi = u.ns[ni].l
				g := &u.ns[gi]
				p.rd, p.ld = g.ld, 1
				u.ns[ni].rd, u.ns[ni].ld = 1, g.rd
				g.ld, g.rd = 1, 1
			}
			u.rotateUp(gi)
			u.rotateUp(gi)
			return steps + 5
		default:
			return steps
		}
		ni = pi
	}
	return steps
}

// 0/1 and 1/0 promote; the node's rank absorbs the raise.
func (u *WAVL[S]) needPromote(i S) bool {
	n := &u.ns[i]
	return (n.ld == 0 || n.rd == 0) && (n.ld == 1 || n.rd == 1)
}

// 0/2 with the raised child's far diff at 2 takes one rotation.
func (u *WAVL[S]) needSingleRotate(i S) bool {
	n := &u.ns[i]
	return n.ld == 0 && n.rd == 2 && u.ns[n.l].rd == 2 ||
		n.rd == 0 && n.ld == 2 && u.ns[n.r].ld == 2
}

// 0/2 with the raised child's near diff at 2 takes two rotations.
func (u *WAVL[S]) needDoubleRotate(i S) bool {
	n := &u.ns[i]
	return n.ld == 0 && u.ns[n.l].ld == 2 ||
		n.rd == 0 && u.ns[n.r].rd == 2
}

// Delete [Map.Delete]. A node with two internal children is never removed
// physically: the in-order successor's key and value are copied into it and
// the successor, which has at most one child, is the slot that gets spliced
// and recycled. The walk back up then restores the rank rule: demote costs 1
// and continues, double demote costs 2 and continues, a single rotation costs
// 3 (plus 1 when the rotated node ends 2/2 and takes a trailing demote), a
// double rotation costs 5; rotations stop the walk.
// Time: O(D), amortized O(1) rebalancing.
func (u *WAVL[S]) Delete(k int) (int, error) {
	di := u.root
	for di != 0 && u.ns[di].k != k {
		if k < u.ns[di].k {
			di = u.ns[di].l
		} else {
			di = u.ns[di].r
		}
	}
	if di == 0 {
		return 0, ErrKeyNotFound
	}
	// A node with two children is neither extreme, so these only fire when
	// di itself is about to be spliced.
	wasMin, wasMax := di == u.min, di == u.max
	if u.ns[di].binary() {
		si := u.ns[di].r
		for u.ns[si].l != 0 {
			si = u.ns[si].l
		}
		u.ns[di].k, u.ns[di].v = u.ns[si].k, u.ns[si].v
		if si == u.max {
			// The successor slot is about to be recycled; the payload
			// survives in di, so the cache must move with it.
			u.max = di
		}
		di = si
	}
	ci := u.ns[di].l
	if ci == 0 {
		ci = u.ns[di].r
	}
	pi := u.ns[di].p
	if ci != 0 {
		u.ns[ci].p = pi
	}
	if pi == 0 {
		u.root = ci
	} else if p := &u.ns[pi]; p.l == di {
		p.l = ci
		p.ld++
	} else {
		p.r = ci
		p.rd++
	}
	u.addFree(di)
	steps := u.deleteFix(pi)
	u.refreshBranch(pi)
	if u.root == 0 {
		u.min, u.max = 0, 0
	} else {
		if wasMin {
			for i := u.root; i != 0; i = u.ns[i].l {
				u.min = i
			}
		}
		if wasMax {
			for i := u.root; i != 0; i = u.ns[i].r {
				u.max = i
			}
		}
	}
	return steps, nil
}

// deleteFix walks from the splice point's parent toward the root. The splice
// already raised the diff on the deepened side, so each level either absorbs
// the violation by demoting or resolves it with a rotation and stops.
func (u *WAVL[S]) deleteFix(ni S) int {
	steps := 0
	for ni != 0 {
		n := &u.ns[ni]
		switch {
		case u.needDemote(ni):
			u.demote(ni)
			steps++
		case u.needDoubleDemote(ni):
			if n.ld == 3 {
				u.demote(n.r)
			} else {
				u.demote(n.l)
			}
			u.demote(ni)
			steps += 2
		case u.needDeleteSingleRotate(ni):
			return steps + 3 + u.deleteSingleRotate(ni)
		case u.needDeleteDoubleRotate(ni):
			u.deleteDoubleRotate(ni)
			return steps + 5
		default:
			return steps
		}
		ni = u.ns[ni].p
	}
	return steps
}

// demote lowers both diffs of ni by one and raises the parent's diff toward
// it, propagating the rank drop upward.
func (u *WAVL[S]) demote(ni S) {
	n := &u.ns[ni]
	n.ld--
	n.rd--
	if pi := n.p; pi != 0 {
		if p := &u.ns[pi]; p.l == ni {
			p.ld++
		} else {
			p.rd++
		}
	}
}

// 3/2, 2/3, or a 2/2 leaf demotes.
func (u *WAVL[S]) needDemote(i S) bool {
	n := &u.ns[i]
	return n.rd == 3 && n.ld == 2 || n.ld == 3 && n.rd == 2 ||
		n.ld == 2 && n.rd == 2 && n.leaf()
}

// 3/1 with a 2/2 child on the 1 side demotes both.
func (u *WAVL[S]) needDoubleDemote(i S) bool {
	n := &u.ns[i]
	return n.rd == 3 && n.ld == 1 && u.ns[n.l].ld == 2 && u.ns[n.l].rd == 2 ||
		n.ld == 3 && n.rd == 1 && u.ns[n.r].rd == 2 && u.ns[n.r].ld == 2
}

// 3/1 with the 1-side child's far diff at 1 takes one rotation.
func (u *WAVL[S]) needDeleteSingleRotate(i S) bool {
	n := &u.ns[i]
	return n.rd == 3 && n.ld == 1 && u.ns[n.l].ld == 1 ||
		n.ld == 3 && n.rd == 1 && u.ns[n.r].rd == 1
}

// 3/1 with the 1-side child's far diff at 2 takes two rotations.
func (u *WAVL[S]) needDeleteDoubleRotate(i S) bool {
	n := &u.ns[i]
	return n.rd == 3 && n.ld == 1 && u.ns[n.l].ld == 2 ||
		n.ld == 3 && n.rd == 1 && u.ns[n.r].rd == 2
}

// deleteSingleRotate rotates the 1-side child above ni. Returns 1 when ni
// ends up 2/2 and needs the trailing demote, else 0.
func (u *WAVL[S]) deleteSingleRotate(ni S) int {
	n := &u.ns[ni]
	if n.ld == 3 {
		ci := n.r
		c := &u.ns[ci]
		n.ld--
		n.rd = c.ld
		c.rd++
		c.ld = 1
		u.rotateUp(ci)
	} else {
		ci := n.l
		c := &u.ns[ci]
		n.rd--
		n.ld = c.rd
		c.ld++
		c.rd = 1
		u.rotateUp(ci)
	}
	if n.ld == 2 && n.rd == 2 {
		u.demote(ni)
		return 1
	}
	return 0
}

// deleteDoubleRotate rotates the inner grandchild above its parent and then
// above ni, reading the grandchild's diffs before overwriting them.
func (u *WAVL[S]) deleteDoubleRotate(ni S) {
	n := &u.ns[ni]
	if n.ld == 3 {
		gi := u.ns[n.r].l
		g := &u.ns[gi]
		n.ld = 1
		n.rd = g.ld
		u.ns[n.r].rd--
		u.ns[n.r].ld = g.rd
		g.ld, g.rd = 2, 2
		u.rotateUp(gi)
		u.rotateUp(gi)
	} else {
		gi := u.ns[n.l].r
		g := &u.ns[gi]
		n.rd = 1
		n.ld = g.rd
		u.ns[n.l].ld--
		u.ns[n.l].rd = g.ld
		g.ld, g.rd = 2, 2
		u.rotateUp(gi)
		u.rotateUp(gi)
	}
}

// Minimum [Map.Minimum].
// Time: O(1)
func (u *WAVL[S]) Minimum() (string, bool) {
	if u.min == 0 {
		return "", false
	}
	return u.ns[u.min].v, true
}

// Maximum [Map.Maximum].
// Time: O(1)
func (u *WAVL[S]) Maximum() (string, bool) {
	if u.max == 0 {
		return "", false
	}
	return u.ns[u.max].v, true
}

// KLargest [Map.KLargest].
// This function utilizes the cached subtree sizes to provide O(D) performance
// with very small constant.
// Time: O(D); Space: O(1)
func (u *WAVL[S]) KLargest(k uint) (string, bool) {
	if k < 1 || k > u.Size() {
		return "", false
	}
	t := S(k)
	for curI := u.root; ; {
		if ls := u.ns[u.ns[curI].l].sz; t == ls+1 {
			return u.ns[curI].v, true
		} else if t <= ls {
			curI = u.ns[curI].l
		} else {
			t -= ls + 1
			curI = u.ns[curI].r
		}
	}
}

// RankOf [Map.RankOf].
// Time: O(D); Space: O(1)
func (u *WAVL[S]) RankOf(k int) uint {
	var ra S
	for curI := u.root; curI != 0; {
		if cur := &u.ns[curI]; k < cur.k {
			curI = cur.l
		} else if k > cur.k {
			ra += u.ns[cur.l].sz + 1
			curI = cur.r
		} else {
			return uint(ra + u.ns[cur.l].sz + 1)
		}
	}
	return 0
}

// Predecessor [Map.Predecessor].
// Time: O(D); Space: O(1)
func (u *WAVL[S]) Predecessor(k int) (int, string, bool) {
	var pi S
	for curI := u.root; curI != 0; {
		if k <= u.ns[curI].k {
			curI = u.ns[curI].l
		} else {
			pi = curI
			curI = u.ns[curI].r
		}
	}
	return u.ns[pi].k, u.ns[pi].v, pi != 0
}

// Successor [Map.Successor].
// Time: O(D); Space: O(1)
func (u *WAVL[S]) Successor(k int) (int, string, bool) {
	var pi S
	for curI := u.root; curI != 0; {
		if k < u.ns[curI].k {
			pi = curI
			curI = u.ns[curI].l
		} else {
			curI = u.ns[curI].r
		}
	}
	return u.ns[pi].k, u.ns[pi].v, pi != 0
}

// Keys [Map.Keys].
// Time: O(n)
func (u *WAVL[S]) Keys() []int {
	ks := make([]int, 0, u.Size())
	u.InOrder(func(k int, _ *string) bool {
		ks = append(ks, k)
		return true
	}, nil)
	return ks
}

// Values [Map.Values].
// Time: O(n)
func (u *WAVL[S]) Values() []string {
	vs := make([]string, 0, u.Size())
	u.InOrder(func(_ int, v *string) bool {
		vs = append(vs, *v)
		return true
	}, nil)
	return vs
}

func (u *WAVL[S]) minDepth(c S, cd uint) uint {
	if c == 0 {
		return cd - 1
	}
	l, r := u.minDepth(u.ns[c].l, cd+1), u.minDepth(u.ns[c].r, cd+1)
	if l < r {
		return l
	}
	return r
}

// MinDepth of the tree in edges; 0 for an empty tree.
func (u *WAVL[S]) MinDepth() uint {
	if u.root == 0 {
		return 0
	}
	return u.minDepth(u.root, 0)
}

func (u *WAVL[S]) maxDepth(c S, cd uint) uint {
	if c == 0 {
		return cd - 1
	}
	l, r := u.maxDepth(u.ns[c].l, cd+1), u.maxDepth(u.ns[c].r, cd+1)
	if l > r {
		return l
	}
	return r
}

// MaxDepth of the tree in edges; 0 for an empty tree.
func (u *WAVL[S]) MaxDepth() uint {
	if u.root == 0 {
		return 0
	}
	return u.maxDepth(u.root, 0)
}

// check validates the subtree at ci: the parent back reference, both diffs in
// {1,2}, the size sum, local key order, and that both diffs agree on the
// node's rank. Returns the subtree's rank (-1 for the sentinel).
func (u *WAVL[S]) check(ci, pi S) (int, bool) {
	if ci == 0 {
		return -1, true
	}
	n := &u.ns[ci]
	if n.p != pi || n.ld < 1 || n.ld > 2 || n.rd < 1 || n.rd > 2 ||
		n.sz != u.ns[n.l].sz+u.ns[n.r].sz+1 {
		return 0, false
	}
	if n.l != 0 && u.ns[n.l].k >= n.k || n.r != 0 && u.ns[n.r].k <= n.k {
		return 0, false
	}
	lr, ok := u.check(n.l, ci)
	if !ok {
		return 0, false
	}
	rr, ok := u.check(n.r, ci)
	if !ok {
		return 0, false
	}
	if lr+int(n.ld) != rr+int(n.rd) {
		return 0, false
	}
	return lr + int(n.ld), true
}

// Corrupt [Map.Corrupt]. Verifies ranks, sizes, parent links, the full
// in-order key order, and the min/max caches. Recursive.
// Time: O(n)
func (u *WAVL[S]) Corrupt() bool {
	if _, ok := u.check(u.root, 0); !ok {
		return true
	}
	bad, first, prev := false, true, 0
	u.InOrder(func(k int, _ *string) bool {
		if !first && k <= prev {
			bad = true
			return false
		}
		prev, first = k, false
		return true
	}, nil)
	if bad {
		return true
	}
	var lm, rm S
	for i := u.root; i != 0; i = u.ns[i].l {
		lm = i
	}
	for i := u.root; i != 0; i = u.ns[i].r {
		rm = i
	}
	return lm != u.min || rm != u.max
}
