package Trees

import "golang.org/x/exp/constraints"

// A node in the WAVL tree arena.
// The zero value is the external sentinel stored at index 0: sz=0 and an
// implied rank of -1. It carries no key or value and its fields are never
// written after creation, so every index field can treat 0 as "no node".
type node[S constraints.Unsigned] struct {
	k       int
	v       string
	l, r, p S    // arena indexes; p of the root is 0.
	ld, rd  int8 // rank(self)-rank(child) per side; 1 or 2 in a valid tree.
	sz      S    // nodes in this subtree, self included.
}

// leaf reports whether both children are the sentinel.
func (n *node[S]) leaf() bool {
	return n.l == 0 && n.r == 0
}

// binary reports whether both children are internal.
func (n *node[S]) binary() bool {
	return n.l != 0 && n.r != 0
}
