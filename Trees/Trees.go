package Trees

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

var (
	// ErrDuplicateKey is returned by Insert when the key is already present.
	// The tree is left untouched.
	ErrDuplicateKey = errors.New("Trees: duplicate key")
	// ErrKeyNotFound is returned by Delete when the key is absent.
	// The tree is left untouched.
	ErrKeyNotFound = errors.New("Trees: key not found")
)

// InvalidSliceError is the panic value of From when safe==true and the given
// keys aren't strictly ascending. Prev and Next are the offending adjacent keys.
type InvalidSliceError struct {
	Prev, Next int
}

func (e InvalidSliceError) Error() string {
	return fmt.Sprintf("Trees: keys not strictly ascending: %d before %d", e.Prev, e.Next)
}

// Map represents an ordered int->string container implemented using a tree
// held in an index arena. S is the unsigned type of the arena indexes; see the
// implementations for the constraints on choosing it.
// Receivers that have a bool as a second (or third) return value indicate
// whether the other return values are defined. For example, calling Minimum on
// an empty Map returns (x string, false); the value of x is undefined and
// shouldn't be used.
// Unless an implementation notes otherwise, no receiver mutates the tree on a
// failed call: Insert on a present key and Delete on an absent key report
// their sentinel errors with the structure exactly as it was.
// All receivers are single-threaded; concurrent use must be serialized by the
// caller.
type Map[S constraints.Unsigned] interface {
	//Empty reports whether the Map holds no keys.
	Empty() bool
	//Has reports whether key is present. Prefer this over Search when only
	//membership matters.
	Has(key int) bool
	//Search returns the value stored under key.
	Search(key int) (string, bool)
	//Insert key with value. Returns the number of rebalancing operations
	//performed, or ErrDuplicateKey if key is already present.
	Insert(key int, value string) (int, error)
	//Delete key. Returns the number of rebalancing operations performed, or
	//ErrKeyNotFound if key is absent.
	Delete(key int) (int, error)
	//Minimum returns the value stored under the smallest key.
	Minimum() (string, bool)
	//Maximum returns the value stored under the largest key.
	Maximum() (string, bool)
	//Predecessor returns the largest entry with key strictly less than key.
	Predecessor(key int) (int, string, bool)
	//Successor returns the smallest entry with key strictly greater than key.
	Successor(key int) (int, string, bool)
	//KLargest returns the value under the k'th smallest key.
	//1<=k<=Size().
	KLargest(k uint) (string, bool)
	//RankOf key according to in-order, 1<=r<=Size(); 0 if key is absent.
	RankOf(key int) uint
	//Size of the Map.
	Size() uint
	//Keys in ascending order. Empty slice on an empty Map.
	Keys() []int
	//Values ordered by ascending key. Empty slice on an empty Map.
	Values() []string
	//InOrder calls f for each entry in ascending key order until f returns
	//false. st is an optional stack buffer reused across calls to avoid
	//allocations; the (possibly grown) buffer is returned. The tree must not
	//be modified during the traversal.
	InOrder(f func(key int, value *string) bool, st []S) []S
	//Clear the Map in O(1) without releasing the arena.
	Clear()
	//Corrupt reports whether the tree violates the structural properties of
	//the specific implementation. This is a full O(n) self-check meant for
	//tests, to be distinguished from whether the tree is merely unbalanced.
	Corrupt() bool
}
