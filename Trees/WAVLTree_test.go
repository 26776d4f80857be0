package Trees

import (
	"errors"
	"math/rand"
	"slices"
	"strconv"
	"testing"
)

var rg = rand.New(rand.NewSource(0))

const (
	tAddN        = 20000
	tAddValRange = 40000
)

var cache [2]uint

func (u *WAVL[S]) _depth(curI S, d uint) {
	cur := u.ns[curI]
	if cur.l != 0 {
		u._depth(cur.l, d+1)
	}
	if cur.r != 0 {
		u._depth(cur.r, d+1)
	}
	if cur.l == 0 && cur.r == 0 {
		cache[0]++
		cache[1] += d
	}
}
func (u *WAVL[S]) depth() float32 {
	cache[0], cache[1] = 0, 0
	u._depth(u.root, 1)
	return float32(cache[1]) / float32(cache[0])
}

func TestWAVL_Insert(t *testing.T) {
	tree := New[uint16](1)
	content := make(map[int]string)
	for _it := 0; _it < tAddN; _it++ {
		b := rg.Intn(tAddValRange)
		_, in := content[b]
		if _, err := tree.Insert(b, strconv.Itoa(b)); in != errors.Is(err, ErrDuplicateKey) {
			t.Errorf("insert key %v: err %v, already present %v", b, err, in)
		}
		content[b] = strconv.Itoa(b)
	}
	if tree.Size() != uint(len(content)) {
		t.Errorf("tree size is %d, want %d", tree.Size(), len(content))
	}
	if tree.Corrupt() {
		t.Fatal("tree is corrupt after inserts")
	}
	t.Logf("depth: %f, size: %d.\n", tree.depth(), tree.Size())
	for k, v := range content {
		if a, ok := tree.Search(k); !ok || a != v {
			t.Errorf("tree does not have key %v with value %v", k, v)
		}
		if !tree.Has(k) {
			t.Errorf("tree does not have key %v", k)
		}
	}
}

func TestWAVL_Delete(t *testing.T) {
	tree := New[uint16](1)
	content := make(map[int]string)
	if _, err := tree.Delete(0); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("empty tree has non existent key %v", 0)
	}
	a := make([]int, tAddN)
	for i := range a {
		a[i] = rg.Intn(tAddValRange)
		tree.Insert(a[i], strconv.Itoa(a[i]))
		content[a[i]] = strconv.Itoa(a[i])
	}
	for i, _n := 0, rg.Intn(len(a)); i < _n; i++ {
		_, in := content[a[i]]
		if _, err := tree.Delete(a[i]); in == errors.Is(err, ErrKeyNotFound) {
			t.Errorf("failed to delete key %v", a[i])
		}
		if _, err := tree.Delete(a[i]); err == nil {
			t.Errorf("can delete a second time key %v", a[i])
		}
		delete(content, a[i])
	}
	if tree.Size() != uint(len(content)) {
		t.Errorf("tree size is %d, want %d", tree.Size(), len(content))
	}
	if tree.Corrupt() {
		t.Fatal("tree is corrupt after deletes")
	}
	t.Logf("depth: %f, size: %d.\n", tree.depth(), tree.Size())
	for k, v := range content {
		if a, ok := tree.Search(k); !ok || a != v {
			t.Errorf("tree does not have key %v with value %v", k, v)
		}
	}
}

func TestWAVL_MinMax(t *testing.T) {
	tree := New[uint16](1)
	if _, ok := tree.Minimum(); ok {
		t.Error("empty tree has a minimum")
	}
	if _, ok := tree.Maximum(); ok {
		t.Error("empty tree has a maximum")
	}
	content := make(map[int]struct{})
	for _it := 0; _it < tAddN / 4; _it++ {
		b := rg.Intn(tAddValRange)
		tree.Insert(b, strconv.Itoa(b))
		content[b] = struct{}{}
	}
	check := func() {
		t.Helper()
		lo, hi := tAddValRange, -1
		for k := range content {
			if k < lo {
				lo = k
			}
			if k > hi {
				hi = k
			}
		}
		if v, ok := tree.Minimum(); !ok || v != strconv.Itoa(lo) {
			t.Fatalf("minimum is %v, want %v", v, lo)
		}
		if v, ok := tree.Maximum(); !ok || v != strconv.Itoa(hi) {
			t.Fatalf("maximum is %v, want %v", v, hi)
		}
	}
	check()
	// deleting the extremes repeatedly exercises the cache reseating paths
	for len(content) > 1 {
		lo, hi := tAddValRange, -1
		for k := range content {
			if k < lo {
				lo = k
			}
			if k > hi {
				hi = k
			}
		}
		tree.Delete(lo)
		delete(content, lo)
		tree.Delete(hi)
		delete(content, hi)
		if len(content) > 0 {
			check()
		}
	}
	if tree.Corrupt() {
		t.Fatal("tree is corrupt after extreme deletions")
	}
}

func TestWAVL_InOrder(t *testing.T) {
	tree := New[uint16](1)
	content := make(map[int]struct{})
	for _it := 0; _it < tAddN; _it++ {
		b := rg.Intn(tAddValRange)
		tree.Insert(b, strconv.Itoa(b))
		content[b] = struct{}{}
	}
	for _it := 0; _it < 10; _it++ {
		var s []int
		tree.InOrder(func(k int, _ *string) bool {
			s = append(s, k)
			return rg.Intn(int(tree.Size()/2)) != 0
		}, nil)
		for _, v := range s {
			if _, in := content[v]; !in {
				t.Errorf("sorted has non existent key %v", v)
			}
		}
		if !slices.IsSorted(s) {
			t.Errorf("sorted is not sorted")
		}
	}
	ks, vs := tree.Keys(), tree.Values()
	if uint(len(ks)) != tree.Size() || uint(len(vs)) != tree.Size() {
		t.Errorf("export size is %d/%d, want %d", len(ks), len(vs), tree.Size())
	}
	if !slices.IsSorted(ks) {
		t.Errorf("keys are not sorted")
	}
	for i, k := range ks {
		if vs[i] != strconv.Itoa(k) {
			t.Errorf("value at %d is %v, want %v", i, vs[i], k)
		}
	}
	for k := range content {
		if _, in := slices.BinarySearch(ks, k); !in {
			t.Errorf("keys do not have %v", k)
		}
	}
}

func TestWAVL_KLargest(t *testing.T) {
	tree := New[uint16](1)
	content := make(map[int]struct{})
	for _it := 0; _it < tAddN; _it++ {
		b := rg.Intn(tAddValRange)
		tree.Insert(b, strconv.Itoa(b))
		content[b] = struct{}{}
	}
	sorted := make([]int, 0, len(content))
	for k := range content {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)
	for i, v := range sorted {
		a, ok := tree.KLargest(uint(i + 1))
		if !ok {
			t.Fatalf("nil at rank %d\n", i+1)
		}
		if a != strconv.Itoa(v) {
			t.Fatalf("wrong value at rank %d, want %d has %v\n", i+1, v, a)
		}
		if r := tree.RankOf(v); r != uint(i+1) {
			t.Fatalf("wrong rank %d, want %d", r, i+1)
		}
	}
	if _, ok := tree.KLargest(0); ok {
		t.Error("rank 0 is defined")
	}
	if _, ok := tree.KLargest(tree.Size() + 1); ok {
		t.Error("rank size+1 is defined")
	}
	if tree.RankOf(tAddValRange + 1) != 0 {
		t.Error("absent key has a rank")
	}
}

func TestWAVL_PreSucc(t *testing.T) {
	content := make([]int, tAddN)
	values := make([]string, tAddN)
	for i := range content {
		content[i] = i * 2
		values[i] = strconv.Itoa(i * 2)
	}
	tree := From[uint16](content, values, true)
	for i := 1; i < len(content)-1; i++ {
		if k, _, ok := tree.Predecessor(content[i]); !ok || k != content[i-1] {
			t.Fatalf("wrong predecessor %d, want %d", k, content[i-1])
		}
		if k, _, ok := tree.Successor(content[i]); !ok || k != content[i+1] {
			t.Fatalf("wrong successor %d, want %d", k, content[i+1])
		}
		// probing between the even keys lands on the same neighbors
		if k, _, ok := tree.Predecessor(content[i] + 1); !ok || k != content[i] {
			t.Fatalf("wrong predecessor %d, want %d", k, content[i])
		}
		if k, _, ok := tree.Successor(content[i] - 1); !ok || k != content[i] {
			t.Fatalf("wrong successor %d, want %d", k, content[i])
		}
	}
	if _, _, ok := tree.Predecessor(content[0]); ok {
		t.Fatal("shouldn't have predecessor")
	}
	if _, _, ok := tree.Successor(content[len(content)-1]); ok {
		t.Fatal("shouldn't have successor")
	}
}

func TestWAVL_From(t *testing.T) {
	keys := make([]int, 0, tAddN)
	{
		all := make(map[int]struct{}, tAddN)
		for len(keys) < tAddN {
			a := rg.Intn(tAddValRange * 4)
			if _, in := all[a]; !in {
				all[a] = struct{}{}
				keys = append(keys, a)
			}
		}
	}
	slices.Sort(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = strconv.Itoa(k)
	}
	tree := From[uint16](keys, values, true)
	if tree.Size() != uint(len(keys)) {
		t.Fatalf("tree size is %d, want %d", tree.Size(), len(keys))
	}
	if tree.Corrupt() {
		t.Fatal("built tree is corrupt")
	}
	if !slices.Equal(tree.Keys(), keys) {
		t.Fatal("built tree has wrong keys")
	}
	t.Logf("depth: %f, size: %d.\n", tree.depth(), tree.Size())
}

func TestWAVL_FromUnsorted(t *testing.T) {
	defer func() {
		var e InvalidSliceError
		if r := recover(); r == nil || !errors.As(r.(error), &e) {
			t.Fatalf("expected InvalidSliceError, got %v", r)
		}
	}()
	From[uint16]([]int{1, 3, 2}, []string{"a", "b", "c"}, true)
}

func TestWAVL_Clear(t *testing.T) {
	tree := New[uint16](1)
	for _it := 0; _it < 100; _it++ {
		b := rg.Intn(tAddValRange)
		tree.Insert(b, strconv.Itoa(b))
	}
	tree.Clear()
	if !tree.Empty() || tree.Size() != 0 {
		t.Fatal("tree is not empty after Clear")
	}
	if _, ok := tree.Minimum(); ok {
		t.Fatal("cleared tree has a minimum")
	}
	for i := 0; i < 100; i++ {
		tree.Insert(i, strconv.Itoa(i))
	}
	if tree.Size() != 100 || tree.Corrupt() {
		t.Fatal("tree is broken after Clear and reinsert")
	}
}

func TestWAVL_SlotReuse(t *testing.T) {
	tree := New[uint16](1)
	for i := 0; i < 1000; i++ {
		tree.Insert(i, strconv.Itoa(i))
	}
	grown := len(tree.ns)
	for i := 0; i < 500; i++ {
		tree.Delete(i)
	}
	for i := 2000; i < 2500; i++ {
		tree.Insert(i, strconv.Itoa(i))
	}
	if len(tree.ns) != grown {
		t.Fatalf("arena grew to %d, want %d (recycled slots unused)", len(tree.ns), grown)
	}
	if tree.Corrupt() {
		t.Fatal("tree is corrupt after slot reuse")
	}
	t.Logf("depth: %f, size: %d.\n", tree.depth(), tree.Size())
}
