package rectpack

import "fmt"

// treeNode is one region of the binary-tree working bin. Once a size is
// placed in a node it becomes used and its children cover the leftover
// strip below and beside the placement. Nodes live in a flat arena and
// address children by index; -1 means no child.
type treeNode struct {
	x, y, w, h  int
	used        bool
	right, down int
}

// binTree is the growing binary-tree strategy state. The root starts at the
// size of the first placement and is re-wrapped by a larger root whenever a
// size does not fit, preferring whichever growth direction keeps the bin
// closer to square.
type binTree struct {
	nodes []treeNode
	root  int
}

func newBinTree(width, height int) *binTree {
	t := &binTree{}
	t.root = t.alloc(0, 0, width, height)
	return t
}

func (t *binTree) alloc(x, y, w, h int) int {
	t.nodes = append(t.nodes, treeNode{x: x, y: y, w: w, h: h, right: -1, down: -1})
	return len(t.nodes) - 1
}

// findNode locates the first unused leaf able to hold the requested size,
// exploring the right subtree of every used node before the down subtree.
// Returns -1 when no such leaf exists in the current bin.
func (t *binTree) findNode(width, height int) int {
	stack := []int{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[idx]
		if node.used {
			// LIFO order: right is examined before down.
			stack = append(stack, node.down, node.right)
		} else if width <= node.w && height <= node.h {
			return idx
		}
	}
	return -1
}

// splitNode marks a leaf used and carves a down child covering the leftover
// height at full node width, and a right child covering the leftover width
// at the placed height.
func (t *binTree) splitNode(idx, width, height int) {
	node := t.nodes[idx]
	down := t.alloc(node.x, node.y+height, node.w, node.h-height)
	right := t.alloc(node.x+width, node.y, node.w-width, height)
	t.nodes[idx].used = true
	t.nodes[idx].down = down
	t.nodes[idx].right = right
}

func (t *binTree) growRight(width int) {
	old := t.nodes[t.root]
	right := t.alloc(old.w, 0, width, old.h)
	root := t.alloc(0, 0, old.w+width, old.h)
	t.nodes[root].used = true
	t.nodes[root].down = t.root
	t.nodes[root].right = right
	t.root = root
}

func (t *binTree) growDown(height int) {
	old := t.nodes[t.root]
	down := t.alloc(0, old.h, old.w, height)
	root := t.alloc(0, 0, old.w, old.h+height)
	t.nodes[root].used = true
	t.nodes[root].down = down
	t.nodes[root].right = t.root
	t.root = root
}

// grow enlarges the bin in the direction that keeps it closest to square
// while still admitting the size, then locates the leaf the growth created.
func (t *binTree) grow(sz Size) (int, error) {
	root := t.nodes[t.root]
	canGrowDown := sz.Width <= root.w && root.h+sz.Height <= maxBinDimension
	canGrowRight := sz.Height <= root.h && root.w+sz.Width <= maxBinDimension
	shouldGrowRight := canGrowRight && root.h >= root.w+sz.Width
	shouldGrowDown := canGrowDown && root.w >= root.h+sz.Height

	switch {
	case shouldGrowRight:
		t.growRight(sz.Width)
	case shouldGrowDown:
		t.growDown(sz.Height)
	case canGrowRight:
		t.growRight(sz.Width)
	case canGrowDown:
		t.growDown(sz.Height)
	default:
		return -1, fmt.Errorf("%w: cannot grow bin past %dpx to place %q (%dx%d)",
			ErrBinSizeExceeded, maxBinDimension, sz.ID, sz.Width, sz.Height)
	}

	idx := t.findNode(sz.Width, sz.Height)
	if idx < 0 {
		return -1, fmt.Errorf("%w: no leaf admits %q (%dx%d) after growth",
			ErrBinSizeExceeded, sz.ID, sz.Width, sz.Height)
	}
	return idx, nil
}

// packBinaryTree places sizes in caller order. Callers conventionally
// pre-sort by decreasing minimum side for density; no sorting is performed
// here.
func packBinaryTree(sizes []Size, cfg Config) (*Result, error) {
	padded := paddedSizes(sizes, cfg.Padding)

	tree := newBinTree(padded[0].Width, padded[0].Height)
	packed := make([]Rect, 0, len(padded))

	for i := range padded {
		sz := padded[i]
		idx := tree.findNode(sz.Width, sz.Height)
		if idx < 0 {
			var err error
			if idx, err = tree.grow(sz); err != nil {
				return nil, err
			}
		}
		node := tree.nodes[idx]
		tree.splitNode(idx, sz.Width, sz.Height)

		rect := NewRect(node.x, node.y, sz.Width, sz.Height)
		rect.ID = sz.ID
		packed = append(packed, rect)
	}
	return finishPlacements(packed, cfg.Padding), nil
}
