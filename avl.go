package farmindex

import (
	"github.com/datahen/farmindex/internal/bloomindex"
	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/datahen/farmindex/internal/utils"
)

// compareGid orders gids lexicographically over UTF-8 bytes, the same
// ordering Go's built-in string comparison already implements.
func compareGid(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// ensureRoot discovers the current AVL root id if this Indexer hasn't
// tracked it yet this session. Nothing in the 58-byte header reserves
// a slot for it, so a freshly opened Indexer recovers it by scanning
// for the one node with Parent == 0 that has actually been inserted
// (Height > 0 distinguishes a root from a row that was appended during
// build but never linked into the tree, which also reads Parent == 0
// by zero value).
func (ix *Indexer) ensureRoot() error {
	if ix.rootKnown {
		return nil
	}
	if err := ix.ensureHeader(); err != nil {
		if uerr, ok := err.(*utils.Error); ok && uerr.Kind == utils.KindIndexUnavailable {
			ix.rootID = 0
			ix.rootKnown = true
			return nil
		}
		return err
	}

	var found uint64
	for id := uint64(1); id <= ix.header.IndexedCount; id++ {
		n, err := ix.Value(id)
		if err != nil {
			return err
		}
		if n != nil && n.Parent == 0 && n.Height > 0 {
			found = id
			break
		}
	}
	ix.rootID = found
	ix.rootKnown = true
	return nil
}

// RootID returns the id of the node currently at the root of the AVL
// tree, or 0 if the tree is empty.
func (ix *Indexer) RootID() (uint64, error) {
	if err := ix.ensureRoot(); err != nil {
		return 0, err
	}
	return ix.rootID, nil
}

func (ix *Indexer) nodeHeight(id uint64) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	n, err := ix.Value(id)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return n.Height, nil
}

func (ix *Indexer) addToBloom(gid string) {
	if gid == "" {
		return
	}
	if ix.bloom == nil {
		size := ix.header.IndexedCount
		if size == 0 {
			size = 1
		}
		ix.bloom = bloomindex.New(uint(size))
	}
	ix.bloom.Add(gid)
}

// Search descends the AVL tree from the root comparing key against
// each node's gid, returning the matching node id or 0 if key is not
// present. A Bloom filter populated by Insert/RebuildBloomFilter is
// consulted first as a fast-reject: a negative answer from the filter
// skips the disk descent entirely, a positive answer still requires
// walking the tree to confirm. See spec.md §4.6.3.
func (ix *Indexer) Search(key string) (uint64, error) {
	if err := ix.ensureRoot(); err != nil {
		return 0, err
	}
	if ix.bloom != nil && !ix.bloom.MaybeContains(key) {
		return 0, nil
	}

	id := ix.rootID
	for id != 0 {
		node, err := ix.Value(id)
		if err != nil {
			return 0, err
		}
		if node == nil {
			return 0, nil
		}
		switch cmp := compareGid(key, node.Gid); {
		case cmp == 0:
			return id, nil
		case cmp < 0:
			id = node.Left
		default:
			id = node.Right
		}
	}
	return 0, nil
}

// Insert links an already-appended node into the AVL tree by its gid,
// descending from the root to find its place, then rebalancing from
// the insertion point up to the root. newID must already exist on
// disk (i.e. id <= indexed_count) and its Gid field must already be
// set by the caller. See spec.md §4.6.3.
func (ix *Indexer) Insert(newID uint64) error {
	if err := ix.ensureRoot(); err != nil {
		return err
	}

	node, err := ix.Value(newID)
	if err != nil {
		return err
	}
	if node == nil {
		return &utils.Error{Kind: utils.KindInvalidValue, Context: "avl insert: node id does not exist", Offset: -1}
	}

	if ix.rootID == 0 {
		node.Parent = 0
		node.Height = 1
		if err := ix.SaveValue(newID, *node); err != nil {
			return err
		}
		ix.rootID = newID
		ix.addToBloom(node.Gid)
		return nil
	}

	curID := ix.rootID
	for {
		cur, err := ix.Value(curID)
		if err != nil {
			return err
		}
		switch cmp := compareGid(node.Gid, cur.Gid); {
		case cmp == 0:
			return &utils.Error{Kind: utils.KindInvalidValue, Context: "avl insert: duplicate gid", Offset: -1}
		case cmp < 0:
			if cur.Left == 0 {
				cur.Left = newID
				if err := ix.SaveValue(curID, *cur); err != nil {
					return err
				}
				node.Parent = curID
				node.Height = 1
				if err := ix.SaveValue(newID, *node); err != nil {
					return err
				}
				goto linked
			}
			curID = cur.Left
		default:
			if cur.Right == 0 {
				cur.Right = newID
				if err := ix.SaveValue(curID, *cur); err != nil {
					return err
				}
				node.Parent = curID
				node.Height = 1
				if err := ix.SaveValue(newID, *node); err != nil {
					return err
				}
				goto linked
			}
			curID = cur.Right
		}
	}

linked:
	if err := ix.rebalanceFrom(newID); err != nil {
		return err
	}
	// Only extend a filter that already covers the whole tree: one
	// started here on a reopened, non-empty tree would hold only this
	// session's gids and wrongly reject the older ones.
	if ix.bloom != nil {
		ix.addToBloom(node.Gid)
	}
	return nil
}

// rebalanceFrom walks from id up to the root, recomputing heights and
// performing single or double rotations wherever the balance factor
// exceeds 1 in magnitude. See spec.md §4.6.3.
func (ix *Indexer) rebalanceFrom(id uint64) error {
	for id != 0 {
		node, err := ix.Value(id)
		if err != nil {
			return err
		}
		if node == nil {
			return nil
		}

		lh, err := ix.nodeHeight(node.Left)
		if err != nil {
			return err
		}
		rh, err := ix.nodeHeight(node.Right)
		if err != nil {
			return err
		}
		node.Height = 1 + max64(lh, rh)
		if err := ix.SaveValue(id, *node); err != nil {
			return err
		}

		parent := node.Parent
		balance := lh - rh

		switch {
		case balance > 1:
			left, err := ix.Value(node.Left)
			if err != nil {
				return err
			}
			llh, err := ix.nodeHeight(left.Left)
			if err != nil {
				return err
			}
			lrh, err := ix.nodeHeight(left.Right)
			if err != nil {
				return err
			}
			if lrh > llh {
				if err := ix.rotateLeft(node.Left); err != nil {
					return err
				}
			}
			if err := ix.rotateRight(id); err != nil {
				return err
			}
		case balance < -1:
			right, err := ix.Value(node.Right)
			if err != nil {
				return err
			}
			rlh, err := ix.nodeHeight(right.Left)
			if err != nil {
				return err
			}
			rrh, err := ix.nodeHeight(right.Right)
			if err != nil {
				return err
			}
			if rlh > rrh {
				if err := ix.rotateRight(node.Right); err != nil {
					return err
				}
			}
			if err := ix.rotateLeft(id); err != nil {
				return err
			}
		}

		id = parent
	}
	return nil
}

// rotateRight performs a right rotation around id: id.Left becomes the
// new subtree root, id becomes that node's right child, and the moved
// child's former right subtree becomes id's new left subtree. Updates
// at most four nodes plus, when id was the tree root, ix.rootID.
func (ix *Indexer) rotateRight(id uint64) error {
	node, err := ix.Value(id)
	if err != nil {
		return err
	}
	pivotID := node.Left
	pivot, err := ix.Value(pivotID)
	if err != nil {
		return err
	}

	moved := pivot.Right
	node.Left = moved
	if moved != 0 {
		movedNode, err := ix.Value(moved)
		if err != nil {
			return err
		}
		movedNode.Parent = id
		if err := ix.SaveValue(moved, *movedNode); err != nil {
			return err
		}
	}

	parentID := node.Parent
	pivot.Right = id
	pivot.Parent = parentID
	node.Parent = pivotID

	if err := ix.recomputeHeight(node); err != nil {
		return err
	}
	if err := ix.SaveValue(id, *node); err != nil {
		return err
	}
	if err := ix.recomputeHeight(pivot); err != nil {
		return err
	}
	if err := ix.SaveValue(pivotID, *pivot); err != nil {
		return err
	}

	return ix.relinkParent(parentID, id, pivotID)
}

// rotateLeft is the mirror of rotateRight around id.Right.
func (ix *Indexer) rotateLeft(id uint64) error {
	node, err := ix.Value(id)
	if err != nil {
		return err
	}
	pivotID := node.Right
	pivot, err := ix.Value(pivotID)
	if err != nil {
		return err
	}

	moved := pivot.Left
	node.Right = moved
	if moved != 0 {
		movedNode, err := ix.Value(moved)
		if err != nil {
			return err
		}
		movedNode.Parent = id
		if err := ix.SaveValue(moved, *movedNode); err != nil {
			return err
		}
	}

	parentID := node.Parent
	pivot.Left = id
	pivot.Parent = parentID
	node.Parent = pivotID

	if err := ix.recomputeHeight(node); err != nil {
		return err
	}
	if err := ix.SaveValue(id, *node); err != nil {
		return err
	}
	if err := ix.recomputeHeight(pivot); err != nil {
		return err
	}
	if err := ix.SaveValue(pivotID, *pivot); err != nil {
		return err
	}

	return ix.relinkParent(parentID, id, pivotID)
}

func (ix *Indexer) recomputeHeight(node *indexfile.Node) error {
	lh, err := ix.nodeHeight(node.Left)
	if err != nil {
		return err
	}
	rh, err := ix.nodeHeight(node.Right)
	if err != nil {
		return err
	}
	node.Height = 1 + max64(lh, rh)
	return nil
}

// relinkParent points parentID's child link that used to hold oldChild
// at newChild instead, or updates ix.rootID when oldChild had no
// parent.
func (ix *Indexer) relinkParent(parentID, oldChild, newChild uint64) error {
	if parentID == 0 {
		ix.rootID = newChild
		return nil
	}
	parent, err := ix.Value(parentID)
	if err != nil {
		return err
	}
	if parent.Left == oldChild {
		parent.Left = newChild
	} else {
		parent.Right = newChild
	}
	return ix.SaveValue(parentID, *parent)
}

// Range performs an in-order walk of the AVL tree, visiting nodes in
// ascending gid order. Recursion over ids is used rather than an
// explicit stack, since tree depth is O(log n). See spec.md §4.6.3.
func (ix *Indexer) Range(visit func(id uint64, node indexfile.Node) error) error {
	if err := ix.ensureRoot(); err != nil {
		return err
	}
	return ix.walkInOrder(ix.rootID, visit)
}

func (ix *Indexer) walkInOrder(id uint64, visit func(id uint64, node indexfile.Node) error) error {
	if id == 0 {
		return nil
	}
	node, err := ix.Value(id)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	if err := ix.walkInOrder(node.Left, visit); err != nil {
		return err
	}
	if err := visit(id, *node); err != nil {
		return err
	}
	return ix.walkInOrder(node.Right, visit)
}

// RebuildBloomFilter repopulates the in-memory Bloom filter by walking
// the whole tree, restoring the fast-reject path Search relies on
// after an Indexer has been reopened in a fresh process without it.
func (ix *Indexer) RebuildBloomFilter() error {
	if err := ix.ensureRoot(); err != nil {
		return err
	}
	size := ix.header.IndexedCount
	if size == 0 {
		size = 1
	}
	ix.bloom = bloomindex.New(uint(size))
	return ix.walkInOrder(ix.rootID, func(_ uint64, node indexfile.Node) error {
		if node.Gid != "" {
			ix.bloom.Add(node.Gid)
		}
		return nil
	})
}
