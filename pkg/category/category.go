// Package category models the email category hierarchy.
//
// Categories arrive from stores as flat records: each row carries its own
// identifier, an optional parent identifier, and a count of emails filed
// directly under it. This package converts those flat records into an
// explicit forest with unambiguous ownership: nodes live in an arena
// indexed by identifier, and parent/child links are established in a
// separate pass so dangling references degrade to root placement instead
// of errors.
package category

import "fmt"

// =============================================================================
// Record - Flat Serialization Format
// =============================================================================

// Record is the flat serialization format for a stored category.
// It is the canonical shape crossing the store boundary: JSON for the
// Supabase REST backend and API responses, BSON for MongoDB.
//
// ID and Parent are deliberately untyped. Stores disagree on identifier
// types (serial integers, UUIDs, object IDs), so both are coerced to a
// canonical string form at tree-construction time. EmailCount tolerates
// the same looseness for numeric types.
type Record struct {
	ID         any    `json:"id" bson:"_id"`
	Name       string `json:"name" bson:"name"`
	Parent     any    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	EmailCount any    `json:"email_count,omitempty" bson:"email_count,omitempty"`
}

// =============================================================================
// Node - Tree Form
// =============================================================================

// Node is the tree form of a Record. Nodes are built fresh on every
// BuildForest call and are owned exclusively by the returned Forest.
type Node struct {
	ID         string
	Name       string
	EmailCount int
	Children   []*Node
}

// Label returns the display label for the node: the category name, with
// the email count appended in parentheses when the count is positive.
// The count is never aggregated from descendants; a parent shows exactly
// its own count.
func (n *Node) Label() string {
	if n.EmailCount > 0 {
		return fmt.Sprintf("%s (%d)", n.Name, n.EmailCount)
	}
	return n.Name
}

// =============================================================================
// Forest - Arena of Owned Nodes
// =============================================================================

// Forest holds the linked category tree. Roots preserves input order.
// The arena keeps every node reachable by identifier regardless of its
// position in the tree.
type Forest struct {
	Roots []*Node

	order []string
	arena map[string]*Node
}

// Len returns the number of distinct categories in the forest.
func (f *Forest) Len() int {
	return len(f.order)
}

// Get returns the node for the given canonical identifier, or nil.
func (f *Forest) Get(id string) *Node {
	return f.arena[id]
}

// Nodes returns all nodes in first-insertion order.
func (f *Forest) Nodes() []*Node {
	out := make([]*Node, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.arena[id])
	}
	return out
}

// TotalEmails sums the email counts of all nodes. Counts are per-node,
// so this is a plain sum with no double counting.
func (f *Forest) TotalEmails() int {
	total := 0
	for _, id := range f.order {
		total += f.arena[id].EmailCount
	}
	return total
}

// MaxDepth returns the depth of the deepest node, where roots have depth 1.
// An empty forest has depth 0.
func (f *Forest) MaxDepth() int {
	var walk func(n *Node, depth int) int
	walk = func(n *Node, depth int) int {
		deepest := depth
		for _, c := range n.Children {
			if d := walk(c, depth+1); d > deepest {
				deepest = d
			}
		}
		return deepest
	}

	max := 0
	for _, r := range f.Roots {
		if d := walk(r, 1); d > max {
			max = d
		}
	}
	return max
}

// =============================================================================
// Forest Construction
// =============================================================================

// BuildForest converts flat records into a linked forest.
//
// Construction is two-pass. The first pass fills the arena: identifiers
// are coerced to canonical strings, and a duplicate identifier replaces
// the earlier node in place, keeping its original position. The second
// pass links children to parents in input order. A record whose parent
// is absent, empty, or unresolvable becomes a root; a record naming
// itself as parent is treated the same way rather than forming a cycle.
func BuildForest(records []Record) *Forest {
	f := &Forest{arena: make(map[string]*Node, len(records))}
	parents := make(map[string]any, len(records))

	for _, rec := range records {
		id := CoerceID(rec.ID)
		if _, seen := f.arena[id]; !seen {
			f.order = append(f.order, id)
		}
		f.arena[id] = &Node{
			ID:         id,
			Name:       rec.Name,
			EmailCount: CoerceCount(rec.EmailCount),
		}
		parents[id] = rec.Parent
	}

	for _, id := range f.order {
		node := f.arena[id]
		pid, ok := parentID(parents[id])
		if ok && pid != id {
			if parent, exists := f.arena[pid]; exists {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		f.Roots = append(f.Roots, node)
	}

	return f
}

// parentID reports the canonical parent identifier for a raw parent
// value. Absent, empty, and zero-valued parents mean "no parent".
func parentID(v any) (string, bool) {
	switch p := v.(type) {
	case nil:
		return "", false
	case string:
		if p == "" {
			return "", false
		}
		return p, true
	case bool:
		if !p {
			return "", false
		}
		return CoerceID(p), true
	case int:
		if p == 0 {
			return "", false
		}
		return CoerceID(p), true
	case int64:
		if p == 0 {
			return "", false
		}
		return CoerceID(p), true
	case float64:
		if p == 0 {
			return "", false
		}
		return CoerceID(p), true
	default:
		return CoerceID(p), true
	}
}
