// Package model holds the Tag Catalog: a hierarchical interest taxonomy
// loaded once at startup from a JSON tree.
package model

import (
	"encoding/json"
	"fmt"
)

// rawNode mirrors the tag definition file's JSON shape. IsMatchable is a
// pointer so a missing field is distinguishable from an explicit false;
// is_matchable has no default and must be explicit.
type rawNode struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Desc        *string   `json:"desc,omitempty"`
	IsMatchable *bool     `json:"is_matchable"`
	Children    []rawNode `json:"children,omitempty"`
}

// Node is a parsed tag in the catalog tree.
type Node struct {
	ID          string
	Name        string
	IsMatchable bool
	Children    []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Catalog is the immutable, startup-built lookup structure: a flat node
// table plus a parent map, not a pointer-graph traversal that outlives
// the load.
type Catalog struct {
	nodes   map[string]*Node
	parent  map[string]string // child id -> parent id; root nodes absent
	leaves  []string          // insertion order, for deterministic enumeration
}

// Load parses a JSON array of root Nodes and builds the Catalog. It fails at
// load time with a structural error if duplicate IDs, dangling parents, or
// non-boolean (i.e. missing) matchability are present. Callers at startup
// should terminate the process on a non-nil error.
func Load(data []byte) (*Catalog, error) {
	var roots []rawNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("tag catalog: invalid JSON: %w", err)
	}

	c := &Catalog{
		nodes:  make(map[string]*Node),
		parent: make(map[string]string),
	}

	var walk func(raw rawNode, parentID string) (*Node, error)
	walk = func(raw rawNode, parentID string) (*Node, error) {
		if raw.ID == "" {
			return nil, fmt.Errorf("tag catalog: node with empty id")
		}
		if _, exists := c.nodes[raw.ID]; exists {
			return nil, fmt.Errorf("tag catalog: duplicate tag id %q", raw.ID)
		}
		if raw.IsMatchable == nil {
			return nil, fmt.Errorf("tag catalog: tag %q is missing an explicit is_matchable", raw.ID)
		}

		n := &Node{ID: raw.ID, Name: raw.Name, IsMatchable: *raw.IsMatchable}
		c.nodes[raw.ID] = n
		if parentID != "" {
			c.parent[raw.ID] = parentID
		}

		for _, childRaw := range raw.Children {
			child, err := walk(childRaw, raw.ID)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		if n.IsLeaf() {
			c.leaves = append(c.leaves, n.ID)
		}
		return n, nil
	}

	for _, root := range roots {
		if _, err := walk(root, ""); err != nil {
			return nil, err
		}
	}

	for childID, parentID := range c.parent {
		if _, ok := c.nodes[parentID]; !ok {
			return nil, fmt.Errorf("tag catalog: tag %q has dangling parent %q", childID, parentID)
		}
	}

	return c, nil
}

// Get returns the node for id, or nil if unknown.
func (c *Catalog) Get(id string) *Node {
	return c.nodes[id]
}

// IsLeaf reports whether id names a known leaf tag.
func (c *Catalog) IsLeaf(id string) bool {
	n := c.nodes[id]
	return n != nil && n.IsLeaf()
}

// Ancestors returns id's ancestors, iterating root-ward (immediate parent
// first). id itself is not included.
func (c *Catalog) Ancestors(id string) []string {
	var out []string
	cur := id
	for {
		p, ok := c.parent[cur]
		if !ok {
			return out
		}
		out = append(out, p)
		cur = p
	}
}

// IsMatchableChain reports whether id and every one of its ancestors up to
// the root has is_matchable = true. Unknown ids are never matchable.
func (c *Catalog) IsMatchableChain(id string) bool {
	n := c.nodes[id]
	if n == nil || !n.IsMatchable {
		return false
	}
	for _, ancestorID := range c.Ancestors(id) {
		if a := c.nodes[ancestorID]; a == nil || !a.IsMatchable {
			return false
		}
	}
	return true
}

// Leaves returns the ids of every leaf tag in the catalog, in load order.
func (c *Catalog) Leaves() []string {
	out := make([]string, len(c.leaves))
	copy(out, c.leaves)
	return out
}
