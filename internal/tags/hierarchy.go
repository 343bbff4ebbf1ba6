package tags

import (
	"context"
	"sort"
	"time"

	"github.com/xkilldash9x/campus-nav/api/schemas"
)

// TagNode is a tag with its resolved children, forming a hierarchy tree.
type TagNode struct {
	Tag      schemas.Tag `json:"tag"`
	Children []*TagNode  `json:"children,omitempty"`
}

// ChildTags lists the direct children of a tag, sorted by name.
func (m *Manager) ChildTags(id string) []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schemas.Tag
	for _, t := range m.tags {
		if t.ParentTagID == id && id != "" {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ParentTag resolves a tag's parent, or nil for roots and unknown ids.
func (m *Manager) ParentTag(id string) *schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag, ok := m.tags[id]
	if !ok || tag.ParentTagID == "" {
		return nil
	}
	parent, ok := m.tags[tag.ParentTagID]
	if !ok {
		return nil
	}
	return &parent
}

// TagPath returns the chain from root to the given tag, inclusive. Unknown
// ids yield nil.
func (m *Manager) TagPath(id string) []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.tags[id]; !ok {
		return nil
	}

	var path []schemas.Tag
	visited := make(map[string]bool)
	current := id
	for current != "" && !visited[current] {
		visited[current] = true
		tag, ok := m.tags[current]
		if !ok {
			break
		}
		path = append([]schemas.Tag{tag}, path...)
		current = tag.ParentTagID
	}
	return path
}

// TagLevel is the 1-based depth of a tag from its root; unknown ids report 0.
func (m *Manager) TagLevel(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tagLevelLocked(id)
}

// RootTags lists a category's parentless tags, sorted by name.
func (m *Manager) RootTags(categoryID string) []schemas.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schemas.Tag
	for _, t := range m.tags {
		if t.CategoryID == categoryID && t.ParentTagID == "" {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HierarchyTree builds the full tree for a category from its roots down.
func (m *Manager) HierarchyTree(categoryID string) []*TagNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	children := make(map[string][]schemas.Tag)
	var roots []schemas.Tag
	for _, t := range m.tags {
		if t.CategoryID != categoryID {
			continue
		}
		if t.ParentTagID == "" {
			roots = append(roots, t)
		} else {
			children[t.ParentTagID] = append(children[t.ParentTagID], t)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })

	var build func(tag schemas.Tag) *TagNode
	build = func(tag schemas.Tag) *TagNode {
		node := &TagNode{Tag: tag}
		kids := children[tag.ID]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
		for _, kid := range kids {
			node.Children = append(node.Children, build(kid))
		}
		return node
	}

	out := make([]*TagNode, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}

// ValidateHierarchy checks whether parentID is a legal parent for tagID
// without mutating anything.
func (m *Manager) ValidateHierarchy(tagID, parentID string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag, ok := m.tags[tagID]
	if !ok {
		return schemas.NewValidationError("tag or parent tag not found")
	}
	return m.validateParentLocked(tag.CategoryID, parentID, tagID, m.subtreeHeightLocked(tagID))
}

// PromoteChildren detaches every direct child of a tag, turning each one
// into a root of its category. The parent itself, its associations and any
// deeper descendants are untouched. Promoting a childless tag is a no-op.
func (m *Manager) PromoteChildren(ctx context.Context, parentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[parentID]; !ok {
		return schemas.NewValidationError("tag not found")
	}

	prev := m.snapshot()
	if !m.promoteChildrenLocked(parentID, time.Now().UTC()) {
		return nil
	}
	if err := m.persist(ctx); err != nil {
		m.adopt(prev)
		return err
	}
	return nil
}

// MaxDepth reports the depth of the deepest descendant under a tag, measured
// from the tag's root. Unknown ids report 0.
func (m *Manager) MaxDepth(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	level := m.tagLevelLocked(id)
	if level == 0 {
		return 0
	}
	return level + m.subtreeHeightLocked(id) - 1
}
