package memdoc

import (
	"maps"
	"slices"

	"github.com/petrijr/pointer/pkg/api"
)

// Node is an element of a Document. Its fields are guarded by the owning
// Document; read them through Document methods or a NodeView.
type Node struct {
	id      string
	tag     string
	classes []string
	attrs   map[string]string
	content string
	parent  *Node

	rect         api.Rect
	state        api.VisualState
	overlay      *api.Overlay
	overlayShown bool
	link         *Node
}

// ElementID returns the node's id.
func (n *Node) ElementID() string { return n.id }

func (n *Node) hasClass(c string) bool {
	return slices.Contains(n.classes, c)
}

func (n *Node) hiddenLocked() bool {
	for p := n; p != nil; p = p.parent {
		if p.state&api.StateHidden != 0 {
			return true
		}
	}
	return false
}

// NodeView is an immutable copy of a node.
type NodeView struct {
	ID       string
	Tag      string
	Classes  []string
	Attrs    map[string]string
	Content  string
	ParentID string
	Rect     api.Rect
	State    api.VisualState

	Overlay      *api.Overlay
	OverlayShown bool
}

func (n *Node) viewLocked() NodeView {
	v := NodeView{
		ID:           n.id,
		Tag:          n.tag,
		Classes:      slices.Clone(n.classes),
		Attrs:        maps.Clone(n.attrs),
		Content:      n.content,
		Rect:         n.rect,
		State:        n.state,
		OverlayShown: n.overlayShown,
	}
	if n.parent != nil {
		v.ParentID = n.parent.id
	}
	if n.overlay != nil {
		ov := *n.overlay
		v.Overlay = &ov
	}
	return v
}
