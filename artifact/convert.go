package artifact

import (
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/relate"
)

// FromNode projects a lang.Node tree into the public SourceNode shape,
// dropping marker nodes entirely — they are rewrite's internal plumbing,
// never something the visualizer should draw.
func FromNode(n *lang.Node) SourceNode {
	out := SourceNode{
		ID:   n.ID,
		Type: string(n.Type),
		Text: n.Text,
		Line: n.Pos.StartLine,
	}
	for _, c := range n.Children {
		if c.Type == lang.NodeMarkerCall {
			if len(c.Children) == 1 {
				out.Children = append(out.Children, FromNode(c.Children[0]))
			}
			continue
		}
		out.Children = append(out.Children, FromNode(c))
	}
	return out
}

// ToNode reconstructs a lang.Node tree from its SourceNode projection —
// the inverse of FromNode, used by validate.Directory to re-derive a
// checkable tree from a stored artifact without re-parsing source. The
// result never contains marker nodes (FromNode already dropped them), so
// it is exactly the "clean" tree validate.ValidateTree expects.
func ToNode(s SourceNode) *lang.Node {
	n := &lang.Node{
		ID:   s.ID,
		Type: lang.NodeType(s.Type),
		Text: s.Text,
		Pos:  lang.Position{StartLine: s.Line, EndLine: s.Line},
	}
	for _, c := range s.Children {
		child := ToNode(c)
		child.Parent = n
		n.Children = append(n.Children, child)
	}
	return n
}

// FromRelationships projects relate.Relationship values into the JSON
// shape.
func FromRelationships(rels []relate.Relationship) []Relationship {
	out := make([]Relationship, len(rels))
	for i, r := range rels {
		out[i] = Relationship{
			Container: r.Container,
			Cursor:    r.Cursor,
			Type:      string(r.Type),
			NodeID:    r.NodeID,
		}
	}
	return out
}
