package loss

import (
	"strconv"
	"strings"
)

// Container is implemented by losses made of other losses.
type Container interface {
	Components() []Loss
}

// Node describes one loss in a tree visited by Walk.
type Node struct {
	Path  []string // Names from the root down to this loss
	Depth int
	Index int // Position within the parent, 0 for the root
	// Position holds the index of every node from the root down, the root
	// being 0. Unlike Path it is unique within a tree.
	Position []int
	Loss     Loss
}

// PathString joins the path with "/".
func (n Node) PathString() string {
	return strings.Join(n.Path, "/")
}

// PositionString joins the position with ".", e.g. "0.1.0".
func (n Node) PositionString() string {
	parts := make([]string, len(n.Position))
	for i, p := range n.Position {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// IsLeaf reports whether the node has no components.
func (n Node) IsLeaf() bool {
	_, ok := unwrapWeighted(n.Loss).(Container)
	return !ok
}

func unwrapWeighted(l Loss) Loss {
	for {
		w, ok := l.(*Weighted)
		if !ok {
			return l
		}
		l = w.Unwrap()
	}
}

// Walk visits root and every nested component depth-first, parents before
// children, in component order. Weighted losses are visited as the loss
// they wrap would be, keeping their weighted Value.
func Walk(root Loss, fn func(Node) error) error {
	return walk(Node{Path: []string{root.Name()}, Position: []int{0}, Loss: root}, fn)
}

func walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	c, ok := unwrapWeighted(n.Loss).(Container)
	if !ok {
		return nil
	}
	for i, child := range c.Components() {
		path := append(append([]string(nil), n.Path...), child.Name())
		pos := append(append([]int(nil), n.Position...), i)
		next := Node{Path: path, Depth: n.Depth + 1, Index: i, Position: pos, Loss: child}
		if err := walk(next, fn); err != nil {
			return err
		}
	}
	return nil
}
