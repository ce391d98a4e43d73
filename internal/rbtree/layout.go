package rbtree

// Point is a node position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutOptions controls CalculateNodePositions.
type LayoutOptions struct {
	// Origin of the root's subtree.
	X, Y float64
	// Spacing is the horizontal distance per node at the top level.
	Spacing float64
	// LevelGap is the vertical distance between levels.
	LevelGap float64
	// Shrink scales Spacing at every level down.
	Shrink float64
}

// DefaultLayoutOptions returns the options the visualizer uses.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Spacing: 100, LevelGap: 80, Shrink: 0.7}
}

// CalculateNodePositions assigns every node of the snapshot a position based
// on subtree widths: a node sits to the right of its whole left subtree, and
// its right subtree starts one spacing unit after it. It only reads the
// snapshot and is meant for rendering.
func CalculateNodePositions(s Snapshot, opts LayoutOptions) map[NodeID]Point {
	positions := make(map[NodeID]Point)
	if s.root == nil {
		return positions
	}

	widths := make(map[*Node]int)
	var width func(*Node) int
	width = func(n *Node) int {
		if n == nil {
			return 0
		}
		if w, ok := widths[n]; ok {
			return w
		}
		w := 1 + width(n.left) + width(n.right)
		widths[n] = w
		return w
	}

	var place func(n *Node, x, y, spacing float64)
	place = func(n *Node, x, y, spacing float64) {
		if n == nil {
			return
		}
		nodeX := x + float64(width(n.left))*spacing
		positions[n.ID] = Point{X: nodeX, Y: y}
		place(n.left, x, y+opts.LevelGap, spacing*opts.Shrink)
		place(n.right, nodeX+spacing, y+opts.LevelGap, spacing*opts.Shrink)
	}
	place(s.root, opts.X, opts.Y, opts.Spacing)
	return positions
}
