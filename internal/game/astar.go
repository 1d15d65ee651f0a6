package game

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"
)

// --- A* pathfinding ---

type pathNode struct {
	cell   Cell
	g, h   int
	seq    int // insertion order, breaks f ties first-in-first-out
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// Manhattan returns the L1 distance between a and b.
func Manhattan(a, b Cell) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// ShortestPath runs A* from start to goal over cells whose code is not
// forbidden, with ov substituted for one cell. The returned path includes both
// endpoints; path[1] is the next step. ErrNoPathFound when goal is unreachable.
func ShortestPath(g *Grid, start, goal Cell, forbidden mapset.Set[CellCode], ov *Override) ([]Cell, error) {
	if start == goal {
		return []Cell{start}, nil
	}

	seq := 0
	root := &pathNode{cell: start, h: Manhattan(start, goal), seq: seq}
	ol := &openList{root}
	heap.Init(ol)

	closed := mapset.New[Cell]()
	best := map[Cell]int{start: 0}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cell == goal {
			return buildPath(cur), nil
		}
		if closed.Has(cur.cell) {
			continue
		}
		closed.Put(cur.cell)

		for _, n := range g.Neighbors(cur.cell, forbidden, ov) {
			if closed.Has(n) {
				continue
			}
			ng := cur.g + 1
			if prev, ok := best[n]; ok && ng >= prev {
				continue
			}
			best[n] = ng
			seq++
			heap.Push(ol, &pathNode{cell: n, g: ng, h: Manhattan(n, goal), seq: seq, parent: cur})
		}
	}
	return nil, ErrNoPathFound
}

func buildPath(end *pathNode) []Cell {
	var cells []Cell
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
