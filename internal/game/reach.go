package game

import "github.com/zyedidia/generic/mapset"

// Reachable flood-fills from start and returns every cell reachable through
// non-forbidden neighbours, start included. A forbidden start yields an empty
// set.
func Reachable(g *Grid, start Cell, forbidden mapset.Set[CellCode]) mapset.Set[Cell] {
	seen := mapset.New[Cell]()
	code := g.CellCode(start.X, start.Y)
	if code == CellBlocked || forbidden.Has(code) {
		return seen
	}
	queue := []Cell{start}
	seen.Put(start)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur, forbidden, nil) {
			if seen.Has(n) {
				continue
			}
			seen.Put(n)
			queue = append(queue, n)
		}
	}
	return seen
}

// BFSDistance returns the number of steps on a shortest orthogonal walk from
// start to goal, or -1 if goal cannot be reached.
func BFSDistance(g *Grid, start, goal Cell, forbidden mapset.Set[CellCode]) int {
	if start == goal {
		return 0
	}
	dist := map[Cell]int{start: 0}
	queue := []Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur, forbidden, nil) {
			if _, ok := dist[n]; ok {
				continue
			}
			dist[n] = dist[cur] + 1
			if n == goal {
				return dist[n]
			}
			queue = append(queue, n)
		}
	}
	return -1
}
