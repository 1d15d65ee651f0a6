package game

import "github.com/zyedidia/generic/mapset"

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b Cell) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// NextStepGreedy picks the neighbour of start closest (squared Euclidean) to
// goal. Ties go to the first neighbour in left, up, right, down order.
// ErrNoNeighbors when start has no admissible neighbour.
func NextStepGreedy(g *Grid, start, goal Cell, forbidden mapset.Set[CellCode], ov *Override) (Cell, error) {
	candidates := g.Neighbors(start, forbidden, ov)
	if len(candidates) == 0 {
		return start, ErrNoNeighbors
	}
	best := candidates[0]
	bestDist := SquaredDistance(best, goal)
	for _, c := range candidates[1:] {
		if d := SquaredDistance(c, goal); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, nil
}
