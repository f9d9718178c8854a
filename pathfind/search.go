package pathfind

import (
	"container/heap"
	"math"

	"github.com/milk9111/castlechase/grid"
)

// Weighted edge costs: cardinal = 10, diagonal = 14 (≈10√2).
const (
	costCardinal = 10
	costDiagonal = 14
)

var directions = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// search is one resumable A* run over a passability snapshot.
type search struct {
	grid   grid.Passability
	start  grid.Coord
	goal   grid.Coord
	open   openSet
	gScore []int
	parent []int
	closed []bool
}

func newSearch(p grid.Passability, start, goal grid.Coord) *search {
	n := p.Width * p.Height
	s := &search{
		grid:   p,
		start:  start,
		goal:   goal,
		gScore: make([]int, n),
		parent: make([]int, n),
		closed: make([]bool, n),
	}
	for i := range s.gScore {
		s.gScore[i] = math.MaxInt
		s.parent[i] = -1
	}
	startIdx := s.index(start)
	s.gScore[startIdx] = 0
	heap.Push(&s.open, &openItem{idx: startIdx, f: octile(start, goal)})
	return s
}

// step expands at most budget nodes. It reports how many expansions were
// used, whether the search finished, and the tile path when one was found.
func (s *search) step(budget int) (used int, done bool, path []grid.Coord) {
	goalIdx := s.index(s.goal)
	for used < budget {
		if s.open.Len() == 0 {
			return used, true, nil
		}
		cur := heap.Pop(&s.open).(*openItem)
		if s.closed[cur.idx] {
			continue
		}
		used++
		s.closed[cur.idx] = true
		if cur.idx == goalIdx {
			return used, true, s.reconstruct(goalIdx)
		}

		c := s.coord(cur.idx)
		for _, d := range directions {
			n := c.Add(d[0], d[1])
			if !s.grid.Open(n) {
				continue
			}
			cost := costCardinal
			if d[0] != 0 && d[1] != 0 {
				// no squeezing past a blocked orthogonal neighbour
				if !s.grid.Open(c.Add(d[0], 0)) || !s.grid.Open(c.Add(0, d[1])) {
					continue
				}
				cost = costDiagonal
			}
			nIdx := s.index(n)
			if s.closed[nIdx] {
				continue
			}
			tentative := s.gScore[cur.idx] + cost
			if tentative < s.gScore[nIdx] {
				s.gScore[nIdx] = tentative
				s.parent[nIdx] = cur.idx
				heap.Push(&s.open, &openItem{idx: nIdx, f: tentative + octile(n, s.goal), g: tentative})
			}
		}
	}
	return used, false, nil
}

func (s *search) reconstruct(goalIdx int) []grid.Coord {
	path := make([]grid.Coord, 0, 32)
	for cur := goalIdx; cur != -1; cur = s.parent[cur] {
		path = append(path, s.coord(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (s *search) index(c grid.Coord) int {
	return c.Row*s.grid.Width + c.Col
}

func (s *search) coord(idx int) grid.Coord {
	return grid.Coord{Col: idx % s.grid.Width, Row: idx / s.grid.Width}
}

func octile(a, b grid.Coord) int {
	dx := a.Col - b.Col
	if dx < 0 {
		dx = -dx
	}
	dy := a.Row - b.Row
	if dy < 0 {
		dy = -dy
	}
	return costCardinal*(dx+dy) + (costDiagonal-2*costCardinal)*min(dx, dy)
}

type openItem struct {
	idx   int
	f     int
	g     int
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f == o[j].f {
		return o[i].g > o[j].g
	}
	return o[i].f < o[j].f
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
