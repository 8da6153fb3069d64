package mover

import (
	"container/heap"
	"math"
)

// This file is a reference PathService implementation: a grid A* planner
// that computes incrementally across UpdatePath calls instead of blocking
// RequestPath, so NextWaypoint can legitimately return a temporary (Y=-1)
// waypoint while a path is still being searched (§6 "Path Service").
// It is grounded on the teacher's NavGrid/A* pathfinder, generalized from a
// single-shot synchronous search to the budgeted, resumable search shape
// this core's non-blocking contract requires.

// GridTerrain is the minimal walkability surface GridPathService searches
// over; a reference TerrainService/MoveSemantics pair in terrain.go
// implements it.
type GridTerrain interface {
	CellSize() float64
	Blocked(cx, cz int) bool
}

// expansionsPerUpdate bounds the A* work done per UpdatePath call, the
// knob that makes the search "non-blocking" relative to the tick.
const expansionsPerUpdate = 64

// GridPathService is a reference PathService over a GridTerrain.
type GridPathService struct {
	terrain GridTerrain
	nextID  PathID
	paths   map[PathID]*gridSearch
}

// NewGridPathService builds a PathService backed by terrain.
func NewGridPathService(terrain GridTerrain) *GridPathService {
	return &GridPathService{terrain: terrain, paths: make(map[PathID]*gridSearch)}
}

type gridSearch struct {
	goal        Vec3
	radius      float64
	open        *pathHeap
	closed      map[int64]bool
	best        map[int64]*pathNode
	result      [][2]int // completed cell path, nil until done
	done        bool
	failed      bool
	dirty       bool // PathUpdated: result changed since last NextWaypoint scan
	lastSegment int
}

func cellKey(cx, cz int) int64 { return int64(cx)<<32 | int64(uint32(cz)) }

type pathNode struct {
	cx, cz int
	g, h   float64
	parent *pathNode
}

type pathHeap []*pathNode

func (h pathHeap) Len() int            { return len(h) }
func (h pathHeap) Less(i, j int) bool   { return (h[i].g + h[i].h) < (h[j].g + h[j].h) }
func (h pathHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x interface{})  { *h = append(*h, x.(*pathNode)) }
func (h *pathHeap) Pop() interface{} {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

var gridDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func heuristic(ax, az, bx, bz int) float64 {
	dx := math.Abs(float64(ax - bx))
	dz := math.Abs(float64(az - bz))
	return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz)
}

// RequestPath starts a new incremental search and returns its handle
// immediately (§6 "non-blocking").
func (s *GridPathService) RequestPath(unit *UnitRecord, moveDef MoveDefID, start, goal Vec3, radius float64, synced bool) PathID {
	sq := s.terrain.CellSize()
	scx, scz := int(start.X/sq), int(start.Z/sq)
	gcx, gcz := int(goal.X/sq), int(goal.Z/sq)
	if s.terrain.Blocked(scx, scz) || s.terrain.Blocked(gcx, gcz) {
		return 0
	}

	s.nextID++
	id := s.nextID

	root := &pathNode{cx: scx, cz: scz, g: 0, h: heuristic(scx, scz, gcx, gcz)}
	oh := &pathHeap{root}
	heap.Init(oh)

	search := &gridSearch{
		goal:   goal,
		radius: radius,
		open:   oh,
		closed: make(map[int64]bool),
		best:   map[int64]*pathNode{cellKey(scx, scz): root},
	}
	s.paths[id] = search
	return id
}

// UpdatePath runs one bounded batch of A* expansions (§6 "opportunity for
// the service to progress incremental work").
func (s *GridPathService) UpdatePath(unit *UnitRecord, id PathID) {
	search, ok := s.paths[id]
	if !ok || search.done {
		return
	}
	sq := s.terrain.CellSize()
	gcx, gcz := int(search.goal.X/sq), int(search.goal.Z/sq)

	for i := 0; i < expansionsPerUpdate; i++ {
		if search.open.Len() == 0 {
			search.done = true
			search.failed = true
			search.dirty = true
			return
		}
		cur := heap.Pop(search.open).(*pathNode)
		if cur.cx == gcx && cur.cz == gcz {
			search.result = buildCellPath(cur)
			search.done = true
			search.dirty = true
			return
		}
		k := cellKey(cur.cx, cur.cz)
		if search.closed[k] {
			continue
		}
		search.closed[k] = true

		for _, d := range gridDirs {
			nx, nz := cur.cx+d[0], cur.cz+d[1]
			if s.terrain.Blocked(nx, nz) {
				continue
			}
			if d[0] != 0 && d[1] != 0 {
				if s.terrain.Blocked(cur.cx+d[0], cur.cz) || s.terrain.Blocked(cur.cx, cur.cz+d[1]) {
					continue
				}
			}
			nk := cellKey(nx, nz)
			if search.closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			ng := cur.g + cost
			if prev, ok := search.best[nk]; ok && ng >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cz: nz, g: ng, h: heuristic(nx, nz, gcx, gcz), parent: cur}
			search.best[nk] = node
			heap.Push(search.open, node)
		}
	}
}

func buildCellPath(end *pathNode) [][2]int {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cz})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// NextWaypoint returns the cell-path waypoint at segment, a temporary
// (Y=-1) waypoint while the search is still running, or the terminal
// failure sentinel (-1,·,-1) once the search exhausts its open set (§6).
func (s *GridPathService) NextWaypoint(unit *UnitRecord, id PathID, segment int, from Vec3, step float64, synced bool) Waypoint {
	search, ok := s.paths[id]
	if !ok {
		return Waypoint{X: -1, Y: 0, Z: -1}
	}
	if !search.done {
		s.UpdatePath(unit, id)
	}
	if !search.done {
		return Waypoint{X: from.X, Y: -1, Z: from.Z}
	}
	if search.failed {
		return Waypoint{X: -1, Y: 0, Z: -1}
	}
	sq := s.terrain.CellSize()
	// segment counts from the path cell that contains from, so segment 1
	// is the cell after the caller's current waypoint.
	idx := segment
	fc := [2]int{int(from.X / sq), int(from.Z / sq)}
	for i, cell := range search.result {
		if cell == fc {
			idx = i + segment
			break
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(search.result) {
		idx = len(search.result) - 1
	}
	cell := search.result[idx]
	wx := float64(cell[0])*sq + sq/2
	wz := float64(cell[1])*sq + sq/2
	return Waypoint{X: wx, Y: 0, Z: wz}
}

// PathUpdated reports whether the path geometry changed since the last
// check, clearing the dirty flag (§6).
func (s *GridPathService) PathUpdated(id PathID) bool {
	search, ok := s.paths[id]
	if !ok {
		return false
	}
	wasDirty := search.dirty
	search.dirty = false
	return wasDirty
}

// DeletePath releases the search state for id.
func (s *GridPathService) DeletePath(id PathID) {
	delete(s.paths, id)
}
