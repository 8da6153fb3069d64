package mover

import "math"

// This file is a reference TerrainService + MoveSemantics + GridTerrain
// implementation over a per-cell grid, grounded on the teacher's
// GroundType/ObjectType tile map: ground types keep their movement-speed
// multipliers (§6 PosSpeedMod), objects keep their movement-blocking
// predicate (§6 SquareBlocked/BlockStructure), and the tile gains an
// Elevation field this core's height/slope/normal queries read from.

// GroundType identifies the base surface of a cell.
type GroundType uint8

const (
	GroundGrass       GroundType = iota // default open ground
	GroundGrassLong                     // tall grass
	GroundScrub                         // low bushes / bramble
	GroundMud                           // wet / churned ground
	GroundSand                          // sandy / arid patches
	GroundGravel                        // loose stone
	GroundDirt                          // packed earth path
	GroundTarmac                        // road surface
	GroundRubbleLight                   // scattered small debris
	GroundRubbleHeavy                   // dense rubble field
	GroundWater                         // shallow water
)

// groundMovementMul returns the movement speed multiplier for a ground type
// (§6 "Move Semantics Service" PosSpeedMod).
func groundMovementMul(g GroundType) float64 {
	switch g {
	case GroundGrass, GroundTarmac:
		return 1.0
	case GroundGrassLong:
		return 0.9
	case GroundScrub:
		return 0.8
	case GroundMud:
		return 0.6
	case GroundSand:
		return 0.75
	case GroundGravel:
		return 0.85
	case GroundDirt:
		return 0.95
	case GroundRubbleLight:
		return 0.7
	case GroundRubbleHeavy:
		return 0.4
	case GroundWater:
		return 0.3
	default:
		return 1.0
	}
}

// ObjectType identifies an object occupying a cell.
type ObjectType uint8

const (
	ObjectNone  ObjectType = iota
	ObjectWall             // impassable structure
	ObjectPillar           // impassable structural column
	ObjectCrate            // impassable obstacle
	ObjectFence            // passable, slows movement
	ObjectWire             // passable, heavily slows movement
)

// objectBlocksMovement reports whether the object is impassable (§6
// SquareBlocked BlockStructure).
func objectBlocksMovement(o ObjectType) bool {
	switch o {
	case ObjectWall, ObjectPillar, ObjectCrate:
		return true
	default:
		return false
	}
}

// objectMovementMul returns the speed multiplier for objects that slow but
// don't block.
func objectMovementMul(o ObjectType) float64 {
	switch o {
	case ObjectFence:
		return 0.5
	case ObjectWire:
		return 0.2
	default:
		return 1.0
	}
}

// Cell is one grid cell of the battlefield terrain.
type Cell struct {
	Ground    GroundType
	Object    ObjectType
	Elevation float64 // world-height units
}

// GridTerrainMap is the authoritative per-cell terrain representation: a
// reference TerrainService, MoveSemantics, and GridTerrain all at once.
type GridTerrainMap struct {
	Cols, Rows int
	cellSize   float64
	Cells      []Cell // row-major: index = row*Cols + col
}

// NewGridTerrainMap creates a flat, all-grass terrain.
func NewGridTerrainMap(cols, rows int, cellSize float64) *GridTerrainMap {
	cells := make([]Cell, cols*rows)
	for i := range cells {
		cells[i].Ground = GroundGrass
	}
	return &GridTerrainMap{Cols: cols, Rows: rows, cellSize: cellSize, Cells: cells}
}

func (tm *GridTerrainMap) inBounds(col, row int) bool {
	return col >= 0 && col < tm.Cols && row >= 0 && row < tm.Rows
}

func (tm *GridTerrainMap) cellOf(x, z float64) (int, int) {
	return int(x / tm.cellSize), int(z / tm.cellSize)
}

func (tm *GridTerrainMap) at(col, row int) *Cell {
	if !tm.inBounds(col, row) {
		return nil
	}
	return &tm.Cells[row*tm.Cols+col]
}

// SetGround sets the ground type at (col,row).
func (tm *GridTerrainMap) SetGround(col, row int, g GroundType) {
	if c := tm.at(col, row); c != nil {
		c.Ground = g
	}
}

// SetObject places an object at (col,row).
func (tm *GridTerrainMap) SetObject(col, row int, o ObjectType) {
	if c := tm.at(col, row); c != nil {
		c.Object = o
	}
}

// SetElevation sets the terrain height at (col,row).
func (tm *GridTerrainMap) SetElevation(col, row int, h float64) {
	if c := tm.at(col, row); c != nil {
		c.Elevation = h
	}
}

// --- GridTerrain (pathservice.go) ---

func (tm *GridTerrainMap) CellSize() float64 { return tm.cellSize }

func (tm *GridTerrainMap) Blocked(cx, cz int) bool {
	c := tm.at(cx, cz)
	if c == nil {
		return true
	}
	return objectBlocksMovement(c.Object)
}

// --- TerrainService (§6) ---

func (tm *GridTerrainMap) HeightReal(x, z float64) float64 {
	col, row := tm.cellOf(x, z)
	c := tm.at(col, row)
	if c == nil {
		return 0
	}
	return c.Elevation
}

func (tm *GridTerrainMap) HeightAboveWater(x, z float64) float64 {
	h := tm.HeightReal(x, z)
	if h < 0 {
		return 0
	}
	return h
}

// Slope returns the sine of the terrain's inclination at (x,z), derived
// from Normal as sqrt(1 - n.Y²).
func (tm *GridTerrainMap) Slope(x, z float64) float64 {
	n := tm.Normal(x, z)
	return math.Sqrt(math.Max(0, 1-n.Y*n.Y))
}

// Normal returns the terrain's unit surface normal at (x,z), estimated
// from neighboring cell heights.
func (tm *GridTerrainMap) Normal(x, z float64) Vec3 {
	col, row := tm.cellOf(x, z)
	h := func(dc, dr int) float64 {
		c := tm.at(col+dc, row+dr)
		if c == nil {
			return tm.HeightReal(x, z)
		}
		return c.Elevation
	}
	sq := tm.cellSize
	dx := (h(1, 0) - h(-1, 0)) / (2 * sq)
	dz := (h(0, 1) - h(0, -1)) / (2 * sq)
	n := Vec3{X: -dx, Y: 1, Z: -dz}
	return n.Normalize()
}

// --- MoveSemantics (§6) ---

func (tm *GridTerrainMap) PosSpeedMod(moveDef MoveDefID, pos, dir Vec3) float64 {
	col, row := tm.cellOf(pos.X, pos.Z)
	c := tm.at(col, row)
	if c == nil {
		return 0
	}
	if objectBlocksMovement(c.Object) {
		return 0
	}
	mul := groundMovementMul(c.Ground) * objectMovementMul(c.Object)
	if mul < 0.1 {
		mul = 0.1
	}
	return mul
}

func (tm *GridTerrainMap) SquareBlocked(moveDef MoveDefID, x, z int, unit *UnitRecord) BlockType {
	c := tm.at(x, z)
	if c == nil {
		return BlockTerrain
	}
	if objectBlocksMovement(c.Object) {
		return BlockStructure
	}
	return BlockNone
}

func (tm *GridTerrainMap) IsNonBlocking(moveDef MoveDefID, other, self *UnitRecord) bool {
	return other.Phys == Flying
}

func (tm *GridTerrainMap) CrushResistant(moveDef MoveDefID, other *UnitRecord) bool {
	return other.CrushResistant
}

// TestMoveSquare reports whether candidate lies on a passable cell; it does
// not run the full §4.1 Line Table scan, only a point check, matching the
// narrower role collision response needs (§4.4).
func (tm *GridTerrainMap) TestMoveSquare(unit *UnitRecord, candidate Vec3) bool {
	col, row := tm.cellOf(candidate.X, candidate.Z)
	c := tm.at(col, row)
	if c == nil {
		return false
	}
	return !objectBlocksMovement(c.Object)
}
