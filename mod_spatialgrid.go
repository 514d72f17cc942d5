package lidar

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b AABB) Contains(p mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if p[a] < b.Min[a] || p[a] > b.Max[a] {
			return false
		}
	}
	return true
}

// SpatialHashGrid buckets object handles by the cells their AABB overlaps.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]scan.ObjectHandle
	occupied map[scan.ObjectHandle][]uint64
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]scan.ObjectHandle),
		occupied: make(map[scan.ObjectHandle][]uint64),
	}
}

func (grid *SpatialHashGrid) CellSize() float32 { return grid.cellSize }

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
	clear(grid.occupied)
}

// Insert indexes id under aabb, replacing any previous placement.
func (grid *SpatialHashGrid) Insert(id scan.ObjectHandle, aabb AABB) {
	grid.Remove(id)
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())
	minZ, maxZ := grid.getCellIndex(aabb.Min.Z()), grid.getCellIndex(aabb.Max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := grid.hashKey(x, y, z)
				grid.cells[key] = append(grid.cells[key], id)
				grid.occupied[id] = append(grid.occupied[id], key)
			}
		}
	}
}

func (grid *SpatialHashGrid) Remove(id scan.ObjectHandle) {
	for _, key := range grid.occupied[id] {
		ids := grid.cells[key]
		for i, other := range ids {
			if other == id {
				ids[i] = ids[len(ids)-1]
				ids = ids[:len(ids)-1]
				break
			}
		}
		if len(ids) == 0 {
			delete(grid.cells, key)
		} else {
			grid.cells[key] = ids
		}
	}
	delete(grid.occupied, id)
}

func (grid *SpatialHashGrid) QueryAABB(aabb AABB) []scan.ObjectHandle {
	minX, maxX := grid.getCellIndex(aabb.Min.X()), grid.getCellIndex(aabb.Max.X())
	minY, maxY := grid.getCellIndex(aabb.Min.Y()), grid.getCellIndex(aabb.Max.Y())
	minZ, maxZ := grid.getCellIndex(aabb.Min.Z()), grid.getCellIndex(aabb.Max.Z())

	unique := make(map[scan.ObjectHandle]struct{})
	var results []scan.ObjectHandle

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				results = grid.collect(grid.hashKey(x, y, z), unique, results)
			}
		}
	}
	return results
}

// MaxRayDistance bounds ray queries to a finite world extent.
const MaxRayDistance float32 = 1e5

// QueryRay walks the cells pierced by the ray (3D DDA) up to maxDist and
// returns the broadphase candidates in the order they were reached.
// dir must be normalized. maxDist is clamped to MaxRayDistance.
func (grid *SpatialHashGrid) QueryRay(origin, dir mgl32.Vec3, maxDist float32) []scan.ObjectHandle {
	if !(maxDist <= MaxRayDistance) {
		maxDist = MaxRayDistance
	}
	unique := make(map[scan.ObjectHandle]struct{})
	var results []scan.ObjectHandle

	cell := [3]int{
		grid.getCellIndex(origin.X()),
		grid.getCellIndex(origin.Y()),
		grid.getCellIndex(origin.Z()),
	}
	var step [3]int
	var tMax, tDelta [3]float32
	for a := 0; a < 3; a++ {
		switch {
		case dir[a] > 0:
			step[a] = 1
			tMax[a] = (float32(cell[a]+1)*grid.cellSize - origin[a]) / dir[a]
			tDelta[a] = grid.cellSize / dir[a]
		case dir[a] < 0:
			step[a] = -1
			tMax[a] = (float32(cell[a])*grid.cellSize - origin[a]) / dir[a]
			tDelta[a] = -grid.cellSize / dir[a]
		default:
			tMax[a] = math32.Inf(1)
			tDelta[a] = math32.Inf(1)
		}
	}

	limit := 3*int(maxDist/grid.cellSize) + 4
	for i := 0; i < limit; i++ {
		results = grid.collect(grid.hashKey(cell[0], cell[1], cell[2]), unique, results)

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if tMax[axis] > maxDist {
			break
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return results
}

func (grid *SpatialHashGrid) collect(key uint64, unique map[scan.ObjectHandle]struct{}, results []scan.ObjectHandle) []scan.ObjectHandle {
	for _, id := range grid.cells[key] {
		if _, ok := unique[id]; !ok {
			unique[id] = struct{}{}
			results = append(results, id)
		}
	}
	return results
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math32.Floor(pos / grid.cellSize))
}

// Simple hash function for 3D coordinates
func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	// large primes for mixing
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
