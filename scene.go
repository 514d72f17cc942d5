package lidar

import (
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type ColliderShape int

const (
	ShapeBox ColliderShape = iota
	ShapeSphere
)

func (s ColliderShape) String() string {
	if s == ShapeSphere {
		return "sphere"
	}
	return "box"
}

func (s *ColliderShape) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "", "box":
		*s = ShapeBox
	case "sphere":
		*s = ShapeSphere
	default:
		return fmt.Errorf("line %d: unknown shape %q", value.Line, value.Value)
	}
	return nil
}

func (s ColliderShape) MarshalYAML() (any, error) {
	return s.String(), nil
}

// ObjectDef describes an object to spawn. Reactions name the energy effects
// ("glow", "gravity", "phase") the object carries.
type ObjectDef struct {
	Name        string        `yaml:"name"`
	Position    mgl32.Vec3    `yaml:"position"`
	Shape       ColliderShape `yaml:"shape"`
	HalfExtents mgl32.Vec3    `yaml:"half_extents,omitempty"`
	Radius      float32       `yaml:"radius,omitempty"`
	Color       [4]float32    `yaml:"color"`
	Mass        float32       `yaml:"mass,omitempty"`
	Reactions   []string      `yaml:"reactions,omitempty"`
	LossRate    int           `yaml:"loss_rate,omitempty"`
}

type SceneDef struct {
	Objects []ObjectDef `yaml:"objects"`
}

// LoadSceneDef reads a YAML scene description.
func LoadSceneDef(path string) (SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneDef{}, fmt.Errorf("read scene %s: %w", path, err)
	}
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return SceneDef{}, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return def, nil
}

// DefaultSceneDef is a small room: a floor, a wall and one object per reaction.
func DefaultSceneDef() SceneDef {
	return SceneDef{Objects: []ObjectDef{
		{Name: "floor", Position: mgl32.Vec3{0, -0.5, -15}, HalfExtents: mgl32.Vec3{20, 0.5, 20}, Color: [4]float32{0.4, 0.4, 0.4, 1}},
		{Name: "wall", Position: mgl32.Vec3{0, 4, -30}, HalfExtents: mgl32.Vec3{20, 4, 0.5}, Color: [4]float32{0.6, 0.6, 0.6, 1}},
		{Name: "lamp", Position: mgl32.Vec3{-6, 1, -12}, Shape: ShapeSphere, Radius: 1, Color: [4]float32{1, 0.9, 0.6, 1}, Reactions: []string{"glow"}},
		{Name: "crate", Position: mgl32.Vec3{0, 3, -14}, HalfExtents: mgl32.Vec3{1, 1, 1}, Color: [4]float32{0.6, 0.4, 0.2, 1}, Mass: 1, Reactions: []string{"gravity"}},
		{Name: "ghost", Position: mgl32.Vec3{6, 1.5, -12}, HalfExtents: mgl32.Vec3{1, 1.5, 1}, Color: [4]float32{0.3, 0.5, 1, 0}, Reactions: []string{"phase", "glow"}},
	}}
}

// SceneObject is a world object. It implements the capabilities the
// reactive states drive.
type SceneObject struct {
	Handle      scan.ObjectHandle
	Name        string
	Position    mgl32.Vec3
	Shape       ColliderShape
	HalfExtents mgl32.Vec3
	Radius      float32
	Light       LightComponent
	Material    MaterialComponent
	Body        RigidBodyComponent
	Reactives   []*scan.Reactive
}

func (o *SceneObject) AABB() AABB {
	ext := o.HalfExtents
	if o.Shape == ShapeSphere {
		ext = mgl32.Vec3{o.Radius, o.Radius, o.Radius}
	}
	return AABB{Min: o.Position.Sub(ext), Max: o.Position.Add(ext)}
}

func (o *SceneObject) halfHeight() float32 {
	if o.Shape == ShapeSphere {
		return o.Radius
	}
	return o.HalfExtents.Y()
}

func (o *SceneObject) SetLight(intensity, lightRange float32) {
	o.Light.Intensity = intensity
	o.Light.Range = lightRange
}

func (o *SceneObject) SetEmission(scale float32) {
	for i := 0; i < 3; i++ {
		o.Material.Emission[i] = o.Material.Color[i] * scale
	}
}

func (o *SceneObject) SetGravity(enabled bool) { o.Body.UseGravity = enabled }
func (o *SceneObject) SetFrozen(frozen bool)   { o.Body.Frozen = frozen }
func (o *SceneObject) SetAlpha(alpha float32)  { o.Material.Color[3] = alpha }

// intersect returns the entry distance and surface normal of a ray with a
// normalized direction. Rays starting inside the object do not hit it.
func (o *SceneObject) intersect(origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	if o.Shape == ShapeSphere {
		return intersectSphere(origin, dir, o.Position, o.Radius)
	}
	return intersectAABB(origin, dir, o.AABB())
}

func intersectAABB(origin, dir mgl32.Vec3, box AABB) (float32, mgl32.Vec3, bool) {
	tMin, tMax := -math32.Inf(1), math32.Inf(1)
	var normal mgl32.Vec3

	for a := 0; a < 3; a++ {
		if math32.Abs(dir[a]) < 1e-8 {
			if origin[a] < box.Min[a] || origin[a] > box.Max[a] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[a]
		t1 := (box.Min[a] - origin[a]) * inv
		t2 := (box.Max[a] - origin[a]) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl32.Vec3{}
			normal[a] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl32.Vec3{}, false
		}
	}
	if tMin < 0 {
		return 0, mgl32.Vec3{}, false
	}
	return tMin, normal, true
}

func intersectSphere(origin, dir, center mgl32.Vec3, radius float32) (float32, mgl32.Vec3, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	if c < 0 {
		return 0, mgl32.Vec3{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, mgl32.Vec3{}, false
	}
	t := -b - math32.Sqrt(disc)
	if t < 0 {
		return 0, mgl32.Vec3{}, false
	}
	hit := origin.Add(dir.Mul(t))
	return t, hit.Sub(center).Normalize(), true
}

// Scene holds the world objects and their spatial index. It implements
// scan.SceneQuery and scan.ReactiveLookup.
type Scene struct {
	objects map[scan.ObjectHandle]*SceneObject
	order   []scan.ObjectHandle
	grid    *SpatialHashGrid
	next    scan.ObjectHandle
}

func NewScene(cellSize float32) *Scene {
	return &Scene{
		objects: make(map[scan.ObjectHandle]*SceneObject),
		grid:    NewSpatialHashGrid(cellSize),
		next:    1,
	}
}

func (s *Scene) Spawn(def ObjectDef) (*SceneObject, error) {
	obj := &SceneObject{
		Handle:      s.next,
		Name:        def.Name,
		Position:    def.Position,
		Shape:       def.Shape,
		HalfExtents: def.HalfExtents,
		Radius:      def.Radius,
		Material:    MaterialComponent{Color: def.Color},
		Body:        RigidBodyComponent{Mass: def.Mass, Static: def.Mass <= 0},
	}
	obj.Light.Color = [3]float32{def.Color[0], def.Color[1], def.Color[2]}

	for _, name := range def.Reactions {
		variant, err := scan.ParseVariant(name)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", def.Name, err)
		}
		var r *scan.Reactive
		switch variant {
		case scan.VariantGlow:
			r = scan.NewGlow(obj)
		case scan.VariantGravity:
			r = scan.NewGravity(obj)
		case scan.VariantPhase:
			r = scan.NewPhase(obj)
		}
		if def.LossRate > 0 {
			r.SetLossRate(def.LossRate)
		}
		obj.Reactives = append(obj.Reactives, r)
	}

	s.next++
	s.objects[obj.Handle] = obj
	s.order = append(s.order, obj.Handle)
	s.grid.Insert(obj.Handle, obj.AABB())
	return obj, nil
}

func (s *Scene) Despawn(h scan.ObjectHandle) {
	if _, ok := s.objects[h]; !ok {
		return
	}
	delete(s.objects, h)
	s.grid.Remove(h)
	for i, other := range s.order {
		if other == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Move repositions an object and refreshes its grid cells.
func (s *Scene) Move(obj *SceneObject, pos mgl32.Vec3) {
	obj.Position = pos
	s.grid.Insert(obj.Handle, obj.AABB())
}

func (s *Scene) Object(h scan.ObjectHandle) (*SceneObject, bool) {
	obj, ok := s.objects[h]
	return obj, ok
}

func (s *Scene) Find(name string) (*SceneObject, bool) {
	for _, h := range s.order {
		if obj := s.objects[h]; obj.Name == name {
			return obj, true
		}
	}
	return nil, false
}

// Objects lists objects in spawn order.
func (s *Scene) Objects() []*SceneObject {
	out := make([]*SceneObject, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.objects[h])
	}
	return out
}

func (s *Scene) Len() int { return len(s.order) }

func (s *Scene) ReactiveStates(h scan.ObjectHandle) []*scan.Reactive {
	if obj, ok := s.objects[h]; ok {
		return obj.Reactives
	}
	return nil
}

// Raycast returns the nearest object hit within maxDistance.
func (s *Scene) Raycast(origin, dir mgl32.Vec3, maxDistance float32) (scan.Hit, bool) {
	if dir.Len() == 0 || maxDistance <= 0 {
		return scan.Hit{}, false
	}
	dir = dir.Normalize()

	best := scan.Hit{T: maxDistance}
	found := false
	for _, h := range s.grid.QueryRay(origin, dir, maxDistance) {
		obj := s.objects[h]
		t, normal, ok := obj.intersect(origin, dir)
		if !ok || t > best.T {
			continue
		}
		best = scan.Hit{
			Point:  origin.Add(dir.Mul(t)),
			Normal: normal,
			T:      t,
			Object: h,
		}
		found = true
	}
	return best, found
}
