package lidar

import (
	"fmt"
	"os"

	"github.com/gekko3d/lidar/scan"
	"gopkg.in/yaml.v3"
)

// SnapshotScene captures the current object layout as a SceneDef. Objects
// keep their present position and colour, so a dropped crate is saved
// where it landed.
func SnapshotScene(scene *Scene) SceneDef {
	var def SceneDef
	for _, obj := range scene.Objects() {
		data := ObjectDef{
			Name:     obj.Name,
			Position: obj.Position,
			Shape:    obj.Shape,
			Color:    obj.Material.Color,
			Mass:     obj.Body.Mass,
		}
		if obj.Shape == ShapeSphere {
			data.Radius = obj.Radius
		} else {
			data.HalfExtents = obj.HalfExtents
		}
		for _, r := range obj.Reactives {
			data.Reactions = append(data.Reactions, r.Variant().String())
			if r.LossRate() > 1 {
				data.LossRate = r.LossRate()
			}
		}
		def.Objects = append(def.Objects, data)
	}
	return def
}

func SavePreset(scene *Scene, filename string) error {
	bytes, err := yaml.Marshal(SnapshotScene(scene))
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return os.WriteFile(filename, bytes, 0644)
}

// LoadPreset spawns every object of a saved preset into the scene and
// returns the new handles. Objects that fail to spawn are skipped with a
// warning.
func LoadPreset(cmd *Commands, filename string) ([]scan.ObjectHandle, error) {
	def, err := LoadSceneDef(filename)
	if err != nil {
		return nil, err
	}

	var handles []scan.ObjectHandle
	for _, data := range def.Objects {
		obj, err := cmd.Spawn(data)
		if err != nil {
			cmd.Logger().Warnf("preset %s: %v", filename, err)
			continue
		}
		handles = append(handles, obj.Handle)
	}
	return handles, nil
}
