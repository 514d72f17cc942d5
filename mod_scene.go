package lidar

// SceneModule owns the Scene resource and spawns Def into it.
type SceneModule struct {
	Def      SceneDef
	CellSize float32
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	cellSize := m.CellSize
	if cellSize <= 0 {
		cellSize = 2.0
	}
	scene := NewScene(cellSize)
	cmd.AddResources(scene)

	logger := app.Logger()
	for _, def := range m.Def.Objects {
		obj, err := scene.Spawn(def)
		if err != nil {
			logger.Errorf("scene: skipping object: %v", err)
			continue
		}
		logger.Debugf("scene: spawned %q as %d with %d reactions", obj.Name, obj.Handle, len(obj.Reactives))
	}
}
