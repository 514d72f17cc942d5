package lidar

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Spawn adds an object to the scene resource.
func (cmd *Commands) Spawn(def ObjectDef) (*SceneObject, error) {
	scene, ok := Resource[Scene](cmd.app)
	if !ok {
		panic("Spawn requires SceneModule")
	}
	return scene.Spawn(def)
}

func (cmd *Commands) Despawn(obj *SceneObject) {
	if scene, ok := Resource[Scene](cmd.app); ok {
		scene.Despawn(obj.Handle)
	}
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
