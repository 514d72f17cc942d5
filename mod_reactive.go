package lidar

// ReactiveModule decays every reactive state once per tick, after physics
// has consumed this tick's gravity flags.
type ReactiveModule struct{}

func (m ReactiveModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(ReactiveDecaySystem).
			InStage(PostUpdate),
	)
}

func ReactiveDecaySystem(scene *Scene) {
	for _, obj := range scene.Objects() {
		for _, r := range obj.Reactives {
			r.DecayTick()
		}
	}
}
