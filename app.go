package lidar

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"time"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

// App owns the resources, modules and staged systems of a simulation.
// It has no loop of its own beyond Run; hosts normally call Tick from their
// frame callback.
type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ticks     uint64
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules in order. Modules that read resources of
// another module must come after it.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		app.modules = append(app.modules, module)
		module.Install(app, cmd)
	}
	return app
}

// Tick runs every system once, stage by stage.
func (app *App) Tick() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.ticks++
}

func (app *App) Ticks() uint64 { return app.ticks }

// Run ticks the app every step until ctx is done. afterTick, when not nil,
// runs on the same goroutine after every tick; frontends draw from it.
func (app *App) Run(ctx context.Context, step time.Duration, afterTick func()) error {
	if step <= 0 {
		return fmt.Errorf("tick step must be positive, got %v", step)
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	app.Logger().Infof("running at %v per tick", step)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			app.Tick()
			if afterTick != nil {
				afterTick()
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the registered resource of type *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

func (app *App) callSystem(system systemFn) {
	app.callSystemInternal(system)
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystemInternal(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemType, systemValue, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(app.Commands())
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemType, systemValue, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemType reflect.Type, systemValue reflect.Value, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	panic(msg)
}
