package lidar

// LightComponent is the point light a glowing object switches on.
type LightComponent struct {
	Color     [3]float32 // RGB
	Intensity float32
	Range     float32
}

// MaterialComponent holds the surface colour; Color[3] is the alpha the
// phase reaction drives.
type MaterialComponent struct {
	Color    [4]float32
	Emission [3]float32
}

func (m *MaterialComponent) Alpha() float32 { return m.Color[3] }
