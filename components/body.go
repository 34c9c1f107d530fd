package components

import "github.com/pthm-cable/wilds/config"

// Body holds physical properties of an entity.
type Body struct {
	Radius float32
}

// Species is the immutable descriptive record shared by all creatures of a
// kind. Looked up by index; never mutated after startup.
type Species struct {
	Name         string
	DisplayScale float32
	CatchRate    float32 // probability a single capture attempt succeeds
	MoveSpeed    float32
	Radius       float32
}

// SpeciesTable builds the species roster from config.
func SpeciesTable(cfg *config.Config) []Species {
	table := make([]Species, len(cfg.Species))
	for i, sc := range cfg.Species {
		table[i] = Species{
			Name:         sc.Name,
			DisplayScale: float32(sc.DisplayScale),
			CatchRate:    float32(sc.CatchRate),
			MoveSpeed:    float32(sc.MoveSpeed),
			Radius:       float32(sc.Radius),
		}
	}
	return table
}
