// Package style maps feature semantics to rendering specs. Everything here
// is a pure, total lookup: unknown inputs resolve to a fallback style and
// never fail.
package style

import (
	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

// Z-order ranks. Higher draws later (on top). Streets occupy 2..7 via the
// class table below; water and greenspace share rank 1 with insertion order
// as the tie-break.
const (
	RankBackground = 0
	RankWater      = 1
	RankGreenspace = 1
	RankBuilding   = 2
	RankLabel      = 15
	RankUser       = 20
)

var (
	white     = model.RGB{R: 255, G: 255, B: 255}
	lightGray = model.RGB{R: 208, G: 208, B: 208}
)

// Background is the plot-area fill behind all layers.
var Background = model.RGB{R: 217, G: 217, B: 217}

// LabelColor is the street label text color.
var LabelColor = model.RGB{R: 51, G: 51, B: 51}

// streetStyles is total over the StreetClass enumeration; ParseStreetClass
// guarantees every raw tag lands on one of these entries.
var streetStyles = map[model.StreetClass]model.Style{
	model.ClassMotorway:    {StrokeWidth: 4.0, Stroke: model.RGB{R: 232, G: 146, B: 107}, Alpha: 1.0, Rank: 7},
	model.ClassTrunk:       {StrokeWidth: 3.0, Stroke: model.RGB{R: 249, G: 179, B: 128}, Alpha: 1.0, Rank: 6},
	model.ClassPrimary:     {StrokeWidth: 2.5, Stroke: model.RGB{R: 252, G: 214, B: 164}, Alpha: 1.0, Rank: 5},
	model.ClassSecondary:   {StrokeWidth: 2.0, Stroke: white, Alpha: 1.0, Rank: 4},
	model.ClassTertiary:    {StrokeWidth: 1.5, Stroke: white, Alpha: 1.0, Rank: 4},
	model.ClassResidential: {StrokeWidth: 1.2, Stroke: white, Alpha: 0.9, Rank: 3},
	model.ClassService:     {StrokeWidth: 0.8, Stroke: white, Alpha: 0.8, Rank: 3},
	model.ClassFootpath:    {StrokeWidth: 0.5, Stroke: model.RGB{R: 240, G: 240, B: 240}, Alpha: 0.6, Rank: 2},
	model.ClassOther:       {StrokeWidth: 0.5, Stroke: lightGray, Alpha: 0.6, Rank: 2},
}

// ForStreet resolves one street class to its style. Classes outside the
// table fall back to the "other" entry.
func ForStreet(class model.StreetClass) model.Style {
	if s, ok := streetStyles[class]; ok {
		return s
	}
	return streetStyles[model.ClassOther]
}

func Water() model.Style {
	return model.Style{
		StrokeWidth: 0.5,
		Stroke:      model.RGB{R: 107, G: 163, B: 184},
		Fill:        model.RGB{R: 170, G: 211, B: 223},
		Filled:      true,
		Alpha:       0.7,
		Rank:        RankWater,
	}
}

func Greenspace() model.Style {
	return model.Style{
		StrokeWidth: 0.3,
		Stroke:      model.RGB{R: 129, G: 199, B: 132},
		Fill:        model.RGB{R: 200, G: 230, B: 201},
		Filled:      true,
		Alpha:       0.5,
		Rank:        RankGreenspace,
	}
}

func Building() model.Style {
	return model.Style{
		StrokeWidth: 0.3,
		Stroke:      model.RGB{R: 153, G: 153, B: 153},
		Fill:        model.RGB{R: 207, G: 187, B: 171},
		Filled:      true,
		Alpha:       0.7,
		Rank:        RankBuilding,
	}
}

// User is the style for user-supplied geometry; it draws on top of every
// context layer regardless of its own attributes.
func User() model.Style {
	return model.Style{
		StrokeWidth: 2.5,
		Stroke:      model.RGB{R: 139, G: 0, B: 0},
		Fill:        model.RGB{R: 252, G: 146, B: 114},
		Filled:      true,
		Alpha:       0.8,
		Rank:        RankUser,
	}
}

// Resolve maps a contextual feature to its rendering spec.
func Resolve(category model.Category, f model.Feature) model.Style {
	switch category {
	case model.CategoryWater:
		return Water()
	case model.CategoryGreenspace:
		return Greenspace()
	case model.CategoryBuilding:
		return Building()
	case model.CategoryStreet:
		return ForStreet(model.ParseStreetClass(f.Tags["highway"]))
	default:
		s := ForStreet(model.ClassOther)
		return s
	}
}
