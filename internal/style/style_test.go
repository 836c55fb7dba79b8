package style

import (
	"testing"

	"github.com/Himanshu-Designing/ds-map-PDF-creation/internal/core/model"
)

func TestForStreet_MotorwayDominatesResidential(t *testing.T) {
	mw := ForStreet(model.ClassMotorway)
	res := ForStreet(model.ClassResidential)
	if mw.StrokeWidth <= res.StrokeWidth {
		t.Fatalf("motorway width %v must be strictly wider than residential %v", mw.StrokeWidth, res.StrokeWidth)
	}
	if mw.Rank <= res.Rank {
		t.Fatalf("motorway rank %d must be strictly above residential %d", mw.Rank, res.Rank)
	}
}

func TestForStreet_UnknownClassFallsBackToOther(t *testing.T) {
	got := ForStreet(model.StreetClass("hyperloop"))
	want := ForStreet(model.ClassOther)
	if got != want {
		t.Fatalf("unknown class = %+v want other style %+v", got, want)
	}
}

func TestForStreet_TotalOverEnumWithinRange(t *testing.T) {
	classes := []model.StreetClass{
		model.ClassMotorway, model.ClassTrunk, model.ClassPrimary,
		model.ClassSecondary, model.ClassTertiary, model.ClassResidential,
		model.ClassService, model.ClassFootpath, model.ClassOther,
	}
	for _, c := range classes {
		s := ForStreet(c)
		if s.StrokeWidth <= 0 {
			t.Fatalf("class %s has non-positive stroke width", c)
		}
		if s.Rank < 2 || s.Rank > 7 {
			t.Fatalf("class %s rank %d outside street band 2..7", c, s.Rank)
		}
	}
	if ForStreet(model.ClassMotorway).Rank != 7 {
		t.Fatalf("motorway must hold the highest street rank")
	}
}

func TestResolve_UnrecognizedTagNeverAborts(t *testing.T) {
	f := model.Feature{Tags: map[string]string{"highway": "bus_guideway"}}
	got := Resolve(model.CategoryStreet, f)
	if got != ForStreet(model.ClassOther) {
		t.Fatalf("unrecognized highway tag must resolve to the other style")
	}
}

func TestResolve_LayerRankContract(t *testing.T) {
	water := Resolve(model.CategoryWater, model.Feature{})
	green := Resolve(model.CategoryGreenspace, model.Feature{})
	bldg := Resolve(model.CategoryBuilding, model.Feature{})

	if water.Rank != green.Rank {
		t.Fatalf("water and greenspace must share a rank")
	}
	if bldg.Rank <= water.Rank {
		t.Fatalf("buildings must draw above water")
	}
	if User().Rank <= RankLabel {
		t.Fatalf("user geometry must draw above labels")
	}
	if RankLabel <= ForStreet(model.ClassMotorway).Rank {
		t.Fatalf("labels must draw above every street class")
	}
}
