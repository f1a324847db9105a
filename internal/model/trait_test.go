package model

import "testing"

func TestTraitVectorGetDefault(t *testing.T) {
	v := TraitVector{DimExtraversion: 72}
	if got := v.Get(DimExtraversion); got != 72 {
		t.Errorf("Get(extraversion) = %v, want 72", got)
	}
	if got := v.Get(DimOpenness); got != 50 {
		t.Errorf("Get(absent) = %v, want neutral 50", got)
	}
}

func TestTraitVectorClone(t *testing.T) {
	v := TraitVector{DimExtraversion: 72}
	c := v.Clone()
	c[DimExtraversion] = 10
	if v[DimExtraversion] != 72 {
		t.Error("Clone must not share storage")
	}
}

func TestSharedDimensionsCanonicalOrder(t *testing.T) {
	a := TraitVector{DimOpenness: 1, DimExtraversion: 2, DimLogical: 3, DimEfficiency: 4}
	b := TraitVector{DimOpenness: 5, DimExtraversion: 6, DimLogical: 7, DimCreative: 8}

	got := a.SharedDimensions(b)
	want := []string{DimExtraversion, DimOpenness, DimLogical}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dims[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(43.25); got != 43.3 {
		t.Errorf("Round1(43.25) = %v, want 43.3", got)
	}
	if got := Round1(43.24); got != 43.2 {
		t.Errorf("Round1(43.24) = %v, want 43.2", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(85, 20, 80); got != 80 {
		t.Errorf("Clamp(85) = %v, want 80", got)
	}
	if got := Clamp(10, 20, 80); got != 20 {
		t.Errorf("Clamp(10) = %v, want 20", got)
	}
	if got := Clamp(50, 20, 80); got != 50 {
		t.Errorf("Clamp(50) = %v, want 50", got)
	}
}
