package catalog

import "testing"

func TestBayTypeOrder(t *testing.T) {
	order := []string{
		BayExpressLane,
		BayQuickService,
		BayGeneralService,
		BayAlignment,
		BayDiagnostic,
		BayHeavyRepair,
	}

	prev := -1
	for _, bt := range order {
		r, ok := BayTypeRank(bt)
		if !ok {
			t.Fatalf("BayTypeRank(%q) not found", bt)
		}
		if r <= prev {
			t.Errorf("BayTypeRank(%q) = %d, want > %d", bt, r, prev)
		}
		prev = r
	}
}

func TestSkillOrder(t *testing.T) {
	order := []string{SkillJunior, SkillIntermediate, SkillSenior, SkillMaster}

	prev := -1
	for _, s := range order {
		r, ok := SkillRank(s)
		if !ok {
			t.Fatalf("SkillRank(%q) not found", s)
		}
		if r <= prev {
			t.Errorf("SkillRank(%q) = %d, want > %d", s, r, prev)
		}
		prev = r
	}
}

func TestUnknownTags(t *testing.T) {
	if _, ok := BayTypeRank("paint_booth"); ok {
		t.Error("expected unknown bay type to be rejected")
	}
	if _, ok := SkillRank("apprentice"); ok {
		t.Error("expected unknown skill level to be rejected")
	}
	if IsValidBayType("") || IsValidSkillLevel("") {
		t.Error("empty tags must not validate")
	}
}
