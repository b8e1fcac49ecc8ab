package assignment

import (
	"testing"

	"github.com/redlinemotors/shop-ops/internal/models"
)

func cand(id uint, primary bool, skillRank int) candidate {
	return candidate{
		Technician: models.Technician{ID: id},
		IsPrimary:  primary,
		skillRank:  skillRank,
	}
}

func TestPickTechnician(t *testing.T) {
	tests := []struct {
		name  string
		cands []candidate
		want  uint
	}{
		{
			name:  "primary beats non-primary",
			cands: []candidate{cand(1, false, 0), cand(2, true, 3)},
			want:  2,
		},
		{
			name:  "lowest skill among primaries",
			cands: []candidate{cand(1, true, 3), cand(2, true, 1), cand(3, true, 2)},
			want:  2,
		},
		{
			name:  "full tie keeps first encountered",
			cands: []candidate{cand(5, true, 2), cand(6, true, 2)},
			want:  5,
		},
		{
			name:  "lowest skill when none primary",
			cands: []candidate{cand(7, false, 2), cand(8, false, 1)},
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickTechnician(tt.cands)
			if got == nil {
				t.Fatal("pickTechnician returned nil")
			}
			if got.Technician.ID != tt.want {
				t.Errorf("picked %d, want %d", got.Technician.ID, tt.want)
			}
		})
	}
}

func TestPickTechnician_Empty(t *testing.T) {
	if got := pickTechnician(nil); got != nil {
		t.Errorf("pickTechnician(nil) = %v, want nil", got)
	}
}
