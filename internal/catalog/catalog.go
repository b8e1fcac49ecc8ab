// Package catalog holds the static capability reference data: the total
// order of bay types and technician skill levels, and the per-tier ranks
// the assignment engine compares against.
package catalog

// ===============================
// Bay types
// ===============================

const (
	BayExpressLane    = "express_lane"
	BayQuickService   = "quick_service"
	BayGeneralService = "general_service"
	BayAlignment      = "alignment"
	BayDiagnostic     = "diagnostic"
	BayHeavyRepair    = "heavy_repair"
)

// DefaultBayType is the fallback for services with no (or an unknown)
// bay-type tag, and the type bay selection falls back to when no bay of
// the required type exists.
const DefaultBayType = BayGeneralService

var bayTypeRanks = map[string]int{
	BayExpressLane:    0,
	BayQuickService:   1,
	BayGeneralService: 2,
	BayAlignment:      3,
	BayDiagnostic:     4,
	BayHeavyRepair:    5,
}

func BayTypeRank(bayType string) (int, bool) {
	r, ok := bayTypeRanks[bayType]
	return r, ok
}

func IsValidBayType(bayType string) bool {
	_, ok := bayTypeRanks[bayType]
	return ok
}

// ===============================
// Skill levels
// ===============================

const (
	SkillJunior       = "junior"
	SkillIntermediate = "intermediate"
	SkillSenior       = "senior"
	SkillMaster       = "master"
)

const DefaultSkillLevel = SkillJunior

var skillRanks = map[string]int{
	SkillJunior:       0,
	SkillIntermediate: 1,
	SkillSenior:       2,
	SkillMaster:       3,
}

func SkillRank(level string) (int, bool) {
	r, ok := skillRanks[level]
	return r, ok
}

func IsValidSkillLevel(level string) bool {
	_, ok := skillRanks[level]
	return ok
}
