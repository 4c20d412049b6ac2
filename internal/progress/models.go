package progress

import "time"

// PointsPerLevel is the fixed cost of one level in every skill category.
const PointsPerLevel = 100

// Skill categories tracked per member. Activity categories (class types)
// map onto subsets of these through the point table.
const (
	SkillCardio      = "CARDIO"
	SkillStrength    = "STRENGTH"
	SkillFlexibility = "FLEXIBILITY"
	SkillEndurance   = "ENDURANCE"
	SkillLegs        = "LEGS"
	SkillArms        = "ARMS"
	SkillCore        = "CORE"
)

// SkillCategories is the fixed enumeration used by InitializeProgress.
var SkillCategories = []string{
	SkillCardio, SkillStrength, SkillFlexibility, SkillEndurance, SkillLegs, SkillArms, SkillCore,
}

type ProgressRecord struct {
	MemberID    string    `json:"member_id"`
	Category    string    `json:"category"`
	TotalPoints int       `json:"total_points"`
	LastUpdated time.Time `json:"last_updated"`
}

// Level is derived, never stored.
func (p ProgressRecord) Level() int {
	return p.TotalPoints / PointsPerLevel
}

// XPInLevel is the progress inside the current level, 0-99.
func (p ProgressRecord) XPInLevel() int {
	return p.TotalPoints % PointsPerLevel
}

// ProgressView is the API shape: a record plus its derived level fields.
type ProgressView struct {
	ProgressRecord
	Level     int `json:"level"`
	XPInLevel int `json:"xp_in_level"`
}

func NewProgressView(rec ProgressRecord) ProgressView {
	return ProgressView{ProgressRecord: rec, Level: rec.Level(), XPInLevel: rec.XPInLevel()}
}
