package nutrition

import (
	"encoding/json"
	"math"
)

// Sex selects the sex-specific constants of the skinfold and resting-energy
// formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
	ActivityVeryHigh  ActivityLevel = "veryHigh"
)

// Goal selects the calorie adjustment, default protein intake, and the
// projection direction.
type Goal string

const (
	GoalCutting     Goal = "cutting"
	GoalMaintenance Goal = "maintenance"
	GoalBulking     Goal = "bulking"
)

// Formula names a resting-energy formula. FormulaAuto lets the engine pick.
type Formula string

const (
	FormulaAuto           Formula = "auto"
	FormulaMifflinStJeor  Formula = "mifflin"
	FormulaHarrisBenedict Formula = "harrisBenedict"
	FormulaKatchMcArdle   Formula = "katchMcArdle"
)

// DisplayName is the human-readable formula name stored in results.
func (f Formula) DisplayName() string {
	switch f {
	case FormulaMifflinStJeor:
		return "Mifflin-St Jeor"
	case FormulaHarrisBenedict:
		return "Harris-Benedict Revised"
	case FormulaKatchMcArdle:
		return "Katch-McArdle"
	default:
		return ""
	}
}

// Profiles saved by the legacy web client use Portuguese enum values;
// decoding maps them onto the canonical ones.
var (
	sexAliases = map[string]Sex{
		"male": SexMale, "masculino": SexMale, "m": SexMale,
		"female": SexFemale, "feminino": SexFemale, "f": SexFemale,
	}
	activityAliases = map[string]ActivityLevel{
		"sedentary": ActivitySedentary, "sedentario": ActivitySedentary,
		"light": ActivityLight, "leve": ActivityLight,
		"moderate": ActivityModerate, "moderado": ActivityModerate,
		"high": ActivityHigh, "alto": ActivityHigh,
		"veryHigh": ActivityVeryHigh, "muitoAlto": ActivityVeryHigh,
	}
	goalAliases = map[string]Goal{
		"cutting": GoalCutting,
		"maintenance": GoalMaintenance, "manutencao": GoalMaintenance,
		"bulking": GoalBulking,
	}
	formulaAliases = map[string]Formula{
		"": FormulaAuto, "auto": FormulaAuto,
		"mifflin": FormulaMifflinStJeor,
		"harrisBenedict": FormulaHarrisBenedict, "harris": FormulaHarrisBenedict,
		"katchMcArdle": FormulaKatchMcArdle, "katch": FormulaKatchMcArdle,
	}
)

// ParseSex normalizes s. ok is false for anything but male/female aliases.
func ParseSex(s string) (Sex, bool) {
	v, ok := sexAliases[s]
	return v, ok
}

// ParseActivityLevel normalizes s. Unknown values are returned verbatim with
// ok=false; the engine then falls back to sedentary.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	if v, ok := activityAliases[s]; ok {
		return v, true
	}
	return ActivityLevel(s), false
}

// ParseGoal normalizes s. Unknown values are returned verbatim with ok=false;
// the engine then treats them as maintenance.
func ParseGoal(s string) (Goal, bool) {
	if v, ok := goalAliases[s]; ok {
		return v, true
	}
	return Goal(s), false
}

// ParseFormula normalizes s. The empty string means auto. Unknown names also
// resolve to auto, with ok=false.
func ParseFormula(s string) (Formula, bool) {
	if v, ok := formulaAliases[s]; ok {
		return v, true
	}
	return FormulaAuto, false
}

func (s *Sex) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if v, ok := ParseSex(raw); ok {
		*s = v
	} else {
		*s = Sex(raw)
	}
	return nil
}

func (a *ActivityLevel) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a, _ = ParseActivityLevel(raw)
	return nil
}

func (g *Goal) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g, _ = ParseGoal(raw)
	return nil
}

func (f *Formula) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f, _ = ParseFormula(raw)
	return nil
}

// Skinfolds holds the seven Pollock sites in millimeters. The set is only
// usable when every site is present and positive.
type Skinfolds struct {
	Chest       *float64 `json:"chest,omitempty"       binding:"omitempty,gt=0"`
	Midaxillary *float64 `json:"midaxillary,omitempty" binding:"omitempty,gt=0"`
	Triceps     *float64 `json:"triceps,omitempty"     binding:"omitempty,gt=0"`
	Subscapular *float64 `json:"subscapular,omitempty" binding:"omitempty,gt=0"`
	Abdominal   *float64 `json:"abdominal,omitempty"   binding:"omitempty,gt=0"`
	Suprailiac  *float64 `json:"suprailiac,omitempty"  binding:"omitempty,gt=0"`
	Thigh       *float64 `json:"thigh,omitempty"       binding:"omitempty,gt=0"`
}

// Sum returns the seven-site total. ok is false when any site is absent or
// invalid; partial skinfold data is treated as no data.
func (s *Skinfolds) Sum() (float64, bool) {
	if s == nil {
		return 0, false
	}
	var sum float64
	for _, v := range []*float64{s.Chest, s.Midaxillary, s.Triceps, s.Subscapular, s.Abdominal, s.Suprailiac, s.Thigh} {
		mm, ok := positive(v)
		if !ok {
			return 0, false
		}
		sum += mm
	}
	return sum, true
}

// Circumferences are tape measurements in centimeters. No formula reads them;
// they travel with history snapshots for progress comparison.
type Circumferences struct {
	Waist    *float64 `json:"waist,omitempty"    binding:"omitempty,gt=0"`
	Neck     *float64 `json:"neck,omitempty"     binding:"omitempty,gt=0"`
	Hip      *float64 `json:"hip,omitempty"      binding:"omitempty,gt=0"`
	Arm      *float64 `json:"arm,omitempty"      binding:"omitempty,gt=0"`
	Forearm  *float64 `json:"forearm,omitempty"  binding:"omitempty,gt=0"`
	Thigh    *float64 `json:"thigh,omitempty"    binding:"omitempty,gt=0"`
	Calf     *float64 `json:"calf,omitempty"     binding:"omitempty,gt=0"`
	Chest    *float64 `json:"chest,omitempty"    binding:"omitempty,gt=0"`
	Shoulder *float64 `json:"shoulder,omitempty" binding:"omitempty,gt=0"`
}

// UserInput is one snapshot of a user's measurements and preferences.
// Numeric fields are pointers: nil means absent. A present value that is
// zero, negative, NaN, or infinite is treated the same as an absent one.
type UserInput struct {
	WeightKg *float64 `json:"weightKg,omitempty" binding:"omitempty,gt=0"`
	HeightCm *float64 `json:"heightCm,omitempty" binding:"omitempty,gt=0"`
	AgeYears *float64 `json:"ageYears,omitempty" binding:"omitempty,gt=0"`
	Sex      Sex      `json:"sex,omitempty"`

	Skinfolds      *Skinfolds      `json:"skinfolds,omitempty"`
	Circumferences *Circumferences `json:"circumferences,omitempty"`

	ActivityLevel        ActivityLevel `json:"activityLevel,omitempty"`
	Goal                 Goal          `json:"goal,omitempty"`
	RestingEnergyFormula Formula       `json:"restingEnergyFormula,omitempty"`

	ProteinGPerKg        *float64 `json:"proteinGPerKg,omitempty"        binding:"omitempty,gt=0"`
	FatGPerKg            *float64 `json:"fatGPerKg,omitempty"            binding:"omitempty,gt=0"`
	FatPercentOfCalories *float64 `json:"fatPercentOfCalories,omitempty" binding:"omitempty,gt=0,lt=100"`
	WaterMlPerKg         *float64 `json:"waterMlPerKg,omitempty"         binding:"omitempty,gt=0"`
}

// HasRequired reports whether weight, height, age, and sex are all usable,
// i.e. whether at least the Mifflin-St Jeor path can produce a result.
func (in UserInput) HasRequired() bool {
	_, wOK := positive(in.WeightKg)
	_, hOK := positive(in.HeightCm)
	_, aOK := positive(in.AgeYears)
	_, sOK := ParseSex(string(in.Sex))
	return wOK && hOK && aOK && sOK
}

// goal returns the normalized goal, mapping unknown values to maintenance.
func (in UserInput) goal() Goal {
	if g, ok := ParseGoal(string(in.Goal)); ok {
		return g
	}
	return GoalMaintenance
}

// positive dereferences p when it holds a finite value > 0.
func positive(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return positiveValue(*p)
}

func positiveValue(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// Float returns a pointer to v, for building inputs in code.
func Float(v float64) *float64 {
	return &v
}
