package scheduler

// Rejection names the first hard rule a combination broke.
type Rejection string

const (
	Accepted              Rejection = ""
	RejectDuplicateCourse Rejection = "duplicate_course"
	RejectTimeConflict    Rejection = "time_conflict"
	RejectCreditBand      Rejection = "credit_band"
	RejectEarliestStart   Rejection = "earliest_start"
	RejectAvoidedDay      Rejection = "avoided_day"
	RejectDailyLoad       Rejection = "max_classes_per_day"
)

// Rejections lists every rejection reason in evaluation order.
var Rejections = []Rejection{
	RejectDuplicateCourse,
	RejectTimeConflict,
	RejectCreditBand,
	RejectEarliestStart,
	RejectAvoidedDay,
	RejectDailyLoad,
}

const (
	DefaultMinCredits = 12
	DefaultMaxCredits = 18
)

// Filter applies the hard feasibility rules.
type Filter struct {
	MinCredits int
	MaxCredits int
	Policy     ConflictPolicy
}

// DefaultFilter returns the [12, 18] credit band with exact day matching.
func DefaultFilter() Filter {
	return Filter{MinCredits: DefaultMinCredits, MaxCredits: DefaultMaxCredits, Policy: ConflictPolicyExact}
}

// IsFeasible reports whether combo passes every hard rule.
func (f Filter) IsFeasible(sections []Section, combo []int, prefs Preferences) bool {
	return f.Check(sections, combo, prefs) == Accepted
}

// Check returns Accepted or the first rule combo violates. Rules run cheapest first.
func (f Filter) Check(sections []Section, combo []int, prefs Preferences) Rejection {
	for i := 0; i < len(combo); i++ {
		for j := i + 1; j < len(combo); j++ {
			if sections[combo[i]].CourseID == sections[combo[j]].CourseID {
				return RejectDuplicateCourse
			}
		}
	}

	for i := 0; i < len(combo); i++ {
		for j := i + 1; j < len(combo); j++ {
			if f.Policy.Conflicts(sections[combo[i]], sections[combo[j]]) {
				return RejectTimeConflict
			}
		}
	}

	if credits := TotalCredits(sections, combo); credits < f.MinCredits || credits > f.MaxCredits {
		return RejectCreditBand
	}

	if prefs.EarliestStart != nil {
		for _, idx := range combo {
			if sections[idx].Start < *prefs.EarliestStart {
				return RejectEarliestStart
			}
		}
	}

	if !prefs.AvoidDays.IsEmpty() {
		for _, idx := range combo {
			if sections[idx].Days.Intersects(prefs.AvoidDays) {
				return RejectAvoidedDay
			}
		}
	}

	if prefs.MaxClassesPerDay > 0 {
		var perDay [len(dayCodes)]int
		for _, idx := range combo {
			for _, d := range sections[idx].Days.Days() {
				perDay[d]++
				if perDay[d] > prefs.MaxClassesPerDay {
					return RejectDailyLoad
				}
			}
		}
	}

	return Accepted
}

// TotalCredits sums the credit weight of the combination.
func TotalCredits(sections []Section, combo []int) int {
	total := 0
	for _, idx := range combo {
		total += sections[idx].Credits
	}
	return total
}
