package scheduler

// PointsPerPreferredSection is awarded for each section inside the preferred window.
const PointsPerPreferredSection = 3

// Score rates a feasible combination against the soft preferences. Without a
// recognised window every combination scores 0.
func Score(sections []Section, combo []int, prefs Preferences) int {
	if _, _, ok := prefs.PreferredTime.Bounds(); !ok {
		return 0
	}
	score := 0
	for _, idx := range combo {
		if prefs.PreferredTime.Contains(sections[idx].Midpoint()) {
			score += PointsPerPreferredSection
		}
	}
	return score
}
