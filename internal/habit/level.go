package habit

import "github.com/julianstephens/habitflow/internal/constants"

// Level derives the tier for a points total: 0-99 is level 1, 100-199 is
// level 2, and so on. Negative totals count as level 1.
func Level(points int) int {
	if points < 0 {
		return 1
	}
	return points/constants.PointsPerLevel + 1
}

// PointsToNextLevel returns how many points are missing to reach Level(points)+1.
func PointsToNextLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return constants.PointsPerLevel - points%constants.PointsPerLevel
}
