package models

// VerifiedLevel is the lowest level that carries the verified badge.
const VerifiedLevel = 4

var levelThresholds = []struct {
	followers int
	level     int
}{
	{60, 5},
	{30, 4},
	{20, 3},
	{10, 2},
}

// LevelFor maps a follower count to a level between 1 and 5.
func LevelFor(followers int) int {
	for _, t := range levelThresholds {
		if followers >= t.followers {
			return t.level
		}
	}
	return 1
}

// RecomputeLevel refreshes the cached level and verified badge from the follower count.
// Call it whenever the follower set changes.
func (u User) RecomputeLevel() User {
	u.Level = LevelFor(len(u.Followers))
	u.Verified = u.Level >= VerifiedLevel
	return u
}
