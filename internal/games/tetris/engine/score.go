package engine

import "fmt"

// Award returns the reward for clearing lines rows at once:
// table[lines-1] * level, or 0 when nothing was cleared.
// More than four rows cannot be cleared by one piece and panics.
func Award(table [4]int, lines, level int) int {
	if lines < 0 || lines > len(table) {
		panic(fmt.Sprintf("engine: cannot award %d cleared lines", lines))
	}
	if lines == 0 {
		return 0
	}
	return table[lines-1] * level
}

// ScoreKeeper accumulates score at a fixed level.
type ScoreKeeper struct {
	table [4]int
	level int
	score int
	lines int
}

// NewScoreKeeper creates a keeper for the given reward table and level.
func NewScoreKeeper(table [4]int, level int) *ScoreKeeper {
	return &ScoreKeeper{table: table, level: level}
}

// Add records a clear of n rows and returns the points awarded.
func (k *ScoreKeeper) Add(n int) int {
	delta := Award(k.table, n, k.level)
	k.score += delta
	k.lines += n
	return delta
}

// Score returns the total score.
func (k *ScoreKeeper) Score() int { return k.score }

// Lines returns the total number of cleared rows.
func (k *ScoreKeeper) Lines() int { return k.lines }

// Level returns the static level multiplier.
func (k *ScoreKeeper) Level() int { return k.level }
