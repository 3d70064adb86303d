package game

import (
	"time"

	"mazerun/internal/config"
)

// ScoreData holds all the data needed for score calculation.
type ScoreData struct {
	Combo     int
	MaxCombo  int
	Collected int
	Level     int
	PlayTime  time.Duration
}

// CalculateScore computes the score from the rules-table weights.
// BaseScore = Combo*ComboWeight + Collected*CollectWeight + Level*LevelWeight
// TimeBonus = max(0, ceiling - seconds) * perSecond, rewarding fast play.
func CalculateScore(cfg config.ScoreConfig, data ScoreData) int {
	base := data.Combo*cfg.ComboWeight +
		data.Collected*cfg.CollectWeight +
		data.Level*cfg.LevelWeight

	seconds := int(data.PlayTime.Seconds())
	bonus := 0
	if seconds < cfg.TimeBonusCeilingS {
		bonus = (cfg.TimeBonusCeilingS - seconds) * cfg.TimeBonusPerS
	}

	return base + bonus
}
