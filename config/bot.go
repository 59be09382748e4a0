package config

// BotDifficulty affects reaction time and decision quality
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay    int     // Frames between decisions
	AttackRange      float64 // Distance to start firing aim abilities
	ChaseRange       float64 // Distance to start chasing
	RetreatThreshold float64 // Health % to start retreating
	WanderRadius     float64 // How far to roam with no target in sight
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulty   BotDifficulty
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulty: BotDifficultyNormal,
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay:    30, // 0.5 second reaction time
				AttackRange:      180.0,
				ChaseRange:       300.0,
				RetreatThreshold: 0.2, // Retreat at 20% health
				WanderRadius:     120.0,
			},
			BotDifficultyNormal: {
				ReactionDelay:    15, // 0.25 second reaction time
				AttackRange:      240.0,
				ChaseRange:       400.0,
				RetreatThreshold: 0.3,
				WanderRadius:     160.0,
			},
			BotDifficultyHard: {
				ReactionDelay:    6, // 0.1 second reaction time
				AttackRange:      290.0,
				ChaseRange:       600.0,
				RetreatThreshold: 0.35,
				WanderRadius:     200.0,
			},
		},
	}
}

// BotTuning returns the tuning for the configured difficulty.
func BotTuning() BotDifficultyConfig {
	return Bot.Difficulties[Bot.Difficulty]
}
