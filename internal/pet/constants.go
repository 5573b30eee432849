package pet

// Game constants
const (
	DefaultPetName = "Byte"
	MaxStat        = 100.0
	MinStat        = 0.0

	// Starting values for a fresh save
	DefaultHunger    = 60
	DefaultHappiness = 75
	DefaultEnergy    = 90
	DefaultHealth    = 100
	DefaultMoney     = 400
	StartingLevel    = 1

	LowStatThreshold      = 30
	CriticalStatThreshold = 15 // Hunger or energy below this drains health
	HighStatThreshold     = 90 // "All stats above" achievement
	DrowsyThreshold       = 40
	DizzyEnergyThreshold  = 20 // Playing below this energy makes the pet dizzy

	XPPerLevel = 100 // Experience needed per level, times the current level

	// Status emojis
	StatusEmojiHappy    = "😸"
	StatusEmojiSleeping = "😴"
	StatusEmojiHungry   = "🙀"
	StatusEmojiSad      = "😿"
	StatusEmojiSick     = "🤢"
	StatusEmojiTired    = "😾"
	StatusEmojiDizzy    = "😵"
	StatusEmojiDead     = "💀"
)
