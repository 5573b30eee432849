package pet

// GetStatus returns the status emoji(s) for the pet: what it is doing,
// followed by its most pressing feeling.
func GetStatus(s Stats) string {
	if s.IsDead {
		return StatusEmojiDead
	}

	activity := StatusEmojiHappy
	if s.Asleep() {
		activity = StatusEmojiSleeping
	} else if s.IsDizzy {
		activity = StatusEmojiDizzy
	}

	lowestStat := s.Health
	lowestFeeling := StatusEmojiSick

	if s.Energy < lowestStat {
		lowestStat = s.Energy
		lowestFeeling = StatusEmojiTired
	}
	if s.Hunger < lowestStat {
		lowestStat = s.Hunger
		lowestFeeling = StatusEmojiHungry
	}
	if s.Happiness < lowestStat {
		lowestStat = s.Happiness
		lowestFeeling = StatusEmojiSad
	}

	if lowestStat < LowStatThreshold {
		return activity + lowestFeeling
	}
	if s.Energy < DrowsyThreshold && s.IsAwake {
		return activity + "🥱"
	}
	return activity
}

// GetStatusWithLabel returns status with a text label for the UI
func GetStatusWithLabel(s Stats) string {
	status := GetStatus(s)

	switch {
	case s.IsDead:
		return status + " Dead"
	case s.Asleep():
		if len(status) > len(StatusEmojiSleeping) {
			return status + " Sleeping (needs care)"
		}
		return status + " Sleeping"
	case s.IsDizzy:
		return status + " Dizzy"
	}

	switch status {
	case StatusEmojiHappy + StatusEmojiHungry:
		return status + " Hungry"
	case StatusEmojiHappy + StatusEmojiTired:
		return status + " Tired"
	case StatusEmojiHappy + StatusEmojiSad:
		return status + " Sad"
	case StatusEmojiHappy + StatusEmojiSick:
		return status + " Sick"
	case StatusEmojiHappy + "🥱":
		return status + " Drowsy"
	default:
		return status + " Happy"
	}
}
