package relay

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Merge returns u updated with the non-zero fields of update. The API reports
// input tokens when the message starts and output tokens as it grows, so a
// later report must not erase an earlier one with a zero.
func (u Usage) Merge(update Usage) Usage {
	if update.InputTokens > 0 {
		u.InputTokens = update.InputTokens
	}
	if update.OutputTokens > 0 {
		u.OutputTokens = update.OutputTokens
	}
	return u
}

// Add returns the field-wise sum of u and other.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
