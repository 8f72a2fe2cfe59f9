package relay

import "time"

// Session represents a conversation session: the ordered turn sequence plus
// the settings it was started with.
type Session struct {
	ID           string
	SystemPrompt string
	Model        string
	Turns        []Turn
	Usage        Usage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Append adds a turn to the end of the conversation.
func (s *Session) Append(t Turn) {
	s.Turns = append(s.Turns, t)
	s.UpdatedAt = time.Now()
}

// LastTurn returns the most recent turn and false when the session is empty.
func (s *Session) LastTurn() (Turn, bool) {
	if len(s.Turns) == 0 {
		return Turn{}, false
	}
	return s.Turns[len(s.Turns)-1], true
}

// UserInputs returns the content of every user turn, oldest first.
func (s *Session) UserInputs() []string {
	var inputs []string
	for _, t := range s.Turns {
		if t.Role == RoleUser {
			inputs = append(inputs, t.Content)
		}
	}
	return inputs
}
