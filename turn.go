package relay

import (
	"fmt"
	"strings"
	"time"
)

// Turn is one entry of a conversation. Turns are immutable once appended
// to a Session.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// UserTurn returns a user Turn stamped with the current time.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

// AssistantTurn returns an assistant Turn stamped with the current time.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}

// Validate checks that the turn has a known role and, for user turns,
// non-blank content. Assistant turns may be empty: a reply can legitimately
// end before any text arrives.
func (t Turn) Validate() error {
	switch t.Role {
	case RoleUser:
		if strings.TrimSpace(t.Content) == "" {
			return fmt.Errorf("user turn has no content: %w", ErrValidation)
		}
	case RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q: %w", t.Role, ErrValidation)
	}
	return nil
}
