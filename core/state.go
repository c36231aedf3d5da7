package core

// State carries one request through the routing pipeline. It is owned
// exclusively by a single invocation: stages read the fields earlier stages
// filled in and no locking is required. A completed routing path appends
// exactly one assistant message.
type State struct {
	Messages []Message

	Route         Route
	ExtractedName string
	ExtractedTeam string

	PlayerID int
	Stats    PlayerStats
}

// NewState builds a request state seeded with the given history.
func NewState(history ...Message) *State {
	return &State{Messages: history}
}

// Append adds a message to the conversation.
func (s *State) Append(msg Message) { s.Messages = append(s.Messages, msg) }

// LastUserText returns the content of the most recent user message, or the
// last message's content when no user message exists.
func (s *State) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	if len(s.Messages) > 0 {
		return s.Messages[len(s.Messages)-1].Content
	}
	return ""
}

// LastAssistantText returns the content of the most recent assistant
// message, or the empty string when none exists.
func (s *State) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}
