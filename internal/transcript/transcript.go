// Package transcript holds the append-only conversation log.
package transcript

import "github.com/xaenox/health-coach/internal/models"

// Transcript is an immutable, ordered message log. Append returns a new
// value, so a reader holding an older Transcript never observes later
// appends.
type Transcript struct {
	messages []models.Message
}

// New seeds a transcript with the given messages, usually the welcome
// message authored by the system.
func New(seed ...models.Message) Transcript {
	msgs := make([]models.Message, len(seed))
	copy(msgs, seed)
	return Transcript{messages: msgs}
}

// Append returns a transcript with msg appended. The receiver is unchanged.
func (t Transcript) Append(msg models.Message) Transcript {
	msgs := make([]models.Message, len(t.messages), len(t.messages)+1)
	copy(msgs, t.messages)
	return Transcript{messages: append(msgs, msg)}
}

// Messages returns the log in conversation order. Callers must not mutate
// the returned slice's elements; a copy is handed out to keep the log
// append-only.
func (t Transcript) Messages() []models.Message {
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of messages.
func (t Transcript) Len() int { return len(t.messages) }

// Last returns the most recent message, if any.
func (t Transcript) Last() (models.Message, bool) {
	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// IsFreshConversation is true while the log holds at most the seed message
// plus one exchange. Front-ends use it to decide whether to offer quick
// actions.
func (t Transcript) IsFreshConversation() bool {
	return len(t.messages) <= 2
}
