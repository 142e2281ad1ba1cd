package models

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Origin identifies the author of a transcript message.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Message is a single turn in the conversation. Once appended to a
// transcript it is never mutated.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var messageSeq atomic.Uint64

// NewMessage stamps a message with a unique, creation-ordered ID.
func NewMessage(origin Origin, text, category string) Message {
	seq := messageSeq.Add(1)
	return Message{
		ID:        fmt.Sprintf("%d-%06d", time.Now().UnixMilli(), seq),
		Text:      text,
		Origin:    origin,
		Category:  category,
		CreatedAt: time.Now(),
	}
}

// UserProfile is the read-mostly snapshot served by the profile endpoint.
type UserProfile struct {
	Name         string   `json:"name,omitempty"`
	FitnessLevel string   `json:"fitness_level,omitempty"`
	HealthGoals  []string `json:"health_goals"`
}

// MetricObservation is a single health metric reading reported out of band.
type MetricObservation struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}
