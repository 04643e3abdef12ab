package chat

import (
	"time"

	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
)

// Author identifies who produced a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is one immutable turn in a conversation. IDs increase strictly within a session.
type Message struct {
	ID          int64              `json:"id"`
	SessionID   string             `json:"sessionId"`
	Author      Author             `json:"author"`
	Text        string             `json:"text"`
	Timestamp   time.Time          `json:"timestamp"`
	// ReplyTo is the id of the user message an assistant reply answers.
	ReplyTo     int64              `json:"replyTo,omitempty"`
	CodeSample  string             `json:"codeSample,omitempty"`
	CodeTitle   string             `json:"codeTitle,omitempty"`
	Action      reply.Action       `json:"action,omitempty"`
	Template    string             `json:"template,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	Suggestions []reply.Suggestion `json:"suggestions,omitempty"`
}

// FromTemplate builds an assistant message carrying the template's reply fields.
func FromTemplate(sessionID string, tpl reply.Template) Message {
	return Message{
		SessionID:   sessionID,
		Author:      AuthorAssistant,
		Text:        tpl.Text,
		CodeSample:  tpl.CodeSample,
		CodeTitle:   tpl.CodeTitle,
		Action:      tpl.Action,
		Template:    tpl.Name,
		Metadata:    tpl.Metadata,
		Suggestions: tpl.Suggestions,
	}
}
