package message

import (
	"github.com/google/uuid"

	"github.com/lorenzotomasdiez/argue/internal/argument"
	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// Broadcast is the receiver value for messages meant for every other agent.
const Broadcast = "broadcast"

// Message is one performative sent from one agent to another. Messages are
// values; nothing mutates them after Deliver.
type Message struct {
	ID           string
	Sender       string
	Receiver     string
	Performative Performative
	Item         preferences.Item
	Argument     *argument.Argument
}

// New builds a message without an argument payload.
func New(sender, receiver string, p Performative, item preferences.Item) Message {
	return Message{
		ID:           uuid.NewString(),
		Sender:       sender,
		Receiver:     receiver,
		Performative: p,
		Item:         item,
	}
}

// NewArgue builds an ARGUE message about the argument's own item.
func NewArgue(sender, receiver string, arg argument.Argument) Message {
	msg := New(sender, receiver, Argue, arg.Item)
	msg.Argument = &arg
	return msg
}

// IsBroadcast reports whether the message targets every other agent.
func (m Message) IsBroadcast() bool {
	return m.Receiver == Broadcast
}
