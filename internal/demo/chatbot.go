package demo

import (
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/internal/integrations/chat"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// ChatbotAction drives the chatbot scenario: Announce posts a message
// through the wired provider; Sent folds the provider's feedback back into
// state once the send completes.
type ChatbotAction struct {
	Announce string
	Sent     *chat.Sent
}

// ChatbotState records every send acknowledged so far.
type ChatbotState struct {
	Sent []chat.Sent
}

// ChatbotEnv is the environment collaborator. Only Slack is exercised by
// the demo CLI; Discord and Telegram collaborators plug into the same shape.
type ChatbotEnv struct {
	Slack     *chat.Slack
	ChannelID string
}

// ChatbotReducer posts Announce through env.Slack and folds the resulting
// chat.Sent action back into ChatbotState via effect.MapAction.
func ChatbotReducer() reducer.Reducer[ChatbotAction, ChatbotState, ChatbotEnv] {
	return reducer.New(func(a ChatbotAction, s *ChatbotState, env ChatbotEnv) effect.Effect[ChatbotAction] {
		if a.Sent != nil {
			s.Sent = append(s.Sent, *a.Sent)
			return effect.Empty[ChatbotAction]()
		}
		if a.Announce == "" || env.Slack == nil {
			return effect.Empty[ChatbotAction]()
		}
		send := effect.Effect[chat.Sent]{env.Slack.SendEffect(nil, env.ChannelID, a.Announce)}
		return effect.MapAction(send, func(sent chat.Sent) ChatbotAction {
			return ChatbotAction{Sent: &sent}
		})
	})
}
