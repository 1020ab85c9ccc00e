package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/sibyl/internal/prompts"
)

// FallbackAnswer is returned when the model produces an empty response.
const FallbackAnswer = "AI: No response generated."

// RespondNode returns a state node that generates the final answer. When
// search context is present it is prepended to the rendered conversation so
// the model grounds its answer in the retrieved facts. The answer is appended
// to the conversation as the AI message.
func RespondNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := extractConversation(s)
		if err != nil {
			return s, fmt.Errorf("respond: %w", err)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageRespond, renderConversation(cs))
		if err != nil {
			return s, fmt.Errorf("respond: %w", err)
		}

		content, err := rt.LLM.Chat(ctx, prompt)
		if err != nil {
			return s, fmt.Errorf("%w: chat call: %w", ErrRespondFailed, err)
		}

		answer := strings.TrimSpace(content)
		if answer == "" {
			answer = FallbackAnswer
		}

		cs.Messages = append(cs.Messages, Message{Role: RoleAI, Content: answer})

		rt.Logger.InfoContext(
			ctx, "respond node complete",
			"answer_length", len(answer),
		)

		s = s.Set(KeyConversation, *cs)
		return s, nil
	})
}

// renderConversation flattens the conversation into the respond payload.
// Search context, when present, comes first so the model reads the facts
// before the question they answer.
func renderConversation(cs *ConversationState) string {
	var sb strings.Builder

	if cs.SearchResults != "" {
		sb.WriteString("SEARCH RESULTS:\n")
		sb.WriteString(cs.SearchResults)
		sb.WriteString("\n\nUse these facts to answer the user's question.\n\n")
	}

	sb.WriteString("Conversation:\n\n")

	for _, m := range cs.Messages {
		switch m.Role {
		case RoleHuman:
			sb.WriteString("Human: ")
		case RoleAI:
			sb.WriteString("AI: ")
		case RoleSystem:
			sb.WriteString("System: ")
		}

		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}
