package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/sibyl/internal/prompts"
)

// ComposePrompt assembles the full prompt for a workflow stage: the stage
// instructions (DB override or hardcoded default), the response-shape spec,
// and the per-call payload (user query or rendered conversation).
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	payload string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != "" {
		sb.WriteString("\n\n")
		sb.WriteString(payload)
	}

	return sb.String(), nil
}
