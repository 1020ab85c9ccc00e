package prompts

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "needs_search": false,
  "search_query": ""
}

Field constraints:
- needs_search: Whether answering the user's query requires live web
  search results. Set true only when the query depends on current or
  real-time information.
- search_query: The query to submit to the search engine when
  needs_search is true. Concise search terms, not a restatement of the
  full conversational message. Empty string when needs_search is false.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Decide from the user's query alone, never ask clarifying questions
- When in doubt about whether information is current, prefer searching`

const respondSpec = `Respond with the answer text only.

Behavioral constraints:
- Plain conversational text, no JSON and no markdown fencing
- Do not prefix the answer with a role label such as "AI:" or "Assistant:"
- When search results are provided, base factual claims on them
- Keep the answer focused on the user's question`

var specs = map[Stage]string{
	StageClassify: classifySpec,
	StageRespond:  respondSpec,
}

// DefaultSpec returns the hardcoded specification for a workflow stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func DefaultSpec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
