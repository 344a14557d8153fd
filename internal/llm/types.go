package llm

// Part is one piece of content. Only text parts are produced or consumed here.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is a role-tagged list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the request payload for generateContent and streamGenerateContent.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Candidate is one generated completion.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// PromptFeedback reports why a prompt was rejected, if it was.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// GenerateResponse is the response payload of generateContent. Each streamed SSE event
// carries the same shape holding only the newly generated text.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Text concatenates the text parts of the first candidate.
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var text string
	for _, p := range r.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}

// ModelInfo is the subset of the model metadata returned by GET /v1beta/models/{model}.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}
