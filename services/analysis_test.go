package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubInference returns a canned response for every completion
type stubInference struct {
	response string
	err      error
	prompts  []string
}

func (s *stubInference) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubInference) CompleteWithImage(ctx context.Context, prompt string, imageData []byte, mediaType string, maxTokens int) (string, error) {
	return s.response, s.err
}

func (s *stubInference) IsConfigured() bool { return true }

func TestParseAnalysisResponseCleanJSON(t *testing.T) {
	raw := `{"entries": [{"date": "2024-01-15", "title": "Contract signed", "summary": "Parties executed the agreement."}]}`

	result := ParseAnalysisResponse(raw)

	assert.Empty(t, result.Error)
	assert.Len(t, result.Entries, 1)
	assert.Equal(t, "2024-01-15", result.Entries[0]["date"])
	assert.Equal(t, "Contract signed", result.Entries[0]["title"])
}

func TestParseAnalysisResponseProseWrapped(t *testing.T) {
	raw := `Here is the chronology entry you asked for:

{"entries": [{"date": "2024-02-01", "title": "Payment made", "summary": "Wire transfer of $50,000."}]}

Let me know if you need anything else.`

	result := ParseAnalysisResponse(raw)

	assert.Empty(t, result.Error)
	assert.Len(t, result.Entries, 1)
	assert.Equal(t, "Payment made", result.Entries[0]["title"])
}

func TestParseAnalysisResponseSkipsMalformedOuterObject(t *testing.T) {
	// An earlier balanced span without an entries array must not shadow the
	// later valid payload.
	raw := `{"note": "analysis follows"} {"entries": [{"date": "2024-03-01", "title": "Hearing", "summary": "Motion heard."}]}`

	result := ParseAnalysisResponse(raw)

	assert.Empty(t, result.Error)
	assert.Len(t, result.Entries, 1)
	assert.Equal(t, "Hearing", result.Entries[0]["title"])
}

func TestParseAnalysisResponseEmptyEntries(t *testing.T) {
	result := ParseAnalysisResponse(`{"entries": []}`)

	assert.Empty(t, result.Error)
	assert.NotNil(t, result.Entries)
	assert.Len(t, result.Entries, 0)
}

func TestParseAnalysisResponseRefusal(t *testing.T) {
	raw := "I cannot process this."

	result := ParseAnalysisResponse(raw)

	assert.Equal(t, "parse failed", result.Error)
	assert.Equal(t, raw, result.RawResponse)
	assert.NotNil(t, result.Entries)
	assert.Empty(t, result.Entries)
}

func TestParseAnalysisResponseBrokenJSON(t *testing.T) {
	raw := `{"entries": [{"date": "2024-01-01", "title": "Unterminated`

	result := ParseAnalysisResponse(raw)

	assert.Equal(t, "parse failed", result.Error)
	assert.Equal(t, raw, result.RawResponse)
}

func TestAnalyzeDocumentRequiresContent(t *testing.T) {
	_, err := AnalyzeDocument(context.Background(), &AnalysisRequest{}, 4000)
	assert.Error(t, err)
}

func TestAnalyzeDocumentInferenceFailureIsTerminal(t *testing.T) {
	prev := Inference
	defer func() { Inference = prev }()
	Inference = &stubInference{err: fmt.Errorf("api unavailable")}

	_, err := AnalyzeDocument(context.Background(), &AnalysisRequest{Content: "some text"}, 4000)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestAnalyzeDocumentParseFailureIsNotAnError(t *testing.T) {
	prev := Inference
	defer func() { Inference = prev }()
	Inference = &stubInference{response: "no json here"}

	result, err := AnalyzeDocument(context.Background(), &AnalysisRequest{Content: "some text"}, 4000)

	assert.NoError(t, err)
	assert.Equal(t, "parse failed", result.Error)
	assert.Equal(t, "no json here", result.RawResponse)
}

func TestAnalyzeDocumentSendsAssembledPrompt(t *testing.T) {
	prev := Inference
	defer func() { Inference = prev }()
	stub := &stubInference{response: `{"entries": []}`}
	Inference = stub

	_, err := AnalyzeDocument(context.Background(), &AnalysisRequest{
		Content:     "Meeting notes from March.",
		CaseContext: "Employment dispute",
	}, 4000)

	assert.NoError(t, err)
	assert.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Meeting notes from March.")
	assert.Contains(t, stub.prompts[0], "Case Overview: Employment dispute")
}
