package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// CandidateEntry is one raw candidate produced by the extraction model. The
// values are untyped at this stage; the entry normalizer validates and
// coerces them at the persistence boundary.
type CandidateEntry map[string]interface{}

// AnalysisResult is the outcome of one document analysis. Either Entries is
// populated, or Error carries the failure marker together with the raw
// response text so the analyst can recover manually - a paid inference call
// is never silently discarded.
type AnalysisResult struct {
	Entries     []CandidateEntry `json:"entries"`
	RawResponse string           `json:"rawResponse,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// AnalyzeDocument runs the full extraction pipeline for one analysis
// request: prompt assembly, a single inference call, and response parsing.
// Inference failures are terminal and propagate to the caller; parse
// failures degrade to an explicit empty-entries result carrying the raw
// text.
func AnalyzeDocument(ctx context.Context, req *AnalysisRequest, maxTokens int) (*AnalysisResult, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("no content provided")
	}

	prompt := BuildAnalysisPrompt(req)

	raw, err := Inference.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result := ParseAnalysisResponse(raw)
	if result.Error != "" {
		log.Printf("[WARNING] Analysis response could not be parsed (raw length: %d)", len(raw))
	}
	return result, nil
}

// analysisEnvelope is the expected top-level shape of the model response
type analysisEnvelope struct {
	Entries []CandidateEntry `json:"entries"`
}

// ParseAnalysisResponse extracts the entries payload from a raw model
// response. The model is instructed to respond with JSON only, but
// occasionally wraps the payload in prose; a two-pass balanced-brace scan
// salvages those responses. When no valid payload is recoverable the result
// is an explicit failure carrying the original text.
func ParseAnalysisResponse(raw string) *AnalysisResult {
	// First pass: parse the first balanced {...} span in the text.
	// Second pass: keep scanning from subsequent brace positions, which
	// handles prose wrappers and malformed outer objects around valid
	// inner JSON.
	start := 0
	for {
		idx := strings.Index(raw[start:], "{")
		if idx < 0 {
			break
		}
		idx += start

		span, ok := balancedBraceSpan(raw, idx)
		if ok {
			var envelope analysisEnvelope
			if err := json.Unmarshal([]byte(span), &envelope); err == nil && envelope.Entries != nil {
				return &AnalysisResult{Entries: envelope.Entries}
			}
		}

		start = idx + 1
	}

	return &AnalysisResult{
		Entries:     []CandidateEntry{},
		RawResponse: raw,
		Error:       "parse failed",
	}
}

// balancedBraceSpan returns the substring from the opening brace at start to
// its matching closing brace, honoring JSON string literals and escapes.
func balancedBraceSpan(text string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
