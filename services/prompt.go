package services

import (
	"fmt"
	"strings"
)

// existingSummaryMaxLen bounds how much of each known entry's summary is
// echoed back into the prompt, to keep prompt size proportional to the
// number of entries rather than their length.
const existingSummaryMaxLen = 100

// ExistingEntrySummary is the compact projection of an already-known
// chronology entry included as context in the analysis prompt
type ExistingEntrySummary struct {
	Date    string `json:"date"`
	Time    string `json:"time,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// AnalysisRequest carries everything the prompt builder needs for one
// document analysis
type AnalysisRequest struct {
	Content         string                 `json:"content"`
	Filename        string                 `json:"filename,omitempty"`
	CaseContext     string                 `json:"caseContext,omitempty"`
	KeyParties      string                 `json:"keyParties,omitempty"`
	Instructions    string                 `json:"instructions,omitempty"`
	UserContext     string                 `json:"userContext,omitempty"`
	ExistingEntries []ExistingEntrySummary `json:"existingEntries,omitempty"`
}

// BuildAnalysisPrompt assembles the single instruction sent to the inference
// service for chronology extraction. Blocks with no content are omitted
// entirely rather than emitted as empty labeled sections.
func BuildAnalysisPrompt(req *AnalysisRequest) string {
	var sb strings.Builder

	sb.WriteString("You are assisting with litigation chronology development. Please analyze the following document/information and create a chronology entry.\n")
	sb.WriteString(buildCaseContextSection(req))

	sb.WriteString("\nDOCUMENT/INFORMATION TO ANALYZE:\n")
	sb.WriteString(req.Content)
	sb.WriteString("\n")

	if req.Filename != "" {
		sb.WriteString(fmt.Sprintf("\nFILENAME: %s\n", req.Filename))
	}
	if req.UserContext != "" {
		sb.WriteString(fmt.Sprintf("\nUSER CONTEXT: %s\n", req.UserContext))
	}

	sb.WriteString(buildExistingChronologySection(req.ExistingEntries))

	sb.WriteString(`
INSTRUCTIONS:
- Use the case context above to better understand the legal significance of events
- Consider how this document/event relates to the key legal issues and parties mentioned
- If analyzing email files (.eml), extract sender, recipient, date, subject, and body content
- For PDF files noted as binary, acknowledge the limitation and ask for specific details
- For images, note that visual analysis would be needed and ask for description of content
- For multiple files, create separate entries or identify if they relate to a single event
- Pay attention to timestamps, metadata, and document headers
- Consider the document source (email, legal filing, public record, etc.) in your analysis
- Follow any special instructions provided in the case context

Please provide a JSON response with the following structure:
{
  "entries": [
    {
      "date": "YYYY-MM-DD format",
      "time": "HH:MM format if available, otherwise empty string",
      "parties": "comma-separated list of parties involved",
      "title": "Event title in format: [Document Type] from [Party] to [Party] re: [Subject] or similar",
      "summary": "Factual summary of what occurred - be precise and objective",
      "category": "Choose from: Communication, Financial Transaction, Legal Filing, Contract, Meeting/Conference, Document Creation, Property/Real Estate, Investigation, Compliance, Other",
      "legalSignificance": "Analysis of potential legal significance in context of litigation",
      "source": "Document name or reference",
      "questions": ["Array of clarifying questions if context is unclear or if you need more information"],
      "relatedEntries": "Suggested connections to existing chronology entries if applicable",
      "sourceInfo": "Details about the document source, file type, and any metadata"
    }
  ]
}

IMPORTANT:
- If you need clarification about dates, parties, context, relevance, or if files cannot be fully processed, include specific questions in the "questions" array
- Be thorough but concise in your analysis
- You may create multiple entries if the document contains multiple distinct events
- Respond ONLY with valid JSON. Do not include any text outside the JSON structure`)

	return sb.String()
}

// buildCaseContextSection renders the case-level context block. Returns an
// empty string when no context, parties or instructions exist.
func buildCaseContextSection(req *AnalysisRequest) string {
	if req.CaseContext == "" && req.KeyParties == "" && req.Instructions == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nCASE CONTEXT:\n")
	if req.CaseContext != "" {
		sb.WriteString(fmt.Sprintf("Case Overview: %s\n", req.CaseContext))
	}
	if req.KeyParties != "" {
		sb.WriteString(fmt.Sprintf("Key Parties: %s\n", req.KeyParties))
	}
	if req.Instructions != "" {
		sb.WriteString(fmt.Sprintf("Special Instructions: %s\n", req.Instructions))
	}
	return sb.String()
}

// buildExistingChronologySection renders the compact list of already-known
// entries. Full summaries are not echoed back; only a bounded prefix.
func buildExistingChronologySection(entries []ExistingEntrySummary) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nEXISTING CHRONOLOGY CONTEXT:\n")
	for _, entry := range entries {
		summary := entry.Summary
		if len(summary) > existingSummaryMaxLen {
			summary = summary[:existingSummaryMaxLen]
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s: %s...\n", entry.Date, entry.Time, entry.Title, summary))
	}
	return sb.String()
}
