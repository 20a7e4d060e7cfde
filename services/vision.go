package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"chronolex_app_go/config"
)

const visionMaxTokens = 1500

// AnalyzeImage produces a litigation-suitable textual description of an
// image: an embedded-metadata section followed by a visual-analysis section.
// Unlike chronology extraction the response contract here is plain text, not
// schema-validated JSON - any non-empty description is a success.
func AnalyzeImage(ctx context.Context, cfg *config.Config, data []byte, mediaType, filename string) (string, error) {
	if Inference == nil || !Inference.IsConfigured() {
		return "", fmt.Errorf("inference client not configured")
	}

	meta := ExtractImageMetadata(data)

	prompt := buildVisionPrompt(filename, meta)

	description, err := Inference.CompleteWithImage(ctx, prompt, data, mediaType, visionMaxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("vision analysis returned no description")
	}

	var sb strings.Builder
	sb.WriteString(renderMetadataSection(meta))
	sb.WriteString("VISUAL ANALYSIS:\n")
	sb.WriteString(strings.TrimSpace(description))
	return sb.String(), nil
}

// buildVisionPrompt asks for an objective description suitable for
// litigation use, enriched with whatever technical metadata the image
// carries
func buildVisionPrompt(filename string, meta map[string]string) string {
	var sb strings.Builder

	sb.WriteString("You are assisting with litigation document review. Provide an objective, factual description of this image suitable for a legal chronology.\n\n")
	sb.WriteString("Describe: what the image shows, any visible text or documents, identifiable people or locations (described neutrally), dates or timestamps visible in the image, and anything of potential legal relevance. Do not speculate beyond what is visible.\n")

	if filename != "" {
		sb.WriteString(fmt.Sprintf("\nFILENAME: %s\n", filename))
	}

	if len(meta) > 0 {
		sb.WriteString("\nEMBEDDED METADATA (from the image file, consider its legal relevance):\n")
		sb.WriteString(formatMetadataLines(meta))
	}

	sb.WriteString("\nRespond with the description only, no preamble.")
	return sb.String()
}

// renderMetadataSection renders the metadata block that precedes the visual
// analysis in the extracted content
func renderMetadataSection(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("IMAGE METADATA:\n")
	sb.WriteString(formatMetadataLines(meta))
	sb.WriteString("\n")
	return sb.String()
}

// formatMetadataLines renders the bag as stable, sorted key lines
func formatMetadataLines(meta map[string]string) string {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", key, meta[key]))
	}
	return sb.String()
}
