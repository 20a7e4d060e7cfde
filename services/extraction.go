package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"chronolex_app_go/config"

	"github.com/xuri/excelize/v2"
)

// Extraction placeholders. These are deterministic: the same file failing
// the same way always yields the identical string, so downstream stages and
// tests can rely on them.
func processingErrorPlaceholder(filename string) string {
	return fmt.Sprintf("[Processing Error] Unable to process file: %s", filename)
}

func pdfErrorPlaceholder(filename string) string {
	return fmt.Sprintf("[PDF Processing Error] Unable to process PDF: %s. Please copy and paste the content manually.", filename)
}

func imageErrorPlaceholder(filename string) string {
	return fmt.Sprintf("[Image Processing Error] Unable to process image: %s. Please describe the content manually.", filename)
}

func unsupportedPlaceholder(filename string) string {
	return fmt.Sprintf("[Unsupported File Type] Cannot extract content from: %s. Please paste the relevant text manually.", filename)
}

// imageExtensions are the formats routed to vision analysis
var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageMediaType reports whether the filename is a supported image format
// and returns its media type
func ImageMediaType(filename string) (string, bool) {
	mediaType, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return mediaType, ok
}

// ExtractContent converts an uploaded file into text suitable for analysis,
// dispatching on the file extension. It never fails: unsupported or corrupt
// input degrades to a bracketed placeholder string, so one bad file in a
// batch cannot abort the others and downstream stages always receive a
// string.
func ExtractContent(ctx context.Context, data []byte, filename string, cfg *config.Config) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".docx":
		text, err := extractDocxText(data)
		if err != nil {
			log.Printf("[WARNING] docx extraction failed for %s: %v", filename, err)
			return processingErrorPlaceholder(filename)
		}
		return text

	case ".doc":
		// Legacy binary Word container; route through the PDF/office parsing
		// collaborator when available, otherwise ask for manual input.
		if cfg.LlamaCloudAPIKey != "" {
			text, err := ParseDocumentWithLlamaParse(ctx, cfg, data, filename)
			if err == nil {
				return text
			}
			log.Printf("[WARNING] LlamaParse failed for %s: %v", filename, err)
		}
		return processingErrorPlaceholder(filename)

	case ".xlsx":
		text, err := extractXlsxText(data)
		if err != nil {
			log.Printf("[WARNING] xlsx extraction failed for %s: %v", filename, err)
			return processingErrorPlaceholder(filename)
		}
		return text

	case ".txt", ".eml":
		// Raw text; email structure is left to the analysis model.
		return string(data)

	case ".pdf":
		if cfg.LlamaCloudAPIKey != "" {
			text, err := ParseDocumentWithLlamaParse(ctx, cfg, data, filename)
			if err == nil {
				return text
			}
			log.Printf("[WARNING] LlamaParse failed for %s: %v", filename, err)
		}
		return pdfErrorPlaceholder(filename)

	default:
		if mediaType, ok := imageExtensions[ext]; ok {
			description, err := AnalyzeImage(ctx, cfg, data, mediaType, filename)
			if err != nil {
				log.Printf("[WARNING] Vision analysis failed for %s: %v", filename, err)
				return imageErrorPlaceholder(filename)
			}
			return description
		}
		return unsupportedPlaceholder(filename)
	}
}

// extractDocxText pulls the plain text out of a docx archive
// (word/document.xml). Paragraphs become newlines; runs are concatenated.
func extractDocxText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid docx archive: %w", err)
	}

	var documentXML []byte
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}
	if documentXML == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	decoder := xml.NewDecoder(bytes.NewReader(documentXML))
	var sb strings.Builder
	var inText bool

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// extractXlsxText renders every sheet of a workbook as tab-separated rows
func extractXlsxText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("not a valid xlsx workbook: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", sheet))
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
