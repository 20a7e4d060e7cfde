package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"chronolex_app_go/config"
)

const (
	llamaParseBaseURL      = "https://api.cloud.llamaindex.ai/api/parsing"
	llamaParsePollInterval = 2 * time.Second
	llamaParseMaxPolls     = 30
)

type llamaParseUploadResponse struct {
	ID string `json:"id"`
}

type llamaParseJobResponse struct {
	Status string `json:"status"`
}

type llamaParseResultResponse struct {
	Markdown string `json:"markdown"`
}

// ParseDocumentWithLlamaParse sends a document to the LlamaParse cloud
// service and returns its markdown rendition. Used for formats the local
// extractors cannot handle (PDF, legacy Word). The caller is responsible for
// falling back to a placeholder when this collaborator fails.
func ParseDocumentWithLlamaParse(ctx context.Context, cfg *config.Config, data []byte, filename string) (string, error) {
	if cfg.LlamaCloudAPIKey == "" {
		return "", fmt.Errorf("LLAMA_CLOUD_API_KEY not configured")
	}

	jobID, err := llamaParseUpload(ctx, cfg.LlamaCloudAPIKey, data, filename)
	if err != nil {
		return "", err
	}

	if err := llamaParseAwait(ctx, cfg.LlamaCloudAPIKey, jobID); err != nil {
		return "", err
	}

	return llamaParseResult(ctx, cfg.LlamaCloudAPIKey, jobID)
}

func llamaParseUpload(ctx context.Context, apiKey string, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, llamaParseBaseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, string(responseBody))
	}

	var uploadResponse llamaParseUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResponse); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploadResponse.ID == "" {
		return "", fmt.Errorf("upload response missing job id")
	}

	return uploadResponse.ID, nil
}

func llamaParseAwait(ctx context.Context, apiKey, jobID string) error {
	for i := 0; i < llamaParseMaxPolls; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/job/%s", llamaParseBaseURL, jobID), nil)
		if err != nil {
			return fmt.Errorf("failed to build status request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("status request failed: %w", err)
		}

		var jobResponse llamaParseJobResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&jobResponse)
		resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("failed to decode status response: %w", decodeErr)
		}

		switch jobResponse.Status {
		case "SUCCESS":
			return nil
		case "ERROR", "CANCELED":
			return fmt.Errorf("parsing job %s failed with status %s", jobID, jobResponse.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(llamaParsePollInterval):
		}
	}

	return fmt.Errorf("parsing job %s did not complete in time", jobID)
}

func llamaParseResult(ctx context.Context, apiKey, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/job/%s/result/markdown", llamaParseBaseURL, jobID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build result request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("result request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("result rejected (status %d): %s", resp.StatusCode, string(responseBody))
	}

	var resultResponse llamaParseResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&resultResponse); err != nil {
		return "", fmt.Errorf("failed to decode result response: %w", err)
	}
	if resultResponse.Markdown == "" {
		return "", fmt.Errorf("no text extracted from document")
	}

	return resultResponse.Markdown, nil
}
