package hub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIFetcher fetches model metadata from the Hub model API.
type APIFetcher struct {
	Client  *http.Client
	BaseURL string // optional; defaults to DefaultBaseURL
}

// ModelInfo is the decoded response from GET https://huggingface.co/api/models/:id
type ModelInfo struct {
	ID          string         `json:"id"`
	ModelID     string         `json:"modelId"`
	Author      string         `json:"author"`
	PipelineTag string         `json:"pipeline_tag"`
	LibraryName string         `json:"library_name"`
	Tags        []string       `json:"tags"`
	License     string         `json:"license"`
	SHA         string         `json:"sha"`
	Downloads   int            `json:"downloads"`
	Likes       int            `json:"likes"`
	LastMod     string         `json:"lastModified"`
	CreatedAt   string         `json:"createdAt"`
	Private     bool           `json:"private"`
	CardData    map[string]any `json:"cardData"`
	Config      struct {
		ModelType     string   `json:"model_type"`
		Architectures []string `json:"architectures"`
	} `json:"config"`
}

func (f *APIFetcher) Fetch(modelID string) (*ModelInfo, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	id := strings.TrimPrefix(strings.TrimSpace(modelID), "/")
	if id == "" {
		return nil, fmt.Errorf("empty model id")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(f.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	url := fmt.Sprintf("%s/api/models/%s", baseURL, id)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var parsed ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
