package hub

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/runcard-dev/runcard/internal/cardfile"
)

// ReadmeFetcher fetches the README.md (model card) for a model repo.
//
// It uses URLs like:
//
//	GET https://huggingface.co/{modelID}/resolve/main/README.md
//
// and falls back to /resolve/master/README.md for older repos.
type ReadmeFetcher struct {
	Client  *http.Client
	BaseURL string // optional; defaults to DefaultBaseURL
}

func (f *ReadmeFetcher) Fetch(modelID string) (*CardInfo, error) {
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

	// Try main then master.
	candidates := []string{
		fmt.Sprintf("%s/%s/resolve/main/README.md", baseURL, id),
		fmt.Sprintf("%s/%s/resolve/master/README.md", baseURL, id),
	}

	var lastErr error
	for _, url := range candidates {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/markdown, text/plain, */*")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = &StatusError{StatusCode: resp.StatusCode}
			continue
		}

		return parseCardInfo(id, string(body))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("unable to fetch README")
	}
	return nil, lastErr
}

// parseCardInfo pulls header fields out of a fetched card. A card whose
// front matter does not parse still yields an empty CardInfo; fields are
// best effort here.
func parseCardInfo(modelID, raw string) (*CardInfo, error) {
	info := &CardInfo{ModelID: modelID}

	parsed, err := cardfile.Parse(raw)
	if err != nil {
		logf(modelID, "front matter unparsable err=%v", err)
		return info, nil
	}

	info.License = strings.TrimSpace(parsed.Meta.License)
	info.Language = parsed.Meta.Language
	info.Tags = parsed.Meta.Tags
	info.Datasets = parsed.Meta.Datasets
	info.Metrics = parsed.Meta.Metrics
	if parsed.Header != nil {
		if v, ok := parsed.Header.Get("base_model"); ok {
			info.BaseModel = strings.TrimSpace(anyString(v))
		}
	}
	return info, nil
}
