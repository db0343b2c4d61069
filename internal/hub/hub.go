// Package hub fetches base model metadata from the Hugging Face Hub.
//
// Two sources are combined: the raw model card README (front matter is
// what model authors actually maintain, so it wins) and the model API,
// which fills anything the README leaves blank and adds repo-level
// stats like downloads and the pipeline tag.
package hub

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBaseURL is the Hugging Face Hub endpoint used when a fetcher
// has no explicit BaseURL.
const DefaultBaseURL = "https://huggingface.co"

// CardInfo is the metadata runcard extracts for a Hub model. It feeds
// enrichment of locally generated cards, so it only carries the fields
// a card header can take plus a few display-only stats.
type CardInfo struct {
	ModelID     string
	Author      string
	PipelineTag string
	LibraryName string
	Downloads   int
	Likes       int

	License   string
	Language  []string
	Tags      []string
	Datasets  []string
	Metrics   []string
	BaseModel string
}

// Service composes the README and API fetchers into one lookup.
type Service struct {
	Readme *ReadmeFetcher
	API    *APIFetcher
}

// NewService builds a Service whose fetchers share one HTTP client.
// timeout is the per-request deadline (0 = none); token is sent as a
// Bearer token when non-empty, which is required for gated repos.
func NewService(timeout time.Duration, token string) *Service {
	client := NewClient(timeout, token)
	return &Service{
		Readme: &ReadmeFetcher{Client: client},
		API:    &APIFetcher{Client: client},
	}
}

// FetchCard looks up a model on the Hub. The README is fetched first;
// API data fills the gaps. An error is returned only when no source
// produced anything.
func (s *Service) FetchCard(modelID string) (*CardInfo, error) {
	id := strings.TrimPrefix(strings.TrimSpace(modelID), "/")
	if id == "" {
		return nil, fmt.Errorf("empty model id")
	}

	var info *CardInfo
	var readmeErr error
	if s.Readme != nil {
		info, readmeErr = s.Readme.Fetch(id)
		if readmeErr != nil {
			logf(id, "readme miss err=%v", readmeErr)
		} else {
			logf(id, "readme ok license=%q tags=%d", info.License, len(info.Tags))
		}
	}

	if s.API != nil {
		api, err := s.API.Fetch(id)
		if err != nil {
			logf(id, "api miss err=%v", err)
			if info == nil {
				if readmeErr != nil {
					return nil, readmeErr
				}
				return nil, err
			}
		} else {
			logf(id, "api ok pipeline=%s downloads=%d", api.PipelineTag, api.Downloads)
			if info == nil {
				info = &CardInfo{}
			}
			mergeModelInfo(info, api)
		}
	}

	if info == nil {
		if readmeErr != nil {
			return nil, readmeErr
		}
		return nil, fmt.Errorf("no fetchers configured")
	}
	info.ModelID = id
	return info, nil
}

// mergeModelInfo copies API fields into info without overwriting
// anything the README already provided.
func mergeModelInfo(info *CardInfo, api *ModelInfo) {
	info.Author = api.Author
	info.PipelineTag = api.PipelineTag
	info.LibraryName = api.LibraryName
	info.Downloads = api.Downloads
	info.Likes = api.Likes

	if info.License == "" {
		info.License = strings.TrimSpace(api.License)
	}
	if info.License == "" {
		info.License = strings.TrimSpace(anyString(api.CardData["license"]))
	}
	if len(info.Language) == 0 {
		info.Language = anyStrings(api.CardData["language"])
	}
	if len(info.Tags) == 0 {
		info.Tags = cardTags(api.Tags)
	}
	if len(info.Datasets) == 0 {
		info.Datasets = anyStrings(api.CardData["datasets"])
	}
	if len(info.Metrics) == 0 {
		info.Metrics = anyStrings(api.CardData["metrics"])
	}
	if info.BaseModel == "" {
		info.BaseModel = strings.TrimSpace(anyString(api.CardData["base_model"]))
	}
}

// cardTags filters API repo tags down to the ones that belong in a card
// header. The API mixes in namespaced repo tags (license:apache-2.0,
// region:us, arxiv:...) that are not card tags.
func cardTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || strings.Contains(t, ":") {
			continue
		}
		out = append(out, t)
	}
	return out
}

func anyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func anyStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			s := strings.TrimSpace(anyString(x))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		return []string{s}
	default:
		return nil
	}
}
