package hub

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const sampleReadme = `---
language:
  - en
license: apache-2.0
tags:
  - text-classification
datasets:
  - glue
metrics:
  - accuracy
base_model: google-bert/bert-base-uncased
---

# bert-base-uncased

Pretrained model on English language.
`

func TestReadmeFetcherParsesFrontMatter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s", r.Method)
		}
		if r.URL.Path != "/org/model/resolve/main/README.md" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sampleReadme))
	}))
	defer srv.Close()

	f := &ReadmeFetcher{Client: NewClient(0, "tok"), BaseURL: srv.URL}
	info, err := f.Fetch("org/model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if info.License != "apache-2.0" {
		t.Fatalf("license = %q", info.License)
	}
	if !reflect.DeepEqual(info.Language, []string{"en"}) {
		t.Fatalf("language = %v", info.Language)
	}
	if !reflect.DeepEqual(info.Tags, []string{"text-classification"}) {
		t.Fatalf("tags = %v", info.Tags)
	}
	if !reflect.DeepEqual(info.Datasets, []string{"glue"}) {
		t.Fatalf("datasets = %v", info.Datasets)
	}
	if info.BaseModel != "google-bert/bert-base-uncased" {
		t.Fatalf("base_model = %q", info.BaseModel)
	}
}

func TestReadmeFetcherFallsBackToMaster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/org/model/resolve/main/README.md":
			w.WriteHeader(http.StatusNotFound)
		case "/org/model/resolve/master/README.md":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("# old model\n"))
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	f := &ReadmeFetcher{BaseURL: srv.URL}
	info, err := f.Fetch("org/model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if info.ModelID != "org/model" {
		t.Fatalf("modelID = %q", info.ModelID)
	}
	// No front matter means no header fields, not an error.
	if info.License != "" || len(info.Tags) != 0 {
		t.Fatalf("expected empty info, got %+v", info)
	}
}

func TestReadmeFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := &ReadmeFetcher{BaseURL: srv.URL}
	_, err := f.Fetch("org/missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReadmeFetcherEmptyModelID(t *testing.T) {
	f := &ReadmeFetcher{}
	if _, err := f.Fetch("  "); err == nil {
		t.Fatalf("expected error for empty model id")
	}
}

func TestAPIFetcherDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models/org/model" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "org/model",
			"author": "org",
			"pipeline_tag": "text-classification",
			"library_name": "transformers",
			"tags": ["transformers", "license:apache-2.0", "region:us"],
			"license": "apache-2.0",
			"downloads": 1200,
			"likes": 7,
			"cardData": {"language": ["en"], "datasets": ["glue"]},
			"config": {"model_type": "bert", "architectures": ["BertForSequenceClassification"]}
		}`))
	}))
	defer srv.Close()

	f := &APIFetcher{BaseURL: srv.URL}
	got, err := f.Fetch("org/model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Author != "org" || got.PipelineTag != "text-classification" {
		t.Fatalf("decoded = %+v", got)
	}
	if got.Downloads != 1200 || got.Likes != 7 {
		t.Fatalf("stats = %d/%d", got.Downloads, got.Likes)
	}
	if got.Config.ModelType != "bert" {
		t.Fatalf("model_type = %q", got.Config.ModelType)
	}
	if langs := anyStrings(got.CardData["language"]); !reflect.DeepEqual(langs, []string{"en"}) {
		t.Fatalf("cardData language = %v", langs)
	}
}

func TestAPIFetcherUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := &APIFetcher{BaseURL: srv.URL}
	_, err := f.Fetch("org/gated")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceMergesAPIIntoReadme(t *testing.T) {
	// README has no license; the API supplies it.
	readme := "---\ntags:\n  - text-classification\n---\n\n# model\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/org/model/resolve/main/README.md":
			_, _ = w.Write([]byte(readme))
		case "/api/models/org/model":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "org/model",
				"pipeline_tag": "text-classification",
				"license": "mit",
				"tags": ["transformers", "bert"],
				"cardData": {"language": "en"}
			}`))
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	s := &Service{
		Readme: &ReadmeFetcher{BaseURL: srv.URL},
		API:    &APIFetcher{BaseURL: srv.URL},
	}
	info, err := s.FetchCard("org/model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if info.License != "mit" {
		t.Fatalf("license = %q", info.License)
	}
	// README tags win over API tags.
	if !reflect.DeepEqual(info.Tags, []string{"text-classification"}) {
		t.Fatalf("tags = %v", info.Tags)
	}
	if !reflect.DeepEqual(info.Language, []string{"en"}) {
		t.Fatalf("language = %v", info.Language)
	}
	if info.PipelineTag != "text-classification" {
		t.Fatalf("pipeline = %q", info.PipelineTag)
	}
}

func TestServiceReadmeMissFallsBackToAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/models/org/model":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "org/model", "license": "mit", "tags": ["bert", "region:us"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := &Service{
		Readme: &ReadmeFetcher{BaseURL: srv.URL},
		API:    &APIFetcher{BaseURL: srv.URL},
	}
	info, err := s.FetchCard("org/model")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if info.License != "mit" {
		t.Fatalf("license = %q", info.License)
	}
	if !reflect.DeepEqual(info.Tags, []string{"bert"}) {
		t.Fatalf("tags = %v", info.Tags)
	}
}

func TestServiceBothSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := &Service{
		Readme: &ReadmeFetcher{BaseURL: srv.URL},
		API:    &APIFetcher{BaseURL: srv.URL},
	}
	if _, err := s.FetchCard("org/model"); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCardTags(t *testing.T) {
	got := cardTags([]string{"transformers", "license:apache-2.0", "arxiv:1810.04805", " bert ", "", "region:us"})
	want := []string{"transformers", "bert"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cardTags = %v, want %v", got, want)
	}
}
