package linkref_test

import (
	"testing"

	"github.com/eykd/mdmerge/internal/linkref"
)

func TestParseDefinitionLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLabel string
		wantURL   string
		wantTitle string
		wantOK    bool
	}{
		{
			name:      "simple",
			line:      `[example]: https://example.com`,
			wantLabel: "example",
			wantURL:   "https://example.com",
			wantOK:    true,
		},
		{
			name:      "with title",
			line:      `[example]: https://example.com "Example Site"`,
			wantLabel: "example",
			wantURL:   "https://example.com",
			wantTitle: "Example Site",
			wantOK:    true,
		},
		{
			name:      "angle bracket url",
			line:      `[x]: <https://example.com/a b>`,
			wantLabel: "x",
			wantURL:   "https://example.com/a b",
			wantOK:    true,
		},
		{
			name:   "not a definition",
			line:   `just a paragraph`,
			wantOK: false,
		},
		{
			name:   "trailing garbage rejected",
			line:   `[x]: https://example.com garbage here`,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := linkref.ParseDefinitionLine(tt.line, false)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if got.Label != tt.wantLabel || got.URL != tt.wantURL || got.Title != tt.wantTitle {
				t.Errorf("got %+v, want label=%q url=%q title=%q", got, tt.wantLabel, tt.wantURL, tt.wantTitle)
			}
		})
	}
}

func TestFindInlineLinks(t *testing.T) {
	content := `See [Example](https://example.com) here.`
	got := linkref.FindInlineLinks(content)
	if len(got) != 1 {
		t.Fatalf("got %d links, want 1", len(got))
	}
	if got[0].Text != "Example" || got[0].URL != "https://example.com" {
		t.Errorf("got %+v", got[0])
	}
}

func TestFindInlineImagesExcludesFromLinks(t *testing.T) {
	content := `![Logo](img.png)`
	if links := linkref.FindInlineLinks(content); len(links) != 0 {
		t.Errorf("expected no plain links, got %+v", links)
	}
	images := linkref.FindInlineImages(content)
	if len(images) != 1 || images[0].Text != "Logo" || images[0].URL != "img.png" {
		t.Errorf("got %+v", images)
	}
}

func TestFindAllLinkConstructsNestsLinkedImage(t *testing.T) {
	content := `[![Logo](img.png)](https://site.com)`
	forest := linkref.FindAllLinkConstructs(content)
	if len(forest) != 1 {
		t.Fatalf("got %d top-level constructs, want 1", len(forest))
	}
	top := forest[0]
	if top.IsImage {
		t.Errorf("top-level construct should be the link, not the image")
	}
	if top.URL != "https://site.com" {
		t.Errorf("top URL = %q", top.URL)
	}
	if len(top.Children) != 1 || !top.Children[0].IsImage {
		t.Fatalf("expected one nested image child, got %+v", top.Children)
	}
	if top.Children[0].URL != "img.png" {
		t.Errorf("nested image URL = %q", top.Children[0].URL)
	}
}

func TestBuildURLToLabelShortestWins(t *testing.T) {
	defs := []linkref.Definition{
		{Label: "example-site", URL: "https://example.com"},
		{Label: "ex", URL: "https://example.com"},
		{Label: "example", URL: "https://example.com"},
	}
	got := linkref.BuildURLToLabel(defs)
	if got["https://example.com"] != "ex" {
		t.Errorf("got %q, want shortest label %q", got["https://example.com"], "ex")
	}
}

func TestScannerRecoversFromUnterminatedConstruct(t *testing.T) {
	content := `[unterminated(`
	if got := linkref.FindInlineLinks(content); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}
