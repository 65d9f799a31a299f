package noteservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/checksum"
	"github.com/starford/vaultpress/internal/metrics"
	"github.com/starford/vaultpress/internal/testutil"
)

func newTestService(t *testing.T, files map[string]string) (*Service, string) {
	t.Helper()
	dir, store := testutil.TestVault(t, files)
	return NewService(store, metrics.New(), nil), dir
}

func TestSite(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"Guides/Intro Note.md": testutil.Published("hello"),
		"draft.md":             "no front-matter",
		".trash/old.md":        testutil.Published("gone"),
	})
	site, err := svc.Site(context.Background())
	if err != nil {
		t.Fatalf("Site: %v", err)
	}
	if len(site.Tree) != 1 || site.Tree[0].Name != "Guides" || len(site.Tree[0].Children) != 1 {
		t.Errorf("tree = %+v", site.Tree)
	}
	if site.URLMap["Guides/Intro-Note"] != "Guides/Intro Note.md" {
		t.Errorf("urlMap = %v", site.URLMap)
	}
	if site.AliasMap["intro note"] != "Guides/Intro Note.md" {
		t.Errorf("aliasMap = %v", site.AliasMap)
	}
	if _, ok := site.AliasMap["draft"]; ok {
		t.Error("unpublished note has an alias")
	}
}

func TestGetNote(t *testing.T) {
	raw := testutil.Published("See [[Other]] and [[Missing]]. %% secret %%done")
	svc, _ := newTestService(t, map[string]string{
		"a.md":     raw,
		"Other.md": testutil.Published("back to [[a]]"),
	})
	ctx := context.Background()

	n, err := svc.GetNote(ctx, "a.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Route != "a" || n.Title != "a" {
		t.Errorf("route/title = %q/%q", n.Route, n.Title)
	}
	if strings.Contains(n.Body, "secret") {
		t.Errorf("comment not stripped: %q", n.Body)
	}
	if !strings.Contains(n.Body, `<a class="wiki-link" href="#/Other">Other</a>`) {
		t.Errorf("resolved link missing: %q", n.Body)
	}
	if !strings.Contains(n.Body, `title="Note not found: Missing"`) {
		t.Errorf("broken link missing: %q", n.Body)
	}
	if n.Checksum != checksum.SumParts(raw, n.Body, "Other.md") {
		t.Errorf("checksum = %q", n.Checksum)
	}
	if n.LastUpdated.IsZero() {
		t.Error("lastUpdated is zero")
	}
	if len(n.Backlinks) != 1 || n.Backlinks[0] != "Other.md" {
		t.Errorf("backlinks = %v", n.Backlinks)
	}

	byRoute, err := svc.GetNote(ctx, "/Other")
	if err != nil {
		t.Fatalf("GetNote by route: %v", err)
	}
	if byRoute.Path != "Other.md" {
		t.Errorf("path = %q", byRoute.Path)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"draft.md": "---\npublish: false\n---\nhidden",
	})
	for _, p := range []string{"draft.md", "draft", "nope.md", ""} {
		if _, err := svc.GetNote(context.Background(), p); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("GetNote(%q) err = %v, want ErrNotFound", p, err)
		}
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"a.md": testutil.Published("alpha beta"),
		"b.md": "---\npublish: true\ntags:\n  - go\n---\ngamma",
	})
	ctx := context.Background()

	got, err := svc.Search(ctx, "beta")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Path != "a.md" {
		t.Errorf("results = %+v", got)
	}

	got, _ = svc.Search(ctx, "tag:go")
	if len(got) != 1 || got[0].Path != "b.md" {
		t.Errorf("tag results = %+v", got)
	}

	got, _ = svc.Search(ctx, "")
	if got == nil || len(got) != 0 {
		t.Errorf("empty query results = %v", got)
	}
}

func TestBacklinks(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"target.md": testutil.Published("self [[target]]"),
		"one.md":    "---\npublish: true\naliases:\n  - First\n---\n[[TARGET]] [[target|again]]",
		"two.md":    testutil.Published("%% [[target]] %%"),
		"three.md":  "---\npublish: false\n---\n[[target]]",
		"four.md":   testutil.Published("[[ target ]]"),
	})
	got, err := svc.Backlinks(context.Background(), "target.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if strings.Join(got, ",") != "four.md,one.md" {
		t.Errorf("backlinks = %v, want [four.md one.md]", got)
	}
}

func TestResolve(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"dir/My Note.md": "---\npublish: true\naliases:\n  - Nickname\n---\nbody",
	})
	ctx := context.Background()

	l, err := svc.Resolve(ctx, "nickname")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Path != "dir/My Note.md" || l.Route != "dir/My-Note" {
		t.Errorf("link = %+v", l)
	}
	if _, err := svc.Resolve(ctx, "unknown"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Resolve(unknown) err = %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGetNote_ChecksumTracksLinkedNotes(t *testing.T) {
	svc, dir := newTestService(t, map[string]string{
		"a.md": testutil.Published("see [[b]]"),
	})
	ctx := context.Background()

	before, err := svc.GetNote(ctx, "a.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if !strings.Contains(before.Body, "wiki-link broken") {
		t.Fatalf("link should be broken: %q", before.Body)
	}

	testutil.WriteFile(t, dir, "b.md", testutil.Published("back to [[a]]"))
	after, err := svc.GetNote(ctx, "a.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if !strings.Contains(after.Body, `href="#/b"`) {
		t.Errorf("link not resolved: %q", after.Body)
	}
	if after.Checksum == before.Checksum {
		t.Error("checksum unchanged after the linked note was published")
	}
	if len(after.Backlinks) != 1 || after.Backlinks[0] != "b.md" {
		t.Errorf("backlinks = %v", after.Backlinks)
	}
}
