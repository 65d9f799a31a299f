// Package vault turns a raw snapshot of vault files into the published site
// structures: navigation tree, alias table, route table, and file set.
package vault

import (
	"strings"

	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/parser"
	"github.com/starford/vaultpress/internal/tree"
	"github.com/starford/vaultpress/internal/urlpath"
)

// Result holds everything derived from one vault snapshot. It is built once
// by Process and not modified afterwards.
type Result struct {
	Tree     []*models.TreeNode `json:"tree"`
	AliasMap models.AliasMap    `json:"aliasMap"`
	URLMap   models.URLMap      `json:"urlMap"`
	Files    *models.FileSet    `json:"files"`
}

// Process parses and filters raw files.
//
// The vault root is the first three path components of the first file
// ("/Vault/Site/" for "/Vault/Site/note.md"); files outside it are ignored.
// Files under a dot-prefixed segment and files without "publish: true" are
// dropped. Alias collisions are not resolved: the file processed last owns
// the alias.
func Process(raw []models.RawFile) *Result {
	res := &Result{
		AliasMap: models.AliasMap{},
		URLMap:   models.URLMap{},
		Files:    models.NewFileSet(),
	}
	if len(raw) == 0 {
		res.Tree = tree.Build(nil)
		return res
	}

	prefix := Prefix(raw[0].Path)
	for _, rf := range raw {
		rel, ok := strings.CutPrefix(rf.Path, prefix)
		if !ok || hidden(rel) {
			continue
		}
		meta, body := parser.ParseFrontmatter(rf.Content)
		if !meta.Publish {
			continue
		}

		res.Files.Add(models.VaultFile{Path: rel, Meta: meta, Body: body})
		res.URLMap[urlpath.ToURLPath(rel)] = rel

		res.addAlias(Stem(rel), rel)
		for _, alias := range meta.Aliases {
			res.addAlias(alias, rel)
		}
	}

	res.Tree = tree.Build(res.Files.Paths())
	return res
}

func (r *Result) addAlias(alias, rel string) {
	r.AliasMap[alias] = rel
	r.AliasMap[strings.ToLower(alias)] = rel
}

// Lookup returns the published file addressed by a vault-relative path or by
// its canonical route. The route may be given encoded, as in the route
// table, or percent-decoded, as it arrives from a request path.
func (r *Result) Lookup(pathOrRoute string) (models.VaultFile, bool) {
	if f, ok := r.Files.Get(pathOrRoute); ok {
		return f, true
	}
	route := strings.Trim(pathOrRoute, "/")
	if rel, ok := r.URLMap[route]; ok {
		return r.Files.Get(rel)
	}
	if rel, ok := r.URLMap[urlpath.EncodeRoute(route)]; ok {
		return r.Files.Get(rel)
	}
	return models.VaultFile{}, false
}

// Prefix derives the vault root from a file path: its first three
// slash-separated components plus a trailing slash.
func Prefix(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "/") + "/"
}

// Stem returns the file name of rel without directories and ".md".
func Stem(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		rel = rel[i+1:]
	}
	return strings.TrimSuffix(rel, ".md")
}

func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
