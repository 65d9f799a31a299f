// Package models defines the domain types shared by the vault pipeline.
package models

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NoteMeta is the metadata extracted from a note's front-matter block.
type NoteMeta struct {
	Publish bool     `json:"publish"`
	Tags    []string `json:"tags"`
	Aliases []string `json:"aliases"`
}

// DefaultMeta returns the metadata of a note without front-matter.
func DefaultMeta() NoteMeta {
	return NoteMeta{Tags: []string{}, Aliases: []string{}}
}

// VaultFile is a published note with its front-matter stripped.
type VaultFile struct {
	Path string   `json:"path"`
	Meta NoteMeta `json:"meta"`
	Body string   `json:"body"`
}

// RawFile is one entry of the raw vault snapshot handed to the pipeline.
// Path is absolute and forward-slash separated.
type RawFile struct {
	Path    string
	Content string
}

// NodeType distinguishes directories from files in the navigation tree.
type NodeType string

// Node types.
const (
	NodeFile NodeType = "file"
	NodeDir  NodeType = "dir"
)

// TreeNode is one entry of the navigation tree. Children is set only for
// directories.
type TreeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Type     NodeType    `json:"type"`
	Children []*TreeNode `json:"children,omitempty"`
}

// AliasMap maps link text (stems and declared aliases, original and
// lowercase) to vault-relative paths.
type AliasMap map[string]string

// URLMap maps canonical routes to vault-relative paths.
type URLMap map[string]string

// SearchResult is a single search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// FileSet is an insertion-ordered collection of published files keyed by
// vault-relative path.
type FileSet struct {
	m *orderedmap.OrderedMap[string, VaultFile]
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{m: orderedmap.New[string, VaultFile]()}
}

// Add stores f under f.Path. Re-adding a path replaces the file in place.
func (s *FileSet) Add(f VaultFile) {
	s.m.Set(f.Path, f)
}

// Get returns the file stored under path.
func (s *FileSet) Get(path string) (VaultFile, bool) {
	return s.m.Get(path)
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	return s.m.Len()
}

// Paths returns the stored paths in insertion order.
func (s *FileSet) Paths() []string {
	out := make([]string, 0, s.m.Len())
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// All iterates over the files in insertion order.
func (s *FileSet) All() iter.Seq2[string, VaultFile] {
	return func(yield func(string, VaultFile) bool) {
		for p := s.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the set as a JSON object in insertion order.
func (s *FileSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.m)
}
