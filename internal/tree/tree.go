// Package tree builds the navigation tree from flat vault-relative paths.
package tree

import (
	"cmp"
	"slices"
	"strings"

	"github.com/starford/vaultpress/internal/models"
)

// Build returns the navigation forest for paths. Directory nodes are created
// for every distinct ancestor; within each sibling group directories come
// before files and names are ordered byte-wise.
func Build(paths []string) []*models.TreeNode {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	root := &models.TreeNode{Type: models.NodeDir, Children: []*models.TreeNode{}}
	dirs := map[string]*models.TreeNode{"": root}

	for _, p := range sorted {
		parts := strings.Split(p, "/")
		parent := root
		for i := 1; i < len(parts); i++ {
			dirPath := strings.Join(parts[:i], "/")
			dir, ok := dirs[dirPath]
			if !ok {
				dir = &models.TreeNode{Name: parts[i-1], Path: dirPath, Type: models.NodeDir}
				dirs[dirPath] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
		parent.Children = append(parent.Children, &models.TreeNode{
			Name: parts[len(parts)-1],
			Path: p,
			Type: models.NodeFile,
		})
	}

	sortNodes(root.Children)
	return root.Children
}

func sortNodes(nodes []*models.TreeNode) {
	slices.SortStableFunc(nodes, compareNodes)
	for _, n := range nodes {
		if n.Type == models.NodeDir {
			sortNodes(n.Children)
		}
	}
}

func compareNodes(a, b *models.TreeNode) int {
	if a.Type != b.Type {
		if a.Type == models.NodeDir {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Name, b.Name)
}
