// Package tree builds and renders the folder structure of a walk.
package tree

import (
	"path"
	"sort"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
	"github.com/Sarakael78/DoctorCodebase/internal/walker"
)

// Builder assembles a FolderNode tree from walker entries. Entries must
// arrive parent first, which the walker guarantees.
type Builder struct {
	root  *types.FolderNode
	dirs  map[string]*types.FolderNode
	dirty bool
}

// NewBuilder starts a tree whose root node is called name.
func NewBuilder(name string) *Builder {
	root := &types.FolderNode{Name: name, IsDirectory: true}
	return &Builder{root: root, dirs: map[string]*types.FolderNode{"": root}}
}

// Add attaches e under its parent directory. It reports false when the
// parent has not been added, in which case the entry is dropped.
func (b *Builder) Add(e walker.Entry) bool {
	dir := path.Dir(e.RelPath)
	if dir == "." {
		dir = ""
	}
	parent, ok := b.dirs[dir]
	if !ok {
		return false
	}

	node := &types.FolderNode{Name: e.Name, Path: e.RelPath, IsDirectory: e.IsDir}
	if n := len(parent.Children); n > 0 && less(node, parent.Children[n-1]) {
		b.dirty = true
	}
	parent.Children = append(parent.Children, node)
	if e.IsDir {
		b.dirs[e.RelPath] = node
	}
	return true
}

// Root returns the finished tree with every level in display order.
func (b *Builder) Root() *types.FolderNode {
	if b.dirty {
		sortChildren(b.root)
		b.dirty = false
	}
	return b.root
}

// less orders directories before files, then by name.
func less(a, b *types.FolderNode) bool {
	if a.IsDirectory != b.IsDirectory {
		return a.IsDirectory
	}
	return a.Name < b.Name
}

func sortChildren(node *types.FolderNode) {
	if !node.IsDirectory || len(node.Children) == 0 {
		return
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		return less(node.Children[i], node.Children[j])
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// Render draws the tree with branch connectors, one entry per line.
// Directory names carry a trailing slash.
func Render(root *types.FolderNode) string {
	var builder strings.Builder
	builder.WriteString(label(root))
	builder.WriteString("\n")
	renderChildren(&builder, root.Children, "")
	return builder.String()
}

func renderChildren(builder *strings.Builder, children []*types.FolderNode, prefix string) {
	for i, node := range children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(label(node))
		builder.WriteString("\n")

		if node.IsDirectory && len(node.Children) > 0 {
			renderChildren(builder, node.Children, childPrefix)
		}
	}
}

func label(n *types.FolderNode) string {
	if n.IsDirectory {
		return n.Name + "/"
	}
	return n.Name
}

// Row is one line of the flattened structure.
type Row struct {
	Path        string
	Depth       int
	IsDirectory bool
}

// RootPath is the Row path of the root node.
const RootPath = "."

// Flatten lists every node in display order, starting with the root itself
// at depth 0 and path ".". Children of the root are at depth 1.
func Flatten(root *types.FolderNode) []Row {
	rows := []Row{{Path: RootPath, Depth: 0, IsDirectory: true}}
	var visit func(nodes []*types.FolderNode, depth int)
	visit = func(nodes []*types.FolderNode, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{Path: n.Path, Depth: depth, IsDirectory: n.IsDirectory})
			visit(n.Children, depth+1)
		}
	}
	visit(root.Children, 1)
	return rows
}
