// Package memfs is a small in-memory filesystem: a directory tree, per
// process descriptor tables, and file contents kept in fixed size blocks.
// File records and data blocks both come out of slab allocators.
package memfs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"slabfs/internal/slab"

	"github.com/dustin/go-humanize"
)

type FS struct {
	log		*slog.Logger
	inodes	*slab.Allocator[Inode]
	blocks	*slab.Allocator[Block]
	root	*node
}

// Directory entry. Directories have children and no inode, files the reverse.
type node struct {
	name		string
	parent		*node
	children	map[string]*node
	ino			*slab.Handle[Inode] // the directory's reference, open files hold clones
	cwds		int // procs sitting in this directory
}

func (n *node) isDir() bool { return n.children != nil }

type FileInfo struct {
	Name	string
	Size	int
	IsDir	bool
	Blocks	int
}

type Stats struct {
	Inodes	slab.Info
	Blocks	slab.Info
}

func CreateFS(cfg Config) (*FS, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	inodes, err := slab.CreateAllocatorCfg[Inode](slab.Config{
		Slots: cfg.Inodes, Backing: slab.BackingHeap, Log: log,
	})
	if err != nil { return nil, err }

	blocks, err := slab.CreateAllocatorCfg[Block](slab.Config{
		Slots: cfg.Blocks, Backing: cfg.BlockBacking, Log: log,
	})
	if err != nil {
		inodes.Destroy()
		return nil, err
	}

	root := &node{name: "/", children: map[string]*node{}}
	root.parent = root

	return &FS {
		log:	log.With("src", "MemFS"),
		inodes:	inodes,
		blocks:	blocks,
		root:	root,
	}, nil
}

// Inodes go first: disposing them hands their blocks back to the block slab.
func (fs *FS) Destroy() error {
	st := fs.Stats()
	err := errors.Join(fs.inodes.Destroy(), fs.blocks.Destroy())
	fs.root = nil
	fs.log.Debug("Destroy", "files", st.Inodes.Outstanding, "blocks", st.Blocks.Outstanding,
		"bytes", humanize.Bytes(st.Inodes.Bytes + st.Blocks.Bytes))
	return err
}

func (fs *FS) Stats() Stats {
	return Stats{Inodes: fs.inodes.Info(), Blocks: fs.blocks.Info()}
}

func splitPath(path string) (bool, []string) {
	abs := strings.HasPrefix(path, "/")
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p == "" || p == "." { continue }
		parts = append(parts, p)
	}
	return abs, parts
}

func (fs *FS) walk(n *node, parts []string) (*node, error) {
	for _, p := range parts {
		if !n.isDir() { return nil, ErrNotDir }
		if p == ".." {
			n = n.parent
			continue
		}
		child, found := n.children[p]
		if !found { return nil, fmt.Errorf("%w: %s", ErrNotExist, p) }
		n = child
	}
	return n, nil
}

func (fs *FS) resolve(cwd *node, path string) (*node, error) {
	if path == "" { return nil, ErrInvalidArg }
	abs, parts := splitPath(path)
	if abs {
		cwd = fs.root
	}
	return fs.walk(cwd, parts)
}

// Returns the directory that holds (or would hold) path's last component.
func (fs *FS) resolveParent(cwd *node, path string) (*node, string, error) {
	abs, parts := splitPath(path)
	if len(parts) == 0 { return nil, "", ErrInvalidArg }
	name := parts[len(parts)-1]
	if name == ".." { return nil, "", ErrInvalidArg }
	if abs {
		cwd = fs.root
	}
	dir, err := fs.walk(cwd, parts[:len(parts)-1])
	if err != nil { return nil, "", err }
	if !dir.isDir() { return nil, "", ErrNotDir }
	return dir, name, nil
}

func (fs *FS) createFile(cwd *node, path string) (*node, error) {
	dir, name, err := fs.resolveParent(cwd, path)
	if err != nil { return nil, err }
	if _, found := dir.children[name]; found { return nil, ErrExist }

	n := &node {
		name: 	name,
		parent:	dir,
		ino: 	fs.inodes.Allocate(Inode{}),
	}
	dir.children[name] = n
	fs.log.Debug("create", "path", path, "inode", n.ino.Index())
	return n, nil
}

func (fs *FS) mkdir(cwd *node, path string) error {
	dir, name, err := fs.resolveParent(cwd, path)
	if err != nil { return err }
	if _, found := dir.children[name]; found { return ErrExist }

	dir.children[name] = &node{name: name, parent: dir, children: map[string]*node{}}
	fs.log.Debug("mkdir", "path", path)
	return nil
}

// The file's inode lives on while descriptors still hold it.
func (fs *FS) unlink(cwd *node, path string) error {
	dir, name, err := fs.resolveParent(cwd, path)
	if err != nil { return err }
	n, found := dir.children[name]
	if !found { return fmt.Errorf("%w: %s", ErrNotExist, name) }
	if n.isDir() && len(n.children) > 0 { return ErrNotEmpty }
	if n.cwds > 0 { return fmt.Errorf("%w: %s", ErrBusy, name) }

	delete(dir.children, name)
	if n.ino != nil {
		n.ino.Release()
		n.ino = nil
	}
	fs.log.Debug("unlink", "path", path)
	return nil
}

func (fs *FS) stat(n *node) FileInfo {
	fi := FileInfo{Name: n.name, IsDir: n.isDir()}
	if n.ino != nil {
		r := n.ino.Borrow()
		fi.Size, fi.Blocks = r.Get().Size(), r.Get().BlockCnt()
		r.Done()
	}
	return fi
}
