// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"clamshell/internal/storage"
)

// EntryKind classifies what a path resolves to.
type EntryKind int

const (
	KindNone EntryKind = iota
	KindFolder
	KindFile
)

// Store owns the node tree and the current-directory pointer. Every
// mutating operation re-resolves from the root, applies the change, and
// synchronously writes the whole state through the backend before
// returning. A single mutex serializes all operations so the write-through
// order matches the mutation order.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *log.Logger
	root    *FolderNode
	cwd     []string
}

// persistedState is the durable document under the "vfs" record key.
type persistedState struct {
	Root *FolderNode `json:"root"`
	Cwd  []string    `json:"cwd"`
}

// NewStore loads the persisted state from the backend, falling back to a
// fresh default tree when the record is missing or structurally invalid.
func NewStore(backend storage.Backend, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{backend: backend, logger: logger.WithPrefix("vfs")}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load deserializes the persisted state. Any structural problem, including
// a root not tagged as a folder, degrades to the fresh default rather than
// failing startup; only backend I/O errors propagate.
func (s *Store) load() error {
	data, ok, err := s.backend.Get(storage.KeyVFS)
	if err != nil {
		return fmt.Errorf("load vfs state: %w", err)
	}
	if ok {
		var state persistedState
		if err := json.Unmarshal(data, &state); err == nil &&
			state.Root != nil && state.Root.Type == TypeFolder {
			s.root = state.Root
			s.cwd = state.Cwd
			return nil
		}
		s.logger.Warn("persisted vfs state invalid, starting fresh")
	}
	s.root = defaultRoot()
	s.cwd = nil
	return nil
}

// defaultRoot is the fresh tree: an empty root holding /bin, the default
// PATH directory.
func defaultRoot() *FolderNode {
	root := NewFolder("")
	root.addFolder(NewFolder("bin"))
	return root
}

// persist writes the full state through the backend. Callers hold s.mu.
func (s *Store) persist(op string) error {
	data, err := json.Marshal(persistedState{Root: s.root, Cwd: s.cwd})
	if err != nil {
		return fmt.Errorf("serialize vfs state: %w", err)
	}
	if err := s.backend.Put(storage.KeyVFS, data); err != nil {
		return fmt.Errorf("persist vfs state after %s: %w", op, err)
	}
	s.logger.Debug("state persisted", "op", op)
	return nil
}

// folderAt walks the tree from root along segments. Callers hold s.mu.
func (s *Store) folderAt(segs []string) *FolderNode {
	node := s.root
	for _, seg := range segs {
		node = node.Folder(seg)
		if node == nil {
			return nil
		}
	}
	return node
}

// entryAt resolves segments to a folder or a file. Callers hold s.mu.
func (s *Store) entryAt(segs []string) (*FolderNode, *FileNode) {
	if len(segs) == 0 {
		return s.root, nil
	}
	parent := s.folderAt(segs[:len(segs)-1])
	if parent == nil {
		return nil, nil
	}
	name := segs[len(segs)-1]
	if folder := parent.Folder(name); folder != nil {
		return folder, nil
	}
	return nil, parent.File(name)
}

// CwdSegments returns a copy of the current-directory segments.
func (s *Store) CwdSegments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.cwd))
	copy(out, s.cwd)
	return out
}

// CwdPath returns the display form of the current directory.
func (s *Store) CwdPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DisplayPath(s.cwd)
}

// Stat reports what path resolves to, without failing on absence.
func (s *Store) Stat(path string) EntryKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder, file := s.entryAt(Resolve(s.cwd, path))
	switch {
	case folder != nil:
		return KindFolder
	case file != nil:
		return KindFile
	default:
		return KindNone
	}
}

// ChangeDirectory resolves path, requires an existing folder, and moves the
// current-directory pointer to it.
func (s *Store) ChangeDirectory(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs := Resolve(s.cwd, path)
	if s.folderAt(segs) == nil {
		return newError("cd", path, ErrNotFound)
	}
	s.cwd = segs
	return s.persist("cd")
}

// Mkdir creates an empty folder named name in the current directory. The
// name must be a bare segment; there is no implicit parent creation.
func (s *Store) Mkdir(name string) error {
	if err := ValidateName(name); err != nil {
		return newError("mkdir", name, ErrInvalidName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cwd := s.folderAt(s.cwd)
	if cwd == nil {
		return newError("mkdir", DisplayPath(s.cwd), ErrNotFound)
	}
	if cwd.Has(name) {
		return newError("mkdir", name, ErrAlreadyExists)
	}
	cwd.addFolder(NewFolder(name))
	return s.persist("mkdir")
}

// List returns the folder names and file names of the resolved folder.
// An empty path lists the current directory.
func (s *Store) List(path string) (folders, files []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.folderAt(Resolve(s.cwd, path))
	if node == nil {
		return nil, nil, newError("list", path, ErrNotFound)
	}
	for _, c := range node.Children.Folders {
		folders = append(folders, c.Name)
	}
	for _, c := range node.Children.Files {
		files = append(files, c.Name)
	}
	return folders, files, nil
}

// Rmdir removes an empty folder named name from the current directory.
func (s *Store) Rmdir(name string) error {
	if err := ValidateName(name); err != nil {
		return newError("rmdir", name, ErrInvalidName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cwd := s.folderAt(s.cwd)
	if cwd == nil {
		return newError("rmdir", DisplayPath(s.cwd), ErrNotFound)
	}
	target := cwd.Folder(name)
	if target == nil {
		return newError("rmdir", name, ErrNotFound)
	}
	if !target.Empty() {
		return newError("rmdir", name, ErrNotEmpty)
	}
	cwd.removeFolder(name)
	return s.persist("rmdir")
}

// WriteFile creates or overwrites the file at path. The parent folder must
// exist. Writing over an existing folder name fails with ErrAlreadyExists;
// the folder is never shadowed.
func (s *Store) WriteFile(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs := Resolve(s.cwd, path)
	if len(segs) == 0 {
		return newError("write", path, ErrInvalidName)
	}
	parent := s.folderAt(segs[:len(segs)-1])
	if parent == nil {
		return newError("write", path, ErrNotFound)
	}
	name := segs[len(segs)-1]
	if parent.Folder(name) != nil {
		return newError("write", path, ErrAlreadyExists)
	}
	if file := parent.File(name); file != nil {
		file.Content = content
	} else {
		parent.addFile(NewFile(name, content))
	}
	return s.persist("write")
}

// ReadFile returns the content of the file at path.
func (s *Store) ReadFile(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file := s.fileAtPath(path)
	if file == nil {
		return "", newError("read", path, ErrNotFound)
	}
	return file.Content, nil
}

// fileAtPath resolves path to a file node, or nil. Callers hold s.mu.
func (s *Store) fileAtPath(path string) *FileNode {
	segs := Resolve(s.cwd, path)
	if len(segs) == 0 {
		return nil
	}
	parent := s.folderAt(segs[:len(segs)-1])
	if parent == nil {
		return nil
	}
	return parent.File(segs[len(segs)-1])
}

// Unlink removes the file at path.
func (s *Store) Unlink(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs := Resolve(s.cwd, path)
	if len(segs) == 0 {
		return newError("rm", path, ErrNotFound)
	}
	parent := s.folderAt(segs[:len(segs)-1])
	if parent == nil || parent.File(segs[len(segs)-1]) == nil {
		return newError("rm", path, ErrNotFound)
	}
	parent.removeFile(segs[len(segs)-1])
	return s.persist("rm")
}

// Move moves or renames the file at src to dst. A dst that resolves to an
// existing folder keeps the source base name. Moving a file onto itself is
// a silent no-op. An existing destination file is overwritten.
func (s *Store) Move(src, dst string) error {
	return s.transfer("mv", src, dst, true)
}

// Copy copies the file at src to dst with Move's destination semantics.
func (s *Store) Copy(src, dst string) error {
	return s.transfer("cp", src, dst, false)
}

func (s *Store) transfer(op, src, dst string, removeSrc bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcSegs := Resolve(s.cwd, src)
	if len(srcSegs) == 0 {
		return newError(op, src, ErrNotFound)
	}
	srcParent := s.folderAt(srcSegs[:len(srcSegs)-1])
	if srcParent == nil {
		return newError(op, src, ErrNotFound)
	}
	srcName := srcSegs[len(srcSegs)-1]
	srcFile := srcParent.File(srcName)
	if srcFile == nil {
		return newError(op, src, ErrNotFound)
	}

	dstSegs := Resolve(s.cwd, dst)
	dstName := srcName
	dstParent := s.folderAt(dstSegs)
	if dstParent == nil {
		// dst is not an existing folder; treat its final segment as the
		// target file name under its parent.
		if len(dstSegs) == 0 {
			return newError(op, dst, ErrNotFound)
		}
		dstParent = s.folderAt(dstSegs[:len(dstSegs)-1])
		if dstParent == nil {
			return newError(op, dst, ErrNotFound)
		}
		dstName = dstSegs[len(dstSegs)-1]
	}

	if dstParent.Folder(dstName) != nil {
		return newError(op, dst, ErrAlreadyExists)
	}
	if dstParent == srcParent && dstName == srcName {
		// Source and destination resolve to the same node.
		return nil
	}

	if target := dstParent.File(dstName); target != nil {
		target.Content = srcFile.Content
	} else {
		dstParent.addFile(NewFile(dstName, srcFile.Content))
	}
	if removeSrc {
		srcParent.removeFile(srcName)
	}
	return s.persist(op)
}
