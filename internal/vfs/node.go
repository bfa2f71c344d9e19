// SPDX-License-Identifier: MPL-2.0

package vfs

// Node type tags as they appear in the persisted document. Loading rejects
// a document whose root is not tagged as a folder.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
)

type (
	// FolderNode is a named folder with child folders and files. Within one
	// folder the file names and the folder names are each unique. The root
	// folder's name is empty and the root is never removable.
	FolderNode struct {
		Type     string   `json:"type"`
		Name     string   `json:"name"`
		Children ChildSet `json:"children"`
	}

	// ChildSet holds a folder's children, folders and files separately.
	ChildSet struct {
		Folders []*FolderNode `json:"folders"`
		Files   []*FileNode   `json:"files"`
	}

	// FileNode is a named file holding an opaque content string. The store
	// never interprets content; it may carry text or a data-URL blob.
	FileNode struct {
		Type    string `json:"type"`
		Name    string `json:"name"`
		Content string `json:"content"`
	}
)

// NewFolder returns an empty folder with the given name.
func NewFolder(name string) *FolderNode {
	return &FolderNode{Type: TypeFolder, Name: name}
}

// NewFile returns a file node with the given name and content.
func NewFile(name, content string) *FileNode {
	return &FileNode{Type: TypeFile, Name: name, Content: content}
}

// Folder returns the child folder with the given name, or nil.
func (f *FolderNode) Folder(name string) *FolderNode {
	for _, c := range f.Children.Folders {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// File returns the child file with the given name, or nil.
func (f *FolderNode) File(name string) *FileNode {
	for _, c := range f.Children.Files {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Has reports whether any child, folder or file, carries the given name.
func (f *FolderNode) Has(name string) bool {
	return f.Folder(name) != nil || f.File(name) != nil
}

// Empty reports whether the folder has no children at all.
func (f *FolderNode) Empty() bool {
	return len(f.Children.Folders) == 0 && len(f.Children.Files) == 0
}

func (f *FolderNode) addFolder(c *FolderNode) {
	f.Children.Folders = append(f.Children.Folders, c)
}

func (f *FolderNode) addFile(c *FileNode) {
	f.Children.Files = append(f.Children.Files, c)
}

func (f *FolderNode) removeFolder(name string) bool {
	for i, c := range f.Children.Folders {
		if c.Name == name {
			f.Children.Folders = append(f.Children.Folders[:i], f.Children.Folders[i+1:]...)
			return true
		}
	}
	return false
}

func (f *FolderNode) removeFile(name string) bool {
	for i, c := range f.Children.Files {
		if c.Name == name {
			f.Children.Files = append(f.Children.Files[:i], f.Children.Files[i+1:]...)
			return true
		}
	}
	return false
}
