package packaging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Node kinds as they appear in the legacy JSON wire form.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// Node is one entry of a package file tree: either a *File or a *Directory.
type Node interface {
	Kind() string
}

// File is a leaf of the file tree.
type File struct{}

// Kind implements Node.
func (*File) Kind() string { return KindFile }

// Entry is a named child of a Directory.
type Entry struct {
	Name string
	Node Node
}

// Directory holds its children in discovery order.
type Directory struct {
	Entries []Entry
}

// Kind implements Node.
func (*Directory) Kind() string { return KindDirectory }

// Child returns the named child, or nil when absent.
func (d *Directory) Child(name string) Node {
	if d == nil {
		return nil
	}
	for _, e := range d.Entries {
		if e.Name == name {
			return e.Node
		}
	}
	return nil
}

// Subdir returns the named child when it is a directory.
func (d *Directory) Subdir(name string) (*Directory, bool) {
	sub, ok := d.Child(name).(*Directory)
	return sub, ok
}

// ScanDir builds a Directory from disk. Hidden entries are skipped; os.ReadDir
// yields names in lexical order, which becomes the discovery order.
func ScanDir(path string) (*Directory, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	dir := &Directory{Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			sub, err := ScanDir(filepath.Join(path, e.Name()))
			if err != nil {
				return nil, err
			}
			dir.Entries = append(dir.Entries, Entry{Name: e.Name(), Node: sub})
			continue
		}
		if e.Type().IsRegular() {
			dir.Entries = append(dir.Entries, Entry{Name: e.Name(), Node: &File{}})
		}
	}
	return dir, nil
}

// MarshalJSON encodes the directory as ["directory", {name: node, ...}].
func (d *Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`["directory",{`)
	for i, e := range d.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNode(e.Node)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteString(`}]`)
	return buf.Bytes(), nil
}

// MarshalJSON encodes the file as ["file", null].
func (*File) MarshalJSON() ([]byte, error) {
	return []byte(`["file",null]`), nil
}

func marshalNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case *File:
		return v.MarshalJSON()
	case *Directory:
		return v.MarshalJSON()
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidTree, n)
	}
}

// UnmarshalJSON decodes ["directory", {...}] keeping the key order of the
// source document.
func (d *Directory) UnmarshalJSON(data []byte) error {
	node, err := decodeNode(json.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	dir, ok := node.(*Directory)
	if !ok {
		return fmt.Errorf("%w: expected directory, got %s", ErrInvalidTree, node.Kind())
	}
	*d = *dir
	return nil
}

func decodeNode(dec *json.Decoder) (Node, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var kind string
	if err := dec.Decode(&kind); err != nil {
		return nil, fmt.Errorf("%w: node kind: %w", ErrInvalidTree, err)
	}

	var node Node
	switch kind {
	case KindFile:
		// The payload is null for files; tolerate anything and discard it.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("%w: file payload: %w", ErrInvalidTree, err)
		}
		node = &File{}
	case KindDirectory:
		dir, err := decodeEntries(dec)
		if err != nil {
			return nil, err
		}
		node = dir
	default:
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidTree, kind)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeEntries(dec *json.Decoder) (*Directory, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	dir := &Directory{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTree, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected entry name, got %v", ErrInvalidTree, tok)
		}
		child, err := decodeNode(dec)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		dir.Entries = append(dir.Entries, Entry{Name: name, Node: child})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return dir, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTree, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrInvalidTree, want, tok)
	}
	return nil
}
