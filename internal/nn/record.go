package nn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Record is a tree of named tensors mirroring the composition of the model
// that produced it: leaf entries hold the tensors of a single layer, child
// records hold the sub-trees of composite layers. Records are built during
// Init and treated as read-only afterwards.
type Record struct {
	tensors  map[string]*tensor.Tensor
	children map[string]*Record
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{
		tensors:  make(map[string]*tensor.Tensor),
		children: make(map[string]*Record),
	}
}

// SetTensor stores a leaf tensor under name and returns the record to allow
// chained construction.
func (r *Record) SetTensor(name string, t *tensor.Tensor) *Record {
	r.tensors[name] = t
	return r
}

// SetChild stores a sub-record under name and returns the record.
func (r *Record) SetChild(name string, child *Record) *Record {
	r.children[name] = child
	return r
}

// Tensor returns the leaf tensor stored under name. It panics if the entry
// is missing, which indicates a record that does not belong to the layer
// reading it.
func (r *Record) Tensor(name string) *tensor.Tensor {
	t, ok := r.tensors[name]
	if !ok {
		panic(fmt.Sprintf("nn: record has no tensor %q (has %v)", name, r.TensorNames()))
	}
	return t
}

// HasTensor reports whether a leaf tensor is stored under name.
func (r *Record) HasTensor(name string) bool {
	_, ok := r.tensors[name]
	return ok
}

// Child returns the sub-record stored under name, panicking if absent.
func (r *Record) Child(name string) *Record {
	c, ok := r.children[name]
	if !ok {
		panic(fmt.Sprintf("nn: record has no child %q (has %v)", name, r.ChildNames()))
	}
	return c
}

// HasChild reports whether a sub-record is stored under name.
func (r *Record) HasChild(name string) bool {
	_, ok := r.children[name]
	return ok
}

// TensorNames returns the leaf tensor names in sorted order.
func (r *Record) TensorNames() []string {
	names := make([]string, 0, len(r.tensors))
	for name := range r.tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChildNames returns the child record names in sorted order.
func (r *Record) ChildNames() []string {
	names := make([]string, 0, len(r.children))
	for name := range r.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the record holds no tensors and no children.
func (r *Record) IsEmpty() bool {
	return len(r.tensors) == 0 && len(r.children) == 0
}

// NumParams returns the total element count of every tensor in the tree.
func (r *Record) NumParams() int {
	total := 0
	for _, t := range r.tensors {
		total += t.NumElements()
	}
	for _, c := range r.children {
		total += c.NumParams()
	}
	return total
}

// Flatten collapses the tree into a flat map keyed by dotted paths, e.g.
// "mapping.0.spectral.weight". Leaf names at the root keep their plain name.
func (r *Record) Flatten() map[string]*tensor.Tensor {
	flat := make(map[string]*tensor.Tensor)
	r.flattenInto(flat, "")
	return flat
}

func (r *Record) flattenInto(flat map[string]*tensor.Tensor, prefix string) {
	for name, t := range r.tensors {
		flat[prefix+name] = t
	}
	for name, c := range r.children {
		c.flattenInto(flat, prefix+name+".")
	}
}

// Unflatten rebuilds a record tree from a flat dotted-path map, the inverse
// of Flatten. A path segment that is used both as a leaf and as a child
// prefix is an error.
func Unflatten(flat map[string]*tensor.Tensor) (*Record, error) {
	root := NewRecord()
	for path, t := range flat {
		parts := strings.Split(path, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			if node.HasTensor(part) {
				return nil, fmt.Errorf("nn: path %q conflicts with a tensor at %q", path, part)
			}
			if !node.HasChild(part) {
				node.SetChild(part, NewRecord())
			}
			node = node.Child(part)
		}
		leaf := parts[len(parts)-1]
		if node.HasChild(leaf) {
			return nil, fmt.Errorf("nn: path %q conflicts with a child record at %q", path, leaf)
		}
		node.SetTensor(leaf, t)
	}
	return root, nil
}
