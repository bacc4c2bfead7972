// Package encoding defines the Name value type shared by every table and
// pipeline in the forwarding core. Component is a plain string rather than
// a typed TLV block; this package implements only the name algebra the
// core actually consumes: parsing, prefix testing, append, equality and
// ordering, with no wire encoding.
package encoding

import "strings"

// Component is one hierarchical segment of a Name.
type Component string

// String returns the raw component text.
func (c Component) String() string {
	return string(c)
}

// Equal reports whether two components are identical.
func (c Component) Equal(rhs Component) bool {
	return c == rhs
}

// Compare returns -1, 0 or 1 as c is less than, equal to, or greater than rhs.
func (c Component) Compare(rhs Component) int {
	return strings.Compare(string(c), string(rhs))
}

// NewGenericComponent builds a Component from a plain string, e.g. for
// synthesizing management-dataset names like /localhost/nfd/fib/list.
func NewGenericComponent(val string) Component {
	return Component(val)
}

// Name is an ordered, immutable sequence of Components.
type Name []Component

// NameFromStr parses a slash-separated URI-style string into a Name.
// "/a/b/c" and "a/b/c" are both accepted; a leading or trailing slash is
// stripped. "/" and "" both parse to the empty Name.
func NameFromStr(s string) (Name, error) {
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return Name{}, nil
	}
	parts := strings.Split(s, "/")
	ret := make(Name, len(parts))
	for i, p := range parts {
		ret[i] = Component(p)
	}
	return ret, nil
}

// String renders the Name back to its slash-separated URI form.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	sb := strings.Builder{}
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(string(c))
	}
	return sb.String()
}

// Append returns a new Name with rest appended, leaving the receiver
// untouched.
func (n Name) Append(rest ...Component) Name {
	if len(rest) == 0 {
		return n
	}
	ret := make(Name, len(n)+len(rest))
	copy(ret, n)
	copy(ret[len(n):], rest)
	return ret
}

// Equal reports whether two Names have the same components in the same order.
func (n Name) Equal(rhs Name) bool {
	if len(n) != len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Compare orders Names lexicographically by component, with a shorter
// name that is a prefix of a longer one sorting first.
func (n Name) Compare(rhs Name) int {
	for i := 0; i < min(len(n), len(rhs)); i++ {
		if c := n[i].Compare(rhs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(rhs):
		return -1
	case len(n) > len(rhs):
		return 1
	default:
		return 0
	}
}

// IsPrefix reports whether n is a prefix of rhs (every component of n
// matches the corresponding component of rhs, and n is no longer).
func (n Name) IsPrefix(rhs Name) bool {
	if len(n) > len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// At returns the component at index i, or "" if i is out of range.
func (n Name) At(i int) Component {
	if i < 0 || i >= len(n) {
		return ""
	}
	return n[i]
}

// Clone returns a deep (slice-level) copy of n.
func (n Name) Clone() Name {
	ret := make(Name, len(n))
	copy(ret, n)
	return ret
}
