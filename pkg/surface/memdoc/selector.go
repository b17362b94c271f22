package memdoc

import (
	"fmt"
	"strings"
)

// selector is a compound simple selector: an optional universal or tag
// part followed by any number of #id, .class and [attr] / [attr=value]
// qualifiers. Combinators are not supported.
type selector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

func parseSelector(s string) (selector, error) {
	var sel selector
	s = strings.TrimSpace(s)
	if s == "" {
		return sel, fmt.Errorf("memdoc: empty selector")
	}
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		return s[start:i]
	}

	if s[0] == '*' {
		i++
	} else if isIdentByte(s[0]) {
		sel.tag = readIdent()
	}

	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			sel.id = readIdent()
			if sel.id == "" {
				return sel, fmt.Errorf("memdoc: bad id in selector %q", s)
			}
		case '.':
			i++
			c := readIdent()
			if c == "" {
				return sel, fmt.Errorf("memdoc: bad class in selector %q", s)
			}
			sel.classes = append(sel.classes, c)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return sel, fmt.Errorf("memdoc: unterminated attribute in selector %q", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			m, err := parseAttr(body)
			if err != nil {
				return sel, fmt.Errorf("memdoc: selector %q: %w", s, err)
			}
			sel.attrs = append(sel.attrs, m)
		default:
			return sel, fmt.Errorf("memdoc: unsupported selector %q", s)
		}
	}
	return sel, nil
}

func parseAttr(body string) (attrMatch, error) {
	name, value, ok := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return attrMatch{}, fmt.Errorf("empty attribute name")
	}
	if !ok {
		return attrMatch{name: name}, nil
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return attrMatch{name: name, value: value, hasValue: true}, nil
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (sel selector) matches(n *Node) bool {
	if sel.tag != "" && sel.tag != n.tag {
		return false
	}
	if sel.id != "" && sel.id != n.id {
		return false
	}
	for _, c := range sel.classes {
		if !n.hasClass(c) {
			return false
		}
	}
	for _, a := range sel.attrs {
		v, ok := n.attrs[a.name]
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}
