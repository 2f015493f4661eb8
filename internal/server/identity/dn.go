package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// CertDN is the parsed Subject DN of a client certificate. It only exposes
// the UID attribute.
type CertDN struct {
	attrs []attribute
}

type attribute struct {
	key   string
	value string
}

// UID returns the first non-empty UID attribute. The key is matched
// case-insensitively.
func (d *CertDN) UID() (string, bool) {
	if d == nil {
		return "", false
	}
	for _, a := range d.attrs {
		if strings.EqualFold(a.key, "UID") && a.value != "" {
			return a.value, true
		}
	}
	return "", false
}

// ParseDN accepts RFC 4514 strings ("UID=vsh,O=Example") including the
// spaced form nginx emits ("O = Example, UID = vsh"), and the legacy OpenSSL
// slash form ("/O=Example/UID=vsh").
func ParseDN(s string) (*CertDN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return &CertDN{}, nil
	}
	if s[0] == '/' {
		return parseSlashDN(s)
	}

	p := &dnParser{in: s}
	var attrs []attribute
	for {
		a, err := p.attribute()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)

		p.skipSpaces()
		if p.eof() {
			break
		}
		switch p.in[p.pos] {
		case ',', ';', '+':
			p.pos++
		default:
			return nil, fmt.Errorf("dn: unexpected %q at offset %d", p.in[p.pos], p.pos)
		}
	}
	return &CertDN{attrs: attrs}, nil
}

func parseSlashDN(s string) (*CertDN, error) {
	var attrs []attribute
	for _, part := range splitUnescaped(s[1:], '/') {
		if part == "" {
			continue
		}
		for _, kv := range splitUnescaped(part, '+') {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("dn: attribute %q has no '='", kv)
			}
			attrs = append(attrs, attribute{
				key:   strings.TrimSpace(k),
				value: strings.ReplaceAll(strings.TrimSpace(v), `\/`, "/"),
			})
		}
	}
	return &CertDN{attrs: attrs}, nil
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

var errDanglingEscape = errors.New("dn: dangling escape")

type dnParser struct {
	in  string
	pos int
}

func (p *dnParser) eof() bool { return p.pos >= len(p.in) }

func (p *dnParser) skipSpaces() {
	for !p.eof() && p.in[p.pos] == ' ' {
		p.pos++
	}
}

func (p *dnParser) attribute() (attribute, error) {
	p.skipSpaces()
	start := p.pos
	for !p.eof() && p.in[p.pos] != '=' {
		switch p.in[p.pos] {
		case ',', ';', '+':
			return attribute{}, fmt.Errorf("dn: attribute %q has no '='", p.in[start:p.pos])
		}
		p.pos++
	}
	if p.eof() {
		return attribute{}, fmt.Errorf("dn: attribute %q has no '='", p.in[start:])
	}
	key := strings.TrimSpace(p.in[start:p.pos])
	if key == "" {
		return attribute{}, fmt.Errorf("dn: empty attribute type at offset %d", start)
	}
	p.pos++ // '='
	p.skipSpaces()

	value, err := p.value()
	if err != nil {
		return attribute{}, err
	}
	return attribute{key: key, value: value}, nil
}

func (p *dnParser) value() (string, error) {
	if !p.eof() && p.in[p.pos] == '"' {
		return p.quoted()
	}

	var b strings.Builder
	// Trailing spaces are insignificant unless escaped.
	significant := 0
	for !p.eof() {
		c := p.in[p.pos]
		switch c {
		case ',', ';', '+':
			return b.String()[:significant], nil
		case '\\':
			r, err := p.escape()
			if err != nil {
				return "", err
			}
			b.WriteByte(r)
			significant = b.Len()
			continue
		}
		b.WriteByte(c)
		if c != ' ' {
			significant = b.Len()
		}
		p.pos++
	}
	return b.String()[:significant], nil
}

func (p *dnParser) quoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.in[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			r, err := p.escape()
			if err != nil {
				return "", err
			}
			b.WriteByte(r)
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", errors.New("dn: unterminated quoted value")
}

// escape consumes a backslash sequence: either two hex digits or one
// literal character.
func (p *dnParser) escape() (byte, error) {
	p.pos++ // backslash
	if p.eof() {
		return 0, errDanglingEscape
	}
	if p.pos+1 < len(p.in) {
		if b, err := hex.DecodeString(p.in[p.pos : p.pos+2]); err == nil {
			p.pos += 2
			return b[0], nil
		}
	}
	c := p.in[p.pos]
	p.pos++
	return c, nil
}
