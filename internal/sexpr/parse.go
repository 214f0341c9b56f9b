package sexpr

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ErrSyntax is wrapped by every error returned from Parse.
var ErrSyntax = errors.New("sexpr: syntax error")

// SyntaxError describes malformed input.
type SyntaxError struct {
	// Offset is the byte offset of the offending token.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sexpr: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type token struct {
	text   string
	offset int
}

// Parse reads exactly one s-expression from r. Comments start with ';' and
// run to the end of the line.
func Parse(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sexpr: read: %w", err)
	}
	return ParseString(string(data))
}

// ParseString is Parse over a string.
func ParseString(src string) (Value, error) {
	p := &parser{tokens: tokenize(src)}
	if len(p.tokens) == 0 {
		return nil, &SyntaxError{Offset: 0, Msg: "empty input"}
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		return nil, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("unexpected trailing token %q", t.text)}
	}
	return v, nil
}

func tokenize(src string) []token {
	var (
		tokens  []token
		start   = -1
		comment bool
	)
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, token{text: src[start:end], offset: start})
			start = -1
		}
	}
	for i, r := range src {
		if comment {
			if r == '\n' {
				comment = false
			}
			continue
		}
		switch {
		case r == ';':
			flush(i)
			comment = true
		case r == '(' || r == ')':
			flush(i)
			tokens = append(tokens, token{text: string(r), offset: i})
		case unicode.IsSpace(r):
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(src))
	return tokens
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) value() (Value, error) {
	if p.pos >= len(p.tokens) {
		return nil, &SyntaxError{Offset: p.endOffset(), Msg: "unexpected end of input"}
	}
	t := p.tokens[p.pos]
	p.pos++
	switch t.text {
	case "(":
		return p.list(t)
	case ")":
		return nil, &SyntaxError{Offset: t.offset, Msg: "unbalanced ')'"}
	default:
		return Atom(t.text), nil
	}
}

// list parses the remainder of a list whose '(' has been consumed.
func (p *parser) list(open token) (Value, error) {
	var (
		items []Value
		tail  Value = Empty{}
	)
	for {
		if p.pos >= len(p.tokens) {
			return nil, &SyntaxError{Offset: open.offset, Msg: "unbalanced '('"}
		}
		t := p.tokens[p.pos]
		switch {
		case t.text == ")":
			p.pos++
			return improper(items, tail), nil
		case t.text == "." && len(items) > 0:
			p.pos++
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.tokens) || p.tokens[p.pos].text != ")" {
				return nil, &SyntaxError{Offset: t.offset, Msg: "expected ')' after dotted tail"}
			}
			tail = v
		default:
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
}

func (p *parser) endOffset() int {
	if len(p.tokens) == 0 {
		return 0
	}
	last := p.tokens[len(p.tokens)-1]
	return last.offset + len(last.text)
}

func improper(items []Value, tail Value) Value {
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

// MustParse is ParseString that panics on error. Intended for fixtures.
func MustParse(src string) Value {
	v, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return v
}

// Format renders v with one top-level element per line when v is a list,
// which keeps domain files readable.
func Format(v Value) string {
	items, ok := Slice(v)
	if !ok || len(items) == 0 {
		return v.String()
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n  ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(")\n")
	return b.String()
}
