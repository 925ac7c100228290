// Copyright © 2025 The Lambdust authors

/*
Package combinator implements a lambdust reader assembled from parser
combinators.

	expr   := <term> | <list> | <vector> | <bytevector> | <quote>
	list   := '(' <expr>* ('.' <expr>)? ')'
	vector := '#(' <expr>* ')'
	quote  := ('\'' | '`' | ',' | ',@') <expr>
	term   := <boolean> | <character> | <number> | <string> | <keyword> | <symbol>

It accepts the same core grammar as the default recursive descent reader
and exists to cross-check it.  Tokens are matched with regular
expressions so the boundaries between adjacent literals are looser than
the scanner's, source locations carry byte offsets instead of line and
column numbers, and block comments are not recognized.
*/
package combinator

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// NewReader returns a scheme.Reader.
func NewReader() scheme.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]scheme.Value, error) {
	return p.read(name, "", r)
}

// ReadLocation implements scheme.LocationReader.
func (p *parsecReader) ReadLocation(name string, loc string, r io.Reader) ([]scheme.Value, error) {
	return p.read(name, loc, r)
}

func (p *parsecReader) read(name, path string, r io.Reader) ([]scheme.Value, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	vals, n, err := ParseValues(name, path, b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, io.ErrUnexpectedEOF
	}
	return vals, nil
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodeSExprOUnmatched
	nodeVector
	nodeBytes
	nodeQExpr
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeTerm:            "TERM",
	nodeSExpr:           "SEXPR",
	nodeSExprOUnmatched: "SEXPROPENUNMATCHED",
	nodeVector:          "VECTOR",
	nodeBytes:           "BYTES",
	nodeQExpr:           "QEXPR",
}

// ParseValues parses values from text and returns them.  The number of bytes
// read is returned along with any error that was encountered in parsing.
func ParseValues(name, path string, text []byte) ([]scheme.Value, int, error) {
	var vals []scheme.Value
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	b := &builder{file: name, path: path}
	parser := b.newParsecParser()
	root, s := parser(s)
	for root != nil {
		v, ok, err := rootValue(root)
		if err != nil {
			return vals, s.GetCursor(), fmt.Errorf("%s: %v", name, err)
		}
		if ok {
			vals = append(vals, v)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		tail, _ := s.Match(`.{1,16}`)
		if len(tail) > 15 {
			tail = append(tail[:15:15], []byte("...")...)
		}
		return vals, s.GetCursor(), fmt.Errorf("%s:%d: unexpected source text possibly starting: %s", name, s.Lineno(), tail)
	}
	return vals, s.GetCursor(), nil
}

// builder assembles the combinator grammar and stamps parsed values with
// locations naming the stream it was constructed for.
type builder struct {
	file string
	path string
}

func (b *builder) newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openV := parsec.Atom("#(", "OPENV")
	openB8 := parsec.Atom("#u8(", "OPENB8")
	dot := parsec.Atom(".", "DOT")
	quote := parsec.Atom("'", "QUOTE")
	quasiquote := parsec.Atom("`", "QUASIQUOTE")
	unquoteSplicing := parsec.Atom(",@", "UNQUOTESPLICING")
	unquote := parsec.Atom(",", "UNQUOTE")
	comment := parsec.Token(`;([^\n]*[^\s])?`, "COMMENT")
	boolean := parsec.Token(`(?:#t(?:rue)?|#f(?:alse)?)`, "BOOL")
	char := parsec.Token(`#\\(?:x[0-9a-fA-F]+|\pL[\pL0-9]*|.)`, "CHAR")
	radix := parsec.Token(`(?:#[xX][+-]?[0-9a-fA-F]+|#[oO][+-]?[0-7]+|#[bB][+-]?[01]+)`, "RADIX")
	str := parsec.Token(`(?s)"(?:[^"\\]|\\.)*"`, "STRING")
	keyword := parsec.Token(`#:[^\s()'";]+`, "KEYWORD")
	decimal := parsec.Token(`(?:[+-]?[0-9]+(?:[.][0-9]+)?(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?)`, "DECIMAL")
	symbol := parsec.Token(symbolPattern, "SYMBOL")
	term := parsec.OrdChoice(b.astNode(nodeTerm), // terminal token
		boolean,
		char,
		radix,
		str,
		keyword,
		decimal,
		symbol, // symbol comes last because it swallows almost anything
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	listElement := parsec.OrdChoice(nil, comment, &expr, dot)
	listBody := parsec.Kleene(nil, listElement)
	vectorElement := parsec.OrdChoice(nil, comment, &expr)
	vectorBody := parsec.Kleene(nil, vectorElement)
	sexpr := parsec.And(b.astNode(nodeSExpr), openP, listBody, closeP)
	sexprOUnmatched := parsec.And(b.astNode(nodeSExprOUnmatched), openP, listBody, parsec.End())
	vector := parsec.And(b.astNode(nodeVector), openV, vectorBody, closeP)
	vectorOUnmatched := parsec.And(b.astNode(nodeSExprOUnmatched), openV, vectorBody, parsec.End())
	bytevec := parsec.And(b.astNode(nodeBytes), openB8, vectorBody, closeP)
	bytevecOUnmatched := parsec.And(b.astNode(nodeSExprOUnmatched), openB8, vectorBody, parsec.End())
	qexpr := parsec.And(b.astNode(nodeQExpr), quote, &expr)
	qqexpr := parsec.And(b.astNode(nodeQExpr), quasiquote, &expr)
	uqsexpr := parsec.And(b.astNode(nodeQExpr), unquoteSplicing, &expr)
	uqexpr := parsec.And(b.astNode(nodeQExpr), unquote, &expr)
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		sexpr,
		vector,
		bytevec,
		qexpr,
		qqexpr,
		uqsexpr, // ,@ must precede , or splices never match
		uqexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
		vectorOUnmatched,
		bytevecOUnmatched,
	)
	return expr
}

// symbolPattern admits an initial character followed by subsequents, the
// ellipsis, and the peculiar identifiers built from a leading sign.
const symbolPattern = `(?:[\pL!$%&*/:<=>?^_~][\pL0-9!$%&*/:<=>?^_~+\-.@]*` +
	`|\.\.\.` +
	`|[+-](?:[\pL!$%&*/:<=>?^_~+\-.@][\pL0-9!$%&*/:<=>?^_~+\-.@]*)?)`

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

func (b *builder) astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newAST(t, nodes)
	}
}

func (b *builder) location(pos int) *token.Location {
	return &token.Location{File: b.file, Path: b.path, Pos: pos}
}

func (b *builder) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if len(nodes) == 0 {
		return scheme.Nil()
	}
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected parse result: %T", nodes[0])
		}
		v, err := termValue(term)
		if err != nil {
			return err
		}
		return v.WithSource(b.location(term.GetPosition()))
	case nodeSExprOUnmatched:
		open := nodes[0].(*parsec.Terminal)
		rest := open.GetValue() + stringifyNodes(nodes[1:len(nodes)-1]) // Trim off the End node
		if len(rest) > 10 {
			rest = rest[:10] + "..."
		}
		return fmt.Errorf("unmatched %q starting: %v", open.GetValue(), rest)
	case nodeSExpr:
		open := nodes[0].(*parsec.Terminal)
		var elems []scheme.Value
		tail := scheme.Nil()
		dotted := false
		ntail := 0
		for _, c := range nodes[1 : len(nodes)-1] {
			switch c := c.(type) {
			case scheme.Value:
				if !dotted {
					elems = append(elems, c)
					continue
				}
				if ntail > 0 {
					return fmt.Errorf("multiple expressions follow dot")
				}
				tail = c
				ntail++
			case *parsec.Terminal:
				if c.GetName() != "DOT" {
					continue
				}
				if dotted || len(elems) == 0 {
					return fmt.Errorf("unexpected token: .")
				}
				dotted = true
			}
		}
		if dotted && ntail == 0 {
			return fmt.Errorf("expression required following dot")
		}
		expr := tail
		for i := len(elems) - 1; i >= 0; i-- {
			expr = scheme.Cons(elems[i], expr)
		}
		return expr.WithSource(b.location(open.GetPosition()))
	case nodeVector:
		open := nodes[0].(*parsec.Terminal)
		// We don't want the terminal parsec nodes "#(" and ")"
		elems := make([]scheme.Value, 0, len(nodes)-2)
		for _, c := range nodes {
			if v, ok := c.(scheme.Value); ok {
				elems = append(elems, v)
			}
		}
		return scheme.Vector(elems...).WithSource(b.location(open.GetPosition()))
	case nodeBytes:
		open := nodes[0].(*parsec.Terminal)
		bs := make([]byte, 0, len(nodes)-2)
		for _, c := range nodes {
			v, ok := c.(scheme.Value)
			if !ok {
				continue
			}
			x, ok := v.AsInteger()
			if !ok {
				return fmt.Errorf("invalid bytevector element: %v", v)
			}
			if x < 0 || x > 255 {
				return fmt.Errorf("bytevector element out of range: %v", v)
			}
			bs = append(bs, byte(x))
		}
		return scheme.Bytes(bs).WithSource(b.location(open.GetPosition()))
	case nodeQExpr:
		mark, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected parse result: %T", nodes[0])
		}
		if len(nodes) < 2 {
			return fmt.Errorf("expression required following %s", mark.GetValue())
		}
		v, ok := nodes[1].(scheme.Value)
		if !ok {
			return fmt.Errorf("expression required following %s", mark.GetValue())
		}
		loc := b.location(mark.GetPosition())
		sym := scheme.Symbol(quoteSymbols[mark.GetName()]).WithSource(loc)
		return scheme.List(sym, v).WithSource(loc)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

var quoteSymbols = map[string]string{
	"QUOTE":           "quote",
	"QUASIQUOTE":      "quasiquote",
	"UNQUOTE":         "unquote",
	"UNQUOTESPLICING": "unquote-splicing",
}

func termValue(term *parsec.Terminal) (scheme.Value, error) {
	switch term.Name {
	case "BOOL":
		return scheme.Bool(strings.HasPrefix(term.Value, "#t")), nil
	case "CHAR":
		c, err := token.UnquoteChar(term.Value)
		if err != nil {
			return scheme.Nil(), err
		}
		return scheme.Char(c), nil
	case "RADIX":
		x, err := token.ParseRadixInt(term.Value)
		if err != nil {
			return scheme.Nil(), err
		}
		return scheme.Int(x), nil
	case "STRING":
		s, err := token.UnquoteString(term.Value)
		if err != nil {
			return scheme.Nil(), err
		}
		return scheme.String(s), nil
	case "KEYWORD":
		return scheme.Keyword(strings.TrimPrefix(term.Value, "#:")), nil
	case "DECIMAL":
		if strings.ContainsAny(term.Value, ".eE") {
			f, err := strconv.ParseFloat(term.Value, 64)
			if err != nil {
				return scheme.Nil(), fmt.Errorf("bad number: %v (%s)", err, term.Value)
			}
			return scheme.Float(f), nil
		}
		x, err := strconv.ParseInt(term.Value, 10, 64)
		if err != nil {
			return scheme.Nil(), fmt.Errorf("bad number: %v (%s)", err, term.Value)
		}
		return scheme.Int(x), nil
	case "SYMBOL":
		return scheme.Symbol(term.Value), nil
	}
	return scheme.Nil(), fmt.Errorf("unexpected terminal: %s", term.Name)
}

func stringifyNodes(nodes []parsec.ParsecNode) string {
	var s []string
	for _, node := range nodes {
		switch node := node.(type) {
		case *parsec.Terminal:
			switch node.GetName() {
			case "OPENP", "CLOSEP", "OPENV", "OPENB8":
				continue
			}
			s = append(s, node.GetValue())
		case []parsec.ParsecNode:
			s = append(s, "("+stringifyNodes(node)+")")
		case scheme.Value:
			s = append(s, node.String())
		default:
			s = append(s, fmt.Sprint(node))
		}
	}
	return strings.Join(s, " ")
}

func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			nodes = []parsec.ParsecNode{node}
			return nodes, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func rootValue(root parsec.ParsecNode) (scheme.Value, bool, error) {
	nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
	if !ok {
		return scheme.Nil(), false, nodes[0].(error)
	}
	if len(nodes) == 0 {
		// we can be here if there is only whitespace on a line
		return scheme.Nil(), false, nil
	}
	v, ok := nodes[0].(scheme.Value)
	if !ok {
		// we can be here if there is only a comment on a line
		return scheme.Nil(), false, nil
	}
	return v, true, nil
}
