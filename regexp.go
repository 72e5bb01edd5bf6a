package automaton

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies the node type of a parsed regular expression.
type Kind int

const (
	REGEXP_UNION         = Kind(iota) // The union of two expressions
	REGEXP_CONCATENATION              // A sequence of two expressions
	REGEXP_INTERSECTION               // The intersection of two expressions
	REGEXP_OPTIONAL                   // An optional expression
	REGEXP_REPEAT                     // An expression that repeats
	REGEXP_REPEAT_MIN                 // An expression that repeats a minimum number of times
	REGEXP_REPEAT_MINMAX              // An expression that repeats a minimum and maximum number of times
	REGEXP_COMPLEMENT                 // The complement of an expression
	REGEXP_CHAR                       // A character
	REGEXP_CHAR_RANGE                 // A character range
	REGEXP_ANYCHAR                    // Any character allowed
	REGEXP_EMPTY                      // An empty expression
	REGEXP_STRING                     // A string expression
	REGEXP_ANYSTRING                  // Any string allowed
	REGEXP_AUTOMATON                  // A named automaton expression
	REGEXP_INTERVAL                   // A decimal interval expression
)

// Syntax flags: select which optional operators the parser accepts.
// Match flags occupy the bits above ALL.
const (
	INTERSECTION           = 0x0001 // & operator
	COMPLEMENT             = 0x0002 // ~ operator
	EMPTY                  = 0x0004 // # (empty language)
	ANYSTRING              = 0x0008 // @ (any string)
	AUTOMATON              = 0x0010 // <identifier> (named automaton)
	INTERVAL               = 0x0020 // <n-m> (numerical interval)
	ALL                    = 0xff   // All optional operators
	NONE                   = 0x0000 // No optional operators
	ASCII_CASE_INSENSITIVE = 0x0100 // Match flag: case-insensitive ASCII
)

// RegExp is a parsed regular expression over Unicode codepoints,
// convertible to an Automaton. The grammar follows the usual union /
// concatenation / repetition precedence, with optional intersection,
// complement, empty-language, any-string, named-automaton and decimal
// interval operators controlled by syntax flags.
type RegExp struct {
	kind             Kind
	exp1, exp2       *RegExp
	s                *string
	c                int
	min, max, digits int
	from, to         int

	originalString []rune
	flags          int
	pos            int
}

type regExpOption struct {
	syntaxFlags int
	matchFlags  int
}

type RegExpOption func(*regExpOption)

// WithSyntaxFlags selects which optional operators the parser accepts;
// defaults to ALL.
func WithSyntaxFlags(flags int) RegExpOption {
	return func(o *regExpOption) {
		o.syntaxFlags = flags
	}
}

// WithMatchFlags sets match behavior flags, e.g. ASCII_CASE_INSENSITIVE.
func WithMatchFlags(flags int) RegExpOption {
	return func(o *regExpOption) {
		o.matchFlags = flags
	}
}

// NewRegExp parses the given regular expression.
func NewRegExp(s string, options ...RegExpOption) (*RegExp, error) {
	opts := &regExpOption{
		syntaxFlags: ALL,
	}
	for _, fn := range options {
		fn(opts)
	}
	if opts.syntaxFlags > ALL {
		return nil, errors.New("illegal syntax flag")
	}
	if opts.matchFlags > 0 && opts.matchFlags <= ALL {
		return nil, errors.New("illegal match flag")
	}

	p := &RegExp{
		originalString: []rune(s),
		flags:          opts.syntaxFlags | opts.matchFlags,
	}

	var e *RegExp
	if len(s) == 0 {
		e = makeStringNode(p.flags, "")
	} else {
		var err error
		e, err = p.parseUnionExp()
		if err != nil {
			return nil, err
		}
		if p.pos < len(p.originalString) {
			return nil, fmt.Errorf("end-of-string expected at position %d", p.pos)
		}
	}

	// Keep the parse position and source on the root node:
	e.originalString = p.originalString
	e.flags = p.flags
	return e, nil
}

// Provider resolves named automata referenced via <identifier>.
type Provider func(name string) (*Automaton, error)

// ToAutomaton compiles this expression into an automaton. workLimit
// caps the effort spent determinizing; see Determinize.
func (r *RegExp) ToAutomaton(workLimit int) (*Automaton, error) {
	return r.toAutomatonInternal(nil, nil, workLimit)
}

// ToAutomatonProvider compiles this expression, resolving named
// automata through the given provider.
func (r *RegExp) ToAutomatonProvider(provider Provider, workLimit int) (*Automaton, error) {
	return r.toAutomatonInternal(nil, provider, workLimit)
}

// ToAutomatonMap compiles this expression, resolving named automata
// through the given map.
func (r *RegExp) ToAutomatonMap(automata map[string]*Automaton, workLimit int) (*Automaton, error) {
	return r.toAutomatonInternal(automata, nil, workLimit)
}

func (r *RegExp) toAutomatonInternal(automata map[string]*Automaton, provider Provider, workLimit int) (*Automaton, error) {
	switch r.kind {
	case REGEXP_UNION:
		list, err := r.gatherLeaves(REGEXP_UNION, automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Union(list...)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_CONCATENATION:
		list, err := r.gatherLeaves(REGEXP_CONCATENATION, automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Concatenate(list...)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_INTERSECTION:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a2, err := r.exp2.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Intersection(a1, a2)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_OPTIONAL:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Optional(a1)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_REPEAT:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Repeat(a1)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_REPEAT_MIN:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		if states := (a1.GetNumStates() - 1) * r.min; states > workLimit {
			return nil, fmt.Errorf("%w (limit: %d, needed: %d)", ErrTooComplexToDeterminize, workLimit, states)
		}
		a, err := RepeatCount(a1, r.min)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_REPEAT_MINMAX:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		if states := (a1.GetNumStates() - 1) * r.max; states > workLimit {
			return nil, fmt.Errorf("%w (limit: %d, needed: %d)", ErrTooComplexToDeterminize, workLimit, states)
		}
		return RepeatRange(a1, r.min, r.max)

	case REGEXP_COMPLEMENT:
		a1, err := r.exp1.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return nil, err
		}
		a, err := Complement(a1, workLimit)
		if err != nil {
			return nil, err
		}
		return Minimize(a, workLimit)

	case REGEXP_CHAR:
		if r.check(ASCII_CASE_INSENSITIVE) {
			return toCaseInsensitiveChar(rune(r.c), workLimit)
		}
		return defaultAutomata.MakeChar(rune(r.c))

	case REGEXP_CHAR_RANGE:
		return defaultAutomata.MakeCharRange(rune(r.from), rune(r.to))

	case REGEXP_ANYCHAR:
		return defaultAutomata.MakeAnyChar()

	case REGEXP_EMPTY:
		return defaultAutomata.MakeEmpty(), nil

	case REGEXP_STRING:
		if r.check(ASCII_CASE_INSENSITIVE) {
			return toCaseInsensitiveString(*r.s, workLimit)
		}
		return defaultAutomata.MakeString(*r.s)

	case REGEXP_ANYSTRING:
		return defaultAutomata.MakeAnyString()

	case REGEXP_AUTOMATON:
		var aa *Automaton
		if automata != nil {
			aa = automata[*r.s]
		}
		if aa == nil && provider != nil {
			var err error
			aa, err = provider(*r.s)
			if err != nil {
				return nil, err
			}
		}
		if aa == nil {
			return nil, fmt.Errorf("automaton %q not found", *r.s)
		}
		return aa, nil

	case REGEXP_INTERVAL:
		return defaultAutomata.MakeDecimalInterval(r.min, r.max, r.digits)
	}

	return nil, fmt.Errorf("unhandled expression kind %d", r.kind)
}

// gatherLeaves flattens nested nodes of the same kind (unions of
// unions, concatenations of concatenations) into one operand list.
func (r *RegExp) gatherLeaves(kind Kind, automata map[string]*Automaton, provider Provider, workLimit int) ([]*Automaton, error) {
	list := make([]*Automaton, 0)
	var walk func(exp *RegExp) error
	walk = func(exp *RegExp) error {
		if exp.kind == kind {
			if err := walk(exp.exp1); err != nil {
				return err
			}
			return walk(exp.exp2)
		}
		a, err := exp.toAutomatonInternal(automata, provider, workLimit)
		if err != nil {
			return err
		}
		list = append(list, a)
		return nil
	}
	if err := walk(r.exp1); err != nil {
		return nil, err
	}
	if err := walk(r.exp2); err != nil {
		return nil, err
	}
	return list, nil
}

// Only ASCII letters get a case-insensitive alternative.
func toCaseInsensitiveChar(codepoint rune, workLimit int) (*Automaton, error) {
	case1, err := defaultAutomata.MakeChar(codepoint)
	if err != nil {
		return nil, err
	}
	if codepoint > 128 {
		return case1, nil
	}

	altCase := codepoint
	if unicode.IsLower(codepoint) {
		altCase = unicode.ToUpper(codepoint)
	} else {
		altCase = unicode.ToLower(codepoint)
	}
	if altCase == codepoint {
		return case1, nil
	}

	case2, err := defaultAutomata.MakeChar(altCase)
	if err != nil {
		return nil, err
	}
	result, err := Union(case1, case2)
	if err != nil {
		return nil, err
	}
	return Minimize(result, workLimit)
}

func toCaseInsensitiveString(s string, workLimit int) (*Automaton, error) {
	list := make([]*Automaton, 0, len(s))
	for _, v := range s {
		a, err := toCaseInsensitiveChar(v, workLimit)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	a, err := Concatenate(list...)
	if err != nil {
		return nil, err
	}
	return Minimize(a, workLimit)
}

// Node constructors. Each node carries the parse flags so match flags
// (case insensitivity) survive into compilation.

func newContainerNode(flags int, kind Kind, exp1, exp2 *RegExp) *RegExp {
	return &RegExp{kind: kind, exp1: exp1, exp2: exp2, flags: flags}
}

func makeUnionNode(flags int, exp1, exp2 *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_UNION, exp1, exp2)
}

// Concatenation folds adjacent char/string operands into one string node.
func makeConcatenationNode(flags int, exp1, exp2 *RegExp) *RegExp {
	isStringy := func(e *RegExp) bool {
		return e.kind == REGEXP_CHAR || e.kind == REGEXP_STRING
	}
	if isStringy(exp1) && isStringy(exp2) {
		return foldString(flags, exp1, exp2)
	}

	if exp1.kind == REGEXP_CONCATENATION && isStringy(exp1.exp2) && isStringy(exp2) {
		return newContainerNode(flags, REGEXP_CONCATENATION, exp1.exp1, foldString(flags, exp1.exp2, exp2))
	}
	if isStringy(exp1) && exp2.kind == REGEXP_CONCATENATION && isStringy(exp2.exp1) {
		return newContainerNode(flags, REGEXP_CONCATENATION, foldString(flags, exp1, exp2.exp1), exp2.exp2)
	}
	return newContainerNode(flags, REGEXP_CONCATENATION, exp1, exp2)
}

func foldString(flags int, exp1, exp2 *RegExp) *RegExp {
	var b strings.Builder
	for _, e := range []*RegExp{exp1, exp2} {
		if e.kind == REGEXP_STRING {
			b.WriteString(*e.s)
		} else {
			b.WriteRune(rune(e.c))
		}
	}
	return makeStringNode(flags, b.String())
}

func makeIntersectionNode(flags int, exp1, exp2 *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_INTERSECTION, exp1, exp2)
}

func makeOptionalNode(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_OPTIONAL, exp, nil)
}

func makeRepeatNode(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_REPEAT, exp, nil)
}

func makeRepeatMinNode(flags int, exp *RegExp, min int) *RegExp {
	return &RegExp{kind: REGEXP_REPEAT_MIN, exp1: exp, min: min, flags: flags}
}

func makeRepeatRangeNode(flags int, exp *RegExp, min, max int) *RegExp {
	return &RegExp{kind: REGEXP_REPEAT_MINMAX, exp1: exp, min: min, max: max, flags: flags}
}

func makeComplementNode(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_COMPLEMENT, exp, nil)
}

func makeCharNode(flags, c int) *RegExp {
	return &RegExp{kind: REGEXP_CHAR, c: c, flags: flags}
}

func makeCharRangeNode(flags, from, to int) (*RegExp, error) {
	if from > to {
		return nil, fmt.Errorf("invalid range: from (%d) cannot be > to (%d)", from, to)
	}
	return &RegExp{kind: REGEXP_CHAR_RANGE, from: from, to: to, flags: flags}, nil
}

func makeAnyCharNode(flags int) *RegExp {
	return newContainerNode(flags, REGEXP_ANYCHAR, nil, nil)
}

func makeEmptyNode(flags int) *RegExp {
	return newContainerNode(flags, REGEXP_EMPTY, nil, nil)
}

func makeStringNode(flags int, s string) *RegExp {
	return &RegExp{kind: REGEXP_STRING, s: &s, flags: flags}
}

func makeAnyStringNode(flags int) *RegExp {
	return newContainerNode(flags, REGEXP_ANYSTRING, nil, nil)
}

func makeAutomatonNode(flags int, s string) *RegExp {
	return &RegExp{kind: REGEXP_AUTOMATON, s: &s, flags: flags}
}

func makeIntervalNode(flags, min, max, digits int) *RegExp {
	return &RegExp{kind: REGEXP_INTERVAL, min: min, max: max, digits: digits, flags: flags}
}

// Recursive-descent parser.

func (r *RegExp) more() bool {
	return r.pos < len(r.originalString)
}

func (r *RegExp) peek(s string) bool {
	return r.more() && strings.ContainsRune(s, r.originalString[r.pos])
}

func (r *RegExp) match(c rune) bool {
	if r.pos < len(r.originalString) && r.originalString[r.pos] == c {
		r.pos++
		return true
	}
	return false
}

func (r *RegExp) next() (int, error) {
	if !r.more() {
		return 0, errors.New("unexpected end of expression")
	}
	ch := r.originalString[r.pos]
	r.pos++
	return int(ch), nil
}

func (r *RegExp) check(flags int) bool {
	return r.flags&flags != 0
}

func (r *RegExp) parseUnionExp() (*RegExp, error) {
	e, err := r.parseInterExp()
	if err != nil {
		return nil, err
	}
	if r.match('|') {
		e2, err := r.parseUnionExp()
		if err != nil {
			return nil, err
		}
		e = makeUnionNode(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseInterExp() (*RegExp, error) {
	e, err := r.parseConcatExp()
	if err != nil {
		return nil, err
	}
	if r.check(INTERSECTION) && r.match('&') {
		e2, err := r.parseInterExp()
		if err != nil {
			return nil, err
		}
		e = makeIntersectionNode(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseConcatExp() (*RegExp, error) {
	e, err := r.parseRepeatExp()
	if err != nil {
		return nil, err
	}
	if r.more() && !r.peek(")|") && (!r.check(INTERSECTION) || !r.peek("&")) {
		e2, err := r.parseConcatExp()
		if err != nil {
			return nil, err
		}
		e = makeConcatenationNode(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseRepeatExp() (*RegExp, error) {
	e, err := r.parseComplExp()
	if err != nil {
		return nil, err
	}

	for r.peek("?*+{") {
		switch {
		case r.match('?'):
			e = makeOptionalNode(r.flags, e)
		case r.match('*'):
			e = makeRepeatNode(r.flags, e)
		case r.match('+'):
			e = makeRepeatMinNode(r.flags, e, 1)
		case r.match('{'):
			n, err := r.parseInt()
			if err != nil {
				return nil, err
			}
			m := -1
			if r.match(',') {
				if r.peek("0123456789") {
					m, err = r.parseInt()
					if err != nil {
						return nil, err
					}
				}
			} else {
				m = n
			}
			if !r.match('}') {
				return nil, fmt.Errorf("expected '}' at position %d", r.pos)
			}
			if m == -1 {
				e = makeRepeatMinNode(r.flags, e, n)
			} else {
				e = makeRepeatRangeNode(r.flags, e, n, m)
			}
		}
	}
	return e, nil
}

func (r *RegExp) parseInt() (int, error) {
	start := r.pos
	for r.peek("0123456789") {
		if _, err := r.next(); err != nil {
			return 0, err
		}
	}
	if start == r.pos {
		return 0, fmt.Errorf("integer expected at position %d", r.pos)
	}
	return strconv.Atoi(string(r.originalString[start:r.pos]))
}

func (r *RegExp) parseComplExp() (*RegExp, error) {
	if r.check(COMPLEMENT) && r.match('~') {
		e, err := r.parseComplExp()
		if err != nil {
			return nil, err
		}
		return makeComplementNode(r.flags, e), nil
	}
	return r.parseCharClassExp()
}

func (r *RegExp) parseCharClassExp() (*RegExp, error) {
	if r.match('[') {
		negate := r.match('^')
		e, err := r.parseCharClasses()
		if err != nil {
			return nil, err
		}
		if negate {
			e = makeIntersectionNode(r.flags, makeAnyCharNode(r.flags), makeComplementNode(r.flags, e))
		}
		if !r.match(']') {
			return nil, fmt.Errorf("expected ']' at position %d", r.pos)
		}
		return e, nil
	}
	return r.parseSimpleExp()
}

func (r *RegExp) parseCharClasses() (*RegExp, error) {
	e, err := r.parseCharClass()
	if err != nil {
		return nil, err
	}
	for r.more() && !r.peek("]") {
		e2, err := r.parseCharClass()
		if err != nil {
			return nil, err
		}
		e = makeUnionNode(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseCharClass() (*RegExp, error) {
	c, err := r.parseCharExp()
	if err != nil {
		return nil, err
	}
	if r.match('-') {
		c2, err := r.parseCharExp()
		if err != nil {
			return nil, err
		}
		return makeCharRangeNode(r.flags, c, c2)
	}
	return makeCharNode(r.flags, c), nil
}

func (r *RegExp) parseSimpleExp() (*RegExp, error) {
	switch {
	case r.match('.'):
		return makeAnyCharNode(r.flags), nil
	case r.check(EMPTY) && r.match('#'):
		return makeEmptyNode(r.flags), nil
	case r.check(ANYSTRING) && r.match('@'):
		return makeAnyStringNode(r.flags), nil
	case r.match('"'):
		start := r.pos
		for r.more() && !r.peek("\"") {
			if _, err := r.next(); err != nil {
				return nil, err
			}
		}
		if !r.match('"') {
			return nil, fmt.Errorf("expected '\"' at position %d", r.pos)
		}
		return makeStringNode(r.flags, string(r.originalString[start:r.pos-1])), nil
	case r.match('('):
		if r.match(')') {
			return makeStringNode(r.flags, ""), nil
		}
		e, err := r.parseUnionExp()
		if err != nil {
			return nil, err
		}
		if !r.match(')') {
			return nil, fmt.Errorf("expected ')' at position %d", r.pos)
		}
		return e, nil
	case (r.check(AUTOMATON) || r.check(INTERVAL)) && r.match('<'):
		return r.parseAngleExp()
	}

	c, err := r.parseCharExp()
	if err != nil {
		return nil, err
	}
	return makeCharNode(r.flags, c), nil
}

// Parses <identifier> (a named automaton) or <n-m> (a decimal interval).
func (r *RegExp) parseAngleExp() (*RegExp, error) {
	start := r.pos
	for r.more() && !r.peek(">") {
		if _, err := r.next(); err != nil {
			return nil, err
		}
	}
	if !r.match('>') {
		return nil, fmt.Errorf("expected '>' at position %d", r.pos)
	}

	s := string(r.originalString[start : r.pos-1])
	i := strings.IndexRune(s, '-')
	if i == -1 {
		if !r.check(AUTOMATON) {
			return nil, fmt.Errorf("interval syntax error at position %d", r.pos-1)
		}
		return makeAutomatonNode(r.flags, s), nil
	}

	if !r.check(INTERVAL) {
		return nil, fmt.Errorf("illegal identifier at position %d", r.pos-1)
	}
	if i == 0 || i == len(s)-1 || i != strings.LastIndexByte(s, '-') {
		return nil, fmt.Errorf("interval syntax error at position %d", r.pos-1)
	}

	smin, smax := s[:i], s[i+1:]
	imin, err := strconv.Atoi(smin)
	if err != nil {
		return nil, fmt.Errorf("interval syntax error at position %d", r.pos-1)
	}
	imax, err := strconv.Atoi(smax)
	if err != nil {
		return nil, fmt.Errorf("interval syntax error at position %d", r.pos-1)
	}
	digits := 0
	if len(smin) == len(smax) {
		digits = len(smin)
	}
	if imin > imax {
		imin, imax = imax, imin
	}
	return makeIntervalNode(r.flags, imin, imax, digits), nil
}

func (r *RegExp) parseCharExp() (int, error) {
	r.match('\\')
	return r.next()
}
