// Package lex implements the longest-match tokenizer described in the
// expression grammar's component design: a fixed, ordered sequence of
// token patterns scanned left-to-right, selecting the longest match at each
// position and, on ties, the pattern declared later in the sequence.
package lex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dekarrin/physunits/internal/qlang/types"
)

// ValueFunc extracts a semantic payload from the text a TokenType matched.
// A TokenType with a nil ValueFunc produces tokens with no payload (Value()
// returns nil) — appropriate for purely syntactic terminals like "(" or ",".
type ValueFunc func(matched string) (any, error)

// TokenType is one entry in the lexer's fixed, ordered pattern table.
type TokenType struct {
	// Name is the terminal's name, e.g. "num", "add", "func".
	Name string

	// Pattern is a regular expression matched against the input starting at
	// the current scan position (it is anchored automatically; do not
	// include a leading "^").
	Pattern string

	// Value extracts this token's payload from its matched text. May be nil.
	Value ValueFunc

	// Ignore marks this token type as consumed but never emitted (used for
	// whitespace).
	Ignore bool
}

type compiledType struct {
	TokenType
	re *regexp.Regexp
}

// Error is a lex failure: no pattern matched at Pos in Input.
type Error struct {
	Input   string
	Pos     int
	Line    int
	LinePos int
}

func (e *Error) Error() string {
	lineStart := strings.LastIndexByte(e.Input[:e.Pos], '\n') + 1
	lineEnd := strings.IndexByte(e.Input[e.Pos:], '\n')
	if lineEnd == -1 {
		lineEnd = len(e.Input)
	} else {
		lineEnd += e.Pos
	}
	line := e.Input[lineStart:lineEnd]
	caret := strings.Repeat(" ", e.LinePos-1) + "^"
	return fmt.Sprintf("lex error at line %d, position %d: no token matches\n%s\n%s", e.Line, e.LinePos, line, caret)
}

// Lexer scans text into a sequence of types.Token using longest-match
// tokenization over a fixed, ordered TokenType table.
type Lexer struct {
	types    []compiledType
	funcSlot int // index of the "func" token type, or -1 if none registered
}

// New compiles types in the given order into a Lexer. The order is
// significant: it is the tie-break order for equal-length matches (later
// wins). A TokenType named "func" is tracked so SetFuncNames can later
// rewrite it in place.
func New(tokenTypes []TokenType) (*Lexer, error) {
	lx := &Lexer{funcSlot: -1}
	for _, tt := range tokenTypes {
		compiled, err := regexp.Compile("^(?:" + tt.Pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for token type %q: %w", tt.Name, err)
		}
		if tt.Name == "func" {
			lx.funcSlot = len(lx.types)
		}
		lx.types = append(lx.types, compiledType{TokenType: tt, re: compiled})
	}
	return lx, nil
}

// SetFuncNames rewrites the "func" token type's pattern in place to an
// alternation of names sorted by descending length, so that longer function
// names win against shorter prefixes under longest-match scanning. The
// rewrite happens at the same slot in the type table so tie-break ordering
// against the other token types is unaffected. It is an error to call this
// before a "func" token type has been registered via New.
func (lx *Lexer) SetFuncNames(names []string) error {
	if lx.funcSlot < 0 {
		return fmt.Errorf("lexer has no \"func\" token type to update")
	}

	sorted := append([]string{}, names...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var pattern string
	if len(sorted) == 0 {
		// a pattern matching nothing; no functions registered yet.
		pattern = "a^"
	} else {
		escaped := make([]string, len(sorted))
		for i, n := range sorted {
			escaped[i] = regexp.QuoteMeta(n)
		}
		pattern = strings.Join(escaped, "|")
	}

	compiled, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return fmt.Errorf("compiling func alternation: %w", err)
	}

	existing := lx.types[lx.funcSlot]
	existing.Pattern = pattern
	existing.re = compiled
	lx.types[lx.funcSlot] = existing
	return nil
}

// Lex scans src in full and returns its token stream, terminated by an eof
// token. On the first position with zero viable matches it returns an
// *Error describing the position.
func (lx *Lexer) Lex(src string) (types.TokenStream, error) {
	var toks []types.Token

	pos := 0
	line := 1
	linePos := 1

	for pos < len(src) {
		bestLen := -1
		bestIdx := -1

		remaining := src[pos:]
		for i, ct := range lx.types {
			loc := ct.re.FindStringIndex(remaining)
			if loc == nil {
				continue
			}
			length := loc[1]
			if length == 0 {
				// a pattern matching the empty string can never make
				// progress; never let it win.
				continue
			}
			if length >= bestLen {
				bestLen = length
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			return nil, &Error{Input: src, Pos: pos, Line: line, LinePos: linePos}
		}

		matched := remaining[:bestLen]
		ct := lx.types[bestIdx]

		if !ct.Ignore {
			var val any
			if ct.Value != nil {
				v, err := ct.Value(matched)
				if err != nil {
					return nil, fmt.Errorf("token %q value extraction: %w", ct.Name, err)
				}
				val = v
			}
			toks = append(toks, token{
				class:    types.MakeDefaultClass(ct.Name),
				lexeme:   matched,
				value:    val,
				line:     line,
				linePos:  linePos,
				fullLine: fullLineAt(src, pos),
			})
		}

		for _, r := range matched {
			if r == '\n' {
				line++
				linePos = 1
			} else {
				linePos++
			}
		}
		pos += bestLen
	}

	toks = append(toks, token{
		class:    types.TokenEndOfText,
		line:     line,
		linePos:  linePos,
		fullLine: fullLineAt(src, pos),
	})

	return newTokenStream(toks), nil
}

func fullLineAt(src string, pos int) string {
	if pos > len(src) {
		pos = len(src)
	}
	start := strings.LastIndexByte(src[:pos], '\n') + 1
	end := strings.IndexByte(src[pos:], '\n')
	if end == -1 {
		end = len(src)
	} else {
		end += pos
	}
	return src[start:end]
}
