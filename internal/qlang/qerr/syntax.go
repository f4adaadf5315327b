// Package qerr holds the error types raised while lexing and parsing
// expression text, each carrying enough source position to render a caret
// under the offending text.
package qerr

import (
	"fmt"
	"strings"

	"github.com/dekarrin/physunits/internal/qlang/types"
)

// SyntaxError is a lex or parse failure located at a specific token.
type SyntaxError struct {
	msg      string
	line     int
	linePos  int
	fullLine string
	lexeme   string
}

func (e *SyntaxError) Error() string {
	return e.msg
}

// FullMessage renders the message followed by the offending source line and
// a caret under the token's position.
func (e *SyntaxError) FullMessage() string {
	caretLen := len(e.lexeme)
	if caretLen < 1 {
		caretLen = 1
	}
	caret := strings.Repeat(" ", e.linePos-1) + strings.Repeat("^", caretLen)
	return fmt.Sprintf("%s\n%s\n%s", e.msg, e.fullLine, caret)
}

// Line is the 1-indexed source line the error occurred on.
func (e *SyntaxError) Line() int { return e.line }

// LinePos is the 1-indexed column the error occurred on.
func (e *SyntaxError) LinePos() int { return e.linePos }

// NewSyntaxErrorFromToken builds a SyntaxError positioned at tok.
func NewSyntaxErrorFromToken(msg string, tok types.Token) *SyntaxError {
	return &SyntaxError{
		msg:      msg,
		line:     tok.Line(),
		linePos:  tok.LinePos(),
		fullLine: tok.FullLine(),
		lexeme:   tok.Lexeme(),
	}
}
