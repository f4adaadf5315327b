package physunits

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/physunits/internal/qlang/lex"
)

// buildLexer constructs the fixed token table from §4.1/§6. The "func"
// token type starts out matching nothing (lex.New's zero-registration
// convention); buildFacade calls SetFuncNames once the default functions
// are installed.
func buildLexer() (*lex.Lexer, error) {
	numPattern := `(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?|\.[0-9]+([eE][+-]?[0-9]+)?`

	return lex.New([]lex.TokenType{
		{Name: "ws", Pattern: `[ \t\r\n]+`, Ignore: true},
		{Name: "num", Pattern: numPattern, Value: func(matched string) (any, error) {
			f, err := strconv.ParseFloat(matched, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing number %q: %w", matched, err)
			}
			return f, nil
		}},
		{Name: "open", Pattern: `\(`},
		{Name: "close", Pattern: `\)`},
		{Name: "comma", Pattern: `,`},
		{Name: "add", Pattern: `\+|-`, Value: func(matched string) (any, error) {
			return matched == "+", nil
		}},
		{Name: "mul", Pattern: `\*|/`, Value: func(matched string) (any, error) {
			return matched == "*", nil
		}},
		{Name: "pow", Pattern: `\*\*|\^`},
		{Name: "id", Pattern: `[A-Za-z][A-Za-z0-9]*`, Value: func(matched string) (any, error) {
			return matched, nil
		}},
		{Name: "func", Pattern: "a^", Value: func(matched string) (any, error) {
			return matched, nil
		}},
	})
}
