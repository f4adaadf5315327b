package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a production with a dot marking how much of it has been
// matched so far: NonTerminal -> Left . Right, where Left++Right is the full
// expansion of some production of NonTerminal.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Equal compares two LR0Items (or *LR0Item) for equality.
func (item LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if item.NonTerminal != other.NonTerminal {
		return false
	}
	if len(item.Left) != len(other.Left) || len(item.Right) != len(other.Right) {
		return false
	}
	for i := range item.Left {
		if item.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range item.Right {
		if item.Right[i] != other.Right[i] {
			return false
		}
	}
	return true
}

// String renders the item in dotted form, e.g. "EXP -> EXP1 . mul EXP2".
func (item LR0Item) String() string {
	nonTermPhrase := ""
	if item.NonTerminal != "" {
		nonTermPhrase = fmt.Sprintf("%s -> ", item.NonTerminal)
	}

	left := strings.Join(item.Left, " ")
	right := strings.Join(item.Right, " ")
	if len(left) > 0 {
		left += " "
	}
	if len(right) > 0 {
		right = " " + right
	}

	return fmt.Sprintf("%s%s.%s", nonTermPhrase, left, right)
}
