package physunits

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a PrefixSpec as the 3-element [name, symbol,
// multiplier] array the configuration schema specifies.
func (p PrefixSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Name, p.Symbol, p.Multiplier})
}

// UnmarshalJSON parses a PrefixSpec from its 3-element array form.
func (p *PrefixSpec) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("prefix entry must be a [name, symbol, multiplier] array: %w", err)
	}
	if err := json.Unmarshal(raw[0], &p.Name); err != nil {
		return fmt.Errorf("prefix name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Symbol); err != nil {
		return fmt.Errorf("prefix symbol: %w", err)
	}
	if err := json.Unmarshal(raw[2], &p.Multiplier); err != nil {
		return fmt.Errorf("prefix multiplier: %w", err)
	}
	return nil
}
