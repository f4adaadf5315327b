package physunits

// Config is the on-disk JSON configuration for a Facade: base units,
// prefixes, derived units, constants, synonyms, and removals, per the
// external interface's configuration file schema.
type Config struct {
	BaseUnits    [][2]string       `json:"base units"`
	Prefixes     []PrefixSpec      `json:"prefixes"`
	DerivedUnits [][3]string       `json:"derived units"`
	Constants    [][3]string       `json:"constants"`
	Synonyms     map[string]string `json:"synonyms"`
	Remove       []string          `json:"remove"`
}

// PrefixSpec is one entry of Config.Prefixes: [name, symbol, multiplier].
// It has a custom JSON shape (a 3-element array, not an object) so it
// implements json.Unmarshaler/Marshaler itself; see config_json.go.
type PrefixSpec struct {
	Name       string
	Symbol     string
	Multiplier float64
}
