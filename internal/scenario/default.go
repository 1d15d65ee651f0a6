package scenario

import (
	_ "embed"
	"fmt"
)

//go:embed classic.yaml
var classicYAML []byte

// Default returns the built-in classic scenario.
func Default() *Scenario {
	sc, err := Parse(classicYAML)
	if err != nil {
		panic(fmt.Sprintf("scenario: embedded classic.yaml: %v", err))
	}
	return sc
}
