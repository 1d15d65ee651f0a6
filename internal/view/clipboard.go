package view

import (
	"github.com/atotto/clipboard"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

// copyLog puts the full SimLog and a summary on the system clipboard.
func copyLog(s *game.Sim) error {
	return clipboard.WriteAll(s.Log.Format() + s.Log.Summary(s))
}
