// Package mazefile reads the plain-text maze format into a game.Grid.
//
// A maze file is a header followed by one line per grid row:
//
//	; comment
//	tunnel = 14
//	############################
//	#.....*......##......*.....#
//
// Row characters: '#' wall, '_' open, '.' collectible, 'o' power collectible,
// '+' intersection, '*' intersection with a collectible, 'O' intersection with
// a power collectible.
package mazefile

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

// File is the parsed form of a maze file.
type File struct {
	Entries []*Entry `@@*`
}

// Entry is one line of a maze file.
type Entry struct {
	Pos lexer.Position

	Tunnel *int    `  "tunnel" "=" @Int`
	Row    *string `| @Row`
	Blank  bool    `| @EOL`
}

var mazeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n`},

	{Name: "Keyword", Pattern: `tunnel`},
	{Name: "Punct", Pattern: `=`},
	{Name: "Int", Pattern: `[0-9]+`},

	{Name: "Row", Pattern: `[#._o+*O]+`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(mazeLexer),
	participle.Elide("Whitespace", "Comment"),
)

//go:embed classic.maze
var classic string

// Classic returns a fresh copy of the built-in 28×31 maze.
func Classic() (*game.Grid, error) {
	return Parse("classic.maze", strings.NewReader(classic))
}

// ParseString parses maze source held in memory.
func ParseString(name, src string) (*game.Grid, error) {
	return Parse(name, strings.NewReader(src))
}

// Parse reads a maze file and builds the grid. When the file marks no
// intersections they are derived from the layout.
func Parse(name string, r io.Reader) (*game.Grid, error) {
	f, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("mazefile: %w", err)
	}
	return f.Grid()
}

type item struct {
	x, y int
	code game.CellCode
}

// Grid converts the parsed file into a grid.
func (f *File) Grid() (*game.Grid, error) {
	tunnel := game.NoTunnel
	var (
		rows    [][]game.CellCode
		items   []item
		marked  bool
		rowPos  []lexer.Position
		tunnels int
	)
	for _, e := range f.Entries {
		switch {
		case e.Tunnel != nil:
			tunnels++
			tunnel = *e.Tunnel
		case e.Row != nil:
			y := len(rows)
			codes := make([]game.CellCode, 0, len(*e.Row))
			for x, ch := range *e.Row {
				code, it := decode(ch)
				codes = append(codes, code)
				if code == game.CellIntersection {
					marked = true
				}
				if it != game.CellOpen {
					items = append(items, item{x, y, it})
				}
			}
			rows = append(rows, codes)
			rowPos = append(rowPos, e.Pos)
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("mazefile: no rows")
	}
	if tunnels > 1 {
		return nil, fmt.Errorf("mazefile: tunnel declared %d times", tunnels)
	}
	width := len(rows[0])
	for y, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("mazefile: %s: row %d has %d cells, want %d", rowPos[y], y, len(r), width)
		}
	}

	g, err := game.NewGridFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mazefile: %w", err)
	}
	if err := g.SetTunnelRow(tunnel); err != nil {
		return nil, fmt.Errorf("mazefile: %w", err)
	}
	if !marked {
		g.MarkIntersections()
	}
	for _, it := range items {
		g.PlaceCollectible(it.x, it.y, it.code)
	}
	return g, nil
}

func decode(ch rune) (terrain, it game.CellCode) {
	switch ch {
	case '#':
		return game.CellWall, game.CellOpen
	case '.':
		return game.CellOpen, game.CellCollectible
	case 'o':
		return game.CellOpen, game.CellPowerCollectible
	case '+':
		return game.CellIntersection, game.CellOpen
	case '*':
		return game.CellIntersection, game.CellCollectible
	case 'O':
		return game.CellIntersection, game.CellPowerCollectible
	default:
		return game.CellOpen, game.CellOpen
	}
}

// Format renders g back into maze source. Collectibles still on the grid are
// written out, so a half-eaten maze round-trips.
func Format(g *game.Grid) string {
	var sb strings.Builder
	if g.TunnelRow != game.NoTunnel {
		fmt.Fprintf(&sb, "tunnel = %d\n", g.TunnelRow)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sb.WriteByte(encode(g.CellCode(x, y), g.ItemAt(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func encode(terrain, it game.CellCode) byte {
	switch {
	case terrain == game.CellWall:
		return '#'
	case terrain == game.CellIntersection && it == game.CellCollectible:
		return '*'
	case terrain == game.CellIntersection && it == game.CellPowerCollectible:
		return 'O'
	case terrain == game.CellIntersection:
		return '+'
	case it == game.CellCollectible:
		return '.'
	case it == game.CellPowerCollectible:
		return 'o'
	default:
		return '_'
	}
}
