package tile

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is an axial hex coordinate identifying one map cell. It is used as
// a map key, so equality is exact integer equality. Coords serialize as the
// "q,r" text form both as JSON values and as JSON object keys.
type Coord struct {
	Q int
	R int
}

// Modifier distinguishes sub-variants of the same tile type, such as
// rotation. It travels with the tile type everywhere a placement appears.
type Modifier int

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Q, c.R)
}

// ParseCoord parses the "q,r" form produced by String.
func ParseCoord(s string) (Coord, error) {
	q, r, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("coord %q: missing separator", s)
	}

	qv, err := strconv.Atoi(strings.TrimSpace(q))
	if err != nil {
		return Coord{}, fmt.Errorf("coord %q: %w", s, err)
	}
	rv, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return Coord{}, fmt.Errorf("coord %q: %w", s, err)
	}

	return Coord{Q: qv, R: rv}, nil
}

// MarshalText lets Coord act as a JSON object key in raw data maps.
func (c Coord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coord) UnmarshalText(b []byte) error {
	parsed, err := ParseCoord(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
