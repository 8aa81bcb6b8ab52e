package pareto

import (
	"fmt"
	"strings"
)

// Direction orients one objective.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

func (d Direction) String() string {
	switch d {
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if d != Maximize && d != Minimize {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Objective names a result metric and the way it should move.
type Objective struct {
	Metric    string    `json:"metric" yaml:"metric"`
	Direction Direction `json:"direction" yaml:"direction"`
}

func (o Objective) String() string {
	return o.Direction.String() + " " + o.Metric
}

// Directions extracts the orientation of each objective.
func Directions(objectives []Objective) []Direction {
	dirs := make([]Direction, len(objectives))
	for i, o := range objectives {
		dirs[i] = o.Direction
	}
	return dirs
}
