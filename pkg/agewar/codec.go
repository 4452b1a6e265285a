package agewar

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Army wire format: "Kind#Count" entries joined by semicolons, e.g.
// "Spearmen#10;Militia#30;FootArcher#20". The same encoding is used by
// the HTTP API, the CLI, and stored scenarios.

// ParseArmy decodes an army string. Every entry must name a known unit
// kind and carry a non-negative integer count.
func ParseArmy(s string) (Army, error) {
	if s == "" {
		return Army{}, fmt.Errorf("army: empty input")
	}

	var platoons []Platoon
	for entry := range strings.SplitSeq(s, ";") {
		p, err := parsePlatoonEntry(entry)
		if err != nil {
			return Army{}, fmt.Errorf("army: platoon %q: %w", entry, err)
		}
		platoons = append(platoons, p)
	}
	return Army{platoons: platoons}, nil
}

// parsePlatoonEntry parses a single "Kind#Count" entry.
func parsePlatoonEntry(s string) (Platoon, error) {
	kindStr, countStr, ok := strings.Cut(s, "#")
	if !ok {
		return Platoon{}, fmt.Errorf("missing '#' separator")
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return Platoon{}, fmt.Errorf("invalid count %q", countStr)
	}

	return NewPlatoon(UnitKind(kindStr), count)
}

// String encodes the platoon as a single "Kind#Count" entry.
func (p Platoon) String() string {
	return string(p.Kind) + "#" + strconv.Itoa(p.Count)
}

// String encodes the army in the wire format. Deterministic: entries
// appear in army order.
func (a Army) String() string {
	var b strings.Builder
	b.Grow(len(a.platoons) * 16)
	for i, p := range a.platoons {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(string(p.Kind))
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(p.Count))
	}
	return b.String()
}

// MarshalJSON encodes the army as its wire-format string.
func (a Army) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an army from its wire-format string.
func (a *Army) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Army{}
		return nil
	}
	parsed, err := ParseArmy(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
