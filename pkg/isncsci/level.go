package isncsci

import (
	"fmt"
	"strings"
)

// LevelCount is the number of levels in the chain, including the synthetic C1 anchor
const LevelCount = 29

// Normal values for each modality
const (
	NormalSensoryValue = 2
	NormalMotorValue   = 5
)

// Ordinals referenced by the classification rules
const (
	ordinalC1   = 0
	ordinalC5   = 4
	ordinalT1   = 8
	ordinalL2   = 21
	ordinalL5   = 24
	ordinalS1   = 25
	ordinalS4_5 = 28
)

// levelTable is the static description of the chain, rostral to caudal
var levelTable = [LevelCount]struct {
	name      string
	keyMuscle bool
}{
	{"C1", false},
	{"C2", false}, {"C3", false}, {"C4", false},
	{"C5", true}, {"C6", true}, {"C7", true}, {"C8", true},
	{"T1", true}, {"T2", false}, {"T3", false}, {"T4", false}, {"T5", false}, {"T6", false},
	{"T7", false}, {"T8", false}, {"T9", false}, {"T10", false}, {"T11", false}, {"T12", false},
	{"L1", false}, {"L2", true}, {"L3", true}, {"L4", true}, {"L5", true},
	{"S1", true}, {"S2", false}, {"S3", false}, {"S4_5", false},
}

var levelIndex map[string]int

func init() {
	if err := validateLevelTable(); err != nil {
		panic(fmt.Sprintf("isncsci: invalid level table: %v", err))
	}

	levelIndex = make(map[string]int, LevelCount)
	for i, entry := range levelTable {
		levelIndex[entry.name] = i
	}
}

// validateLevelTable checks the structural invariants of the chain.
// Anything reported here is a programming error, not an input error.
func validateLevelTable() error {
	seen := make(map[string]bool, LevelCount)
	keyMuscles := 0

	for i, entry := range levelTable {
		if entry.name == "" {
			return fmt.Errorf("level at ordinal %d has no name", i)
		}
		upper := strings.ToUpper(entry.name)
		if seen[upper] {
			return fmt.Errorf("duplicate level %s", entry.name)
		}
		seen[upper] = true
		if entry.keyMuscle {
			keyMuscles++
		}
	}

	if levelTable[ordinalC1].name != "C1" || levelTable[ordinalS4_5].name != "S4_5" {
		return fmt.Errorf("chain must run from C1 to S4_5")
	}
	if keyMuscles != 10 {
		return fmt.Errorf("expected 10 key muscles, found %d", keyMuscles)
	}
	if !levelTable[ordinalL2].keyMuscle || !levelTable[ordinalS1].keyMuscle {
		return fmt.Errorf("lower key muscles must span L2..S1")
	}

	return nil
}

// LevelNames returns the names of all levels, rostral to caudal
func LevelNames() []string {
	names := make([]string, LevelCount)
	for i, entry := range levelTable {
		names[i] = entry.name
	}
	return names
}

// OrdinalOf returns the ordinal of a level name. Lookup is case-insensitive.
func OrdinalOf(name string) (int, bool) {
	i, ok := levelIndex[strings.ToUpper(strings.TrimSpace(name))]
	return i, ok
}

// NameOf returns the canonical name of the level at ordinal i
func NameOf(i int) string {
	if i < 0 || i >= LevelCount {
		return ""
	}
	return levelTable[i].name
}

// IsKeyMuscleOrdinal reports whether the level at ordinal i is one of the ten key muscles
func IsKeyMuscleOrdinal(i int) bool {
	return i >= 0 && i < LevelCount && levelTable[i].keyMuscle
}

// IsLowerMuscleOrdinal reports whether ordinal i is a lower-limb key muscle (L2..S1)
func IsLowerMuscleOrdinal(i int) bool {
	return i >= ordinalL2 && i <= ordinalS1
}

// Side selects the right or left half of an exam
type Side int

const (
	Right Side = iota
	Left
)

// String returns the side name
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// ParseSide parses "right"/"left" (or "r"/"l") case-insensitively
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "r":
		return Right, nil
	case "left", "l":
		return Left, nil
	}
	return Right, fmt.Errorf("unknown side %q", s)
}

var sides = [2]Side{Right, Left}

// SideValues holds the three scores recorded for one side of a level
type SideValues struct {
	Touch Score
	Prick Score
	Motor Score

	// HasOtherMotorFunction is set when this level is the designated lowest
	// non-key muscle with motor function for this side.
	HasOtherMotorFunction bool
}

// Level is one dermatome/myotome of the exam
type Level struct {
	Name          string
	Ordinal       int
	IsKeyMuscle   bool
	IsLowerMuscle bool

	sides [2]SideValues
}

// Side returns the values recorded on one side
func (l *Level) Side(s Side) SideValues {
	return l.sides[s]
}

// Right returns the right-side values
func (l *Level) Right() SideValues { return l.sides[Right] }

// Left returns the left-side values
func (l *Level) Left() SideValues { return l.sides[Left] }

// chain is the fixed, array-backed sequence of levels. Previous and next are
// ordinal-1 and ordinal+1.
type chain [LevelCount]Level

func newChain() chain {
	var c chain
	for i, entry := range levelTable {
		c[i] = Level{
			Name:          entry.name,
			Ordinal:       i,
			IsKeyMuscle:   entry.keyMuscle,
			IsLowerMuscle: IsLowerMuscleOrdinal(i),
		}
		normal := SideValues{
			Touch: normalScore(NormalSensoryValue),
			Prick: normalScore(NormalSensoryValue),
			Motor: normalScore(NormalMotorValue),
		}
		c[i].sides = [2]SideValues{normal, normal}
	}
	return c
}

// previous returns the level rostral to l, or nil for C1
func (c *chain) previous(l *Level) *Level {
	if l.Ordinal <= ordinalC1 {
		return nil
	}
	return &c[l.Ordinal-1]
}

// next returns the level caudal to l, or nil for S4_5
func (c *chain) next(l *Level) *Level {
	if l.Ordinal >= ordinalS4_5 {
		return nil
	}
	return &c[l.Ordinal+1]
}
