package shaderparts

import (
	"strconv"
	"strings"
)

// Stage is a programmable pipeline stage a snippet can target.
type Stage uint8

const (
	// StageVertex is the vertex shader stage.
	StageVertex Stage = iota + 1
	// StageFragment is the fragment shader stage.
	StageFragment
)

// Stages lists every stage in emission order.
var Stages = [...]Stage{StageVertex, StageFragment}

// String returns the stage name used in snippet keys.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s == StageVertex || s == StageFragment
}

// ParseStage parses "vertex" or "fragment".
func ParseStage(name string) (Stage, bool) {
	switch name {
	case "vertex":
		return StageVertex, true
	case "fragment":
		return StageFragment, true
	default:
		return 0, false
	}
}

// Snippet is a piece of code placed into one stage's main function.
// Lower priorities are emitted first.
type Snippet struct {
	Stage    Stage
	Priority int
	Code     string
}

// ParseSnippetKey splits a key of the form "<stage>_<priority>", for
// example "vertex_100" or "fragment_-5".
//
// The returned error is an *InvalidPartDefinitionError with Part unset.
func ParseSnippetKey(key string) (Stage, int, error) {
	name, num, found := strings.Cut(key, "_")
	if !found || num == "" {
		return 0, 0, &InvalidPartDefinitionError{Key: key, Reason: "want <stage>_<priority>"}
	}
	stage, ok := ParseStage(name)
	if !ok {
		return 0, 0, &InvalidPartDefinitionError{Key: key, Reason: "unknown stage " + strconv.Quote(name)}
	}
	priority, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, &InvalidPartDefinitionError{Key: key, Reason: "priority is not an integer"}
	}
	return stage, priority, nil
}
