package state

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed returns the sample records the dashboard starts with.
func Seed() (State, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes a YAML document with students, instructors, classes
// and payments sections into a State.
func ParseSeed(doc []byte) (State, error) {
	var s State
	if err := yaml.Unmarshal(doc, &s); err != nil {
		return State{}, fmt.Errorf("parse seed: %w", err)
	}
	for i := range s.Students {
		if s.Students[i].EnrolledClassIDs == nil {
			s.Students[i].EnrolledClassIDs = []string{}
		}
	}
	return s, nil
}
