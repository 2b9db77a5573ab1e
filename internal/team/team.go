package team

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Team holds a beach volleyball team's conditional probability tables.
// Serve is a flat distribution; the other five skills are keyed by a
// condition string describing the preceding touch ("excellent_reception",
// "power_attack", ...). Teams are treated as immutable value objects once
// constructed; analysis code clones before perturbing.
type Team struct {
	Name    string           `yaml:"name" json:"name"`
	Serve   Distribution     `yaml:"serve_probabilities" json:"serve_probabilities"`
	Receive ConditionalTable `yaml:"receive_probabilities" json:"receive_probabilities"`
	Set     ConditionalTable `yaml:"set_probabilities" json:"set_probabilities"`
	Attack  ConditionalTable `yaml:"attack_probabilities" json:"attack_probabilities"`
	Block   ConditionalTable `yaml:"block_probabilities" json:"block_probabilities"`
	Dig     ConditionalTable `yaml:"dig_probabilities" json:"dig_probabilities"`
}

// FromYAML deserializes a team definition. Partial definitions are allowed;
// see ApplyDefaults for filling missing sections from a template.
func FromYAML(data []byte) (*Team, error) {
	var t Team
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse team definition: %w", err)
	}
	return &t, nil
}

// LoadFile reads a team definition from a YAML file.
func LoadFile(path string) (*Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("team file not found: %w", err)
	}
	return FromYAML(data)
}

// ToYAML serializes the team, preserving distribution entry order.
func (t *Team) ToYAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// Clone returns a deep copy suitable for perturbation.
func (t *Team) Clone() *Team {
	return &Team{
		Name:    t.Name,
		Serve:   t.Serve.Clone(),
		Receive: t.Receive.Clone(),
		Set:     t.Set.Clone(),
		Attack:  t.Attack.Clone(),
		Block:   t.Block.Clone(),
		Dig:     t.Dig.Clone(),
	}
}

// ApplyDefaults fills any empty top-level section from the template team.
// Partial or diff-style team files layered over a baseline rely on this.
func (t *Team) ApplyDefaults(template *Team) {
	if t.Name == "" {
		t.Name = template.Name
	}
	if len(t.Serve) == 0 {
		t.Serve = template.Serve.Clone()
	}
	if len(t.Receive) == 0 {
		t.Receive = template.Receive.Clone()
	}
	if len(t.Set) == 0 {
		t.Set = template.Set.Clone()
	}
	if len(t.Attack) == 0 {
		t.Attack = template.Attack.Clone()
	}
	if len(t.Block) == 0 {
		t.Block = template.Block.Clone()
	}
	if len(t.Dig) == 0 {
		t.Dig = template.Dig.Clone()
	}
}
