package team

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is a single outcome and its probability mass within a distribution.
type Entry struct {
	Outcome string
	Prob    float64
}

// Distribution is an ordered probability distribution over named outcomes.
// Entry order matters: outcome sampling walks entries in insertion order,
// so the order found in the source document is preserved through both the
// YAML and JSON codecs.
type Distribution []Entry

// Get returns the probability for an outcome.
func (d Distribution) Get(outcome string) (float64, bool) {
	for _, e := range d {
		if e.Outcome == outcome {
			return e.Prob, true
		}
	}
	return 0, false
}

// Set updates the probability for an outcome, appending it if absent.
func (d *Distribution) Set(outcome string, prob float64) {
	for i := range *d {
		if (*d)[i].Outcome == outcome {
			(*d)[i].Prob = prob
			return
		}
	}
	*d = append(*d, Entry{Outcome: outcome, Prob: prob})
}

// Sum returns the total probability mass.
func (d Distribution) Sum() float64 {
	total := 0.0
	for _, e := range d {
		total += e.Prob
	}
	return total
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	copy(out, d)
	return out
}

func (d *Distribution) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("probability distribution must be a mapping, got %s", value.Tag)
	}
	out := make(Distribution, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		var prob float64
		if err := valNode.Decode(&prob); err != nil {
			return fmt.Errorf("probability for %q must be a number: %w", keyNode.Value, err)
		}
		out = append(out, Entry{Outcome: keyNode.Value, Prob: prob})
	}
	*d = out
	return nil
}

func (d Distribution) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d {
		var key, val yaml.Node
		key.SetString(e.Outcome)
		if err := val.Encode(e.Prob); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("probability distribution must be a JSON object")
	}
	var out Distribution
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("probability for %q must be a number", key)
		}
		prob, err := num.Float64()
		if err != nil {
			return err
		}
		out = append(out, Entry{Outcome: key, Prob: prob})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Outcome)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Prob)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ConditionRow is one condition key and its distribution within a
// conditional probability table.
type ConditionRow struct {
	Condition string
	Dist      Distribution
}

// ConditionalTable is an ordered conditional probability table: a sequence
// of condition keys, each mapping to a distribution over outcomes.
type ConditionalTable []ConditionRow

// Get returns the distribution for a condition key.
func (t ConditionalTable) Get(condition string) (Distribution, bool) {
	for _, row := range t {
		if row.Condition == condition {
			return row.Dist, true
		}
	}
	return nil, false
}

// Set replaces the distribution for a condition key, appending if absent.
func (t *ConditionalTable) Set(condition string, dist Distribution) {
	for i := range *t {
		if (*t)[i].Condition == condition {
			(*t)[i].Dist = dist
			return
		}
	}
	*t = append(*t, ConditionRow{Condition: condition, Dist: dist})
}

// Clone returns a deep copy.
func (t ConditionalTable) Clone() ConditionalTable {
	out := make(ConditionalTable, len(t))
	for i, row := range t {
		out[i] = ConditionRow{Condition: row.Condition, Dist: row.Dist.Clone()}
	}
	return out
}

func (t *ConditionalTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("conditional table must be a mapping, got %s", value.Tag)
	}
	out := make(ConditionalTable, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		var dist Distribution
		if err := valNode.Decode(&dist); err != nil {
			return fmt.Errorf("condition %q: %w", keyNode.Value, err)
		}
		out = append(out, ConditionRow{Condition: keyNode.Value, Dist: dist})
	}
	*t = out
	return nil
}

func (t ConditionalTable) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, row := range t {
		var key yaml.Node
		key.SetString(row.Condition)
		val, err := row.Dist.MarshalYAML()
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, val.(*yaml.Node))
	}
	return node, nil
}

func (t *ConditionalTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("conditional table must be a JSON object")
	}
	var out ConditionalTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var dist Distribution
		if err := dist.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("condition %q: %w", key, err)
		}
		out = append(out, ConditionRow{Condition: key, Dist: dist})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

func (t ConditionalTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Condition)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := row.Dist.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
