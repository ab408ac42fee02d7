// Package scenario loads YAML feature files and runs their scenarios
// through a step registry.
package scenario

// Feature is one feature file: a named group of scenarios sharing a
// background.
type Feature struct {
	Name        string      `yaml:"feature"`
	Description string      `yaml:"description"`
	Tags        []string    `yaml:"tags"`
	Background  []string    `yaml:"background"`
	Scenarios   []*Scenario `yaml:"scenarios"`

	// Path is the file the feature was loaded from.
	Path string `yaml:"-"`
}

// Scenario is a list of step lines. When Examples is set the scenario is an
// outline: it runs once per row with <column> references substituted.
type Scenario struct {
	Name     string              `yaml:"name"`
	Tags     []string            `yaml:"tags"`
	Steps    []string            `yaml:"steps"`
	Examples []map[string]string `yaml:"examples"`
}
