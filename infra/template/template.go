// Package template renders the CloudFormation stack that hosts the training pipeline.
package template

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const formatVersion = "2010-09-09"

// Template is a CloudFormation document
type Template struct {
	AWSTemplateFormatVersion string               `yaml:"AWSTemplateFormatVersion" json:"AWSTemplateFormatVersion"`
	Description              string               `yaml:"Description,omitempty" json:"Description,omitempty"`
	Parameters               map[string]Parameter `yaml:"Parameters,omitempty" json:"Parameters,omitempty"`
	Resources                map[string]Resource  `yaml:"Resources" json:"Resources"`
	Outputs                  map[string]Output    `yaml:"Outputs,omitempty" json:"Outputs,omitempty"`
}

// Parameter is a stack input
type Parameter struct {
	Type          string   `yaml:"Type" json:"Type"`
	Description   string   `yaml:"Description,omitempty" json:"Description,omitempty"`
	Default       string   `yaml:"Default,omitempty" json:"Default,omitempty"`
	AllowedValues []string `yaml:"AllowedValues,omitempty" json:"AllowedValues,omitempty"`
}

// Resource is one stack resource
type Resource struct {
	Type       string                 `yaml:"Type" json:"Type"`
	DependsOn  []string               `yaml:"DependsOn,omitempty" json:"DependsOn,omitempty"`
	Properties map[string]interface{} `yaml:"Properties,omitempty" json:"Properties,omitempty"`
}

// Output is a stack output
type Output struct {
	Description string      `yaml:"Description,omitempty" json:"Description,omitempty"`
	Value       interface{} `yaml:"Value" json:"Value"`
}

// New returns an empty template
func New(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: formatVersion,
		Description:              description,
		Parameters:               map[string]Parameter{},
		Resources:                map[string]Resource{},
		Outputs:                  map[string]Output{},
	}
}

// AddResource registers a resource under a logical id
func (t *Template) AddResource(id string, r Resource) {
	t.Resources[id] = r
}

// AddParameter registers a parameter
func (t *Template) AddParameter(id string, p Parameter) {
	t.Parameters[id] = p
}

// AddOutput registers an output
func (t *Template) AddOutput(id string, o Output) {
	t.Outputs[id] = o
}

// Validate checks that every Ref and Fn::GetAtt names a declared resource or parameter.
func (t *Template) Validate() error {
	for id, r := range t.Resources {
		if err := t.checkRefs(r.Properties); err != nil {
			return fmt.Errorf("resource %s: %w", id, err)
		}
		for _, dep := range r.DependsOn {
			if _, ok := t.Resources[dep]; !ok {
				return fmt.Errorf("resource %s: depends on unknown resource %s", id, dep)
			}
		}
	}
	for id, o := range t.Outputs {
		if err := t.checkRefs(o.Value); err != nil {
			return fmt.Errorf("output %s: %w", id, err)
		}
	}
	return nil
}

func (t *Template) checkRefs(v interface{}) error {
	switch v := v.(type) {
	case map[string]interface{}:
		if name, ok := v["Ref"].(string); ok && len(v) == 1 {
			_, isResource := t.Resources[name]
			_, isParam := t.Parameters[name]
			if !isResource && !isParam && !isPseudoParameter(name) {
				return fmt.Errorf("Ref to unknown %s", name)
			}
		}
		if args, ok := v["Fn::GetAtt"].([]string); ok && len(args) == 2 {
			if _, found := t.Resources[args[0]]; !found {
				return fmt.Errorf("Fn::GetAtt on unknown resource %s", args[0])
			}
		}
		for _, child := range v {
			if err := t.checkRefs(child); err != nil {
				return err
			}
		}
	case []map[string]interface{}:
		for _, child := range v {
			if err := t.checkRefs(child); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, child := range v {
			if err := t.checkRefs(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func isPseudoParameter(name string) bool {
	switch name {
	case "AWS::AccountId", "AWS::Region", "AWS::StackName", "AWS::Partition":
		return true
	}
	return false
}

// YAML renders the template
func (t *Template) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// JSON renders the template
func (t *Template) JSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Ref refers to a resource or parameter
func Ref(name string) map[string]interface{} {
	return map[string]interface{}{"Ref": name}
}

// GetAtt reads an attribute of a resource
func GetAtt(resource, attribute string) map[string]interface{} {
	return map[string]interface{}{"Fn::GetAtt": []string{resource, attribute}}
}

// Join concatenates parts with sep
func Join(sep string, parts ...interface{}) map[string]interface{} {
	return map[string]interface{}{"Fn::Join": []interface{}{sep, parts}}
}
