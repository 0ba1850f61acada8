// Copyright 2016 The Cayley Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config defines the indexing configuration file format.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Defaults for optional configuration values.
const (
	DefaultTimeout = 60 * time.Second
	DefaultBatch   = 100
	DefaultWindow  = 1000
)

// Subclass expansion modes.
const (
	SubclassesDirect     = "direct"
	SubclassesTransitive = "transitive"

	// accepted as an alias of "transitive", kept from older config files
	subclassesOWL = "owl"
)

// Config is the root of the indexing configuration.
type Config struct {
	Prefixes         map[string]string      `mapstructure:"prefixes"`
	SPARQL           SPARQLConfig           `mapstructure:"sparql"`
	Elastic          ElasticConfig          `mapstructure:"elasticsearch"`
	CommonProperties []Property             `mapstructure:"common_properties"`
	Indexes          map[string]IndexConfig `mapstructure:"indexes"`
}

// SPARQLConfig describes the query endpoint.
type SPARQLConfig struct {
	URI     string        `mapstructure:"uri"`
	Timeout time.Duration `mapstructure:"timeout"`
	Limit   int           `mapstructure:"limit"`
}

// ElasticConfig describes the target Elasticsearch cluster. Settings, when
// present, is raw JSON passed to index creation.
type ElasticConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Settings  string   `mapstructure:"settings"`
	Batch     int      `mapstructure:"batch"`
	Window    int      `mapstructure:"window"`
}

// IndexConfig maps a document type name to its entity configuration.
type IndexConfig map[string]TypeConfig

// TypeConfig describes how entities of one document type are selected.
type TypeConfig struct {
	Type       string     `mapstructure:"type"`
	Subclasses string     `mapstructure:"subclasses"`
	Graph      string     `mapstructure:"graph"`
	Properties []Property `mapstructure:"properties"`
}

// ExpandSubclasses reports whether entities typed as a subclass of Type
// should be selected too.
func (tc TypeConfig) ExpandSubclasses() bool { return tc.Subclasses != "" }

// TransitiveSubclasses reports whether subclass expansion follows the
// subclass relation transitively instead of one level deep.
func (tc TypeConfig) TransitiveSubclasses() bool {
	return tc.Subclasses == SubclassesTransitive || tc.Subclasses == subclassesOWL
}

// Property selects one value of an entity for indexing. A property is
// written either in shorthand form, a single qualified name used as the
// SPARQL property path, result variable and document key at once, or in
// detailed form with the three given explicitly.
type Property struct {
	SPARQL   string `mapstructure:"sparql"`
	Variable string `mapstructure:"variable"`
	JSONLD   string `mapstructure:"jsonld"`
	Required bool   `mapstructure:"required"`
}

// Shorthand reports whether the property was written in shorthand form.
func (p Property) Shorthand() bool { return p.Variable == "" && p.JSONLD == "" }

// Load reads and parses the configuration file at the given path.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetDefault("sparql.timeout", DefaultTimeout)
	v.SetDefault("elasticsearch.addresses", []string{"http://127.0.0.1:9200"})
	v.SetDefault("elasticsearch.batch", DefaultBatch)
	v.SetDefault("elasticsearch.window", DefaultWindow)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config %q: %v", file, err)
	}
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		shorthandPropertyHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("cannot parse config %q: %v", file, err)
	}
	return &c, nil
}

// shorthandPropertyHook turns a bare string in a property list into a
// shorthand Property.
func shorthandPropertyHook(f, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String || t != reflect.TypeOf(Property{}) {
		return data, nil
	}
	return map[string]interface{}{"sparql": data}, nil
}

// ExpandQName resolves a prefixed name like "dct:title" against the
// configured prefixes.
func (c *Config) ExpandQName(name string) (string, error) {
	i := strings.Index(name, ":")
	if i < 0 {
		return "", fmt.Errorf("invalid property, no prefix: %s", name)
	}
	base, ok := c.Prefixes[name[:i]]
	if !ok {
		return "", fmt.Errorf("unknown prefix: %s", name[:i])
	}
	return base + name[i+1:], nil
}
