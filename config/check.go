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

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skolemgraph/skolem/clog"
)

// Check validates the configuration before any run starts. Errors returned
// here are fatal; dubious but workable settings are logged as warnings.
func (c *Config) Check() error {
	if c.SPARQL.URI == "" {
		return fmt.Errorf("sparql.uri is not configured")
	}
	if err := c.checkPrefixes(); err != nil {
		return err
	}
	return c.checkRequiredProperties()
}

func (c *Config) checkPrefixes() error {
	for prefix, uri := range c.Prefixes {
		if !strings.HasSuffix(uri, "#") && !strings.HasSuffix(uri, "/") {
			clog.Warningf("prefix %s does not end with / or #: %s", prefix, uri)
		}
	}
	for _, p := range c.CommonProperties {
		if err := c.checkProperty(p); err != nil {
			return err
		}
	}
	for index, types := range c.Indexes {
		for docType, tc := range types {
			if tc.Type != "" {
				if err := c.checkQName(tc.Type); err != nil {
					return fmt.Errorf("%s %s: %v", index, docType, err)
				}
			}
			switch tc.Subclasses {
			case "", SubclassesDirect, SubclassesTransitive, subclassesOWL:
			default:
				return fmt.Errorf("%s %s: unknown subclasses mode %q", index, docType, tc.Subclasses)
			}
			for _, p := range tc.Properties {
				if err := c.checkProperty(p); err != nil {
					return fmt.Errorf("%s %s: %v", index, docType, err)
				}
			}
		}
	}
	return nil
}

func (c *Config) checkProperty(p Property) error {
	if p.Shorthand() {
		return c.checkQName(p.SPARQL)
	}
	if p.SPARQL == "" {
		return fmt.Errorf("'sparql' missing for %+v", p)
	}
	if p.Variable == "" {
		return fmt.Errorf("'variable' missing for %+v", p)
	}
	if p.JSONLD == "" {
		return fmt.Errorf("'jsonld' missing for %+v", p)
	}
	return nil
}

func (c *Config) checkQName(name string) error {
	full, err := c.ExpandQName(name)
	if err != nil {
		return err
	}
	if _, err := url.Parse(full); err != nil {
		return fmt.Errorf("%s does not expand to a valid URI: %v", name, err)
	}
	return nil
}

// checkRequiredProperties verifies that every index and type combination
// selects a bounded set of entities: either through a type constraint or
// through at least one required property. A required common property
// satisfies this for all of them.
func (c *Config) checkRequiredProperties() error {
	for _, p := range c.CommonProperties {
		if p.Required {
			return nil
		}
	}
	for index, types := range c.Indexes {
		for docType, tc := range types {
			if tc.Type != "" {
				continue
			}
			required := false
			for _, p := range tc.Properties {
				if p.Required {
					required = true
					break
				}
			}
			if !required {
				return fmt.Errorf("no type or property with required: true for %s %s", index, docType)
			}
		}
	}
	return nil
}
