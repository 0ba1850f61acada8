package indexer

import (
	"fmt"
	"strings"

	"github.com/pborman/uuid"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/config"
)

// Reserved query variable names: the entity itself, its dynamically
// matched type and the subclass it was selected through.
const (
	idVar       = "id"
	typeVar     = "type"
	subClassVar = "subClass"
)

func reservedVar(name string) bool {
	return name == idVar || name == typeVar || name == subClassVar
}

// Property is one fully resolved selector: the SPARQL property path it
// follows, the query variable it binds and the document key it writes.
type Property struct {
	SPARQL   string
	Variable string
	Key      string
	Required bool
}

// resolveProperty normalizes one configured property. Shorthand
// properties derive their variable and key from the qualified name;
// detailed ones carry all three explicitly. taken holds the variables
// claimed so far.
func resolveProperty(cfg *config.Config, p config.Property, taken map[string]bool) (Property, error) {
	var rp Property
	if p.Shorthand() {
		v, err := shortVariable(cfg, p.SPARQL, taken)
		if err != nil {
			return Property{}, err
		}
		rp = Property{SPARQL: p.SPARQL, Variable: v, Key: v, Required: p.Required}
	} else {
		if reservedVar(p.Variable) {
			return Property{}, fmt.Errorf("property variable %q is reserved", p.Variable)
		}
		rp = Property{SPARQL: p.SPARQL, Variable: p.Variable, Key: p.JSONLD, Required: p.Required}
	}
	if taken[rp.Variable] {
		return Property{}, fmt.Errorf("duplicate property name %s", rp.Variable)
	}
	return rp, nil
}

// shortVariable derives the query variable for a shorthand property from
// the last segment of its qualified name. When that segment is already
// claimed or reserved, a uuid5 of the expanded property URI is used
// instead.
func shortVariable(cfg *config.Config, name string, taken map[string]bool) (string, error) {
	short := name[strings.LastIndex(name, ":")+1:]
	if !taken[short] && !reservedVar(short) {
		return short, nil
	}
	full, err := cfg.ExpandQName(name)
	if err != nil {
		return "", err
	}
	u := strings.Replace(uuid.NewSHA1(uuid.NameSpace_URL, []byte(full)).String(), "-", "", -1)
	clog.Warningf("non-unique short-name for %s, falling back to %s", name, u)
	return u, nil
}
