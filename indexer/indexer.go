// Package indexer projects SPARQL result rows into denormalized
// documents and reconciles rows that describe the same entity into a
// stream of write instructions for a bulk sink.
package indexer

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/config"
	"github.com/skolemgraph/skolem/internal/window"
	"github.com/skolemgraph/skolem/sparql"
)

// reportEvery is how many rows pass between throughput reports.
const reportEvery = 1200

// Rows is a lazily pulled stream of result rows, usually
// *sparql.Results.
type Rows interface {
	Next(ctx context.Context) bool
	Binding() sparql.Binding
	Err() error
	Close() error
}

// Sink consumes write instructions. Batching is the sink's concern; the
// first write error fails the run.
type Sink interface {
	Write(ctx context.Context, in Instruction) error
	Flush(ctx context.Context) error
}

// Ref addresses one document in the target store.
type Ref struct {
	Index string
	Type  string
	ID    string
}

// Instruction is one write decision for a single entity, either a
// Replace or an Upsert.
type Instruction interface {
	Ref() Ref
}

// Replace overwrites the stored document with Doc.
type Replace struct {
	Target Ref
	Doc    *Document
}

func (r Replace) Ref() Ref { return r.Target }

// Upsert appends newly seen values to the stored document by running
// Script with Params, and inserts Doc verbatim when the document does
// not exist server-side at all.
type Upsert struct {
	Target Ref
	Script string
	Params map[string]interface{}
	Doc    *Document
}

func (u Upsert) Ref() Ref { return u.Target }

// Indexer builds write instructions for one index and document type.
// Repeated sightings of an entity are merged locally while its document
// remains in a bounded window of recently built documents; sightings of
// an evicted entity degrade to a server-side upsert.
//
// An Indexer is not safe for concurrent use. Each (index, type) run
// owns its window, blank node assignment and seen set.
type Indexer struct {
	index   string
	docType string
	cfg     *config.Config
	tc      config.TypeConfig

	props []Property // pattern emission order
	vars  []Property // projection order: props, then the subclass pseudo-property
	byVar map[string]Property
	byKey map[string]Property

	skolem *Skolemizer
	window *window.Cache
	seen   map[string]bool

	count     int
	start     time.Time
	lastCheck time.Time
}

// New builds an Indexer for one index and document type pair. It fails
// on configuration errors: an unknown pair, colliding property
// variables or an empty property list.
func New(cfg *config.Config, index, docType string) (*Indexer, error) {
	tc, ok := cfg.Indexes[index][docType]
	if !ok {
		return nil, fmt.Errorf("no configuration for %s %s", index, docType)
	}
	size := cfg.Elastic.Window
	if size <= 0 {
		size = config.DefaultWindow
	}
	ix := &Indexer{
		index:   index,
		docType: docType,
		cfg:     cfg,
		tc:      tc,
		byVar:   make(map[string]Property),
		byKey:   make(map[string]Property),
		skolem:  NewSkolemizer(),
		window:  window.New(size),
		seen:    make(map[string]bool),
	}

	var confProps []config.Property
	confProps = append(confProps, cfg.CommonProperties...)
	confProps = append(confProps, tc.Properties...)
	taken := make(map[string]bool)
	for _, p := range confProps {
		rp, err := resolveProperty(cfg, p, taken)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %v", index, docType, err)
		}
		taken[rp.Variable] = true
		ix.props = append(ix.props, rp)
		ix.byVar[rp.Variable] = rp
		ix.byKey[rp.Key] = rp
	}
	if len(ix.props) == 0 {
		return nil, fmt.Errorf("no properties configured for %s %s", index, docType)
	}
	sort.SliceStable(ix.props, func(i, j int) bool {
		return ix.props[i].Required && !ix.props[j].Required
	})
	ix.vars = append(ix.vars, ix.props...)

	if tc.ExpandSubclasses() {
		// The union branch binds ?subClass; it projects onto the
		// document like any property.
		sub := Property{Variable: subClassVar, Key: rdfs.SubClassOf}
		ix.byVar[sub.Variable] = sub
		ix.byKey[sub.Key] = sub
		ix.vars = append(ix.vars, sub)
	}
	ix.resetStats()
	return ix, nil
}

// Run drains rows into the sink, one instruction per row, preserving
// arrival order. The first row, stream or write error aborts the run.
// The caller owns both the rows and the sink.
func (ix *Indexer) Run(ctx context.Context, rows Rows, sink Sink) error {
	clog.Infof("index %s type %s", ix.index, ix.docType)
	ix.resetStats()
	for rows.Next(ctx) {
		in, err := ix.Project(rows.Binding())
		if err != nil {
			return err
		}
		if err := sink.Write(ctx, in); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := sink.Flush(ctx); err != nil {
		return err
	}
	ix.reportStats()
	return nil
}

// Project converts one row into a write instruction.
func (ix *Indexer) Project(b sparql.Binding) (Instruction, error) {
	ix.count++
	if ix.count%reportEvery == 0 {
		ix.reportStats()
	}
	mRows.Inc()

	id, err := ix.entityKey(b)
	if err != nil {
		return nil, err
	}

	doc := NewDocument(id)
	params := make(map[string]interface{})
	if ix.tc.Type != "" {
		doc.Types = append(doc.Types, ix.tc.Type)
	}
	if tv := b[typeVar]; tv != nil && tv.Value != nil {
		text := sparql.Text(tv.Value)
		doc.Types = append(doc.Types, text)
		params["__type"] = text
	}

	for name := range b {
		if name == idVar || name == typeVar {
			continue
		}
		if _, ok := ix.byVar[name]; !ok {
			return nil, fmt.Errorf("row binds unknown variable ?%s", name)
		}
	}
	// Bindings apply in the query's variable order, not map order.
	for _, p := range ix.vars {
		val, bound := b[p.Variable]
		if !bound {
			continue
		}
		if val == nil || val.Value == nil {
			// A null binding is an observable absence.
			params[p.Variable] = nil
			doc.Props[p.Key] = []string{}
			continue
		}
		text := sparql.Text(val.Value)
		params[p.Variable] = text
		doc.Props[p.Key] = []string{text}
	}

	target := Ref{Index: ix.index, Type: ix.docType, ID: id}

	if !ix.seen[id] {
		ix.seen[id] = true
		ix.window.Put(id, doc)
		if clog.V(2) {
			clog.Infof("new entity %s", id)
		}
		mReplaces.Inc()
		return Replace{Target: target, Doc: doc}, nil
	}

	if cached, ok := ix.window.Get(id); ok {
		if clog.V(2) {
			clog.Infof("window hit %s", id)
		}
		mWindowHits.Inc()
		mMerges.Inc()
		merged := Merge(cached.(*Document), doc)
		ix.window.Put(id, merged)
		mReplaces.Inc()
		return Replace{Target: target, Doc: merged}, nil
	}

	// The entity was emitted before but fell out of the window, so the
	// stored document is merged server-side instead. The partial
	// document must not enter the window.
	if clog.V(2) {
		clog.Infof("window miss %s", id)
	}
	mWindowMisses.Inc()
	script, err := ix.scriptFor(doc)
	if err != nil {
		return nil, err
	}
	mUpserts.Inc()
	return Upsert{Target: target, Script: script, Params: params, Doc: doc}, nil
}

// entityKey normalizes the identifier binding: a percent-decoded IRI,
// or a synthetic identifier for anything else.
func (ix *Indexer) entityKey(b sparql.Binding) (string, error) {
	v := b[idVar]
	if v == nil || v.Value == nil {
		return "", fmt.Errorf("row has no ?%s binding", idVar)
	}
	if iri, ok := v.Value.(quad.IRI); ok {
		return unescape(string(iri)), nil
	}
	return ix.skolem.Resolve(sparql.Text(v.Value)), nil
}

// unescape percent-decodes an IRI. Parsing per RFC 3987 is out of
// scope; malformed escapes keep their raw form.
func unescape(iri string) string {
	u, err := url.PathUnescape(iri)
	if err != nil {
		return iri
	}
	return u
}

func (ix *Indexer) resetStats() {
	ix.count = 0
	ix.start = time.Now()
	ix.lastCheck = ix.start
}

func (ix *Indexer) reportStats() {
	now := time.Now()
	speed := reportEvery / now.Sub(ix.lastCheck).Seconds()
	avg := float64(ix.count) / now.Sub(ix.start).Seconds()
	clog.Infof("n=%d, speed=%.1f/sec, avgSpeed=%.1f/sec", ix.count, speed, avg)
	ix.lastCheck = now
}
