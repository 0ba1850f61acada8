// Package sparql implements a client for SPARQL protocol endpoints,
// streaming SELECT results in the SPARQL 1.1 Query Results JSON Format.
package sparql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skolemgraph/skolem/clog"
)

// Accept is sent on every query request. Endpoints that do not know the
// SPARQL results media type may still answer with plain JSON.
const Accept = "application/sparql-results+json, application/json;q=0.1"

const defaultTimeout = 60 * time.Second

// Client issues SELECT queries against a single endpoint.
type Client struct {
	URI     string
	Timeout time.Duration
	HTTP    *http.Client
}

func NewClient(uri string, timeout time.Duration) *Client {
	return &Client{URI: uri, Timeout: timeout, HTTP: http.DefaultClient}
}

// QueryURL returns the GET URL for the given query text. The endpoint
// timeout is passed along as a query parameter, in milliseconds.
func (c *Client) QueryURL(query string) (string, error) {
	u, err := url.Parse(c.URI)
	if err != nil {
		return "", fmt.Errorf("sparql: invalid endpoint %q: %v", c.URI, err)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	vals := make(url.Values)
	vals.Set("query", query)
	vals.Set("timeout", strconv.FormatInt(int64(timeout/time.Millisecond), 10))
	u.RawQuery = vals.Encode()
	return u.String(), nil
}

// Select runs a SELECT query. Rows are decoded from the response body as
// the returned iterator advances; the caller must close it.
func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	addr, err := c.QueryURL(query)
	if err != nil {
		return nil, err
	}
	if clog.V(2) {
		clog.Infof("querying %s", addr)
	}
	req, err := http.NewRequest("GET", addr, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", Accept)
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("sparql: endpoint returned %v: %s", resp.Status, bytes.TrimSpace(body))
	}
	return newResults(resp.Body), nil
}

// Results iterates over the rows of one SELECT response. The enclosing
// JSON envelope is only consumed as far as iteration advances, so large
// result sets are never held in memory at once.
type Results struct {
	rc  io.ReadCloser
	dec *json.Decoder

	vars    []string
	cur     Binding
	err     error
	started bool
	done    bool
}

func newResults(rc io.ReadCloser) *Results {
	return &Results{rc: rc, dec: json.NewDecoder(rc)}
}

// Next advances to the next result row.
func (r *Results) Next(ctx context.Context) bool {
	if r.err != nil || r.done {
		return false
	}
	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}
	if !r.started {
		r.started = true
		if err := r.seekBindings(); err != nil {
			r.err = err
			return false
		}
	}
	if !r.dec.More() {
		r.done = true
		return false
	}
	var b Binding
	if err := r.dec.Decode(&b); err != nil {
		r.err = err
		return false
	}
	r.cur = b
	return true
}

// Binding returns the current row. It is only valid until the next call
// to Next.
func (r *Results) Binding() Binding { return r.cur }

// Vars returns the variable names announced in the results header, when
// the header preceded the bindings.
func (r *Results) Vars() []string { return r.vars }

func (r *Results) Err() error { return r.err }

func (r *Results) Close() error { return r.rc.Close() }

// seekBindings walks the envelope up to the first element of
// results.bindings, collecting head.vars on the way.
func (r *Results) seekBindings() error {
	if err := r.expectDelim('{'); err != nil {
		return err
	}
	for r.dec.More() {
		key, err := r.stringToken()
		if err != nil {
			return err
		}
		switch key {
		case "head":
			var head struct {
				Vars []string `json:"vars"`
			}
			if err := r.dec.Decode(&head); err != nil {
				return err
			}
			r.vars = head.Vars
		case "results":
			if err := r.expectDelim('{'); err != nil {
				return err
			}
			for r.dec.More() {
				key, err := r.stringToken()
				if err != nil {
					return err
				}
				if key == "bindings" {
					return r.expectDelim('[')
				}
				if err := r.skipValue(); err != nil {
					return err
				}
			}
			return fmt.Errorf("sparql: results object has no bindings")
		default:
			if err := r.skipValue(); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("sparql: response has no results")
}

func (r *Results) expectDelim(d json.Delim) error {
	tok, err := r.dec.Token()
	if err != nil {
		return err
	}
	if tok != d {
		return fmt.Errorf("sparql: expected %v, got %v", d, tok)
	}
	return nil
}

func (r *Results) stringToken() (string, error) {
	tok, err := r.dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("sparql: expected object key, got %v", tok)
	}
	return s, nil
}

func (r *Results) skipValue() error {
	var raw json.RawMessage
	return r.dec.Decode(&raw)
}
