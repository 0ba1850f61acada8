// Copyright 2018 The Cayley Authors. All rights reserved.
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

// Package elastic writes indexing instructions to an Elasticsearch
// cluster in bulk.
package elastic

import (
	"context"
	"fmt"

	"gopkg.in/olivere/elastic.v5"

	"github.com/skolemgraph/skolem/config"
	"github.com/skolemgraph/skolem/indexer"
)

// Dial connects a client to the cluster named in the configuration.
func Dial(cfg config.ElasticConfig) (*elastic.Client, error) {
	addrs := cfg.Addresses
	if len(addrs) == 0 {
		addrs = []string{elastic.DefaultURL}
	}
	return elastic.NewClient(elastic.SetURL(addrs...))
}

// DeleteIndex drops an index. A missing index is not an error, so a
// reload starts from scratch whether or not a previous load ran.
func DeleteIndex(ctx context.Context, cli *elastic.Client, index string) error {
	_, err := cli.DeleteIndex(index).Do(ctx)
	if e, ok := err.(*elastic.Error); ok && e.Status == 404 {
		return nil
	}
	return err
}

// EnsureIndex creates an index unless it already exists. A non-empty
// settings string is passed through verbatim as the creation body.
func EnsureIndex(ctx context.Context, cli *elastic.Client, index, settings string) error {
	exists, err := cli.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	create := cli.CreateIndex(index)
	if settings != "" {
		create = create.BodyString(settings)
	}
	_, err = create.Do(ctx)
	return err
}

// Refresh makes everything written so far visible to search.
func Refresh(ctx context.Context, cli *elastic.Client, index string) error {
	_, err := cli.Refresh(index).Do(ctx)
	return err
}

// Writer buffers instructions and sends them as bulk requests. It
// implements indexer.Sink. A full buffer is flushed before the next
// write is accepted; nothing leaves the buffer otherwise until Flush.
type Writer struct {
	cli   *elastic.Client
	batch int
	buf   []elastic.BulkableRequest
}

func NewWriter(cli *elastic.Client, batch int) *Writer {
	if batch <= 0 {
		batch = config.DefaultBatch
	}
	return &Writer{cli: cli, batch: batch}
}

func (w *Writer) Write(ctx context.Context, in indexer.Instruction) error {
	if len(w.buf) >= w.batch {
		if err := w.Flush(ctx); err != nil {
			return err
		}
	}
	ref := in.Ref()
	switch in := in.(type) {
	case indexer.Replace:
		w.buf = append(w.buf, elastic.NewBulkIndexRequest().
			Index(ref.Index).Type(ref.Type).Id(ref.ID).
			Doc(in.Doc))
	case indexer.Upsert:
		script := elastic.NewScript(in.Script).Params(in.Params)
		w.buf = append(w.buf, elastic.NewBulkUpdateRequest().
			Index(ref.Index).Type(ref.Type).Id(ref.ID).
			Script(script).Upsert(in.Doc))
	default:
		return fmt.Errorf("unsupported instruction %T", in)
	}
	return nil
}

// Flush sends the buffered requests as one bulk call. The first item
// the cluster rejects fails the flush; the buffer is kept so the error
// is not silently dropped on retry.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	resp, err := w.cli.Bulk().Add(w.buf...).Do(ctx)
	if err != nil {
		return err
	}
	if resp.Errors {
		if failed := resp.Failed(); len(failed) > 0 {
			it := failed[0]
			reason := ""
			if it.Error != nil {
				reason = it.Error.Reason
			}
			return fmt.Errorf("bulk write: %d items failed, first %s/%s/%s: %s",
				len(failed), it.Index, it.Type, it.Id, reason)
		}
	}
	w.buf = w.buf[:0]
	return nil
}
