package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_rows_count",
		Help: "Number of result rows processed.",
	})
	mReplaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_replace_count",
		Help: "Number of full document writes emitted.",
	})
	mMerges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_merge_count",
		Help: "Number of rows merged with a document still in the window.",
	})
	mUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_upsert_count",
		Help: "Number of scripted upserts emitted for evicted entities.",
	})
	mWindowHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_window_hits",
		Help: "Number of repeat sightings found in the window.",
	})
	mWindowMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_window_miss",
		Help: "Number of repeat sightings already evicted from the window.",
	})
	mBlankNodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skolem_index_blank_nodes_count",
		Help: "Number of distinct blank nodes assigned an identifier.",
	})
)
