// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package history

import (
	"sort"
	"sync"

	"github.com/go-dds/rtps/guid"
	"github.com/go-dds/rtps/rtpstypes"
)

// HistoryCache is the ordered collection of CacheChanges a writer or reader
// endpoint holds. It is guarded by a single reader/writer lock: iteration and
// min/max queries take the shared side, add/remove take the exclusive side.
// A writer-side cache is used with a single WriterGuid; a reader-side cache
// holds changes from every matched Writer Proxy and keys them independently
// per writer GUID, so duplicate (writer, sn) pairs across different writers
// never collide.
type HistoryCache struct {
	mu sync.RWMutex

	// changesByWriter holds each writer's changes sorted ascending by
	// SequenceNumber.
	changesByWriter map[guid.Guid][]*CacheChange

	// MaxSamples is the KEEP_ALL/KEEP_LAST resource limit; 0 means unlimited.
	// AddChange silently drops the new change once the limit is reached.
	MaxSamples int

	count int
}

func NewHistoryCache(maxSamples int) *HistoryCache {
	return &HistoryCache{
		changesByWriter: make(map[guid.Guid][]*CacheChange),
		MaxSamples:      maxSamples,
	}
}

// AddChange inserts change. It is a no-op, returning false, if a change with
// the same (writer GUID, sequence number) already exists -- required for
// idempotent retransmission handling on the reader side -- or if MaxSamples
// would be exceeded.
func (h *HistoryCache) AddChange(change *CacheChange) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.changesByWriter[change.WriterGuid]
	idx := sort.Search(len(list), func(i int) bool {
		return list[i].SequenceNumber >= change.SequenceNumber
	})
	if idx < len(list) && list[idx].SequenceNumber == change.SequenceNumber {
		return false
	}
	if h.MaxSamples > 0 && h.count >= h.MaxSamples {
		return false
	}

	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = change
	h.changesByWriter[change.WriterGuid] = list
	h.count++
	return true
}

// RemoveChange removes every change satisfying predicate and reports how many
// were removed.
func (h *HistoryCache) RemoveChange(predicate func(*CacheChange) bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for writerGuid, list := range h.changesByWriter {
		kept := list[:0]
		for _, c := range list {
			if predicate(c) {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(h.changesByWriter, writerGuid)
		} else {
			h.changesByWriter[writerGuid] = kept
		}
	}
	h.count -= removed
	return removed
}

// GetSeqNumMin returns the smallest sequence number held for writerGuid.
func (h *HistoryCache) GetSeqNumMin(writerGuid guid.Guid) (rtpstypes.SequenceNumber, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.changesByWriter[writerGuid]
	if len(list) == 0 {
		return 0, false
	}
	return list[0].SequenceNumber, true
}

// GetSeqNumMax returns the largest sequence number held for writerGuid.
func (h *HistoryCache) GetSeqNumMax(writerGuid guid.Guid) (rtpstypes.SequenceNumber, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.changesByWriter[writerGuid]
	if len(list) == 0 {
		return 0, false
	}
	return list[len(list)-1].SequenceNumber, true
}

// ChangesForWriter returns writerGuid's changes in sequence-number order. The
// returned slice is a snapshot copy, safe to range over without holding the
// lock.
func (h *HistoryCache) ChangesForWriter(writerGuid guid.Guid) []*CacheChange {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.changesByWriter[writerGuid]
	out := make([]*CacheChange, len(list))
	copy(out, list)
	return out
}

// Changes returns every change currently held, grouped by writer and ordered
// by sequence number within each writer group.
func (h *HistoryCache) Changes() []*CacheChange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	writers := make([]guid.Guid, 0, len(h.changesByWriter))
	for w := range h.changesByWriter {
		writers = append(writers, w)
	}
	sort.Slice(writers, func(i, j int) bool { return writers[i].String() < writers[j].String() })

	out := make([]*CacheChange, 0, h.count)
	for _, w := range writers {
		out = append(out, h.changesByWriter[w]...)
	}
	return out
}

// Len reports the total number of changes currently held.
func (h *HistoryCache) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// HasChange reports whether a change for (writerGuid, sn) is present.
func (h *HistoryCache) HasChange(writerGuid guid.Guid, sn rtpstypes.SequenceNumber) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.changesByWriter[writerGuid]
	idx := sort.Search(len(list), func(i int) bool { return list[i].SequenceNumber >= sn })
	return idx < len(list) && list[idx].SequenceNumber == sn
}
