package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/frololego/Prikoliga/internal/api/respond"
	"github.com/frololego/Prikoliga/internal/cache"
	"github.com/frololego/Prikoliga/internal/fixture"
)

const matchesCacheKey = "matches:grouped"

// GetMatches serves the catalog grouped by kickoff day. The grouped view only
// changes on import, so it is cached with an ETag.
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	if data, etag, ok := h.deps.Cache.Get(matchesCacheKey); ok {
		if r.Header.Get("If-None-Match") == etag {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLMatches, true)
		return
	}

	matches, err := h.deps.Catalog.List(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	grouped := fixture.GroupByDay(matches, time.UTC)
	data, err := json.Marshal(grouped)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	etag := h.deps.Cache.Set(matchesCacheKey, data, cache.TTLMatches)
	if r.Header.Get("If-None-Match") == etag {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLMatches, false)
}

// GetLeagues serves the fixed competition registry.
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, fixture.Leagues)
}
