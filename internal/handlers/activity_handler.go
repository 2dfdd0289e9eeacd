package handlers

import (
	"net/http"
	"strconv"

	"crm-backend/internal/models"
	"crm-backend/internal/services"
	"crm-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ActivityHandler struct {
	Recorder *services.Recorder
	Feed     *services.FeedService
}

func NewActivityHandler(recorder *services.Recorder, feed *services.FeedService) *ActivityHandler {
	return &ActivityHandler{Recorder: recorder, Feed: feed}
}

// ListEntityActivities serves one entity's timeline, newest first.
func (h *ActivityHandler) ListEntityActivities(w http.ResponseWriter, r *http.Request) {
	kind := models.EntityKind(mux.Vars(r)["kind"])
	if !models.ValidEntityKind(kind) {
		utils.JSONError(w, http.StatusBadRequest, "invalid_entity_kind")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_entity_id")
		return
	}

	limit, offset := pagination(r, 20)
	activities, total, err := h.Recorder.ListByEntity(r.Context(), kind, id, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"items": activities, "total": total, "limit": limit, "offset": offset,
	})
}

// GetFeed serves the merged global feed. Query params: page, page_size and
// an optional kind filter.
func (h *ActivityHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	var kind *models.EntityKind
	if v := q.Get("kind"); v != "" {
		k := models.EntityKind(v)
		kind = &k
	}

	feed, err := h.Feed.GetFeed(r.Context(), page, pageSize, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, feed)
}
