package handlers

import (
	"net/http"
)

// ClaimNext handles POST /internal/queue/claim.
// It is called by out-of-process workers. The claim is atomic; an empty
// queue yields 204 rather than an error.
func (h *Handlers) ClaimNext(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.ClaimNext(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	if job == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.respondJson(w, http.StatusOK, toJobResponse(job))
}
