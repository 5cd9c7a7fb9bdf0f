package handler

import (
	"net/http"

	"github.com/mcoot/neontetris/internal/api/response"
	"github.com/mcoot/neontetris/internal/services/game"
)

// SnapshotHandler handles saved-game endpoints
type SnapshotHandler struct {
	controller game.ControllerInterface
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(controller game.ControllerInterface) *SnapshotHandler {
	return &SnapshotHandler{controller: controller}
}

// List handles GET /api/v1/snapshots
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.controller.ListSnapshots(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SnapshotListFromModel(ids))
}

// Restore handles POST /api/v1/snapshots/{id}/restore
// The restored session keeps the saved id and starts paused.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	status, err := h.controller.RestoreSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SessionFromModel(id, status))
}

// Delete handles DELETE /api/v1/snapshots/{id}
func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteSnapshot(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
