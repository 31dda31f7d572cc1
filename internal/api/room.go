package api

import "net/http"

// --- GET /api/room ---

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	view, err := s.room.Inventory(studentID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load room failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// --- POST /api/room/purchase ---

type roomItemRequest struct {
	ItemKey string `json:"item_key" validate:"required"`
}

func (s *Server) handleRoomPurchase(w http.ResponseWriter, r *http.Request) {
	var req roomItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := s.room.Purchase(studentID(r.Context()), req.ItemKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// --- POST /api/room/equip ---

type roomEquipRequest struct {
	ItemKey string `json:"item_key" validate:"required"`
	Equip   *bool  `json:"equip"`
}

func (s *Server) handleRoomEquip(w http.ResponseWriter, r *http.Request) {
	var req roomEquipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	equip := req.Equip == nil || *req.Equip
	view, err := s.room.Equip(studentID(r.Context()), req.ItemKey, equip)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
