package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"fakeout/internal/domain"
)

// Response is a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetRoomResponse is the response for getting room info.
type GetRoomResponse struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
	Phase       string `json:"phase"`
	IsPublic    bool   `json:"isPublic"`
}

// HealthResponse is the response for the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for the stats endpoint.
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:  s.hub.RoomCount(),
		TotalPlayers: s.hub.TotalPlayerCount(),
	})
}

// handleListRooms handles GET /api/rooms, the public lobby listing.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.hub.ListPublic())
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.PathValue("roomCode"))
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return
	}

	session, err := s.hub.Get(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	info := session.PublicInfo()
	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:    info.Code,
		PlayerCount: info.PlayerCount,
		Phase:       info.Phase.String(),
		IsPublic:    info.IsPublic,
	})
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr, an invite QR PNG
// encoding the join link.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.PathValue("roomCode"))
	if _, err := s.hub.Get(roomCode); err != nil {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	joinURL := scheme + "://" + r.Host + "/join/" + roomCode

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
