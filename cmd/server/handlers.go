package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/campusops/roombooking/internal/booking"
	"github.com/campusops/roombooking/internal/render"
	"github.com/campusops/roombooking/internal/report"
	"github.com/campusops/roombooking/internal/suggest"
)

type server struct {
	dir       *booking.Directory
	reporter  *report.Reporter
	suggester suggest.Suggester
	validate  *validator.Validate
	logger    *zap.Logger
}

func newServer(dir *booking.Directory, reporter *report.Reporter, suggester suggest.Suggester, logger *zap.Logger) *server {
	return &server{
		dir:       dir,
		reporter:  reporter,
		suggester: suggester,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/rooms", s.handleRegisterRoom)
		r.Get("/rooms", s.handleListRooms)
		r.Get("/rooms/available", s.handleAvailableRooms)
		r.Get("/rooms/self-study", s.handleSelfStudy)
		r.Get("/rooms/{roomID}/schedule", s.handleRoomSchedule)
		r.Get("/rooms/{roomID}/schedule.png", s.handleRoomSchedulePNG)
		r.Post("/professors", s.handleRegisterProfessor)
		r.Get("/professors/{professorID}/schedule", s.handleProfessorSchedule)
		r.Get("/slots", s.handleListSlots)
		r.Post("/bookings", s.handleBook)
	})

	return r
}

type registerRoomRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	Branch   string `json:"branch" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

type registerProfessorRequest struct {
	ProfessorID string `json:"professor_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Branch      string `json:"branch" validate:"required"`
}

type bookRequest struct {
	ProfessorID string `json:"professor_id" validate:"required"`
	RoomID      string `json:"room_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Slot        string `json:"slot" validate:"required"`
	CourseName  string `json:"course_name" validate:"required"`
	Purpose     string `json:"purpose"`
}

type roomListResponse struct {
	Rooms      []booking.RoomSummary `json:"rooms"`
	Suggestion *booking.RoomSummary  `json:"suggestion,omitempty"`
	Note       string                `json:"note,omitempty"`
}

func (s *server) handleRegisterRoom(w http.ResponseWriter, r *http.Request) {
	var req registerRoomRequest
	if !s.decode(w, r, &req) {
		return
	}

	err := s.dir.RegisterRoom(r.Context(), booking.RoomID(req.RoomID), req.Branch, req.Capacity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, booking.RoomSummary{
		ID:       booking.RoomID(req.RoomID),
		Branch:   req.Branch,
		Capacity: req.Capacity,
	})
}

func (s *server) handleRegisterProfessor(w http.ResponseWriter, r *http.Request) {
	var req registerProfessorRequest
	if !s.decode(w, r, &req) {
		return
	}

	err := s.dir.RegisterProfessor(r.Context(), booking.ProfessorID(req.ProfessorID), req.Name, req.Branch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, booking.ProfessorSummary{
		ID:     booking.ProfessorID(req.ProfessorID),
		Name:   req.Name,
		Branch: req.Branch,
	})
}

func (s *server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, roomListResponse{Rooms: s.dir.Rooms()})
}

func (s *server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]booking.SlotKey{"slots": booking.Catalog})
}

func (s *server) handleAvailableRooms(w http.ResponseWriter, r *http.Request) {
	professorID := booking.ProfessorID(r.URL.Query().Get("professor_id"))
	date, slot, ok := s.dateSlotFromQuery(w, r)
	if !ok {
		return
	}

	rooms, err := s.dir.ListAvailableRoomsForProfessor(professorID, date, slot)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := roomListResponse{Rooms: rooms}
	if prof, err := s.dir.Professor(professorID); err == nil {
		if suggestion, ok := s.suggester.Suggest(r.Context(), prof.Branch, rooms); ok {
			resp.Suggestion = &suggestion
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSelfStudy(w http.ResponseWriter, r *http.Request) {
	date, slot, ok := s.dateSlotFromQuery(w, r)
	if !ok {
		return
	}

	rooms, err := s.dir.FindEmptyRoomsForSelfStudy(date, slot)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, roomListResponse{
		Rooms: rooms,
		Note:  "self-study rooms are first-come, first-served and are not formally booked",
	})
}

func (s *server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !s.decode(w, r, &req) {
		return
	}

	date, err := booking.ParseDate(req.Date)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = "class"
	}

	commit, err := s.dir.BookRoomForProfessor(r.Context(),
		booking.ProfessorID(req.ProfessorID),
		booking.RoomID(req.RoomID),
		date,
		booking.SlotKey(req.Slot),
		req.CourseName,
		purpose,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, commit)
}

func (s *server) handleRoomSchedule(w http.ResponseWriter, r *http.Request) {
	roomID := booking.RoomID(chi.URLParam(r, "roomID"))
	date, ok := s.dateFromQuery(w, r)
	if !ok {
		return
	}

	statuses, err := s.reporter.RoomSchedule(roomID, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"room_id": roomID,
		"date":    date,
		"slots":   statuses,
	})
}

func (s *server) handleRoomSchedulePNG(w http.ResponseWriter, r *http.Request) {
	roomID := booking.RoomID(chi.URLParam(r, "roomID"))
	date, ok := s.dateFromQuery(w, r)
	if !ok {
		return
	}

	statuses, err := s.reporter.RoomSchedule(roomID, date)
	if err != nil {
		s.writeError(w, err)
		return
	}

	img, err := render.DaySchedule(fmt.Sprintf("Room %s", roomID), date, statuses)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

func (s *server) handleProfessorSchedule(w http.ResponseWriter, r *http.Request) {
	professorID := booking.ProfessorID(chi.URLParam(r, "professorID"))
	date, ok := s.dateFromQuery(w, r)
	if !ok {
		return
	}

	statuses, err := s.reporter.ProfessorSchedule(professorID, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"professor_id": professorID,
		"date":         date,
		"slots":        statuses,
	})
}

// decode parses and validates a JSON body, writing the 400 itself when the
// request is unusable.
func (s *server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return false
	}
	return true
}

func (s *server) dateFromQuery(w http.ResponseWriter, r *http.Request) (booking.DateKey, bool) {
	date, err := booking.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return "", false
	}
	return date, true
}

func (s *server) dateSlotFromQuery(w http.ResponseWriter, r *http.Request) (booking.DateKey, booking.SlotKey, bool) {
	date, ok := s.dateFromQuery(w, r)
	if !ok {
		return "", "", false
	}
	return date, booking.SlotKey(r.URL.Query().Get("slot")), true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps directory errors onto HTTP statuses. Busy conflicts carry
// the existing assignment so the caller can explain why the booking failed.
func (s *server) writeError(w http.ResponseWriter, err error) {
	var roomBusy *booking.RoomBusyError
	var profBusy *booking.ProfessorBusyError

	switch {
	case errors.Is(err, booking.ErrRoomNotFound), errors.Is(err, booking.ErrProfessorNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody(err))
	case errors.Is(err, booking.ErrInvalidSlot):
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
	case errors.Is(err, booking.ErrRoomExists), errors.Is(err, booking.ErrProfessorExists):
		s.writeJSON(w, http.StatusConflict, errorBody(err))
	case errors.As(err, &roomBusy):
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":    roomBusy.Error(),
			"conflict": roomBusy.Existing,
		})
	case errors.As(err, &profBusy):
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":            profBusy.Error(),
			"conflicting_room": profBusy.Room,
		})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorBody(errors.New("internal error")))
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
