package handler

import (
	"net/http"

	"campsite/internal/bookings/service"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"campsite/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	BookingsPath     = "/api/v1/bookings"
	BookingPath      = "/api/v1/bookings/:id"
	AvailabilityPath = "/api/v1/availability"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Search filters by email, fromDate, toDate and status. Malformed filters yield an empty list.
func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	bookings, err := h.service.GetBookings(r.Context(),
		query.Get("email"),
		query.Get("fromDate"),
		query.Get("toDate"),
		query.Get("status"),
	)
	if err != nil {
		h.writeError(w, r, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

// Update handles both MODIFY and CANCEL actions.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	var req model.BookingModify
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	booking, err := h.service.Modify(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	days, err := h.service.GetAvailability(r.Context(), query.Get("fromDate"), query.Get("toDate"))
	if err != nil {
		h.writeError(w, r, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, r, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(BookingsPath, h.Search)
	router.POST(BookingsPath, h.Create)
	router.GET(BookingPath, h.GetByID)
	router.PUT(BookingPath, h.Update)
	router.GET(AvailabilityPath, h.Availability)
}
