package http

import (
	"net/http"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

const notificationsPerPage = 15

// NotificationHandler serves the caller's own inbox. Only Create addresses
// another user.
type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type sendNotificationRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=1000"`
	Type    string `json:"type" validate:"required,oneof=info success warning error"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.NotificationFilter{
		Read: q.boolean("read"),
		Type: domain.NotificationType(q.str("type")),
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), currentUser(r).ID, filter, page(r, notificationsPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, res)
}

func (h *NotificationHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.svc.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, n)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	n, err := h.svc.Send(r.Context(), currentUser(r), service.SendNotificationInput{
		UserID:  req.UserID,
		Title:   strings.TrimSpace(req.Title),
		Message: strings.TrimSpace(req.Message),
		Type:    domain.NotificationType(req.Type),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Notification created successfully", n)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.svc.MarkAsRead(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Notification marked as read", n)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.MarkAllAsRead(r.Context(), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "All notifications marked as read", nil)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.UnreadCount(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, map[string]int{"count": count})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Notification deleted successfully", nil)
}
