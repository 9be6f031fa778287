package handler

import (
	"net/http"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
)

type ContactHandler struct {
	contact *service.ContactService
}

func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	err := decodeJSON(w, r, &msg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.contact.Submit(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}
