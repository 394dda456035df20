package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/service"
)

// CatalogHandler serves title registration, stocking and inquiry
type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type registerTitleRequest struct {
	Classification string `json:"classification"`
	Name           string `json:"name"`
	Author         string `json:"author"`
	ISBN           string `json:"isbn"`
	Publisher      string `json:"publisher"`
	Copies         int    `json:"copies"`
	Reference      bool   `json:"reference"`
}

type titleResponse struct {
	Title  domain.Title  `json:"title"`
	Copies []domain.Copy `json:"copies"`
}

func (h *CatalogHandler) RegisterTitle(w http.ResponseWriter, r *http.Request) {
	var req registerTitleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Classification) != 1 {
		writeError(w, fmt.Errorf("classification must be a single letter: %w", domain.ErrInvalidInput))
		return
	}

	title, copies, err := h.catalog.RegisterTitle(r.Context(),
		req.Classification[0], req.Name, req.Author, req.ISBN, req.Publisher,
		req.Copies, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, titleResponse{Title: *title, Copies: copies})
}

type addCopiesRequest struct {
	Count     int  `json:"count"`
	Reference bool `json:"reference"`
}

func (h *CatalogHandler) AddCopies(w http.ResponseWriter, r *http.Request) {
	titleID := mux.Vars(r)["id"]

	var req addCopiesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	copies, err := h.catalog.AddCopies(r.Context(), titleID, req.Count, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"copies": copies})
}

type inquiryResponse struct {
	Title        domain.Title      `json:"title"`
	Copies       []domain.Copy     `json:"copies"`
	Counts       domain.CopyCounts `json:"counts"`
	Reservations int               `json:"reservations"`
}

func (h *CatalogHandler) InquireTitle(w http.ResponseWriter, r *http.Request) {
	titleID := mux.Vars(r)["id"]

	inquiry, err := h.catalog.InquireTitle(r.Context(), titleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiryResponse{
		Title:        inquiry.Title,
		Copies:       inquiry.Copies,
		Counts:       inquiry.Counts,
		Reservations: inquiry.Reservations,
	})
}

// ListTitles returns the whole catalog, or a search when ?q= is given.
func (h *CatalogHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	var (
		titles []domain.Title
		err    error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		titles, err = h.catalog.SearchTitles(r.Context(), term)
	} else {
		titles, err = h.catalog.ListTitles(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"titles": titles})
}
