package fakeapi

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-news-portal/news"
)

// ListCategoriesHandler lists every category. Categories are never paginated.
func (s *Server) ListCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.repo.Categories())
	}
}

// GetCategoryHandler returns one category.
func (s *Server) GetCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		c, err := s.repo.Category(id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// CreateCategoryHandler creates a category.
func (s *Server) CreateCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in news.CategoryInput
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}
		if fields := s.validateCategory(in.Name, 0); len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}
		writeJSON(w, http.StatusCreated, s.repo.AddCategory(in))
	}
}

// UpdateCategoryHandler applies a partial update to a category.
func (s *Server) UpdateCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if _, err := s.repo.Category(id); err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}
		if body.Name != nil {
			if fields := s.validateCategory(*body.Name, id); len(fields) > 0 {
				writeFieldErrors(w, fields)
				return
			}
		}
		updated, err := s.repo.UpdateCategory(id, func(c *news.Category) {
			if body.Name != nil {
				c.Name = *body.Name
			}
			if body.Description != nil {
				c.Description = *body.Description
			}
		})
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteCategoryHandler removes a category.
func (s *Server) DeleteCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repo.DeleteCategory(id); err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) validateCategory(name string, id int) map[string][]string {
	switch {
	case strings.TrimSpace(name) == "":
		return map[string][]string{"name": {"This field may not be blank."}}
	case s.repo.CategoryNameTaken(name, id):
		return map[string][]string{"name": {"category with this name already exists."}}
	}
	return nil
}
