package fakeapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/internal/utils"
	"github.com/jrsteele09/go-news-portal/news"
)

const maxUploadBytes = 10 << 20

// visibleTo reports whether a can be seen by the request's user. Drafts are
// reserved for staff, authors included.
func visibleTo(r *http.Request, a news.Article) bool {
	u, _ := currentUser(r)
	return a.IsPublished || u.IsStaff
}

// ListNewsHandler lists published articles, or every article for staff.
func (s *Server) ListNewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := currentUser(r)
		writeList(w, s.paginate, s.repo.Articles(!u.IsStaff))
	}
}

// GetNewsHandler returns one article.
func (s *Server) GetNewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.visibleArticle(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// CreateNewsHandler accepts a multipart article form.
func (s *Server) CreateNewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, fields := s.parseArticleForm(r)
		if change.Title == nil || strings.TrimSpace(*change.Title) == "" {
			fields["title"] = []string{requiredField}
		}
		if change.Content == nil || strings.TrimSpace(*change.Content) == "" {
			fields["content"] = []string{requiredField}
		}
		if change.CategoryID == nil {
			fields["category_id"] = []string{requiredField}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		u, _ := currentUser(r)
		a := news.Article{
			Title:       *change.Title,
			Content:     *change.Content,
			IsPublished: utils.Value(change.IsPublished),
			Image:       utils.Value(change.Image),
		}
		created, err := s.repo.AddArticle(a, *change.CategoryID, u.ID)
		if err != nil {
			writeFieldErrors(w, map[string][]string{"category_id": {"Invalid category."}})
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateNewsHandler applies a partial update, from either a multipart form or JSON.
func (s *Server) UpdateNewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.visibleArticle(w, r)
		if !ok {
			return
		}
		if !s.mayModify(w, r, a.ID) {
			return
		}

		var change ArticleChange
		fields := map[string][]string{}
		if isMultipart(r) {
			change, fields = s.parseArticleForm(r)
		} else {
			var err error
			if change, err = decodeArticleJSON(r); err != nil {
				writeDetail(w, http.StatusBadRequest, "JSON parse error")
				return
			}
		}
		if change.Title != nil && strings.TrimSpace(*change.Title) == "" {
			fields["title"] = []string{"This field may not be blank."}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		updated, err := s.repo.UpdateArticle(a.ID, change)
		if err != nil {
			writeFieldErrors(w, map[string][]string{"category_id": {"Invalid category."}})
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteNewsHandler removes an article.
func (s *Server) DeleteNewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.visibleArticle(w, r)
		if !ok {
			return
		}
		if !s.mayModify(w, r, a.ID) {
			return
		}
		if err := s.repo.DeleteArticle(a.ID); err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MediaHandler serves uploaded images.
func (s *Server) MediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, ok := s.repo.Media(chi.URLParam(r, "name"))
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(content))
		_, _ = w.Write(content)
	}
}

func (s *Server) visibleArticle(w http.ResponseWriter, r *http.Request) (news.Article, bool) {
	id, ok := idParam(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return news.Article{}, false
	}
	a, err := s.repo.Article(id)
	if err != nil || !visibleTo(r, a) {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return news.Article{}, false
	}
	return a, true
}

// mayModify admits staff and the article's author.
func (s *Server) mayModify(w http.ResponseWriter, r *http.Request, articleID int) bool {
	u, _ := currentUser(r)
	authorID, err := s.repo.AuthorOf(articleID)
	if errors.Is(err, errors.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return false
	}
	if !u.CanEditAuthoredBy(authorID) {
		writeDetail(w, http.StatusForbidden, detailForbidden)
		return false
	}
	return true
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseArticleForm reads the multipart article form. Absent fields stay nil.
func (s *Server) parseArticleForm(r *http.Request) (ArticleChange, map[string][]string) {
	var change ArticleChange
	fields := map[string][]string{}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fields["non_field_errors"] = []string{fmt.Sprintf("Multipart form parse error - %v", err)}
		return change, fields
	}
	form := r.MultipartForm.Value

	if v, ok := form["title"]; ok {
		change.Title = utils.Ptr(v[0])
	}
	if v, ok := form["content"]; ok {
		change.Content = utils.Ptr(v[0])
	}
	if v, ok := form["category_id"]; ok {
		id, err := strconv.Atoi(v[0])
		if err != nil {
			fields["category_id"] = []string{"A valid integer is required."}
		} else {
			change.CategoryID = utils.Ptr(id)
		}
	}
	if v, ok := form["is_published"]; ok {
		published, err := strconv.ParseBool(v[0])
		if err != nil {
			fields["is_published"] = []string{"Must be a valid boolean."}
		} else {
			change.IsPublished = utils.Ptr(published)
		}
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		header := files[0]
		f, err := header.Open()
		if err != nil {
			fields["image"] = []string{"Upload a valid image."}
			return change, fields
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil || len(content) == 0 {
			fields["image"] = []string{"The submitted file is empty."}
			return change, fields
		}
		name := s.repo.PutMedia(header.Filename, content)
		change.Image = utils.Ptr(fmt.Sprintf("http://%s/media/news/%s", r.Host, name))
	}
	return change, fields
}

// decodeArticleJSON reads a JSON partial update, e.g. {"is_published": true}.
func decodeArticleJSON(r *http.Request) (ArticleChange, error) {
	var body struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		CategoryID  *int    `json:"category_id"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return ArticleChange{}, err
	}
	return ArticleChange{
		Title:       body.Title,
		Content:     body.Content,
		CategoryID:  body.CategoryID,
		IsPublished: body.IsPublished,
	}, nil
}
