package fakeapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/users"
	"golang.org/x/crypto/bcrypt"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// passwordCost keeps hashing fast; nothing here protects real credentials.
var passwordCost = bcrypt.MinCost

type userRecord struct {
	users.User
	passwordHash string
}

type articleRecord struct {
	news.Article
	categoryID int
	authorID   int
}

type mediaFile struct {
	name    string
	content []byte
}

// Repo is the in-memory data behind the fake backend.
type Repo struct {
	mu         sync.RWMutex
	users      map[int]*userRecord
	articles   map[int]*articleRecord
	categories map[int]*news.Category
	media      map[string]mediaFile
	revoked    map[string]time.Time // refresh token jti -> expiry
	sequences  map[string]int       // table -> last issued id
}

// NewRepo creates an empty repository.
func NewRepo() *Repo {
	return &Repo{
		users:      make(map[int]*userRecord),
		articles:   make(map[int]*articleRecord),
		categories: make(map[int]*news.Category),
		media:      make(map[string]mediaFile),
		revoked:    make(map[string]time.Time),
		sequences:  make(map[string]int),
	}
}

func (r *Repo) nextID(table string) int {
	r.sequences[table]++
	return r.sequences[table]
}

// HashPassword hashes password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AddUser registers a user with the given password and returns it.
func (r *Repo) AddUser(u users.User, password string) (users.User, error) {
	if u.Username == "" {
		return users.User{}, fmt.Errorf("[Repo.AddUser] username is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return users.User{}, fmt.Errorf("[Repo.AddUser] hashing password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return users.User{}, fmt.Errorf("[Repo.AddUser] %s already exists", u.Username)
		}
	}
	u.ID = r.nextID("users")
	if u.DateJoined.IsZero() {
		u.DateJoined = users.Timestamp{Time: NowTimeFunc().UTC()}
	}
	r.users[u.ID] = &userRecord{User: u, passwordHash: hash}
	return u, nil
}

// Authenticate returns the user matching username and password.
func (r *Repo) Authenticate(username, password string) (users.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.users {
		if rec.Username == username {
			return rec.User, CheckPasswordHash(password, rec.passwordHash)
		}
	}
	return users.User{}, false
}

// User returns the user with id.
func (r *Repo) User(id int) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[id]
	if !ok {
		return users.User{}, errors.ErrNotFound
	}
	return rec.User, nil
}

// UserByName returns the user with username.
func (r *Repo) UserByName(username string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.users {
		if rec.Username == username {
			return rec.User, nil
		}
	}
	return users.User{}, errors.ErrNotFound
}

// Users lists every user by id.
func (r *Repo) Users() []users.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]users.User, 0, len(r.users))
	for _, rec := range r.users {
		list = append(list, rec.User)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// UpdateUser applies fn to the stored user with id.
func (r *Repo) UpdateUser(id int, fn func(*users.User)) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.users[id]
	if !ok {
		return users.User{}, errors.ErrNotFound
	}
	fn(&rec.User)
	rec.ID = id
	return rec.User, nil
}

// SetPassword replaces the password of user id.
func (r *Repo) SetPassword(id int, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("[Repo.SetPassword] hashing password: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	rec.passwordHash = hash
	return nil
}

// CheckPassword verifies password against user id.
func (r *Repo) CheckPassword(id int, password string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[id]
	return ok && CheckPasswordHash(password, rec.passwordHash)
}

// DeleteUser removes a user together with the articles they wrote.
func (r *Repo) DeleteUser(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.users, id)
	for articleID, a := range r.articles {
		if a.authorID == id {
			delete(r.articles, articleID)
		}
	}
	return nil
}

// AddCategory stores a new category.
func (r *Repo) AddCategory(in news.CategoryInput) news.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &news.Category{
		ID:          r.nextID("categories"),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   users.Timestamp{Time: NowTimeFunc().UTC()},
	}
	r.categories[c.ID] = c
	return r.hydrateCategoryLocked(c.ID)
}

// CategoryNameTaken reports whether another category already uses name.
func (r *Repo) CategoryNameTaken(name string, exceptID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// Category returns the category with id, counting its published articles.
func (r *Repo) Category(id int) (news.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.categories[id]; !ok {
		return news.Category{}, errors.ErrNotFound
	}
	return r.hydrateCategoryLocked(id), nil
}

// Categories lists every category by name.
func (r *Repo) Categories() []news.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]news.Category, 0, len(r.categories))
	for id := range r.categories {
		list = append(list, r.hydrateCategoryLocked(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// UpdateCategory applies fn to the stored category with id.
func (r *Repo) UpdateCategory(id int, fn func(*news.Category)) (news.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return news.Category{}, errors.ErrNotFound
	}
	fn(c)
	c.ID = id
	return r.hydrateCategoryLocked(id), nil
}

// DeleteCategory removes a category and, like a cascading foreign key, its articles.
func (r *Repo) DeleteCategory(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.categories, id)
	for articleID, a := range r.articles {
		if a.categoryID == id {
			delete(r.articles, articleID)
		}
	}
	return nil
}

func (r *Repo) hydrateCategoryLocked(id int) news.Category {
	c := *r.categories[id]
	c.NewsCount = 0
	for _, a := range r.articles {
		if a.categoryID == id && a.IsPublished {
			c.NewsCount++
		}
	}
	return c
}

// AddArticle stores a new article written by authorID.
func (r *Repo) AddArticle(a news.Article, categoryID, authorID int) (news.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[categoryID]; !ok {
		return news.Article{}, fmt.Errorf("[Repo.AddArticle] category %d: %w", categoryID, errors.ErrNotFound)
	}
	now := users.Timestamp{Time: NowTimeFunc().UTC()}
	a.ID = r.nextID("news")
	a.CreatedAt, a.UpdatedAt = now, now
	r.articles[a.ID] = &articleRecord{Article: a, categoryID: categoryID, authorID: authorID}
	return r.hydrateArticleLocked(a.ID), nil
}

// Article returns the article with id.
func (r *Repo) Article(id int) (news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.articles[id]; !ok {
		return news.Article{}, errors.ErrNotFound
	}
	return r.hydrateArticleLocked(id), nil
}

// Articles lists articles newest first, optionally only published ones.
func (r *Repo) Articles(publishedOnly bool) []news.Article {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]news.Article, 0, len(r.articles))
	for id, a := range r.articles {
		if publishedOnly && !a.IsPublished {
			continue
		}
		list = append(list, r.hydrateArticleLocked(id))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt.Time) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt.Time)
	})
	return list
}

// ArticleChange is a partial article update. Nil fields are left alone.
type ArticleChange struct {
	Title       *string
	Content     *string
	CategoryID  *int
	IsPublished *bool
	Image       *string
}

// UpdateArticle applies change to the article with id.
func (r *Repo) UpdateArticle(id int, change ArticleChange) (news.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return news.Article{}, errors.ErrNotFound
	}
	if change.CategoryID != nil {
		if _, ok := r.categories[*change.CategoryID]; !ok {
			return news.Article{}, fmt.Errorf("[Repo.UpdateArticle] category %d: %w", *change.CategoryID, errors.ErrNotFound)
		}
		a.categoryID = *change.CategoryID
	}
	if change.Title != nil {
		a.Title = *change.Title
	}
	if change.Content != nil {
		a.Content = *change.Content
	}
	if change.IsPublished != nil {
		a.IsPublished = *change.IsPublished
	}
	if change.Image != nil {
		a.Image = *change.Image
	}
	a.UpdatedAt = users.Timestamp{Time: NowTimeFunc().UTC()}
	return r.hydrateArticleLocked(id), nil
}

// DeleteArticle removes the article with id.
func (r *Repo) DeleteArticle(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

// AuthorOf returns the author id of article id.
func (r *Repo) AuthorOf(id int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.articles[id]
	if !ok {
		return 0, errors.ErrNotFound
	}
	return a.authorID, nil
}

func (r *Repo) hydrateArticleLocked(id int) news.Article {
	rec := r.articles[id]
	a := rec.Article
	if _, ok := r.categories[rec.categoryID]; ok {
		a.Category = r.hydrateCategoryLocked(rec.categoryID)
	}
	if author, ok := r.users[rec.authorID]; ok {
		a.Author = author.User
	}
	return a
}

// Stats computes the dashboard aggregates.
func (r *Repo) Stats() news.DashboardStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := news.DashboardStats{
		TotalNews:       len(r.articles),
		TotalUsers:      len(r.users),
		TotalCategories: len(r.categories),
	}
	for _, a := range r.articles {
		if a.IsPublished {
			stats.PublishedNews++
		}
	}
	return stats
}

// PutMedia stores an uploaded file and returns its stored name.
func (r *Repo) PutMedia(filename string, content []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("%d_%s", r.nextID("media"), sanitiseFilename(filename))
	r.media[name] = mediaFile{name: name, content: content}
	return name
}

// Media returns a stored upload.
func (r *Repo) Media(name string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.media[name]
	return f.content, ok
}

// Revoke blacklists a refresh token id until exp.
func (r *Repo) Revoke(jti string, exp time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = exp
}

// IsRevoked reports whether a refresh token id was blacklisted.
func (r *Repo) IsRevoked(jti string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.revoked[jti]
	return exists
}

// Cleanup drops blacklist entries whose tokens expired anyway.
func (r *Repo) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := NowTimeFunc()
	for jti, exp := range r.revoked {
		if now.After(exp) {
			delete(r.revoked, jti)
		}
	}
}

func sanitiseFilename(name string) string {
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "upload"
	}
	return name
}
