package fakeapi

import (
	"fmt"

	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/users"
)

// SeedPassword is the password of every seeded user.
const SeedPassword = "password123"

// Fixture names the records created by Seed.
type Fixture struct {
	Admin     users.User
	Alice     users.User
	Bob       users.User
	Politics  news.Category
	Sports    news.Category
	Published news.Article // by Alice, in Politics
	Draft     news.Article // by Alice, in Sports
	BobsPiece news.Article // by Bob, in Sports
}

// Seed fills repo with a staff user, two authors, two categories and three articles.
func Seed(repo *Repo) (Fixture, error) {
	var f Fixture
	var err error

	if f.Admin, err = repo.AddUser(users.User{Username: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", IsStaff: true, IsActive: true}, SeedPassword); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}
	if f.Alice, err = repo.AddUser(users.User{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell", IsActive: true}, SeedPassword); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}
	if f.Bob, err = repo.AddUser(users.User{Username: "bob", Email: "bob@example.com", IsActive: true}, SeedPassword); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}

	f.Politics = repo.AddCategory(news.CategoryInput{Name: "Politics", Description: "Government and elections"})
	f.Sports = repo.AddCategory(news.CategoryInput{Name: "Sports"})

	if f.Published, err = repo.AddArticle(news.Article{Title: "Election results", Content: "The votes are in.", IsPublished: true}, f.Politics.ID, f.Alice.ID); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}
	if f.Draft, err = repo.AddArticle(news.Article{Title: "Cup final preview", Content: "Work in progress."}, f.Sports.ID, f.Alice.ID); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}
	if f.BobsPiece, err = repo.AddArticle(news.Article{Title: "Marathon record", Content: "A new record was set.", IsPublished: true}, f.Sports.ID, f.Bob.ID); err != nil {
		return f, fmt.Errorf("[Seed] %w", err)
	}
	return f, nil
}
