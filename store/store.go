package store

import (
	"context"
	"errors"

	"github.com/civic-sense/civicsense-be/models"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("record not found")

// IssueFilter narrows an issue listing. Zero values mean "no
// restriction" for the corresponding field. Results are always ordered
// newest-first.
type IssueFilter struct {
	DistrictCodes []string
	ReporterPhone string
}

type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) (*models.Issue, error)
	Find(ctx context.Context, filter IssueFilter) ([]models.Issue, error)
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	Update(ctx context.Context, id string, update models.IssueUpdate) (*models.Issue, error)
	Delete(ctx context.Context, id string) (*models.Issue, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByRole(ctx context.Context, role string) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

type BlogStore interface {
	Insert(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Find(ctx context.Context) ([]models.Blog, error)
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, update models.BlogUpdate) (*models.Blog, error)
	Delete(ctx context.Context, id string) (*models.Blog, error)
}
