package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/middlewares"
	"github.com/civic-sense/civicsense-be/models"
	"github.com/civic-sense/civicsense-be/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIssueStore struct {
	issues    []models.Issue
	insertErr error
}

func (s *fakeIssueStore) Insert(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	s.issues = append(s.issues, *issue)
	return issue, nil
}

func (s *fakeIssueStore) Find(ctx context.Context, filter store.IssueFilter) ([]models.Issue, error) {
	matched := []models.Issue{}
	for _, issue := range s.issues {
		if filter.DistrictCodes != nil && !contains(filter.DistrictCodes, issue.DistrictCode) {
			continue
		}
		if filter.ReporterPhone != "" && issue.ReporterPhone != filter.ReporterPhone {
			continue
		}
		matched = append(matched, issue)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *fakeIssueStore) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	for i := range s.issues {
		if s.issues[i].ID.Hex() == id {
			issue := s.issues[i]
			return &issue, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeIssueStore) Update(ctx context.Context, id string, update models.IssueUpdate) (*models.Issue, error) {
	for i := range s.issues {
		if s.issues[i].ID.Hex() != id {
			continue
		}
		if update.Status != nil {
			s.issues[i].Status = *update.Status
		}
		if update.Priority != nil {
			s.issues[i].Priority = *update.Priority
		}
		if update.AssignedMunicipalityID != nil {
			s.issues[i].AssignedMunicipalityID = update.AssignedMunicipalityID
		}
		s.issues[i].UpdatedAt = time.Now()
		issue := s.issues[i]
		return &issue, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeIssueStore) Delete(ctx context.Context, id string) (*models.Issue, error) {
	for i := range s.issues {
		if s.issues[i].ID.Hex() == id {
			issue := s.issues[i]
			s.issues = append(s.issues[:i], s.issues[i+1:]...)
			return &issue, nil
		}
	}
	return nil, store.ErrNotFound
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

type fakeUserStore struct {
	users     map[string]models.User
	insertErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	matched := []models.User{}
	for _, user := range s.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeBlogStore struct {
	blogs []models.Blog
}

func (s *fakeBlogStore) Insert(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	s.blogs = append(s.blogs, *blog)
	return blog, nil
}

func (s *fakeBlogStore) Find(ctx context.Context) ([]models.Blog, error) {
	blogs := append([]models.Blog{}, s.blogs...)
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	return blogs, nil
}

func (s *fakeBlogStore) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	for i := range s.blogs {
		if s.blogs[i].ID.Hex() == id {
			blog := s.blogs[i]
			return &blog, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeBlogStore) Update(ctx context.Context, id string, update models.BlogUpdate) (*models.Blog, error) {
	for i := range s.blogs {
		if s.blogs[i].ID.Hex() != id {
			continue
		}
		if update.Title != nil {
			s.blogs[i].Title = *update.Title
		}
		if update.Content != nil {
			s.blogs[i].Content = *update.Content
		}
		if update.Excerpt != nil {
			s.blogs[i].Excerpt = *update.Excerpt
		}
		s.blogs[i].UpdatedAt = time.Now()
		blog := s.blogs[i]
		return &blog, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeBlogStore) Delete(ctx context.Context, id string) (*models.Blog, error) {
	for i := range s.blogs {
		if s.blogs[i].ID.Hex() == id {
			blog := s.blogs[i]
			s.blogs = append(s.blogs[:i], s.blogs[i+1:]...)
			return &blog, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeIdentityProvider struct {
	created   []auth.Identity
	deleted   []string
	createErr error
	deleteErr error
}

func (p *fakeIdentityProvider) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	return nil, errors.New("not used in tests")
}

func (p *fakeIdentityProvider) CreateIdentity(ctx context.Context, email, password string, metadata map[string]interface{}) (*auth.Identity, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	identity := auth.Identity{ID: primitive.NewObjectID().Hex(), Email: email, Metadata: metadata}
	p.created = append(p.created, identity)
	return &identity, nil
}

func (p *fakeIdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, id)
	return nil
}

// withPrincipal injects a resolved principal, standing in for the auth
// middleware.
func withPrincipal(p *auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(middlewares.PrincipalKey, p)
		}
		c.Next()
	}
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func masterPrincipal() *auth.Principal {
	return &auth.Principal{UserID: "master-1", Role: auth.RoleMasterAdmin}
}

func municipalPrincipal(codes ...string) *auth.Principal {
	return &auth.Principal{UserID: "municipal-1", Role: auth.RoleMunicipalAdmin, JurisdictionCodes: codes}
}

func citizenPrincipal() *auth.Principal {
	return &auth.Principal{UserID: "citizen-1", Role: auth.RoleCitizen}
}
