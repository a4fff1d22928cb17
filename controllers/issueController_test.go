package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/models"
	"github.com/civic-sense/civicsense-be/services"
)

func offlineClassifier() *services.Classifier {
	// Nothing listens on this port; every call takes the fallback path.
	return services.NewClassifier("http://127.0.0.1:1")
}

func issueRouter(ic *IssueController, p *auth.Principal) *gin.Engine {
	r := gin.New()
	r.POST("/api/issues", withPrincipal(p), ic.Create)
	r.GET("/api/issues", withPrincipal(p), ic.List)
	r.GET("/api/issues/citizen/:phone", ic.ListByCitizen)
	r.GET("/api/issues/:id", withPrincipal(p), ic.Get)
	r.PATCH("/api/issues/:id", withPrincipal(p), ic.Update)
	r.DELETE("/api/issues/:id", withPrincipal(p), ic.Delete)
	return r
}

func seedIssue(s *fakeIssueStore, district, phone string, age time.Duration) models.Issue {
	issue := models.Issue{
		ID:            primitive.NewObjectID(),
		Title:         "seed",
		Description:   "seed issue",
		Status:        models.StatusOpen,
		Priority:      models.PriorityMedium,
		AICategory:    "unclassified",
		DistrictCode:  district,
		ReporterID:    auth.AnonymousReporterID,
		ReporterPhone: phone,
		CreatedAt:     time.Now().Add(-age),
		UpdatedAt:     time.Now().Add(-age),
	}
	s.issues = append(s.issues, issue)
	return issue
}

func TestCreateIssueWithoutPincode(t *testing.T) {
	issues := &fakeIssueStore{}
	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}
	r := issueRouter(ic, nil)

	w := performRequest(r, http.MethodPost, "/api/issues",
		`{"title":"Pothole","description":"Deep pothole","location":"Main Street"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(issues.issues) != 0 {
		t.Errorf("store has %d issues, want none persisted", len(issues.issues))
	}
}

func TestCreateIssueClassifierDownUsesFallback(t *testing.T) {
	issues := &fakeIssueStore{}
	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}
	r := issueRouter(ic, nil)

	w := performRequest(r, http.MethodPost, "/api/issues",
		`{"title":"Pothole","description":"Deep pothole","location":"Main Street","pincode":" 273001 ","phone":"555"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Issue models.Issue `json:"issue"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	issue := resp.Issue

	if issue.AICategory != "unclassified" {
		t.Errorf("ai_category = %q, want unclassified", issue.AICategory)
	}
	if issue.AIConfidence != nil {
		t.Errorf("ai_confidence = %v, want null", issue.AIConfidence)
	}
	if issue.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", issue.Priority)
	}
	if issue.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", issue.Status)
	}
	if issue.DistrictCode != "273001" {
		t.Errorf("district_code = %q, want trimmed pincode", issue.DistrictCode)
	}
	if issue.Address != "Main Street, Pincode: 273001" {
		t.Errorf("address = %q", issue.Address)
	}
	if issue.ReporterID != auth.AnonymousReporterID {
		t.Errorf("reporter_id = %q, want anonymous id", issue.ReporterID)
	}
	if issue.ID.IsZero() || issue.CreatedAt.IsZero() {
		t.Error("generated fields missing on created issue")
	}
}

func TestCreateIssueUsesClassifierResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"category":   "Road",
			"confidence": 0.87,
			"priority":   "Critical",
		})
	}))
	defer server.Close()

	issues := &fakeIssueStore{}
	ic := &IssueController{Issues: issues, Classifier: services.NewClassifier(server.URL)}
	r := issueRouter(ic, citizenPrincipal())

	w := performRequest(r, http.MethodPost, "/api/issues",
		`{"title":"Pothole","description":"Deep pothole","location":"Main Street","pincode":"273001","category":"Other"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Issue models.Issue `json:"issue"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Issue.AICategory != "Road" {
		t.Errorf("ai_category = %q, want classifier result", resp.Issue.AICategory)
	}
	if resp.Issue.AIConfidence == nil || *resp.Issue.AIConfidence != 0.87 {
		t.Errorf("ai_confidence = %v, want 0.87", resp.Issue.AIConfidence)
	}
	if resp.Issue.Priority != models.PriorityCritical {
		t.Errorf("priority = %q, want critical (lower-cased)", resp.Issue.Priority)
	}
	if resp.Issue.ReporterID != "citizen-1" {
		t.Errorf("reporter_id = %q, want authenticated user id", resp.Issue.ReporterID)
	}
}

func TestListIssuesJurisdictionFiltering(t *testing.T) {
	issues := &fakeIssueStore{}
	inDistrict := seedIssue(issues, "273001", "", time.Hour)
	seedIssue(issues, "273002", "", 2*time.Hour)
	seedIssue(issues, "999999", "", 3*time.Hour)

	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}

	t.Run("master sees all", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodGet, "/api/issues", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got []models.Issue
		json.Unmarshal(w.Body.Bytes(), &got)
		if len(got) != 3 {
			t.Errorf("master list has %d issues, want 3", len(got))
		}
	})

	t.Run("municipal sees own district only", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal("273001")), http.MethodGet, "/api/issues", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got []models.Issue
		json.Unmarshal(w.Body.Bytes(), &got)
		if len(got) != 1 || got[0].ID != inDistrict.ID {
			t.Errorf("municipal list = %v, want only district 273001", got)
		}
	})

	t.Run("municipal without districts sees nothing", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal()), http.MethodGet, "/api/issues", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got []models.Issue
		json.Unmarshal(w.Body.Bytes(), &got)
		if len(got) != 0 {
			t.Errorf("empty-jurisdiction admin got %d issues, want 0", len(got))
		}
	})

	t.Run("citizen is forbidden", func(t *testing.T) {
		w := performRequest(issueRouter(ic, citizenPrincipal()), http.MethodGet, "/api/issues", "")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}

func TestListByCitizenPhone(t *testing.T) {
	issues := &fakeIssueStore{}
	older := seedIssue(issues, "273001", "555", 2*time.Hour)
	newer := seedIssue(issues, "273002", "555", time.Hour)
	seedIssue(issues, "273001", "777", time.Minute)

	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}
	w := performRequest(issueRouter(ic, nil), http.MethodGet, "/api/issues/citizen/555", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []models.Issue
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 2 {
		t.Fatalf("got %d issues, want 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("issues not ordered newest-first")
	}
}

func TestGetIssueJurisdictionCheck(t *testing.T) {
	issues := &fakeIssueStore{}
	issue := seedIssue(issues, "273001", "", time.Hour)
	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}

	t.Run("municipal in district", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal("273001")), http.MethodGet, "/api/issues/"+issue.ID.Hex(), "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("municipal out of district", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal("999999")), http.MethodGet, "/api/issues/"+issue.ID.Hex(), "")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("municipal without districts", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal()), http.MethodGet, "/api/issues/"+issue.ID.Hex(), "")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("master always", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodGet, "/api/issues/"+issue.ID.Hex(), "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodGet, "/api/issues/"+primitive.NewObjectID().Hex(), "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestUpdateIssue(t *testing.T) {
	issues := &fakeIssueStore{}
	issue := seedIssue(issues, "273001", "", time.Hour)
	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}
	path := "/api/issues/" + issue.ID.Hex()

	t.Run("citizen forbidden", func(t *testing.T) {
		w := performRequest(issueRouter(ic, citizenPrincipal()), http.MethodPatch, path, `{"status":"resolved"}`)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("no fields", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodPatch, path, `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodPatch, path, `{"status":"closed"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid priority", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodPatch, path, `{"priority":"urgent"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("partial update by municipal admin outside district", func(t *testing.T) {
		// Updates are not jurisdiction-scoped; an out-of-district admin
		// may still transition.
		before := issues.issues[0].UpdatedAt
		w := performRequest(issueRouter(ic, municipalPrincipal("999999")), http.MethodPatch, path,
			`{"status":"in_progress","priority":"HIGH"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp struct {
			Issue models.Issue `json:"issue"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Issue.Status != models.StatusInProgress {
			t.Errorf("status = %q", resp.Issue.Status)
		}
		if resp.Issue.Priority != models.PriorityHigh {
			t.Errorf("priority = %q, want high (normalized)", resp.Issue.Priority)
		}
		if resp.Issue.Title != "seed" {
			t.Errorf("untouched fields changed: title = %q", resp.Issue.Title)
		}
		if !resp.Issue.UpdatedAt.After(before) {
			t.Error("updated_at not refreshed")
		}
	})

	t.Run("assignment only", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodPatch, path,
			`{"assigned_municipality_id":"muni-42"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp struct {
			Issue models.Issue `json:"issue"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Issue.AssignedMunicipalityID == nil || *resp.Issue.AssignedMunicipalityID != "muni-42" {
			t.Errorf("assigned_municipality_id = %v", resp.Issue.AssignedMunicipalityID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodPatch,
			"/api/issues/"+primitive.NewObjectID().Hex(), `{"status":"resolved"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestDeleteIssue(t *testing.T) {
	issues := &fakeIssueStore{}
	issue := seedIssue(issues, "273001", "", time.Hour)
	ic := &IssueController{Issues: issues, Classifier: offlineClassifier()}
	path := "/api/issues/" + issue.ID.Hex()

	t.Run("municipal forbidden", func(t *testing.T) {
		w := performRequest(issueRouter(ic, municipalPrincipal("273001")), http.MethodDelete, path, "")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		if len(issues.issues) != 1 {
			t.Error("issue deleted despite forbidden response")
		}
	})

	t.Run("master deletes", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodDelete, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if len(issues.issues) != 0 {
			t.Error("issue still present after delete")
		}
	})

	t.Run("already gone", func(t *testing.T) {
		w := performRequest(issueRouter(ic, masterPrincipal()), http.MethodDelete, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
