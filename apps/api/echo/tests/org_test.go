package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/scitech-butterfly/aasira/core/glossary"
	"github.com/scitech-butterfly/aasira/core/org"
	"github.com/scitech-butterfly/aasira/core/user"
	testutil "github.com/scitech-butterfly/aasira/tests"
)

func Test_orgApi_crud(t *testing.T) {
	student := testutil.CreateUser(t, usrRepo, "seraph", "seraph@test.cd", "t3a", user.RoleStudent, true)
	organizer := testutil.CreateUser(t, usrRepo, "sati", "sati@test.cd", "sunr1se", user.RoleOrganizer, true)
	studentToken := getToken(t, student)
	organizerToken := getToken(t, organizer)

	body := marchallObj(t, org.NewOrganization{
		Name:        "Code Club",
		Description: "Weekly coding sessions.",
		Events:      []org.Event{{Title: "Intro Night", Day: "Friday", Date: "Oct 3rd", Time: "6 PM"}},
	})

	// writes are organizer-only
	req, rec := newAuthRequest(http.MethodPost, "/v1/orgs", studentToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student create = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/orgs", organizerToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created org.Organization
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshalling organization: %v", err)
	}
	if created.ID == "" {
		t.Error("empty organization ID")
	}
	if len(created.Events) != 1 || created.Events[0].ID == "" {
		t.Errorf("Events = %+v", created.Events)
	}

	// missing name is rejected
	req, rec = newAuthRequest(http.MethodPost, "/v1/orgs", organizerToken, []byte(`{"description":"no name"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create without name = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// anyone authenticated can read
	req, rec = newAuthRequest(http.MethodGet, "/v1/orgs", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, want %d", rec.Code, http.StatusOK)
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/orgs/"+created.ID, studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("retrieve = %d, want %d", rec.Code, http.StatusOK)
	}

	// update
	update := marchallObj(t, org.UpdateOrganization{Name: "Code Club Kinshasa"})
	req, rec = newAuthRequest(http.MethodPut, "/v1/orgs/"+created.ID, studentToken, update)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student update = %d, want %d", rec.Code, http.StatusForbidden)
	}
	req, rec = newAuthRequest(http.MethodPut, "/v1/orgs/"+created.ID, organizerToken, update)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}
	var updated org.Organization
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshalling organization: %v", err)
	}
	if updated.Name != "Code Club Kinshasa" {
		t.Errorf("Name = %q", updated.Name)
	}
	if len(updated.Events) != 1 {
		t.Errorf("events were dropped on partial update: %+v", updated.Events)
	}

	// delete
	req, rec = newAuthRequest(http.MethodDelete, "/v1/orgs/"+created.ID, studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student delete = %d, want %d", rec.Code, http.StatusForbidden)
	}
	req, rec = newAuthRequest(http.MethodDelete, "/v1/orgs/"+created.ID, organizerToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want %d", rec.Code, http.StatusNoContent)
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/orgs/"+created.ID, studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("retrieve deleted = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func Test_glossaryApi_query(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "kamala", "kamala@test.cd", "r4ma", user.RoleStudent, true)
	token := getToken(t, usr)

	tests := []httpTest{
		{name: "auth required", path: "/v1/glossary", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all terms", path: "/v1/glossary", token: token, extra: 2},
		{name: "search matches term", path: "/v1/glossary?search=bud", token: token, extra: 1},
		{name: "search matches definition", path: "/v1/glossary?search=SCAM", token: token, extra: 1},
		{name: "no match", path: "/v1/glossary?search=lol", token: token, extra: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code != http.StatusOK {
				return
			}
			var terms []glossary.Term
			if err := json.Unmarshal(rec.Body.Bytes(), &terms); err != nil {
				t.Fatalf("unmarshalling terms: %v", err)
			}
			if want := tt.extra.(int); len(terms) != want {
				t.Errorf("len(terms) = %d, want %d", len(terms), want)
			}
		})
	}
}
