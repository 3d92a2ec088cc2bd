// Gesco | 2026
// handler_test.go

package role_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-chi/chi/v5"

	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
	"github.com/gesco-cm/gesco/internal/role"
)

type fakeRepo struct {
	roles       map[int64]*role.Role
	permissions map[string]*role.Permission
	granted     map[string]bool
}

func grantKey(roleID, permissionID int64) string {
	return fmt.Sprintf("%d/%d", roleID, permissionID)
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*role.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	return r, nil
}

func (f *fakeRepo) GetByCode(
	_ context.Context,
	code string,
	entrepriseID *int64,
) (*role.Role, error) {
	for _, r := range f.roles {
		if r.Code != code {
			continue
		}
		if entrepriseID == nil && r.EntrepriseID == nil {
			return r, nil
		}
		if entrepriseID != nil && r.EntrepriseID != nil &&
			*entrepriseID == *r.EntrepriseID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("get role by code: %w", core.ErrNotFound)
}

func (f *fakeRepo) GrantsForRole(
	_ context.Context,
	roleID int64,
) ([]authz.Grant, error) {
	var grants []authz.Grant
	for _, p := range f.permissions {
		if f.granted[grantKey(roleID, p.ID)] {
			grants = append(grants, authz.Grant{
				Module: p.Module,
				Action: p.Action,
			})
		}
	}
	return grants, nil
}

func (f *fakeRepo) GrantPermission(
	_ context.Context,
	roleID, permissionID int64,
) error {
	key := grantKey(roleID, permissionID)
	if f.granted[key] {
		return fmt.Errorf("grant permission: %w", core.ErrDuplicateKey)
	}
	f.granted[key] = true
	return nil
}

func (f *fakeRepo) RevokePermission(
	_ context.Context,
	roleID, permissionID int64,
) error {
	key := grantKey(roleID, permissionID)
	if !f.granted[key] {
		return fmt.Errorf("revoke permission: %w", core.ErrNotFound)
	}
	delete(f.granted, key)
	return nil
}

func (f *fakeRepo) FindPermission(
	_ context.Context,
	module, action string,
) (*role.Permission, error) {
	p, ok := f.permissions[module+"/"+action]
	if !ok {
		return nil, fmt.Errorf("find permission: %w", core.ErrNotFound)
	}
	return p, nil
}

type openGrants struct{}

func (openGrants) GrantsForRole(_ context.Context, _ int64) ([]authz.Grant, error) {
	return nil, nil
}

type validLicences struct{}

func (validLicences) HasValidLicence(_ context.Context, _ int64) (bool, error) {
	return true, nil
}

func int64Ptr(v int64) *int64 { return &v }

// principalAs injects an authenticated principal of the given entreprise,
// standing in for the bearer-token middleware.
func principalAs(entrepriseID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.PrincipalKey,
				&middleware.Principal{
					UserID:       1,
					EntrepriseID: entrepriseID,
					RoleID:       10,
					IsActive:     true,
				})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(repo *fakeRepo, entrepriseID int64) chi.Router {
	authorizer := authz.New(openGrants{}, validLicences{}, false)
	handler := role.NewHandler(repo, authorizer)

	r := chi.NewRouter()
	handler.RegisterRoutes(r, principalAs(entrepriseID))
	return r
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles: map[int64]*role.Role{
			1: {ID: 1, EntrepriseID: nil, Code: role.CodeAdmin},
			2: {ID: 2, EntrepriseID: int64Ptr(7), Code: "CAISSIER"},
			3: {ID: 3, EntrepriseID: int64Ptr(9), Code: "CAISSIER"},
		},
		permissions: map[string]*role.Permission{
			"commercial/write": {ID: 100, Module: "commercial", Action: "write"},
			"commercial/read":  {ID: 101, Module: "commercial", Action: "read"},
		},
		granted: map[string]bool{},
	}
}

func do(router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFindByCodePrefersOwnRole(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodGet, "/parametrage/roles?code=CAISSIER", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	var resp role.RoleResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	c.Assert(resp.ID, qt.Equals, int64(2))
}

func TestFindByCodeFallsBackToBuiltin(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodGet, "/parametrage/roles?code=ADMIN", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	var resp role.RoleResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	c.Assert(resp.ID, qt.Equals, int64(1))
	c.Assert(resp.EntrepriseID, qt.IsNil)
}

func TestGetForeignRoleForbidden(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodGet, "/parametrage/roles/3", "")
	c.Assert(rec.Code, qt.Equals, http.StatusForbidden)

	var body map[string]any
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	c.Assert(body["code"], qt.Equals, "FORBIDDEN_ENTREPRISE")
}

func TestGrantRevokeRoundTrip(t *testing.T) {
	c := qt.New(t)
	repo := newFakeRepo()
	router := newRouter(repo, 7)

	rec := do(router, http.MethodPost, "/parametrage/roles/2/permissions",
		`{"module": "commercial", "action": "write"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)

	rec = do(router, http.MethodGet, "/parametrage/roles/2/permissions", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	var grants []role.GrantResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &grants), qt.IsNil)
	c.Assert(grants, qt.HasLen, 1)
	c.Assert(grants[0].Module, qt.Equals, "commercial")

	// Granting the same pair twice conflicts.
	rec = do(router, http.MethodPost, "/parametrage/roles/2/permissions",
		`{"module": "commercial", "action": "write"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusConflict)

	rec = do(router, http.MethodDelete,
		"/parametrage/roles/2/permissions/commercial/write", "")
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)

	rec = do(router, http.MethodDelete,
		"/parametrage/roles/2/permissions/commercial/write", "")
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestGrantBuiltinRoleForbidden(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodPost, "/parametrage/roles/1/permissions",
		`{"module": "commercial", "action": "write"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusForbidden)
}

func TestGrantForeignRoleForbidden(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodPost, "/parametrage/roles/3/permissions",
		`{"module": "commercial", "action": "write"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusForbidden)

	var body map[string]any
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	c.Assert(body["code"], qt.Equals, "FORBIDDEN_ENTREPRISE")
}

func TestGrantUnknownPermission(t *testing.T) {
	c := qt.New(t)
	router := newRouter(newFakeRepo(), 7)

	rec := do(router, http.MethodPost, "/parametrage/roles/2/permissions",
		`{"module": "paie", "action": "write"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}
