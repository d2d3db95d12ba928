package permissionshttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
	"github.com/ecclesia-erp/ecclesia/internal/roles"
)

type stubRoleService struct {
	listFn   func(ctx context.Context) ([]roles.Role, error)
	getFn    func(ctx context.Context, roleID int64) (roles.RoleMatrix, error)
	updateFn func(ctx context.Context, roleID int64, ids []string) (roles.RoleMatrix, error)
}

func (s *stubRoleService) ListRoles(ctx context.Context) ([]roles.Role, error) {
	return s.listFn(ctx)
}

func (s *stubRoleService) RolePermissions(ctx context.Context, roleID int64) (roles.RoleMatrix, error) {
	return s.getFn(ctx, roleID)
}

func (s *stubRoleService) UpdateRolePermissions(ctx context.Context, roleID int64, ids []string) (roles.RoleMatrix, error) {
	return s.updateFn(ctx, roleID, ids)
}

type templateCounter map[string]int

func (c templateCounter) TemplateApplied(name string) { c[name]++ }

func newTestRouter(t *testing.T, svc *stubRoleService, recorder TemplateRecorder) http.Handler {
	t.Helper()
	matrix, err := permissions.NewMatrix(permissions.DefaultCatalog(), permissions.DefaultTemplates())
	require.NoError(t, err)
	if svc == nil {
		svc = &stubRoleService{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(logger, matrix, svc, recorder).MountRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

type problem struct {
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Retryable bool   `json:"retryable"`
}

func TestGetCatalogFilters(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rr := do(t, h, http.MethodGet, "/permissions/catalog", "")
	require.Equal(t, http.StatusOK, rr.Code)
	full := decode[catalogResponse](t, rr)
	require.Equal(t, 64, full.Count)
	require.Len(t, full.Categories, 10)

	rr = do(t, h, http.MethodGet, "/permissions/catalog?q=finance+management", "")
	require.Equal(t, http.StatusOK, rr.Code)
	finance := decode[catalogResponse](t, rr)
	require.Equal(t, "finance management", finance.Query)
	require.Len(t, finance.Categories, 1)
	require.Equal(t, "finance", finance.Categories[0].ID)
	require.Equal(t, 10, finance.Count)

	rr = do(t, h, http.MethodGet, "/permissions/catalog?q=zzzz-nothing", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"query":"zzzz-nothing","count":0,"categories":[]}`, rr.Body.String())
}

func TestListTemplates(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	rr := do(t, h, http.MethodGet, "/permissions/templates", "")
	require.Equal(t, http.StatusOK, rr.Code)
	tmpls := decode[[]templateView](t, rr)
	require.Len(t, tmpls, 6)
	require.Equal(t, permissions.TemplateFullAccess, tmpls[0].Name)
}

func TestEvaluateMatrixActions(t *testing.T) {
	counter := templateCounter{}
	h := newTestRouter(t, nil, counter)

	rr := do(t, h, http.MethodPost, "/permissions/matrix",
		`{"selected":["members.view"],"action":{"type":"toggle_category","category_id":"dashboard","enable":true}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[matrixResponse](t, rr)
	require.Equal(t, []string{"dashboard.view", "dashboard.widgets.customize", "members.view"}, resp.Selected)
	require.Equal(t, 3, resp.Coverage.Selected)
	require.Equal(t, 64, resp.Coverage.Total)
	require.Equal(t, permissions.RollupFull, resp.Rollups[0].State)
	require.Equal(t, permissions.RollupPartial, resp.Rollups[1].State)

	rr = do(t, h, http.MethodPost, "/permissions/matrix",
		`{"selected":["members.view"],"action":{"type":"toggle_permission","permission_id":"members.view"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, decode[matrixResponse](t, rr).Selected)

	rr = do(t, h, http.MethodPost, "/permissions/matrix",
		`{"selected":["members.view"],"action":{"type":"apply_template","template":"full access"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decode[matrixResponse](t, rr)
	require.Len(t, resp.Selected, 64)
	require.Equal(t, 1.0, resp.Coverage.Ratio)
	require.Equal(t, 1, counter[permissions.TemplateFullAccess])

	rr = do(t, h, http.MethodPost, "/permissions/matrix", `{"selected":["finance.view"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"finance.view"}, decode[matrixResponse](t, rr).Selected)
}

func TestEvaluateMatrixRejectsBadRequests(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown selected id", `{"selected":["nope.view"]}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"action":{"type":"toggle_category","category_id":"nope","enable":true}}`, http.StatusUnprocessableEntity},
		{"unknown template", `{"action":{"type":"apply_template","template":"Deacon"}}`, http.StatusUnprocessableEntity},
		{"missing permission id", `{"action":{"type":"toggle_permission"}}`, http.StatusBadRequest},
		{"bad action type", `{"action":{"type":"explode"}}`, http.StatusBadRequest},
		{"unknown field", `{"selected":[],"extra":true}`, http.StatusBadRequest},
		{"malformed", `{"selected":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/permissions/matrix", tc.body)
			require.Equal(t, tc.status, rr.Code)
			require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestListRoles(t *testing.T) {
	svc := &stubRoleService{listFn: func(ctx context.Context) ([]roles.Role, error) {
		return []roles.Role{{ID: 1, Name: "Pastor"}}, nil
	}}
	h := newTestRouter(t, svc, nil)

	rr := do(t, h, http.MethodGet, "/roles/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]roles.Role](t, rr)
	require.Len(t, list, 1)
	require.Equal(t, "Pastor", list[0].Name)
}

func TestGetRolePermissions(t *testing.T) {
	svc := &stubRoleService{getFn: func(ctx context.Context, roleID int64) (roles.RoleMatrix, error) {
		if roleID != 4 {
			return roles.RoleMatrix{}, roles.ErrNotFound
		}
		return roles.RoleMatrix{
			Role:     roles.Role{ID: 4, Name: "Secretary"},
			Selected: []string{"members.view"},
			Coverage: permissions.Coverage{Selected: 1, Total: 64},
		}, nil
	}}
	h := newTestRouter(t, svc, nil)

	rr := do(t, h, http.MethodGet, "/roles/4/permissions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[roleMatrixResponse](t, rr)
	require.Equal(t, "Secretary", resp.RoleName)
	require.Equal(t, []string{"members.view"}, resp.Selected)

	rr = do(t, h, http.MethodGet, "/roles/5/permissions", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/roles/abc/permissions", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateRolePermissions(t *testing.T) {
	var captured []string
	svc := &stubRoleService{updateFn: func(ctx context.Context, roleID int64, ids []string) (roles.RoleMatrix, error) {
		captured = ids
		return roles.RoleMatrix{Role: roles.Role{ID: roleID, Name: "Pastor"}, Selected: ids}, nil
	}}
	h := newTestRouter(t, svc, nil)

	rr := do(t, h, http.MethodPut, "/roles/1/permissions", `{"permissions":["members.view","finance.view"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{"members.view", "finance.view"}, captured)

	rr = do(t, h, http.MethodPut, "/roles/1/permissions", `{"permissions":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, captured)

	rr = do(t, h, http.MethodPut, "/roles/1/permissions", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateRolePermissionsErrorMapping(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"save failure", &permissions.SaveError{RoleID: 1, Err: errors.New("conn reset")}, http.StatusBadGateway, true},
		{"unknown id", permissions.ErrUnknownPermissionID, http.StatusUnprocessableEntity, false},
		{"role gone during save", &permissions.SaveError{RoleID: 1, Err: roles.ErrNotFound}, http.StatusNotFound, false},
		{"catalog not synced", &permissions.SaveError{RoleID: 1, Err: roles.ErrCatalogNotSynced}, http.StatusConflict, false},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRoleService{updateFn: func(ctx context.Context, roleID int64, ids []string) (roles.RoleMatrix, error) {
				return roles.RoleMatrix{}, tc.err
			}}
			h := newTestRouter(t, svc, nil)

			rr := do(t, h, http.MethodPut, "/roles/1/permissions", `{"permissions":["members.view"]}`)
			require.Equal(t, tc.status, rr.Code)
			p := decode[problem](t, rr)
			require.Equal(t, tc.status, p.Status)
			require.Equal(t, tc.retryable, p.Retryable)
		})
	}
}
