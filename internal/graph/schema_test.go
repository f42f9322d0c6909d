package graph

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesPost(t *testing.T) {
	h := newHarness(t)
	h.seed(2)
	srv := NewHandler(h.schema)

	body := `{"query":"query($p: Int!) { getAllServiceByPage(page: $p) { totalService } }","variables":{"p":1}}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"getAllServiceByPage":{"totalService":2}}}`, rec.Body.String())
}

func TestHandler_ErrorExtensions(t *testing.T) {
	h := newHarness(t)
	srv := NewHandler(h.schema)

	body := `{"query":"{ currentUser { _id } }"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"extensions":{"code":"UNAUTHENTICATED"}`)
}

func TestSchema_DeprecatesBooleanRoleQueries(t *testing.T) {
	h := newHarness(t)

	resp := h.exec(t, `{ __type(name: "Query") { fields(includeDeprecated: true) { name isDeprecated } } }`, nil)
	require.Empty(t, resp.Errors)
	s := string(resp.Data)
	assert.Contains(t, s, `{"name":"getAdminUser","isDeprecated":true}`)
	assert.Contains(t, s, `{"name":"isAdmin","isDeprecated":false}`)
}
