package student

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records/internal/http/router"
	"github.com/aanand-mishra/student-records/internal/service"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anaJSON = `{"name":"Ana","age":20,"email":"a@x.com","course":"CS"}`

// newAPI returns the student routes over a fresh in-memory store.
func newAPI() http.Handler {
	return router.New(Routes(service.New(memory.New())), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	api := newAPI()

	rec := do(t, api, http.MethodPost, "/students", anaJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=UTF-8", rec.Header().Get("Content-Type"))

	created := decode[types.Student](t, rec)
	assert.Equal(t, types.Student{ID: 1, Name: "Ana", Age: 20, Email: "a@x.com", Course: "CS"}, created)

	rec = do(t, api, http.MethodGet, fmt.Sprintf("/students/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[types.Student](t, rec))

	// Field order on the wire is id, name, age, email, course.
	assert.Equal(t,
		`{"id":1,"name":"Ana","age":20,"email":"a@x.com","course":"CS"}`,
		strings.TrimSpace(rec.Body.String()))
}

func TestCreateAcceptsQuotedAge(t *testing.T) {
	api := newAPI()

	rec := do(t, api, http.MethodPost, "/students",
		`{"name":"Ana","age":"20","email":"a@x.com","course":"CS"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 20, decode[types.Student](t, rec).Age)
}

func TestCreateEscapesStrings(t *testing.T) {
	api := newAPI()

	rec := do(t, api, http.MethodPost, "/students",
		`{"name":"Ana \"Quote\" Lee","age":20,"email":"a@x.com","course":"C\\S"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, api, http.MethodGet, "/students", "")
	students := decode[[]types.Student](t, rec)
	require.Len(t, students, 1)
	assert.Equal(t, `Ana "Quote" Lee`, students[0].Name)
	assert.Equal(t, `C\S`, students[0].Course)
}

func TestCreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed json", `{"name":`, ""},
		{"missing course", `{"name":"Ana","age":20,"email":"a@x.com"}`, "field course is required"},
		{"missing age", `{"name":"Ana","email":"a@x.com","course":"CS"}`, "field age is required"},
		{"null age", `{"name":"Ana","age":null,"email":"a@x.com","course":"CS"}`, "field age is required"},
		{"age not a number", `{"name":"Ana","age":"twenty","email":"a@x.com","course":"CS"}`, ""},
		{"fractional age", `{"name":"Ana","age":20.5,"email":"a@x.com","course":"CS"}`, "field age must be an integer"},
		{"array", `[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newAPI()

			rec := do(t, api, http.MethodPost, "/students", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decode[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
			}

			// Nothing was stored, so the next create still gets id 1.
			rec = do(t, api, http.MethodPost, "/students", anaJSON)
			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, int64(1), decode[types.Student](t, rec).ID)
		})
	}
}

func TestGetList(t *testing.T) {
	api := newAPI()

	rec := do(t, api, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	for _, name := range []string{"Ana", "Bruno"} {
		body := fmt.Sprintf(`{"name":%q,"age":20,"email":"x@x.com","course":"CS"}`, name)
		require.Equal(t, http.StatusCreated, do(t, api, http.MethodPost, "/students", body).Code)
	}

	rec = do(t, api, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	students := decode[[]types.Student](t, rec)
	require.Len(t, students, 2)
	assert.Equal(t, int64(1), students[0].ID)
	assert.Equal(t, "Ana", students[0].Name)
	assert.Equal(t, int64(2), students[1].ID)
	assert.Equal(t, "Bruno", students[1].Name)
}

func TestGetByIDNotFound(t *testing.T) {
	api := newAPI()

	rec := do(t, api, http.MethodGet, "/students/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"student not found"}`, rec.Body.String())
}

func TestInvalidID(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := do(t, newAPI(), method, "/students/abc", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"invalid id: must be an integer"}`, rec.Body.String())
		})
	}
}

func TestDelete(t *testing.T) {
	api := newAPI()
	require.Equal(t, http.StatusCreated, do(t, api, http.MethodPost, "/students", anaJSON).Code)

	rec := do(t, api, http.MethodDelete, "/students/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"student removed successfully"}`, rec.Body.String())

	rec = do(t, api, http.MethodGet, "/students/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodGet, "/students", "")
	assert.Empty(t, decode[[]types.Student](t, rec))

	// A second delete is a plain not-found, not a server error.
	rec = do(t, api, http.MethodDelete, "/students/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"student not found"}`, rec.Body.String())

	// Ids are not reused after deletion.
	rec = do(t, api, http.MethodPost, "/students", anaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2), decode[types.Student](t, rec).ID)
}

func TestMethodNotAllowed(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/students"},
		{http.MethodPut, "/students"},
		{http.MethodDelete, "/students"},
		{http.MethodPut, "/students/1"},
		{http.MethodPost, "/students/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, newAPI(), tt.method, tt.path, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.JSONEq(t, `{"error":"method not supported"}`, rec.Body.String())
		})
	}
}

func TestConcurrentCreates(t *testing.T) {
	api := newAPI()

	const k = 50
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []int64
	)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec := httptest.NewRecorder()
			api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(anaJSON)))
			if !assert.Equal(t, http.StatusCreated, rec.Code) {
				return
			}

			var s types.Student
			if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s)) {
				return
			}
			mu.Lock()
			ids = append(ids, s.ID)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	require.Len(t, ids, k)
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}
