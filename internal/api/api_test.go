package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
	"github.com/veckert/daybook/internal/taskservice"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(taskservice.NewService(store.NewMemory(), nil), false, "", nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeItem(t *testing.T, body *bytes.Buffer) models.Item {
	t.Helper()
	var it models.Item
	if err := json.Unmarshal(body.Bytes(), &it); err != nil {
		t.Fatalf("decode item: %v (body %s)", err, body.String())
	}
	return it
}

func TestCreateTask(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/tasks",
		`{"title":"Buy milk","listType":"SHOPPING","quantity":"2 l","dueDate":"2026-12-05T09:00:00Z"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	it := decodeItem(t, w.Body)
	if it.ID == "" || it.Title != "Buy milk" || it.ListType != models.ListShopping {
		t.Errorf("unexpected item %+v", it)
	}
	if it.Priority != models.PriorityNormal {
		t.Errorf("priority = %q, want default NORMAL", it.Priority)
	}
	if it.DueDate == nil {
		t.Error("dueDate lost")
	}
}

func TestCreateTask_Validation(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"listType":"TODO"}`},
		{"missing listType", `{"title":"x"}`},
		{"unknown listType", `{"title":"x","listType":"WISHLIST"}`},
		{"unknown priority", `{"title":"x","listType":"TODO","priority":"ASAP"}`},
		{"bad dueDate", `{"title":"x","listType":"TODO","dueDate":"tomorrow"}`},
		{"broken json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/tasks", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestListTasks_FilterByListType(t *testing.T) {
	h := newTestRouter(t)
	doJSON(t, h, http.MethodPost, "/tasks", `{"title":"todo","listType":"TODO"}`)
	doJSON(t, h, http.MethodPost, "/tasks", `{"title":"Milk","listType":"SHOPPING"}`)

	w := doJSON(t, h, http.MethodGet, "/tasks?listType=SHOPPING", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp TaskListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Tasks) != 1 || resp.Tasks[0].Title != "Milk" {
		t.Errorf("resp = %+v, want only Milk", resp)
	}

	if w := doJSON(t, h, http.MethodGet, "/tasks?listType=WISHLIST", ""); w.Code != http.StatusBadRequest {
		t.Errorf("unknown listType: status = %d, want 400", w.Code)
	}
}

func TestGetUpdateDeleteLifecycle(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/tasks", `{"title":"draft","listType":"TODO"}`)
	created := decodeItem(t, w.Body)

	w = doJSON(t, h, http.MethodGet, "/tasks/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPut, "/tasks/"+created.ID, `{"title":"final","priority":"HIGH"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decodeItem(t, w.Body)
	if updated.Title != "final" || updated.Priority != models.PriorityHigh {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updatedAt did not advance")
	}

	w = doJSON(t, h, http.MethodDelete, "/tasks/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/tasks/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
	if w := doJSON(t, h, http.MethodDelete, "/tasks/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	h := newTestRouter(t)
	w := doJSON(t, h, http.MethodPost, "/tasks",
		`{"title":"dated","listType":"TODO","dueDate":"2026-12-05T09:00:00Z"}`)
	created := decodeItem(t, w.Body)

	w = doJSON(t, h, http.MethodPut, "/tasks/"+created.ID, `{"dueDate":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if updated := decodeItem(t, w.Body); updated.DueDate != nil {
		t.Errorf("dueDate = %v, want cleared", updated.DueDate)
	}
}

func TestToggleTask(t *testing.T) {
	h := newTestRouter(t)
	w := doJSON(t, h, http.MethodPost, "/tasks", `{"title":"flip","listType":"TODO"}`)
	created := decodeItem(t, w.Body)

	w = doJSON(t, h, http.MethodPatch, "/tasks/"+created.ID+"/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if toggled := decodeItem(t, w.Body); !toggled.Completed {
		t.Error("item not completed after toggle")
	}

	if w := doJSON(t, h, http.MethodPatch, "/tasks/nope/toggle", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestSearch(t *testing.T) {
	h := newTestRouter(t)
	doJSON(t, h, http.MethodPost, "/tasks", `{"title":"Quarterly report","listType":"TODO"}`)
	doJSON(t, h, http.MethodPost, "/tasks", `{"title":"Walk","listType":"TODO"}`)

	w := doJSON(t, h, http.MethodGet, "/search?q=report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Results []store.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Quarterly report" {
		t.Errorf("results = %+v", resp.Results)
	}

	if w := doJSON(t, h, http.MethodGet, "/search", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := taskservice.NewService(store.NewMemory(), nil)
	h := NewRouter(svc, true, "secret", nil)

	w := doJSON(t, h, http.MethodGet, "/tasks", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	r.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	r.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", w.Code)
	}
}

func TestImportUpload(t *testing.T) {
	h := newTestRouter(t)

	batch := `[
		{"title": "Milk", "listType": "SHOPPING", "quantity": "2"},
		{"title": "   "},
		{"title": "Dentist", "dueDate": "2026-09-03T10:00:00Z"}
	]`

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "batch.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(batch)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/import", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["created"] != 2 {
		t.Errorf("created = %d, want 2 (blank title skipped)", resp["created"])
	}

	lw := doJSON(t, h, http.MethodGet, "/tasks", "")
	var list TaskListResponse
	if err := json.Unmarshal(lw.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 {
		t.Errorf("total after import = %d, want 2", list.Total)
	}
}

func TestImportUpload_MissingFile(t *testing.T) {
	h := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "not a file")
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/import", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
