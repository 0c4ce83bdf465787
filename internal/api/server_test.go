package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leaseintake/internal/config"
	"leaseintake/internal/models"
	"leaseintake/internal/storage"
	"leaseintake/internal/trace"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, config.Config, storage.Journal) {
	t.Helper()
	cfg := config.Config{DataInRoot: t.TempDir(), DataOutRoot: t.TempDir(), TemporalTaskQueue: "test"}
	j := storage.NewFileJournal(cfg.LogDir())
	return NewServer(cfg, nil, j, nil), cfg, j
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error object: %s", rec.Body.String())
	return e["code"].(string)
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["ok"])
}

func TestListSubmissionsFiltersAndOrders(t *testing.T) {
	s, _, j := newTestServer(t)
	log := storage.NewSubmissionLog(j)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, log.Record(ctx, models.Submission{TicketID: "A", ContactMethod: models.ContactEmail, Timestamp: base}))
	require.NoError(t, log.Record(ctx, models.Submission{TicketID: "B", ContactMethod: models.ContactSMS, Timestamp: base.Add(time.Minute)}))
	require.NoError(t, log.Record(ctx, models.Submission{TicketID: "C", ContactMethod: models.ContactEmail, Timestamp: base.Add(2 * time.Minute)}))

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions?method=email", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Submissions []models.Submission `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Submissions, 2)
	require.Equal(t, "C", out.Submissions[0].TicketID)
	require.Equal(t, "A", out.Submissions[1].TicketID)
}

func TestListErrorsEmpty(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/errors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"errors":[]}`, rec.Body.String())
}

func TestExportSpreadsheet(t *testing.T) {
	s, _, j := newTestServer(t)
	require.NoError(t, storage.NewSubmissionLog(j).Record(context.Background(), models.Submission{TicketID: "A", ContactMethod: models.ContactEmail}))

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestVisionPagesLatestAndNamed(t *testing.T) {
	s, cfg, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces/latest/vision-pages", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	r := trace.NewRecorder(cfg.TraceDir(), "run-abc", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, r.Append(trace.Entry{Page: 1, Summary: "Rent and fees."}))
	require.NoError(t, r.Append(trace.Entry{Page: 2, Summary: "Signature block for the tenant."}))
	_, _, err := r.Flush()
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces/latest/vision-pages", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"trace":"`+r.Name()+`","pages":[2]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces/"+r.Name()+"/vision-pages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces/other.json/vision-pages", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces/trace_summary_missing.json/vision-pages", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartBody(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSubmitValidation(t *testing.T) {
	s, _, _ := newTestServer(t)
	cases := []struct {
		name     string
		fields   map[string]string
		filename string
		code     int
	}{
		{"no file", map[string]string{"email": "a@b.c"}, "", http.StatusBadRequest},
		{"not a pdf", map[string]string{"email": "a@b.c"}, "lease.docx", http.StatusBadRequest},
		{"no contact", map[string]string{"ticket_id": "T"}, "lease.pdf", http.StatusBadRequest},
		{"bad method", map[string]string{"email": "a@b.c", "contact_method": "fax"}, "lease.pdf", http.StatusBadRequest},
		{"bad phone", map[string]string{"phone": "12", "contact_method": "sms"}, "lease.pdf", http.StatusBadRequest},
		{"no workflow client", map[string]string{"email": "a@b.c"}, "lease.pdf", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := multipartBody(t, tc.fields, tc.filename)
			req := httptest.NewRequest(http.MethodPost, "/submissions", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			s.Routes().ServeHTTP(rec, req)
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestToAPIErrorCodes(t *testing.T) {
	require.Equal(t, "LI-API-4004", toAPIError(http.StatusNotFound, nil).Code)
	require.Equal(t, "LI-API-4005", toAPIError(http.StatusMethodNotAllowed, nil).Code)
	require.Equal(t, "LI-API-5000", toAPIError(http.StatusInternalServerError, nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/errors", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "LI-API-4005", errorCode(t, rec))
}
