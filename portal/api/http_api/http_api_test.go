package http_api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/portal/api/http_api"
	"github.com/agridesk/consentd/portal/config"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/services"
)

type testServer struct {
	srv   *httptest.Server
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	req := require.New(t)

	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	req.NoError(os.Mkdir(templatesDir, 0o755))
	req.NoError(os.WriteFile(filepath.Join(templatesDir, "consent.pdf"), []byte("%PDF-1.7"), 0o644))

	cfg, err := config.Load("")
	req.NoError(err)
	cfg.StateDBDSN = filepath.Join(dir, "state")
	cfg.TemplatesDir = templatesDir
	cfg.JWTSecret = "test-secret"
	cfg.AuditConfig.FilePath = filepath.Join(dir, "audit.log")
	cfg.AuditConfig.LockPath = filepath.Join(dir, "audit.lock")

	logger := common.NewLogger("http_api_test")

	sp, err := services.InitServices(context.Background(), cfg, logger)
	req.NoError(err)
	t.Cleanup(func() { _ = sp.Close() })

	_, err = sp.GetUserStore().Create("jane@example.com", "hunter22", auth.RoleApplicant)
	req.NoError(err)
	_, err = sp.GetUserStore().Create("admin@example.com", "sup3rvisor", auth.RoleAdmin)
	req.NoError(err)

	provider := &http_api.RESTApiProvider{}
	req.NoError(provider.NewServer(cfg, sp, logger))

	srv := httptest.NewServer(provider.Handler())
	t.Cleanup(srv.Close)

	ts := &testServer{srv: srv}
	ts.token = ts.login(t, "jane@example.com", "hunter22")
	return ts
}

// do sends a request and decodes the {result} envelope into out.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) (int, string) {
	t.Helper()
	req := require.New(t)

	var reader io.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		req.NoError(err)
		reader = bytes.NewReader(bz)
	}

	httpReq, err := http.NewRequest(method, ts.srv.URL+path, reader)
	req.NoError(err)
	httpReq.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+ts.token)
	}

	resp, err := ts.srv.Client().Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	req.NoError(err)

	var envelope struct {
		Result       json.RawMessage `json:"result"`
		ErrorMessage string          `json:"error_message"`
	}
	req.NoError(json.Unmarshal(raw, &envelope))

	if out != nil && len(envelope.Result) > 0 {
		req.NoError(json.Unmarshal(envelope.Result, out))
	}
	return resp.StatusCode, envelope.ErrorMessage
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	var result struct {
		Token string `json:"token"`
	}
	code, errMsg := ts.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	require.Equal(t, http.StatusOK, code, errMsg)
	require.NotEmpty(t, result.Token)
	return result.Token
}

var validFieldsBody = map[string]interface{}{
	"name":     "Jane Doe",
	"address":  "1 Orchard Lane",
	"farmCode": "FC-100",
	"email":    "jane@example.com",
}

func TestAPI_RequiresAuth(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	anon := &testServer{srv: ts.srv}
	code, _ := anon.do(t, http.MethodPost, "/api/grant-applications",
		map[string]string{"applicant": "Jane Doe"}, nil)
	req.Equal(http.StatusUnauthorized, code)
}

func TestAPI_DownloadTemplateIsPublic(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	resp, err := ts.srv.Client().Get(ts.srv.URL + "/api/download-template/consent.pdf")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("application/pdf", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.Equal([]byte("%PDF-1.7"), data)
}

func TestAPI_ConsentWorkflowLifecycle(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	var app struct {
		ID string `json:"id"`
	}
	code, errMsg := ts.do(t, http.MethodPost, "/api/grant-applications",
		map[string]string{"applicant": "Jane Doe"}, &app)
	req.Equal(http.StatusOK, code, errMsg)
	req.NotEmpty(app.ID)

	var wf struct {
		ID          string `json:"id"`
		State       string `json:"state"`
		TemplateURL string `json:"templateUrl"`
	}
	code, errMsg = ts.do(t, http.MethodPost, "/api/consent-workflows",
		map[string]string{"applicationId": app.ID, "templateId": "consent.pdf"}, &wf)
	req.Equal(http.StatusOK, code, errMsg)
	req.NotEmpty(wf.ID)
	req.Equal("/api/download-template/consent.pdf", wf.TemplateURL)

	base := fmt.Sprintf("/api/consent-workflows/%s", wf.ID)

	code, errMsg = ts.do(t, http.MethodPost, base+"/fields", validFieldsBody, nil)
	req.Equal(http.StatusOK, code, errMsg)

	for _, stroke := range []map[string]interface{}{
		{"action": "begin", "x": 20.0, "y": 60.0},
		{"action": "extend", "x": 180.0, "y": 90.0},
		{"action": "end"},
	} {
		code, errMsg = ts.do(t, http.MethodPost, base+"/strokes", stroke, nil)
		req.Equal(http.StatusOK, code, errMsg)
	}

	var previewed struct {
		State           string `json:"state"`
		PreviewHandleID string `json:"previewHandleId"`
	}
	code, errMsg = ts.do(t, http.MethodPost, base+"/preview", nil, &previewed)
	req.Equal(http.StatusOK, code, errMsg)
	req.NotEmpty(previewed.PreviewHandleID)

	// preview blob is served through its handle
	resp, err := func() (*http.Response, error) {
		httpReq, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/api/handles/"+previewed.PreviewHandleID, nil)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+ts.token)
		return ts.srv.Client().Do(httpReq)
	}()
	req.NoError(err)
	blob, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("%PDF", string(blob[:4]))

	var record struct {
		ApplicationID string `json:"applicationId"`
		ConsentName   string `json:"consentName"`
	}
	code, errMsg = ts.do(t, http.MethodPost, base+"/complete", nil, &record)
	req.Equal(http.StatusOK, code, errMsg)
	req.Equal(app.ID, record.ApplicationID)
	req.Equal("Jane Doe", record.ConsentName)

	var stored struct {
		ConsentFormCompleted bool   `json:"consentFormCompleted"`
		ConsentFarmCode      string `json:"consentFarmCode"`
		Status               string `json:"status"`
	}
	code, errMsg = ts.do(t, http.MethodGet, "/api/grant-applications/"+app.ID, nil, &stored)
	req.Equal(http.StatusOK, code, errMsg)
	req.True(stored.ConsentFormCompleted)
	req.Equal("FC-100", stored.ConsentFarmCode)

	// the workflow was closed on completion
	code, _ = ts.do(t, http.MethodGet, base, nil, nil)
	req.Equal(http.StatusNotFound, code)
}

func TestAPI_PreviewValidatesFields(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	var app struct {
		ID string `json:"id"`
	}
	code, errMsg := ts.do(t, http.MethodPost, "/api/grant-applications",
		map[string]string{"applicant": "Jane Doe"}, &app)
	req.Equal(http.StatusOK, code, errMsg)

	var wf struct {
		ID string `json:"id"`
	}
	code, errMsg = ts.do(t, http.MethodPost, "/api/consent-workflows",
		map[string]string{"applicationId": app.ID, "templateId": "consent.pdf"}, &wf)
	req.Equal(http.StatusOK, code, errMsg)

	base := fmt.Sprintf("/api/consent-workflows/%s", wf.ID)

	badFields := map[string]interface{}{
		"name":     "Jane Doe",
		"address":  "1 Orchard Lane",
		"farmCode": "FC-100",
		"email":    "not-an-email",
	}
	code, errMsg = ts.do(t, http.MethodPost, base+"/fields", badFields, nil)
	req.Equal(http.StatusOK, code, errMsg)

	code, errMsg = ts.do(t, http.MethodPost, base+"/preview", nil, nil)
	req.Equal(http.StatusBadRequest, code)
	req.Contains(errMsg, "email")
}

func TestAPI_AuditEventsAdminOnly(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	var app struct {
		ID string `json:"id"`
	}
	code, errMsg := ts.do(t, http.MethodPost, "/api/grant-applications",
		map[string]string{"applicant": "Jane Doe"}, &app)
	req.Equal(http.StatusOK, code, errMsg)

	code, errMsg = ts.do(t, http.MethodPost, "/api/consent-workflows",
		map[string]string{"applicationId": app.ID, "templateId": "consent.pdf"}, nil)
	req.Equal(http.StatusOK, code, errMsg)

	// applicants cannot read the audit trail
	code, _ = ts.do(t, http.MethodGet, "/api/audit-events", nil, nil)
	req.Equal(http.StatusForbidden, code)

	admin := &testServer{srv: ts.srv}
	admin.token = admin.login(t, "admin@example.com", "sup3rvisor")

	var events []struct {
		Kind          string `json:"kind"`
		ApplicationID string `json:"applicationId"`
		Actor         string `json:"actor"`
	}
	code, errMsg = admin.do(t, http.MethodGet, "/api/audit-events?offset=0", nil, &events)
	req.Equal(http.StatusOK, code, errMsg)
	req.NotEmpty(events)
	req.Equal("workflow_opened", events[0].Kind)
	req.Equal(app.ID, events[0].ApplicationID)
	req.Equal("jane@example.com", events[0].Actor)
}

func TestAPI_DigitalSignatureEndpoint(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	var app struct {
		ID string `json:"id"`
	}
	code, errMsg := ts.do(t, http.MethodPost, "/api/grant-applications",
		map[string]string{"applicant": "Jane Doe"}, &app)
	req.Equal(http.StatusOK, code, errMsg)

	body := map[string]interface{}{
		"signature": "data:image/png;base64,AAAA",
		"name":      "Jane Doe",
		"address":   "1 Orchard Lane",
		"farmCode":  "FC-100",
		"email":     "jane@example.com",
	}
	var result struct {
		ConsentFormCompleted bool `json:"consentFormCompleted"`
	}
	code, errMsg = ts.do(t, http.MethodPost, "/api/digital-signature/"+app.ID, body, &result)
	req.Equal(http.StatusOK, code, errMsg)
	req.True(result.ConsentFormCompleted)

	var stored struct {
		DigitalSignature string `json:"digitalSignature"`
	}
	code, errMsg = ts.do(t, http.MethodGet, "/api/grant-applications/"+app.ID, nil, &stored)
	req.Equal(http.StatusOK, code, errMsg)
	req.Equal("data:image/png;base64,AAAA", stored.DigitalSignature)
}
