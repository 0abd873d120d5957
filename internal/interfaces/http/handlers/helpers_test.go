package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/interfaces/http/middleware"
	"github.com/turtlebank/teenfin/internal/llm"
	"github.com/turtlebank/teenfin/internal/upload"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGateway struct {
	enabled bool
	reply   string
	err     error
}

func (f *fakeGateway) Generate(_ context.Context, _, _ string, _ llm.GenerationParams) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGateway) Enabled() bool { return f.enabled }

func intPtr(v int) *int { return &v }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	questions := []catalog.SurveyQuestion{
		{ID: "age-band", Title: "학년", Type: "single", Options: []catalog.SurveyOption{
			{ID: "middle-3", Label: "중3"}, {ID: "high-1", Label: "고1"}}},
		{ID: "risk-attitude", Title: "위험 선호", Type: "single", Options: []catalog.SurveyOption{
			{ID: "safety-first", Label: "안전 우선"}, {ID: "balanced", Label: "균형"}}},
	}
	products := []catalog.FinancialProduct{
		{ID: "SAV001", Type: catalog.ProductSavings, Name: "틴 적금",
			Headline: "차곡차곡", Benefits: []string{"연 4% 금리"},
			MinAge: intPtr(14), MaxAge: intPtr(19), RiskProfiles: []string{"safety-first"}},
		{ID: "CARD001", Type: catalog.ProductCard, Name: "틴 체크카드",
			Headline: "용돈 관리", Benefits: []string{"편의점 할인"}},
	}
	c, err := catalog.New(questions, products)
	require.NoError(t, err)
	return c
}

func testLogger() logging.Logger { return logging.NewNopLogger() }

// memoryStore is an in-process upload.ObjectStore for handler tests.
type memoryStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *memoryStore) Put(_ context.Context, objectName string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[objectName] = data
	m.contentTypes[objectName] = contentType
	return nil
}

func (m *memoryStore) Get(_ context.Context, objectName string) (io.ReadCloser, string, error) {
	data, ok := m.objects[objectName]
	if !ok {
		return nil, "", upload.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), m.contentTypes[objectName], nil
}

// newTestEngine builds a minimal engine with the request id middleware so the
// error envelope carries ids like the real router.
func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func performJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body
}
