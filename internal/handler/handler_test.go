package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"mailstats/internal/config"
	"mailstats/internal/middleware"
	"mailstats/internal/model"
	"mailstats/internal/service"
	"mailstats/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.InitSchema(context.Background()))

	statsSvc := service.NewStatsService(st)
	authSvc := service.NewAuthService(st)

	authH := NewAuthHandler(authSvc)
	uploadH := NewUploadHandler(statsSvc, "")
	statsH := NewStatsHandler(statsSvc)

	r := gin.New()
	r.POST("/api/login", authH.Login)
	r.POST("/api/init", authH.Init)
	api := r.Group("/api", middleware.JWTAuth())
	api.POST("/upload", uploadH.Upload)
	api.GET("/stats", statsH.Stats)
	api.GET("/summary", statsH.Summary)
	api.POST("/auth/create-user", authH.CreateUser)

	return r, st
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/init", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := json.Marshal(model.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doUpload(t *testing.T, r *gin.Engine, token, csv, filename string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(model.UploadRequest{
		File:     base64.StdEncoding.EncodeToString([]byte(csv)),
		Filename: filename,
	})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestUploadThenStats(t *testing.T) {
	r, _ := newTestRouter(t)
	token := loginToken(t, r)

	csv := `"User's email","Total Emails [2024-01-15 - 2024-02-14]","Emails Sent","Emails Received"
"a@b.com",5,2,3
"c@d.com",7,4,3`

	w := doUpload(t, r, token, csv, "users_logs_1.csv")
	require.Equal(t, http.StatusOK, w.Code)

	var up model.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	require.True(t, up.Success)
	require.Equal(t, 2, up.InsertedCount)
	require.Equal(t, 2, up.TotalRecords)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats?startDate=2024-01-15&endDate=2024-01-15", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []model.StatsRow `json:"data"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "a@b.com", resp.Data[0].Email)
}

func TestUploadRejectsUnparseableFile(t *testing.T) {
	r, _ := newTestRouter(t)
	token := loginToken(t, r)

	w := doUpload(t, r, token, "just one line", "x.csv")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "no valid data found")
}

func TestSummaryEmptyIsNotAnError(t *testing.T) {
	r, _ := newTestRouter(t)
	token := loginToken(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"data":[]`)
}

func TestEndpointsRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	loginToken(t, r)

	body, _ := json.Marshal(model.LoginRequest{Email: "admin@example.com", Password: "nope"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
