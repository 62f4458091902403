package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikelabs-llc/schoolgate-pass/internal/auth"
	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
	"github.com/mikelabs-llc/schoolgate-pass/internal/testdb"
)

func TestAuthHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t,
		(*student.Student)(nil),
		(*auth.Profile)(nil),
		(*auth.RefreshToken)(nil),
	)

	mockMetrics := metrics.NewMock()
	studentRepo := student.NewRepository(pgContainer.DB, mockMetrics)
	authRepo := auth.NewRepository(pgContainer.DB, mockMetrics)
	tokens := auth.NewTokenManager("test-secret-key-for-testing")
	authService := auth.NewService(authRepo, studentRepo, tokens)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	authHandler := auth.NewHandler(authService, logger)

	router := chi.NewRouter()
	authHandler.RegisterRoutes(router)

	post := func(t *testing.T, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Register_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		w := post(t, "/auth/register", map[string]interface{}{
			"email":        "adeyemi@school.example",
			"display_name": "Ms. Adeyemi",
			"password":     "password123",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response auth.AuthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.NotEmpty(t, response.AccessToken)
		assert.NotEmpty(t, response.RefreshToken)
		require.NotNil(t, response.Profile)
		assert.Equal(t, "teacher", response.Profile.Role)

		// Verify auth cookie was set
		var foundAuthCookie bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "token" {
				foundAuthCookie = true
				assert.Equal(t, response.AccessToken, cookie.Value)
				break
			}
		}
		assert.True(t, foundAuthCookie, "token cookie should be set")
	})

	t.Run("Register_DuplicateEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		first := post(t, "/auth/register", map[string]interface{}{
			"email":    "duplicate@school.example",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := post(t, "/auth/register", map[string]interface{}{
			"email":    "duplicate@school.example",
			"password": "password456",
		})
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("Login_And_Refresh", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		registered := post(t, "/auth/register", map[string]interface{}{
			"email":    "login@school.example",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, registered.Code)

		w := post(t, "/auth/login", map[string]interface{}{
			"email":    "login@school.example",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var response auth.AuthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.NotEmpty(t, response.RefreshToken)

		refreshed := post(t, "/auth/refresh", map[string]interface{}{
			"refreshToken": response.RefreshToken,
		})
		assert.Equal(t, http.StatusOK, refreshed.Code)

		var refreshedResponse auth.AuthResponse
		require.NoError(t, json.NewDecoder(refreshed.Body).Decode(&refreshedResponse))
		assert.NotEmpty(t, refreshedResponse.AccessToken)
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		registered := post(t, "/auth/register", map[string]interface{}{
			"email":    "wrongpass@school.example",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, registered.Code)

		w := post(t, "/auth/login", map[string]interface{}{
			"email":    "wrongpass@school.example",
			"password": "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Logout_InvalidatesRefreshToken", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		registered := post(t, "/auth/register", map[string]interface{}{
			"email":    "logout@school.example",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, registered.Code)

		var response auth.AuthResponse
		require.NoError(t, json.NewDecoder(registered.Body).Decode(&response))

		loggedOut := post(t, "/auth/logout", map[string]interface{}{
			"refreshToken": response.RefreshToken,
		})
		assert.Equal(t, http.StatusNoContent, loggedOut.Code)

		refreshed := post(t, "/auth/refresh", map[string]interface{}{
			"refreshToken": response.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, refreshed.Code)
	})

	t.Run("ParentLogin_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		ctx := context.Background()
		uid := "AB12CD34"
		password := "p4rent99"
		created, err := studentRepo.Create(ctx, &student.Student{
			Name:           "Amara Obi",
			Class:          "JSS 2",
			ChildUID:       &uid,
			ParentPassword: &password,
		})
		require.NoError(t, err)

		w := post(t, "/parent/login", map[string]interface{}{
			"child_uid": uid,
			"password":  password,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var response auth.ParentLoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.NotEmpty(t, response.AccessToken)

		claims, err := tokens.ValidateToken(response.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleParent, claims.Role)
		assert.Equal(t, created.ID, claims.StudentID)
	})

	t.Run("ParentLogin_WrongPassword", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		ctx := context.Background()
		uid := "EF56GH78"
		password := "p4rent99"
		_, err := studentRepo.Create(ctx, &student.Student{
			Name:           "Amara Obi",
			Class:          "JSS 2",
			ChildUID:       &uid,
			ParentPassword: &password,
		})
		require.NoError(t, err)

		w := post(t, "/parent/login", map[string]interface{}{
			"child_uid": uid,
			"password":  "guess",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ParentLogin_UnknownChildUID", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "students", "profiles", "refresh_tokens")

		w := post(t, "/parent/login", map[string]interface{}{
			"child_uid": "ZZ99ZZ99",
			"password":  "whatever",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
