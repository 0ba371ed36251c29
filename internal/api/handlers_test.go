package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawlingo/pawlingo-server/internal/assistant"
	"github.com/pawlingo/pawlingo-server/internal/auth"
	"github.com/pawlingo/pawlingo-server/internal/llm"
	"github.com/pawlingo/pawlingo-server/internal/models"
	"github.com/pawlingo/pawlingo-server/internal/notify"
	"github.com/pawlingo/pawlingo-server/internal/session"
)

// setupTestRouter wires the full API against a temp-file session store.
// No wallet capability is injected, so metamask logins fail.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	auth.InitJWTKey([]byte("test-secret-key-for-api-tests"))

	store := session.NewFileStore(filepath.Join(t.TempDir(), "pawlingo_user.json"))
	notifier := notify.NewLogNotifier("test")
	authService := auth.NewService(store, notifier,
		&auth.GoogleProvider{},
		&auth.EmailProvider{},
		&auth.MetaMaskProvider{},
	)

	// No credential configured: the assistant answers from the canned
	// fallback responder, no network involved.
	transport := llm.NewTransport("", "", notifier)
	controller := assistant.NewController(transport)

	authHandler := NewAuthHandler(authService)
	assistantHandler := NewAssistantHandler(controller)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/assistant/suggestions", assistantHandler.GetSuggestions)

	authorized := router.Group("/api")
	authorized.Use(AuthMiddleware())
	{
		authorized.GET("/auth/me", authHandler.GetMe)
		authorized.POST("/auth/logout", authHandler.Logout)
		authorized.PUT("/profile", authHandler.UpdateProfile)
		authorized.POST("/assistant/messages", assistantHandler.SendMessage)
		authorized.GET("/assistant/messages", assistantHandler.GetHistory)
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, router *gin.Engine, provider models.AuthProvider, creds *models.Credentials) (string, models.User) {
	t.Helper()

	w := doJSON(t, router, "POST", "/api/auth/login", "", models.LoginRequest{
		Provider:    provider,
		Credentials: creds,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token, response.User
}

func TestLogin(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name       string
		input      models.LoginRequest
		wantStatus int
	}{
		{
			name:       "google login",
			input:      models.LoginRequest{Provider: models.ProviderGoogle},
			wantStatus: http.StatusOK,
		},
		{
			name: "email login",
			input: models.LoginRequest{
				Provider:    models.ProviderEmail,
				Credentials: &models.Credentials{Email: "jamie@example.com", Password: "password123"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "email login without credentials",
			input:      models.LoginRequest{Provider: models.ProviderEmail},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "metamask without wallet capability",
			input:      models.LoginRequest{Provider: models.ProviderMetaMask},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unsupported provider",
			input:      models.LoginRequest{Provider: "facebook"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/api/auth/login", "", tt.input)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var response struct {
					Token string      `json:"token"`
					User  models.User `json:"user"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.NotEmpty(t, response.Token)
				assert.Equal(t, tt.input.Provider, response.User.Provider)
			}
		})
	}
}

func TestGetMe(t *testing.T) {
	router := setupTestRouter(t)

	// Unauthenticated requests are turned away
	w := doJSON(t, router, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, user := loginAs(t, router, models.ProviderGoogle, nil)

	w = doJSON(t, router, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)
}

func TestUpdateProfile(t *testing.T) {
	router := setupTestRouter(t)
	token, user := loginAs(t, router, models.ProviderGoogle, nil)

	w := doJSON(t, router, "PUT", "/api/profile", token, map[string]string{
		"bio":      "Dog person",
		"pet_name": "Rex",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Dog person", updated.Bio)
	assert.Equal(t, "Rex", updated.PetName)
	// Untouched fields are preserved
	assert.Equal(t, user.Name, updated.Name)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUpdateProfileUnauthorized(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "PUT", "/api/profile", "", map[string]string{"bio": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := loginAs(t, router, models.ProviderGoogle, nil)

	w := doJSON(t, router, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The session is gone; the token still parses but there is no user
	w = doJSON(t, router, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendMessage(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := loginAs(t, router, models.ProviderGoogle, nil)

	w := doJSON(t, router, "POST", "/api/assistant/messages", token,
		models.MessageRequest{Content: "Why does my dog bark a lot?"})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Reply   models.ChatMessage   `json:"reply"`
		History []models.ChatMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.RoleAssistant, response.Reply.Role)
	assert.NotEmpty(t, response.Reply.Content)

	// One user message, one assistant message, in order
	require.Len(t, response.History, 2)
	assert.Equal(t, models.RoleUser, response.History[0].Role)
	assert.Equal(t, models.RoleAssistant, response.History[1].Role)
}

func TestSendMessageEmpty(t *testing.T) {
	router := setupTestRouter(t)
	token, _ := loginAs(t, router, models.ProviderGoogle, nil)

	w := doJSON(t, router, "POST", "/api/assistant/messages", token,
		models.MessageRequest{Content: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageUnauthorized(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/assistant/messages", "",
		models.MessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSuggestions(t *testing.T) {
	router := setupTestRouter(t)

	// Suggestions are public
	w := doJSON(t, router, "GET", "/api/assistant/suggestions", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var suggestions []assistant.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestions))
	assert.Len(t, suggestions, 4)
}
