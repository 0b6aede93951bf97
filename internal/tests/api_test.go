// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/gearguard-backend/internal/config"
	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/router"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/store/gormstore"
	"github.com/javajoker/gearguard-backend/internal/testutil"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type stubProvider struct {
	sessions map[string]*services.CheckoutSession
}

func (p *stubProvider) CreateCheckoutSession(ctx context.Context, params *services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{ID: "cs_new", URL: "https://checkout.test/cs_new"}, nil
}

func (p *stubProvider) RetrieveSession(ctx context.Context, id string) (*services.CheckoutSession, error) {
	if s, ok := p.sessions[id]; ok {
		return s, nil
	}
	return nil, errors.New("no such session")
}

func (p *stubProvider) ParseWebhook(payload []byte, signature string) (*services.WebhookEvent, error) {
	return nil, errors.New("no signatures header")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

type APITestSuite struct {
	suite.Suite
	store    *gormstore.Store
	provider *stubProvider
	router   *gin.Engine
	stop     func()
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	require.NoError(suite.T(), i18n.Initialize())
	utils.SetJWTSecret("test-secret")
}

func (suite *APITestSuite) SetupTest() {
	suite.store = testutil.NewSQLiteStore(suite.T())
	suite.provider = &stubProvider{sessions: map[string]*services.CheckoutSession{}}

	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 60},
		Payment:     config.PaymentConfig{Currency: "usd"},
		Frontend:    config.FrontendConfig{BaseURL: "https://app.test"},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond:  1000,
			Burst:              1000,
			SensitivePerSecond: 1000,
			SensitiveBurst:     1000,
		},
		I18n:          config.I18nConfig{DefaultLocale: "en"},
		DefaultAvatar: "https://avatar.test/default.png",
	}
	require.NoError(suite.T(), suite.store.Packages().Replace(context.Background(), config.DefaultPackages()))

	svc := router.NewServices(cfg, suite.store, nil, suite.provider)
	suite.router, suite.stop = router.Initialize(cfg, suite.store, svc)
}

func (suite *APITestSuite) TearDownTest() {
	suite.stop()
}

func (suite *APITestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(suite.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (suite *APITestSuite) register(email, role string) string {
	w, _ := suite.do(http.MethodPost, "/users", "", map[string]interface{}{
		"name":        "User",
		"email":       email,
		"role":        role,
		"companyName": "Acme",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	w, env := suite.do(http.MethodPost, "/jwt", "", map[string]string{"email": email})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	var token services.TokenResponse
	require.NoError(suite.T(), json.Unmarshal(env.Data, &token))
	return token.Token
}

func (suite *APITestSuite) TestHealth() {
	w, env := suite.do(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), env.Success)
}

func (suite *APITestSuite) TestTokenIssuing() {
	w, env := suite.do(http.MethodPost, "/jwt", "", map[string]string{"email": "ghost@acme.io"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.False(suite.T(), env.Success)

	w, env = suite.do(http.MethodPost, "/jwt", "", map[string]string{"email": "not-an-email"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", env.Error.Code)

	suite.register("hr@acme.io", "Hr")
	w, _ = suite.do(http.MethodPost, "/users", "", map[string]string{"email": "hr@acme.io", "role": "Hr"})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *APITestSuite) TestAuthentication() {
	hrToken := suite.register("hr@acme.io", "Hr")
	employeeToken := suite.register("e1@acme.io", "Employee")

	w, _ := suite.do(http.MethodGet, "/asset", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	expired, err := utils.GenerateJWT("hr@acme.io", -time.Minute)
	require.NoError(suite.T(), err)
	w, _ = suite.do(http.MethodGet, "/asset", expired, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, _ = suite.do(http.MethodGet, "/asset", employeeToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodGet, "/asset", hrToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodGet, "/user/e1@acme.io", hrToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, env := suite.do(http.MethodGet, "/users/role/e1@acme.io", employeeToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"role":"Employee"}`, string(env.Data))

	ghostToken, err := utils.GenerateJWT("ghost@acme.io", time.Minute)
	require.NoError(suite.T(), err)
	w, _ = suite.do(http.MethodGet, "/asset", ghostToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestRequestLifecycle() {
	hrToken := suite.register("hr@acme.io", "Hr")
	employeeToken := suite.register("e1@acme.io", "Employee")

	w, env := suite.do(http.MethodPost, "/asset", hrToken, map[string]interface{}{
		"productName":     "Laptop",
		"productType":     "Returnable",
		"productQuantity": "2",
		"productImage":    "https://img.test/laptop.png",
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &created))

	w, env = suite.do(http.MethodGet, "/assets/available?limit=5", employeeToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"pagination":{"page":1,"limit":5,"total":1,"totalPages":1}}`, string(env.Meta))

	w, env = suite.do(http.MethodPost, "/request", employeeToken, map[string]string{"assetId": created.InsertedID})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var submitted struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &submitted))

	w, _ = suite.do(http.MethodPost, "/request", employeeToken, map[string]string{"assetId": created.InsertedID})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodPatch, "/request/approve/"+submitted.InsertedID, hrToken, map[string]string{})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(suite.T(), `{"modifiedCount":1}`, string(env.Data))

	w, _ = suite.do(http.MethodPatch, "/request/reject/"+submitted.InsertedID, hrToken, nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodGet, "/my-requests", employeeToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var mine []struct {
		AssetName     string `json:"assetName"`
		RequestStatus string `json:"requestStatus"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &mine))
	require.Len(suite.T(), mine, 1)
	assert.Equal(suite.T(), "Laptop", mine[0].AssetName)
	assert.Equal(suite.T(), "approved", mine[0].RequestStatus)

	w, env = suite.do(http.MethodGet, "/my-asset", employeeToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var assigned []struct {
		ID     string `json:"_id"`
		Status string `json:"status"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &assigned))
	require.Len(suite.T(), assigned, 1)
	assert.Equal(suite.T(), "assigned", assigned[0].Status)

	w, _ = suite.do(http.MethodPatch, "/asset/return/"+assigned[0].ID, employeeToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w, _ = suite.do(http.MethodPatch, "/asset/return/"+assigned[0].ID, employeeToken, nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodGet, "/employees/stats", hrToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"used":1,"limit":5}`, string(env.Data))
}

func (suite *APITestSuite) TestVerifySession() {
	hrToken := suite.register("hr@acme.io", "Hr")
	suite.provider.sessions["cs_other"] = &services.CheckoutSession{
		ID: "cs_other", CustomerEmail: "hr@globex.io", Paid: true, PaymentIntentID: "pi_other",
		Metadata: map[string]string{services.MetadataPackageName: "Standard", services.MetadataEmployeeLimit: "10"},
	}
	suite.provider.sessions["cs_mine"] = &services.CheckoutSession{
		ID: "cs_mine", CustomerEmail: "hr@acme.io", Paid: true, PaymentIntentID: "pi_mine", AmountTotal: 800,
		Metadata: map[string]string{services.MetadataPackageName: "Standard", services.MetadataEmployeeLimit: "10"},
	}

	w, _ := suite.do(http.MethodGet, "/verify-session?session_id=cs_other", hrToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodGet, "/verify-session?session_id=cs_missing", hrToken, nil)
	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)

	w, env := suite.do(http.MethodGet, "/verify-session?session_id=cs_mine", hrToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	assert.True(suite.T(), env.Success)

	w, env = suite.do(http.MethodGet, "/user/hr@acme.io", hrToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var user struct {
		PackageLimit int    `json:"packageLimit"`
		Subscription string `json:"subscription"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &user))
	assert.Equal(suite.T(), 15, user.PackageLimit)
	assert.Equal(suite.T(), "Standard", user.Subscription)

	w, env = suite.do(http.MethodGet, "/payments", hrToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"pagination":{"page":1,"limit":10,"total":1,"totalPages":1}}`, string(env.Meta))
}

func (suite *APITestSuite) TestWebhookRejectsBadSignature() {
	w, env := suite.do(http.MethodPost, "/webhooks/stripe", "", map[string]string{"type": "checkout.session.completed"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.False(suite.T(), env.Success)
}

func (suite *APITestSuite) TestPackages() {
	w, env := suite.do(http.MethodGet, "/packages", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var packages []struct {
		Name string `json:"name"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &packages))
	assert.Len(suite.T(), packages, 3)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
