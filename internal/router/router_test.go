// internal/router/router_test.go
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/i18n"
	"github.com/javajoker/catalog-admin/internal/repository"
	"github.com/javajoker/catalog-admin/internal/services"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type stubHost struct {
	deleteErr error
}

func (h *stubHost) Upload(ctx context.Context, file services.UploadFile) (string, error) {
	return "https://cdn.example.com/" + file.Name, nil
}

func (h *stubHost) Delete(ctx context.Context, url string) error {
	return h.deleteErr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Warnings []string `json:"warnings"`
}

type RouterTestSuite struct {
	suite.Suite
	cfg    *config.Config
	store  *repository.MemoryStore
	host   *stubHost
	router *gin.Engine
	admin  string
	editor string
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("en"))
}

func (suite *RouterTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWT:      config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		Images:   config.ImageConfig{Driver: "cloudinary", BatchSize: 3, MaxSizeMB: 5},
		Catalog:  config.CatalogConfig{Currency: "BDT", ExportFilePrefix: "putimach", ExportCharset: "utf-8"},
		Frontend: config.FrontendConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	suite.store = repository.NewMemoryStore()
	suite.host = &stubHost{}
	suite.router = suite.build(suite.store)

	suite.admin = suite.login("rahim", "secret123")
	suite.editor = suite.login("karim", "editor123")
}

func (suite *RouterTestSuite) build(store repository.CatalogStore) *gin.Engine {
	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		suite.Require().NoError(err)
		return string(h)
	}
	roster, err := services.ParseRoster([]byte(fmt.Sprintf(
		"users:\n  - username: rahim\n    role: ADMIN\n    password_hash: %q\n  - username: karim\n    role: EDITOR\n    password_hash: %q\n",
		hash("secret123"), hash("editor123"))))
	suite.Require().NoError(err)

	svc, err := NewServices(store, roster, suite.host, suite.cfg)
	suite.Require().NoError(err)
	return Initialize(svc, suite.cfg)
}

func (suite *RouterTestSuite) do(method, path string, body interface{}, token string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		suite.Require().NoError(json.Unmarshal(env.Data, data))
	}
	return env
}

func (suite *RouterTestSuite) login(username, password string) string {
	w := suite.do("POST", "/v1/auth/login", gin.H{"username": username, "password": password}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	suite.decode(w, &data)
	return data.Token
}

func (suite *RouterTestSuite) createProduct(name string) string {
	w := suite.do("POST", "/v1/products", gin.H{
		"name": name, "category": "Shirts", "price": 1200, "stock": 3, "isNew": true, "inStock": true,
		"images":   []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		"variants": []gin.H{{"size": "M", "price": 1200, "stock": 2}, {"size": "L", "price": 1400, "stock": 1}},
	}, suite.editor)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	suite.decode(w, &data)
	return data.Product.ID
}

func (suite *RouterTestSuite) seedCategory() {
	w := suite.do("POST", "/v1/categories", gin.H{"name": "Shirts"}, suite.editor)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *RouterTestSuite) TestHealthAndMetrics() {
	w := suite.do("GET", "/health", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", "/metrics", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "catalog_http_requests_total")
}

func (suite *RouterTestSuite) TestLogin() {
	w := suite.do("POST", "/v1/auth/login", gin.H{"username": "RAHIM", "password": "nope"}, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	env := suite.decode(w, nil)
	assert.Equal(suite.T(), "Invalid username or password", env.Error.Message)

	w = suite.do("GET", "/v1/auth/me", nil, suite.admin)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"role":"ADMIN"`)
	assert.NotContains(suite.T(), w.Body.String(), "password")
}

func (suite *RouterTestSuite) TestAuthRequired() {
	w := suite.do("GET", "/v1/products", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("GET", "/v1/products", nil, "not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("GET", "/v1/products", nil, "", "Accept-Language", "bn-BD,bn;q=0.9")
	env := suite.decode(w, nil)
	assert.Equal(suite.T(), "লগইন প্রয়োজন", env.Error.Message)
}

func (suite *RouterTestSuite) TestUserManagementIsAdminOnly() {
	w := suite.do("GET", "/v1/users", nil, suite.editor)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do("POST", "/v1/users", gin.H{"username": "nadia", "password": "Passw0rd"}, suite.admin)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), `"role":"EDITOR"`)

	var users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	suite.decode(suite.do("GET", "/v1/users", nil, suite.admin), &users)
	suite.Require().Len(users, 3)

	w = suite.do("DELETE", "/v1/users/"+users[1].ID, nil, suite.admin)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "nadia", users[1].Username)
}

func (suite *RouterTestSuite) TestCategories() {
	suite.seedCategory()

	w := suite.do("POST", "/v1/categories", gin.H{"name": "SHIRTS"}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	env := suite.decode(w, nil)
	assert.Equal(suite.T(), "VALIDATION_ERROR", env.Error.Code)

	w = suite.do("POST", "/v1/categories", gin.H{"name": "Sarees"}, suite.editor, "Accept-Language", "bn")
	env = suite.decode(w, nil)
	assert.Contains(suite.T(), string(env.Data), "ক্যাটাগরি তৈরি হয়েছে")

	var categories []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	suite.decode(suite.do("GET", "/v1/categories", nil, suite.editor), &categories)
	suite.Require().Len(categories, 2)
	assert.Equal(suite.T(), "Sarees", categories[0].Name)

	w = suite.do("PUT", "/v1/categories/"+categories[0].ID, gin.H{"name": "Silk Sarees"}, suite.editor)
	assert.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.do("DELETE", "/v1/categories/"+categories[0].ID, nil, suite.editor)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestProductLifecycle() {
	suite.seedCategory()
	id := suite.createProduct("Oxford")

	var list []struct {
		Name       string `json:"name"`
		PriceRange string `json:"price_range"`
		TotalStock int    `json:"total_stock"`
	}
	suite.decode(suite.do("GET", "/v1/products?search=oxf", nil, suite.editor), &list)
	suite.Require().Len(list, 1)
	assert.Equal(suite.T(), "1200.00 - 1400.00", list[0].PriceRange)
	assert.Equal(suite.T(), 3, list[0].TotalStock)

	w := suite.do("PUT", "/v1/products/"+id, gin.H{
		"name": "Oxford Slim", "category": "Shirts", "price": 1300, "variants": []gin.H{},
	}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), `"variants":[]`)

	w = suite.do("PUT", "/v1/products/"+id, gin.H{"name": "Oxford", "category": "Shoes", "price": -1}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/v1/products/"+id+"/images/move", gin.H{"index": 0, "direction": "right"}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), `"images":["https://cdn/b.jpg","https://cdn/a.jpg"]`)

	w = suite.do("POST", "/v1/products/"+id+"/images/move", gin.H{"index": 0, "direction": "up"}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/v1/products/"+id+"/images/reorder", gin.H{"from": 1, "to": 0}, suite.editor)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("DELETE", "/v1/products/"+id, nil, suite.editor)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", "/v1/products/"+id, nil, suite.editor)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do("GET", "/v1/products/not-a-uuid", nil, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestBulkOperations() {
	suite.seedCategory()
	a := suite.createProduct("A")
	b := suite.createProduct("B")

	w := suite.do("POST", "/v1/products/bulk/stock", gin.H{"ids": []string{a, b}, "inStock": false}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), "2 products updated")

	w = suite.do("POST", "/v1/products/bulk/stock", gin.H{"ids": []string{a}}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/v1/products/bulk/delete", gin.H{"ids": []string{a}}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code)

	var list []struct {
		ID      string `json:"id"`
		InStock bool   `json:"inStock"`
	}
	suite.decode(suite.do("GET", "/v1/products", nil, suite.editor), &list)
	suite.Require().Len(list, 1)
	assert.Equal(suite.T(), b, list[0].ID)
	assert.False(suite.T(), list[0].InStock)

	w = suite.do("POST", "/v1/products/bulk/delete", gin.H{"ids": []string{}}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestExport() {
	suite.seedCategory()
	a := suite.createProduct(`Say "hi" shirt`)
	suite.createProduct("Plain")

	w := suite.do("GET", "/v1/products/export", nil, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(suite.T(), `attachment; filename="putimach_inventory_\d{4}-\d{2}-\d{2}\.csv"`, w.Header().Get("Content-Disposition"))

	lines := strings.Split(w.Body.String(), "\n")
	suite.Require().Len(lines, 3)
	assert.True(suite.T(), strings.HasPrefix(lines[0], "ID,Name,Category"))
	assert.Contains(suite.T(), lines[1], `"Plain"`)

	w = suite.do("GET", "/v1/products/export?ids="+a, nil, suite.editor)
	lines = strings.Split(w.Body.String(), "\n")
	suite.Require().Len(lines, 2)
	assert.Contains(suite.T(), lines[1], `"Say ""hi"" shirt"`)

	w = suite.do("GET", "/v1/products/export?search=nothing-matches", nil, suite.editor)
	assert.NotContains(suite.T(), w.Body.String(), "\n")

	w = suite.do("GET", "/v1/products/export?ids="+a+"&search=nothing-matches", nil, suite.editor)
	lines = strings.Split(w.Body.String(), "\n")
	suite.Require().Len(lines, 2)
	assert.Contains(suite.T(), lines[1], `"Say ""hi"" shirt"`)
	assert.Contains(suite.T(), lines[0], "Price (BDT)")

	w = suite.do("GET", "/v1/products/export?ids=bogus", nil, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestImageUpload() {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range []struct {
		name string
		data []byte
	}{
		{"one.png", pngHeader},
		{"notes.txt", []byte("hello")},
		{"two.png", pngHeader},
	} {
		part, err := writer.CreateFormFile("files", f.name)
		suite.Require().NoError(err)
		_, err = part.Write(f.data)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	req, _ := http.NewRequest("POST", "/v1/images", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.editor)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.UploadResult
	env := suite.decode(w, &result)
	assert.Equal(suite.T(), []string{"https://cdn.example.com/one.png", "https://cdn.example.com/two.png"}, result.URLs)
	assert.Equal(suite.T(), 1, result.Failed)
	assert.Equal(suite.T(), []string{"Some images failed to upload (1 of 3)"}, env.Warnings)
}

func (suite *RouterTestSuite) TestImageDeleteFailsOpen() {
	w := suite.do("DELETE", "/v1/images", gin.H{"url": "https://cdn.example.com/one.png"}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"deleted":true`)

	suite.host.deleteErr = errors.New("missing credentials")
	w = suite.do("DELETE", "/v1/images", gin.H{"url": "https://cdn.example.com/one.png"}, suite.editor)
	suite.Require().Equal(http.StatusOK, w.Code)
	env := suite.decode(w, nil)
	assert.Contains(suite.T(), string(env.Data), `"deleted":false`)
	assert.NotEmpty(suite.T(), env.Warnings)

	w = suite.do("DELETE", "/v1/images", gin.H{"url": "not a url"}, suite.editor)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestBackendUnavailable() {
	suite.router = suite.build(repository.NewGormStore(nil))
	token := suite.login("karim", "editor123")

	w := suite.do("GET", "/v1/products", nil, token)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	env := suite.decode(w, nil)
	assert.Equal(suite.T(), "BACKEND_UNAVAILABLE", env.Error.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
