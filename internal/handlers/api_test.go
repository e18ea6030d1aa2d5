// internal/handlers/api_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/zksub/zksub-backend/internal/config"
	"github.com/zksub/zksub-backend/internal/intmax"
	"github.com/zksub/zksub-backend/internal/models"
	"github.com/zksub/zksub-backend/internal/router"
	"github.com/zksub/zksub-backend/internal/store"
)

type fakeClient struct {
	transactions []intmax.Transaction
	fetchErr     error

	loginCalls  int
	logoutCalls int
}

func (f *fakeClient) Login(ctx context.Context) error {
	f.loginCalls++
	return nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeClient) FetchTransactionHistory(ctx context.Context) ([]intmax.Transaction, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.transactions, nil
}

type APITestSuite struct {
	suite.Suite
	router    *gin.Engine
	client    *fakeClient
	publicDir string
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dir := suite.T().TempDir()
	suite.publicDir = filepath.Join(dir, "public")

	cfg := &config.Config{
		Environment: "development",
		Storage: config.StorageConfig{
			Driver:        "file",
			ContentsFile:  filepath.Join(dir, "contents.json"),
			PublicDir:     suite.publicDir,
			MaxUploadSize: 10 * 1024 * 1024,
		},
		IntMax: config.IntMaxConfig{
			Timeout:       5,
			RetryAttempts: 1,
			RetryBackoff:  1,
			TokenDecimals: 18,
		},
		Subscription: config.SubscriptionConfig{Duration: 86400},
		Frontend:     config.FrontendConfig{Origin: "http://localhost:5173"},
	}

	fileStore, err := store.NewFileStore(cfg.Storage.ContentsFile)
	suite.Require().NoError(err)

	suite.client = &fakeClient{}

	r, err := router.Initialize(cfg, fileStore, store.NewMemoryLedger(), suite.client)
	suite.Require().NoError(err)
	suite.router = r
}

func (suite *APITestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) uploadContent(name, description, price, creator, filename, content string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		suite.Require().NoError(err)
		_, err = io.Copy(part, strings.NewReader(content))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.WriteField("name", name))
	suite.Require().NoError(writer.WriteField("description", description))
	suite.Require().NoError(writer.WriteField("price", price))
	suite.Require().NoError(writer.WriteField("creatorAddress", creator))
	suite.Require().NoError(writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/upload-content", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return suite.do(req)
}

func (suite *APITestSuite) validatePayment(subscriber, creator string, amount float64, txHash, contentID string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]interface{}{
		"subscriberAddress": subscriber,
		"creatorAddress":    creator,
		"amount":            amount,
		"txHash":            txHash,
		"contentId":         contentID,
	})
	req, _ := http.NewRequest(http.MethodPost, "/validate-payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return suite.do(req)
}

func (suite *APITestSuite) TestUploadAndList() {
	w := suite.uploadContent("Ep1", "d", "0.25", "0xA", "ep1.mp4", "video-bytes")
	suite.Equal(http.StatusOK, w.Code)

	var uploaded struct {
		ID       string `json:"id"`
		FilePath string `json:"filePath"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &uploaded))
	suite.NotEmpty(uploaded.ID)
	suite.True(strings.HasPrefix(uploaded.FilePath, "/public/"))

	// The asset exists on disk
	_, err := os.Stat(filepath.Join(suite.publicDir, strings.TrimPrefix(uploaded.FilePath, "/public/")))
	suite.NoError(err)

	w = suite.do(httptest.NewRequest(http.MethodGet, "/contents", nil))
	suite.Equal(http.StatusOK, w.Code)

	var records []models.ContentRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	suite.Require().Len(records, 1)
	suite.Equal(uploaded.ID, records[0].ID)
	suite.Equal(0.25, records[0].Price)
	suite.Equal("0xA", records[0].CreatorAddress)
}

func (suite *APITestSuite) TestUploadWithoutFile() {
	w := suite.uploadContent("Ep1", "d", "0.25", "0xA", "", "")
	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("No file received", resp["error"])
}

func (suite *APITestSuite) TestUploadRejectsNonPositivePrice() {
	w := suite.uploadContent("Ep1", "d", "-1", "0xA", "ep1.mp4", "video-bytes")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestListByCreator() {
	suite.uploadContent("Ep1", "d", "0.25", "0xA", "ep1.mp4", "a")
	suite.uploadContent("Ep2", "d", "0.50", "0xC", "ep2.mp4", "b")

	w := suite.do(httptest.NewRequest(http.MethodGet, "/contents/0xA", nil))
	suite.Equal(http.StatusOK, w.Code)

	var records []models.ContentRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	suite.Require().Len(records, 1)
	suite.Equal("Ep1", records[0].Name)
}

func (suite *APITestSuite) TestDeleteContent() {
	w := suite.uploadContent("Ep1", "d", "0.25", "0xA", "ep1.mp4", "video-bytes")
	var uploaded struct {
		ID       string `json:"id"`
		FilePath string `json:"filePath"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &uploaded))

	w = suite.do(httptest.NewRequest(http.MethodDelete, "/content/"+uploaded.ID, nil))
	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(true, resp["success"])

	// Metadata and asset are both gone
	w = suite.do(httptest.NewRequest(http.MethodGet, "/contents", nil))
	var records []models.ContentRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	suite.Empty(records)

	_, err := os.Stat(filepath.Join(suite.publicDir, strings.TrimPrefix(uploaded.FilePath, "/public/")))
	suite.True(os.IsNotExist(err))

	// A second delete is a 404
	w = suite.do(httptest.NewRequest(http.MethodDelete, "/content/"+uploaded.ID, nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteUnknownContent() {
	w := suite.do(httptest.NewRequest(http.MethodDelete, "/content/missing", nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

// The end-to-end scenario: upload, pay, reconcile, subscribe.
func (suite *APITestSuite) TestValidatePaymentGrantsSubscription() {
	w := suite.uploadContent("Ep1", "d", "0.25", "0xA", "ep1.mp4", "video-bytes")
	var uploaded struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &uploaded))

	// 1e14 base units at 18 decimals is 0.0001
	suite.client.transactions = []intmax.Transaction{
		{Digest: "h1", To: "0xA", Amount: "100000000000000"},
	}

	before := time.Now().UnixMilli()
	w = suite.validatePayment("0xB", "0xA", 0.0001, "h1", uploaded.ID)
	suite.Equal(http.StatusOK, w.Code)

	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(true, resp["valid"])

	w = suite.do(httptest.NewRequest(http.MethodGet, "/subscriptions/0xB", nil))
	suite.Equal(http.StatusOK, w.Code)

	var grants []models.SubscriptionGrant
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &grants))
	suite.Require().Len(grants, 1)
	suite.Equal(uploaded.ID, grants[0].ContentID)
	suite.Equal("0xB", grants[0].SubscriberAddress)

	// expiresAt is now + 24h in milliseconds
	suite.GreaterOrEqual(grants[0].ExpiresAt, before+86400000)
	suite.LessOrEqual(grants[0].ExpiresAt, time.Now().UnixMilli()+86400000)

	suite.Equal(1, suite.client.loginCalls)
	suite.Equal(1, suite.client.logoutCalls)
}

func (suite *APITestSuite) TestValidatePaymentNotFound() {
	w := suite.uploadContent("Ep1", "d", "0.25", "0xA", "ep1.mp4", "video-bytes")
	var uploaded struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &uploaded))

	// History has no transaction with digest h1
	suite.client.transactions = []intmax.Transaction{
		{Digest: "h9", To: "0xA", Amount: "100000000000000"},
	}

	w = suite.validatePayment("0xB", "0xA", 0.0001, "h1", uploaded.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(false, resp["valid"])
	suite.Equal("Transaction not found or invalid", resp["error"])

	// No ledger entry was created
	w = suite.do(httptest.NewRequest(http.MethodGet, "/subscriptions/0xB", nil))
	var grants []models.SubscriptionGrant
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &grants))
	suite.Empty(grants)
}

func (suite *APITestSuite) TestValidatePaymentExternalFailure() {
	suite.client.fetchErr = errors.New("node unreachable")

	w := suite.validatePayment("0xB", "0xA", 0.0001, "h1", "content-1")
	suite.Equal(http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(false, resp["valid"])
	suite.NotEmpty(resp["error"])
}

func (suite *APITestSuite) TestValidatePaymentRejectsMissingFields() {
	req, _ := http.NewRequest(http.MethodPost, "/validate-payment", strings.NewReader(`{"subscriberAddress":"0xB"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req)

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(false, resp["valid"])

	// Nothing was reconciled
	suite.Equal(0, suite.client.loginCalls)
}

func (suite *APITestSuite) TestHealthEndpoint() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
