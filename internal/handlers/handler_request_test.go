package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/handlers"
	"github.com/casfod/staff-portal-backend/internal/middleware"
	"github.com/casfod/staff-portal-backend/pkg/config"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest, creatorUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeactivateUser(ctx context.Context, userID string, actorUserID string) error {
	args := m.Called(ctx, userID, actorUserID)
	return args.Error(0)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock RequestService ---
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) GetRequestByID(ctx context.Context, kind domain.RequestKind, requestID string, requestingUserID string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}
func (m *MockRequestService) ListMyRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	args := m.Called(ctx, kind, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRequestsResponse), args.Error(1)
}
func (m *MockRequestService) ListAssignedRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	args := m.Called(ctx, kind, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRequestsResponse), args.Error(1)
}
func (m *MockRequestService) CreateRequest(ctx context.Context, kind domain.RequestKind, req dto.CreateRequestRequest, creatorUserID string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}
func (m *MockRequestService) UpdateRequestStatus(ctx context.Context, kind domain.RequestKind, requestID string, change dto.StatusChangeRequest, actorUserID string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, requestID, change, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}
func (m *MockRequestService) EditComment(ctx context.Context, kind domain.RequestKind, requestID, commentID, text string, actorUserID string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, requestID, commentID, text, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}
func (m *MockRequestService) DeleteComment(ctx context.Context, kind domain.RequestKind, requestID, commentID string, actorUserID string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, requestID, commentID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}
func (m *MockRequestService) CopyRequest(ctx context.Context, kind domain.RequestKind, requestID string, actorUserID string, recipients []string) (*domain.RequestDocument, error) {
	args := m.Called(ctx, kind, requestID, actorUserID, recipients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestDocument), args.Error(1)
}

var _ portssvc.RequestSvcFacade = (*MockRequestService)(nil)

// --- Mock LeaveService ---
type MockLeaveService struct {
	mock.Mock
}

func (m *MockLeaveService) GetLeaveByID(ctx context.Context, applicationID string, requestingUserID string) (*domain.LeaveApplication, error) {
	args := m.Called(ctx, applicationID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaveApplication), args.Error(1)
}
func (m *MockLeaveService) ListMyLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLeavesResponse), args.Error(1)
}
func (m *MockLeaveService) ListAssignedLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLeavesResponse), args.Error(1)
}
func (m *MockLeaveService) GetBalances(ctx context.Context, userID string) ([]domain.LeaveBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaveBalance), args.Error(1)
}
func (m *MockLeaveService) ApplyForLeave(ctx context.Context, req dto.ApplyLeaveRequest, userID string) (*domain.LeaveApplication, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaveApplication), args.Error(1)
}
func (m *MockLeaveService) UpdateLeaveStatus(ctx context.Context, applicationID string, change dto.StatusChangeRequest, actorUserID string) (*domain.LeaveApplication, error) {
	args := m.Called(ctx, applicationID, change, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaveApplication), args.Error(1)
}

var _ portssvc.LeaveSvcFacade = (*MockLeaveService)(nil)

// --- Mock SettingsService ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemSettings), args.Error(1)
}
func (m *MockSettingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, actorUserID string) (*domain.SystemSettings, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemSettings), args.Error(1)
}

var _ portssvc.SettingsSvcFacade = (*MockSettingsService)(nil)

// --- Test Suite ---
type RequestHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockUserService     *MockUserService
	mockRequestService  *MockRequestService
	mockLeaveService    *MockLeaveService
	mockSettingsService *MockSettingsService
	jwtSecret           string
}

// generateTestToken creates a signed JWT for testing.
func (suite *RequestHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	claims := middleware.PortalClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "casfod-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *RequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockUserService = new(MockUserService)
	suite.mockRequestService = new(MockRequestService)
	suite.mockLeaveService = new(MockLeaveService)
	suite.mockSettingsService = new(MockSettingsService)

	cfg := &config.Config{
		JWTSecret:         suite.jwtSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "casfod-test",
		AuthRateLimit:     "100-M",
		IsProduction:      true, // keeps swagger routes out of the test router
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		User:     suite.mockUserService,
		Request:  suite.mockRequestService,
		Leave:    suite.mockLeaveService,
		Settings: suite.mockSettingsService,
	})
}

func (suite *RequestHandlerTestSuite) doJSON(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_Success() {
	creatorID := uuid.NewString()
	financeReviewer := uuid.NewString()
	procurementReviewer := uuid.NewString()

	body := dto.CreateRequestRequest{
		Title:               "Office chairs",
		FinanceReviewer:     &financeReviewer,
		ProcurementReviewer: &procurementReviewer,
		Items: []dto.CreateItemRequest{
			{Description: "Chair", Quantity: 4, UnitPrice: decimal.NewFromInt(150)},
		},
	}
	expected := &domain.RequestDocument{
		RequestID:  uuid.NewString(),
		Kind:       domain.KindPurchaseRequest,
		Title:      body.Title,
		Amount:     decimal.NewFromInt(600),
		Status:     domain.StatusPending,
		CreatorRef: creatorID,
	}

	suite.mockRequestService.On("CreateRequest",
		mock.Anything,
		domain.KindPurchaseRequest,
		mock.MatchedBy(func(r dto.CreateRequestRequest) bool { return r.Title == body.Title }),
		creatorID,
	).Return(expected, nil).Once()

	token := suite.generateTestToken(creatorID, domain.RoleStaff)
	w := suite.doJSON(http.MethodPost, "/api/v1/requests/purchase-requests", token, body)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.RequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.RequestID, resp.RequestID)
	suite.Equal(domain.KindPurchaseRequest, resp.Kind)
	suite.True(resp.Amount.Equal(decimal.NewFromInt(600)))

	suite.mockRequestService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_UnknownKindSlug() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleStaff)
	w := suite.doJSON(http.MethodPost, "/api/v1/requests/unknown-things", token, dto.CreateRequestRequest{Title: "x"})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockRequestService.AssertNotCalled(suite.T(), "CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_MissingToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/requests/purchase-requests", "", dto.CreateRequestRequest{Title: "x"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRequestService.AssertNotCalled(suite.T(), "CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestHandlerTestSuite) TestGetRequest_NotFound() {
	userID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockRequestService.On("GetRequestByID",
		mock.Anything, domain.KindPaymentRequest, requestID, userID,
	).Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken(userID, domain.RoleStaff)
	w := suite.doJSON(http.MethodGet, "/api/v1/requests/payment-requests/"+requestID, token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockRequestService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestUpdateStatus_InvalidTransitionMapsTo400() {
	userID := uuid.NewString()
	requestID := uuid.NewString()
	reviewed := domain.StatusReviewed

	suite.mockRequestService.On("UpdateRequestStatus",
		mock.Anything, domain.KindPaymentRequest, requestID,
		mock.MatchedBy(func(c dto.StatusChangeRequest) bool { return c.Status != nil && *c.Status == reviewed }),
		userID,
	).Return(nil, apperrors.ErrInvalidTransition).Once()

	token := suite.generateTestToken(userID, domain.RoleReviewer)
	w := suite.doJSON(http.MethodPatch, "/api/v1/requests/payment-requests/"+requestID+"/status", token, dto.StatusChangeRequest{Status: &reviewed})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRequestService.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestLogin_IssuesToken() {
	user := &domain.User{
		UserID: uuid.NewString(),
		Name:   "Jane Staff",
		Email:  "jane@casfod.org",
		Role:   domain.RoleStaff,
	}
	suite.mockUserService.On("AuthenticateUser", mock.Anything, user.Email, "s3cret-pass").
		Return(user, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: user.Email, Password: "s3cret-pass"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(user.UserID, resp.User.UserID)

	// The issued token must pass the auth middleware it will be used against.
	claims := &middleware.PortalClaims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(suite.jwtSecret), nil
	})
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal(string(domain.RoleStaff), claims.Role)

	suite.mockUserService.AssertExpectations(suite.T())
}

func TestRequestHandler(t *testing.T) {
	suite.Run(t, new(RequestHandlerTestSuite))
}
