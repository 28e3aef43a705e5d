package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
	"github.com/Caqil/iprofit-admin-sub008/internal/handlers"
	"github.com/Caqil/iprofit-admin-sub008/internal/platform/config"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLoansResponse), args.Error(1)
}
func (m *MockLoanService) ApproveLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) RejectLoan(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) MarkDefaulted(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) RecordRepayment(ctx context.Context, loanID string, req dto.RecordRepaymentRequest, actorUserID string) (*domain.Loan, *domain.Payment, error) {
	args := m.Called(ctx, loanID, req, actorUserID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	var payment *domain.Payment
	if args.Get(1) != nil {
		payment = args.Get(1).(*domain.Payment)
	}
	return loan, payment, args.Error(2)
}
func (m *MockLoanService) GetRepaymentSchedule(ctx context.Context, loanID string) ([]domain.Installment, *domain.ScheduleSummary, error) {
	args := m.Called(ctx, loanID)
	var schedule []domain.Installment
	if args.Get(0) != nil {
		schedule = args.Get(0).([]domain.Installment)
	}
	var summary *domain.ScheduleSummary
	if args.Get(1) != nil {
		summary = args.Get(1).(*domain.ScheduleSummary)
	}
	return schedule, summary, args.Error(2)
}
func (m *MockLoanService) ListPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockLoanService) PreviewSchedule(ctx context.Context, req dto.CalculateEMIRequest) (*dto.EMIPreviewResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EMIPreviewResponse), args.Error(1)
}

var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// stubUserService satisfies the container; auth routes are not exercised here.
type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	return nil, apperrors.ErrInternal
}
func (stubUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, apperrors.ErrNotFound
}
func (stubUserService) GetUserByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	return nil, apperrors.ErrNotFound
}
func (stubUserService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	return nil, nil
}
func (stubUserService) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	return nil
}

type stubTokenService struct{}

func (stubTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	return "", time.Time{}, apperrors.ErrInternal
}
func (stubTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	return "", time.Time{}, apperrors.ErrInternal
}
func (stubTokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	return nil, apperrors.ErrUnauthorized
}

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	jwtSecret       string
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockLoanService = new(MockLoanService)

	cfg := &config.Config{
		JWTSecret:      suite.jwtSecret,
		LoginRateLimit: "10-M",
		IsProduction:   true, // keeps swagger routes out of the test router
	}
	services := &portssvc.ServiceContainer{
		Loan:  suite.mockLoanService,
		User:  stubUserService{},
		Token: stubTokenService{},
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

// generateTestToken creates a signed access token carrying the given role.
func (suite *LoanHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *LoanHandlerTestSuite) doRequest(method, url string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testLoan() *domain.Loan {
	now := time.Now().UTC()
	return &domain.Loan{
		LoanID:          objectid.New(),
		UserID:          objectid.New(),
		Principal:       decimal.RequireFromString("1200"),
		CurrencyCode:    domain.CurrencyUSD,
		InterestRate:    decimal.RequireFromString("12"),
		TenureMonths:    12,
		EMI:             decimal.RequireFromString("106.62"),
		Status:          domain.LoanActive,
		TotalPaid:       decimal.RequireFromString("106.62"),
		RemainingAmount: decimal.RequireFromString("1172.82"),
		AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestGetLoan_Success() {
	loan := testLoan()
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)

	suite.mockLoanService.On("GetLoanByID", mock.Anything, loan.LoanID).Return(loan, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/loans/"+loan.LoanID, nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoanResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(loan.LoanID, resp.LoanID)
	suite.Equal("ACTIVE", resp.Status)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetLoan_MalformedID() {
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)

	w := suite.doRequest(http.MethodGet, "/api/v1/loans/not-a-valid-id-at-all-xx", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "GetLoanByID", mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NotFound() {
	loanID := objectid.New()
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)

	suite.mockLoanService.On("GetLoanByID", mock.Anything, loanID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/loans/"+loanID, nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NoToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/loans/"+objectid.New(), nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "GetLoanByID", mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_ViewerForbidden() {
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)
	body := dto.CreateLoanRequest{
		UserID:       objectid.New(),
		Amount:       decimal.RequireFromString("1200"),
		CurrencyCode: "USD",
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/loans", body, token)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_Success() {
	actor := objectid.New()
	token := suite.generateTestToken(actor, domain.RoleAdmin)
	loan := testLoan()
	loan.Status = domain.LoanPending
	body := dto.CreateLoanRequest{
		UserID:       loan.UserID,
		Amount:       loan.Principal,
		CurrencyCode: "USD",
		InterestRate: loan.InterestRate,
		TenureMonths: loan.TenureMonths,
	}

	suite.mockLoanService.On("CreateLoan", mock.Anything, mock.MatchedBy(func(r dto.CreateLoanRequest) bool {
		return r.UserID == body.UserID && r.Amount.Equal(body.Amount)
	}), actor).Return(loan, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/loans", body, token)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.LoanResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("PENDING", resp.Status)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_UnsupportedCurrencyRejectedAtBinding() {
	token := suite.generateTestToken(objectid.New(), domain.RoleAdmin)
	body := dto.CreateLoanRequest{
		UserID:       objectid.New(),
		Amount:       decimal.RequireFromString("1200"),
		CurrencyCode: "EUR",
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/loans", body, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "CreateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestRecordRepayment_Success() {
	actor := objectid.New()
	token := suite.generateTestToken(actor, domain.RoleAdmin)
	loan := testLoan()
	payment := &domain.Payment{
		PaymentID: objectid.New(),
		LoanID:    loan.LoanID,
		Amount:    decimal.RequireFromString("106.62"),
		Method:    domain.PaymentBankTransfer,
	}
	body := dto.RecordRepaymentRequest{
		Amount:        payment.Amount,
		PaymentMethod: "BANK_TRANSFER",
	}

	suite.mockLoanService.On("RecordRepayment", mock.Anything, loan.LoanID, mock.MatchedBy(func(r dto.RecordRepaymentRequest) bool {
		return r.Amount.Equal(body.Amount) && r.PaymentMethod == "BANK_TRANSFER"
	}), actor).Return(loan, payment, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/repayment", loan.LoanID), body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RepaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(payment.PaymentID, resp.TransactionID)
	suite.Equal("ACTIVE", resp.LoanStatus)
	suite.True(resp.RemainingAmount.Equal(loan.RemainingAmount))
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestRecordRepayment_Conflict() {
	actor := objectid.New()
	token := suite.generateTestToken(actor, domain.RoleAdmin)
	loanID := objectid.New()
	body := dto.RecordRepaymentRequest{
		Amount:        decimal.RequireFromString("5000"),
		PaymentMethod: "CASH",
	}

	suite.mockLoanService.On("RecordRepayment", mock.Anything, loanID, mock.AnythingOfType("dto.RecordRepaymentRequest"), actor).
		Return(nil, nil, fmt.Errorf("%w: payment amount exceeds remaining balance", apperrors.ErrConflict)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/repayment", loanID), body, token)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LoanHandlerTestSuite) TestRecordRepayment_UnknownMethodRejectedAtBinding() {
	token := suite.generateTestToken(objectid.New(), domain.RoleAdmin)
	body := map[string]any{
		"amount":        "100",
		"paymentMethod": "BARTER",
	}

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/repayment", objectid.New()), body, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "RecordRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanHandlerTestSuite) TestGetRepaymentSchedule_Success() {
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)
	loanID := objectid.New()
	due := time.Now().UTC().AddDate(0, 1, 0)
	schedule := []domain.Installment{
		{Sequence: 1, DueDate: due, Amount: decimal.RequireFromString("106.62"), Principal: decimal.RequireFromString("94.62"), Interest: decimal.RequireFromString("12.00"), Status: domain.InstallmentPending, PaidAmount: decimal.Zero},
	}
	summary := &domain.ScheduleSummary{
		TotalPaid:       decimal.Zero,
		RemainingAmount: decimal.RequireFromString("1279.44"),
		OverdueAmount:   decimal.Zero,
		OverduePenalty:  decimal.Zero,
		NextDueDate:     &due,
	}

	suite.mockLoanService.On("GetRepaymentSchedule", mock.Anything, loanID).Return(schedule, summary, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/loans/%s/repayment", loanID), nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Schedule, 1)
	suite.Equal(1, resp.Schedule[0].Sequence)
	suite.Equal(0, resp.Summary.OverdueInstallmentCount)
	suite.Require().NotNil(resp.Summary.NextDueDate)
}

func (suite *LoanHandlerTestSuite) TestApproveLoan_Conflict() {
	actor := objectid.New()
	token := suite.generateTestToken(actor, domain.RoleAdmin)
	loanID := objectid.New()

	suite.mockLoanService.On("ApproveLoan", mock.Anything, loanID, actor).
		Return(nil, fmt.Errorf("%w: loan is not pending approval", apperrors.ErrConflict)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/approve", loanID), nil, token)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LoanHandlerTestSuite) TestCalculateEMI_Success() {
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)
	body := dto.CalculateEMIRequest{
		Amount:       decimal.RequireFromString("1200"),
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}
	preview := &dto.EMIPreviewResponse{
		EMI:           decimal.RequireFromString("106.62"),
		TotalPayable:  decimal.RequireFromString("1279.44"),
		TotalInterest: decimal.RequireFromString("79.44"),
	}

	suite.mockLoanService.On("PreviewSchedule", mock.Anything, mock.AnythingOfType("dto.CalculateEMIRequest")).Return(preview, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/loans/calculate-emi", body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EMIPreviewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.EMI.Equal(preview.EMI))
}

func (suite *LoanHandlerTestSuite) TestListLoans_Success() {
	token := suite.generateTestToken(objectid.New(), domain.RoleViewer)
	loan := testLoan()
	resp := &dto.ListLoansResponse{Loans: []dto.LoanResponse{dto.ToLoanResponse(loan)}}

	suite.mockLoanService.On("ListLoans", mock.Anything, mock.MatchedBy(func(p dto.ListLoansParams) bool {
		return p.Limit == 5
	})).Return(resp, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/loans?limit=5", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListLoansResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Loans, 1)
	suite.Equal(loan.LoanID, body.Loans[0].LoanID)
}

// --- Run Test Suite ---
func TestLoanHandler(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
