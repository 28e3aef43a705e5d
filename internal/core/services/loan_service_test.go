package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/amortization"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context, limit int, nextToken *string, status *domain.LoanStatus) ([]domain.Loan, *string, error) {
	args := m.Called(ctx, limit, nextToken, status)
	var loans []domain.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]domain.Loan)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return loans, token, args.Error(2)
}

func (m *MockLoanRepository) ActivateSchedule(ctx context.Context, loan domain.Loan, expectedVersion int64) error {
	args := m.Called(ctx, loan, expectedVersion)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoanStatus(ctx context.Context, loanID string, expectedVersion int64, status domain.LoanStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, loanID, expectedVersion, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLoanRepository) ApplyRepayment(ctx context.Context, loan domain.Loan, expectedVersion int64, payment domain.Payment, paidSequences []int) error {
	args := m.Called(ctx, loan, expectedVersion, payment, paidSequences)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// recordingAudit captures audit outcomes without the brittleness of matching
// the detail maps.
type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditOutcome
}

func (a *recordingAudit) Record(ctx context.Context, actorUserID, action, entityType, entityID string, outcome domain.AuditOutcome, detail map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, outcome)
}

func (a *recordingAudit) outcomes() []domain.AuditOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuditOutcome(nil), a.entries...)
}

// noopNotifier swallows notifications; delivery runs on its own goroutine so
// the stub must be safe after the test body returns.
type noopNotifier struct{}

func (noopNotifier) NotifyRepaymentRecorded(ctx context.Context, loan domain.Loan, payment domain.Payment) {
}
func (noopNotifier) NotifyLoanApproved(ctx context.Context, loan domain.Loan)  {}
func (noopNotifier) NotifyLoanCompleted(ctx context.Context, loan domain.Loan) {}

// --- Test Suite ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo    *MockLoanRepository
	mockPaymentRepo *MockPaymentRepository
	audit           *recordingAudit
	service         portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.audit = &recordingAudit{}
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockPaymentRepo, suite.audit, noopNotifier{})
}

// activeLoan builds an approved loan with a generated schedule, the shape a
// loan has right after approval.
func (suite *LoanServiceTestSuite) activeLoan(principal, annualRate string, tenure int) *domain.Loan {
	p := decimal.RequireFromString(principal)
	r := decimal.RequireFromString(annualRate)
	entries, err := amortization.GenerateSchedule(p, r, tenure, time.Now().UTC())
	suite.Require().NoError(err)

	schedule := make([]domain.Installment, len(entries))
	for i, e := range entries {
		schedule[i] = domain.Installment{
			Sequence:   e.Sequence,
			DueDate:    e.DueDate,
			Amount:     e.Amount,
			Principal:  e.Principal,
			Interest:   e.Interest,
			Status:     domain.InstallmentPending,
			PaidAmount: decimal.Zero,
		}
	}
	emi, err := amortization.MonthlyInstallment(p, r, tenure)
	suite.Require().NoError(err)
	now := time.Now().UTC()
	return &domain.Loan{
		LoanID:          objectid.New(),
		UserID:          objectid.New(),
		Principal:       p,
		CurrencyCode:    domain.CurrencyUSD,
		InterestRate:    r,
		TenureMonths:    tenure,
		EMI:             emi,
		Status:          domain.LoanApproved,
		TotalPaid:       decimal.Zero,
		RemainingAmount: amortization.ScheduleTotal(entries),
		Schedule:        schedule,
		Version:         3,
		DisbursedAt:     &now,
		AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

// --- CreateLoan ---

func (suite *LoanServiceTestSuite) TestCreateLoan_Success() {
	ctx := context.Background()
	creator := objectid.New()
	req := dto.CreateLoanRequest{
		UserID:       objectid.New(),
		Amount:       decimal.RequireFromString("1200"),
		CurrencyCode: "USD",
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.UserID == req.UserID &&
			l.Status == domain.LoanPending &&
			l.EMI.Equal(decimal.RequireFromString("106.62")) &&
			l.CreatedBy == creator &&
			objectid.IsValid(l.LoanID)
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, creator)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanPending, loan.Status)
	suite.True(loan.EMI.Equal(decimal.RequireFromString("106.62")))
	suite.True(loan.TotalPaid.IsZero())
	suite.Equal([]domain.AuditOutcome{domain.AuditSuccess}, suite.audit.outcomes())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InvalidBorrowerID() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		UserID:       "not-an-object-id",
		Amount:       decimal.RequireFromString("1000"),
		CurrencyCode: "USD",
		InterestRate: decimal.RequireFromString("10"),
		TenureMonths: 6,
	}

	loan, err := suite.service.CreateLoan(ctx, req, objectid.New())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InvalidTerms() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		UserID:       objectid.New(),
		Amount:       decimal.RequireFromString("1000"),
		CurrencyCode: "USD",
		InterestRate: decimal.RequireFromString("-5"),
		TenureMonths: 6,
	}

	loan, err := suite.service.CreateLoan(ctx, req, objectid.New())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ApproveLoan ---

func (suite *LoanServiceTestSuite) TestApproveLoan_GeneratesSchedule() {
	ctx := context.Background()
	actor := objectid.New()
	pending := &domain.Loan{
		LoanID:       objectid.New(),
		UserID:       objectid.New(),
		Principal:    decimal.RequireFromString("1200"),
		CurrencyCode: domain.CurrencyUSD,
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
		EMI:          decimal.RequireFromString("106.62"),
		Status:       domain.LoanPending,
		Version:      1,
	}

	suite.mockLoanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.mockLoanRepo.On("ActivateSchedule", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		if l.Status != domain.LoanApproved || len(l.Schedule) != 12 || l.DisbursedAt == nil {
			return false
		}
		total := decimal.Zero
		for _, inst := range l.Schedule {
			total = total.Add(inst.Amount)
		}
		return l.RemainingAmount.Equal(total)
	}), int64(1)).Return(nil).Once()

	loan, err := suite.service.ApproveLoan(ctx, pending.LoanID, actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanApproved, loan.Status)
	suite.Len(loan.Schedule, 12)
	suite.Equal(int64(2), loan.Version)
	// First eleven installments carry the EMI; the final one absorbs rounding.
	for _, inst := range loan.Schedule[:11] {
		suite.True(inst.Amount.Equal(decimal.RequireFromString("106.62")))
	}
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestApproveLoan_AlreadyApproved() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	result, err := suite.service.ApproveLoan(ctx, loan.LoanID, objectid.New())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ActivateSchedule", mock.Anything, mock.Anything, mock.Anything)
	suite.Equal([]domain.AuditOutcome{domain.AuditFailure}, suite.audit.outcomes())
}

// --- RejectLoan / MarkDefaulted ---

func (suite *LoanServiceTestSuite) TestRejectLoan_Success() {
	ctx := context.Background()
	actor := objectid.New()
	pending := &domain.Loan{LoanID: objectid.New(), Status: domain.LoanPending, Version: 1}

	suite.mockLoanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()
	suite.mockLoanRepo.On("UpdateLoanStatus", ctx, pending.LoanID, int64(1), domain.LoanRejected, actor, mock.AnythingOfType("time.Time")).Return(nil).Once()

	loan, err := suite.service.RejectLoan(ctx, pending.LoanID, actor)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanRejected, loan.Status)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestMarkDefaulted_NotRepayable() {
	ctx := context.Background()
	completed := &domain.Loan{LoanID: objectid.New(), Status: domain.LoanCompleted, Version: 5}

	suite.mockLoanRepo.On("FindLoanByID", ctx, completed.LoanID).Return(completed, nil).Once()

	loan, err := suite.service.MarkDefaulted(ctx, completed.LoanID, objectid.New())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoanStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- RecordRepayment ---

func (suite *LoanServiceTestSuite) TestRecordRepayment_SingleInstallment() {
	ctx := context.Background()
	actor := objectid.New()
	loan := suite.activeLoan("1200", "12", 12)
	emi := loan.Schedule[0].Amount
	req := dto.RecordRepaymentRequest{Amount: emi, PaymentMethod: "BANK_TRANSFER"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.Status == domain.LoanActive &&
			l.Schedule[0].Status == domain.InstallmentPaid &&
			l.Schedule[1].Status == domain.InstallmentPending &&
			l.TotalPaid.Equal(emi)
	}), int64(3), mock.MatchedBy(func(p domain.Payment) bool {
		return p.LoanID == loan.LoanID && p.Amount.Equal(emi) && p.Method == domain.PaymentBankTransfer
	}), []int{1}).Return(nil).Once()

	updated, payment, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Require().NotNil(payment)
	suite.Equal(domain.LoanActive, updated.Status)
	suite.Equal(int64(4), updated.Version)
	suite.True(updated.TotalPaid.Equal(emi))
	suite.NotNil(updated.Schedule[0].PaidAt)
	suite.Equal([]domain.AuditOutcome{domain.AuditSuccess}, suite.audit.outcomes())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_PartialAmountTouchesNoInstallment() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	half := loan.Schedule[0].Amount.Div(decimal.NewFromInt(2)).Round(2)
	req := dto.RecordRepaymentRequest{Amount: half, PaymentMethod: "CASH"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		// The remainder is credited to the aggregates only.
		return l.Schedule[0].Status == domain.InstallmentPending && l.TotalPaid.Equal(half)
	}), int64(3), mock.AnythingOfType("domain.Payment"), []int(nil)).Return(nil).Once()

	updated, payment, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, objectid.New())

	suite.Require().NoError(err)
	suite.NotNil(payment)
	suite.Equal(domain.LoanActive, updated.Status)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_FullPayoffCompletesLoan() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	req := dto.RecordRepaymentRequest{Amount: loan.RemainingAmount, PaymentMethod: "BANK_TRANSFER"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		if l.Status != domain.LoanCompleted || l.CompletedAt == nil || !l.RemainingAmount.IsZero() {
			return false
		}
		for _, inst := range l.Schedule {
			if inst.Status != domain.InstallmentPaid {
				return false
			}
		}
		return true
	}), int64(3), mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]int")).Return(nil).Once()

	updated, _, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, objectid.New())

	suite.Require().NoError(err)
	suite.Equal(domain.LoanCompleted, updated.Status)
	suite.NotNil(updated.CompletedAt)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_OverpaymentRejected() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	req := dto.RecordRepaymentRequest{Amount: loan.RemainingAmount.Add(decimal.NewFromInt(1)), PaymentMethod: "CARD"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	updated, payment, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, objectid.New())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ApplyRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.Equal([]domain.AuditOutcome{domain.AuditFailure}, suite.audit.outcomes())
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_WrongState() {
	ctx := context.Background()
	pending := &domain.Loan{LoanID: objectid.New(), Status: domain.LoanPending, RemainingAmount: decimal.Zero}
	req := dto.RecordRepaymentRequest{Amount: decimal.NewFromInt(100), PaymentMethod: "CASH"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, pending.LoanID).Return(pending, nil).Once()

	_, _, err := suite.service.RecordRepayment(ctx, pending.LoanID, req, objectid.New())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordRepaymentRequest{Amount: decimal.Zero, PaymentMethod: "CASH"}

	_, _, err := suite.service.RecordRepayment(ctx, objectid.New(), req, objectid.New())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "FindLoanByID", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_RetriesOnceOnConflict() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	emi := loan.Schedule[0].Amount
	req := dto.RecordRepaymentRequest{Amount: emi, PaymentMethod: "BANK_TRANSFER"}

	// First read sees version 3; the write loses the race. The second read
	// sees the moved-on loan and the write succeeds against version 4.
	fresh := suite.activeLoan("1200", "12", 12)
	fresh.LoanID = loan.LoanID
	fresh.Version = 4
	fresh.Status = domain.LoanActive

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.AnythingOfType("domain.Loan"), int64(3), mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]int")).Return(apperrors.ErrConflict).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(fresh, nil).Once()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.AnythingOfType("domain.Loan"), int64(4), mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]int")).Return(nil).Once()

	updated, payment, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, objectid.New())

	suite.Require().NoError(err)
	suite.NotNil(payment)
	suite.Equal(int64(5), updated.Version)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRecordRepayment_SecondConflictSurfaces() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	req := dto.RecordRepaymentRequest{Amount: loan.Schedule[0].Amount, PaymentMethod: "BANK_TRANSFER"}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Twice()
	suite.mockLoanRepo.On("ApplyRepayment", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("int64"), mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]int")).Return(apperrors.ErrConflict).Twice()

	_, _, err := suite.service.RecordRepayment(ctx, loan.LoanID, req, objectid.New())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// --- GetRepaymentSchedule ---

func (suite *LoanServiceTestSuite) TestGetRepaymentSchedule_DerivesOverdueStanding() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	// Backdate the first two installments; the first is paid, the second is
	// overdue regardless of what status the row carries.
	paidAt := time.Now().UTC().Add(-30 * 24 * time.Hour)
	loan.Schedule[0].Status = domain.InstallmentPaid
	loan.Schedule[0].PaidAt = &paidAt
	loan.Schedule[0].DueDate = time.Now().UTC().Add(-60 * 24 * time.Hour)
	loan.Schedule[1].DueDate = time.Now().UTC().Add(-30 * 24 * time.Hour)
	loan.TotalPaid = loan.Schedule[0].Amount
	loan.RemainingAmount = loan.RemainingAmount.Sub(loan.Schedule[0].Amount)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	schedule, summary, err := suite.service.GetRepaymentSchedule(ctx, loan.LoanID)

	suite.Require().NoError(err)
	suite.Len(schedule, 12)
	suite.Equal(1, summary.OverdueInstallmentCount)
	suite.True(summary.OverdueAmount.Equal(loan.Schedule[1].Amount))
	expectedPenalty := loan.Schedule[1].Amount.Mul(decimal.RequireFromString("0.1")).Round(2)
	suite.True(summary.OverduePenalty.Equal(expectedPenalty))
	suite.Require().NotNil(summary.NextDueDate)
	suite.True(summary.NextDueDate.Equal(loan.Schedule[1].DueDate))
	suite.True(summary.TotalPaid.Equal(loan.TotalPaid))
	// Read path: nothing is written back.
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ApplyRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoanStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestGetRepaymentSchedule_NotFound() {
	ctx := context.Background()
	loanID := objectid.New()

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetRepaymentSchedule(ctx, loanID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListPayments ---

func (suite *LoanServiceTestSuite) TestListPayments_LoanMustExist() {
	ctx := context.Background()
	loanID := objectid.New()

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(nil, apperrors.ErrNotFound).Once()

	payments, err := suite.service.ListPayments(ctx, loanID)

	suite.Require().Error(err)
	suite.Nil(payments)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "FindPaymentsByLoanID", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestListPayments_Success() {
	ctx := context.Background()
	loan := suite.activeLoan("1200", "12", 12)
	expected := []domain.Payment{{PaymentID: objectid.New(), LoanID: loan.LoanID, Amount: decimal.NewFromInt(100)}}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, loan.LoanID).Return(expected, nil).Once()

	payments, err := suite.service.ListPayments(ctx, loan.LoanID)

	suite.Require().NoError(err)
	suite.Equal(expected, payments)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

// --- PreviewSchedule ---

func (suite *LoanServiceTestSuite) TestPreviewSchedule_Totals() {
	ctx := context.Background()
	req := dto.CalculateEMIRequest{
		Amount:       decimal.RequireFromString("1200"),
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}

	preview, err := suite.service.PreviewSchedule(ctx, req)

	suite.Require().NoError(err)
	suite.Len(preview.Schedule, 12)
	suite.True(preview.EMI.Equal(decimal.RequireFromString("106.62")))
	suite.True(preview.TotalPayable.Equal(preview.Schedule[0].Amount.Mul(decimal.NewFromInt(11)).Add(preview.Schedule[11].Amount)))
	suite.True(preview.TotalInterest.Equal(preview.TotalPayable.Sub(req.Amount)))
}

func (suite *LoanServiceTestSuite) TestPreviewSchedule_InvalidTerms() {
	ctx := context.Background()
	req := dto.CalculateEMIRequest{
		Amount:       decimal.Zero,
		InterestRate: decimal.RequireFromString("12"),
		TenureMonths: 12,
	}

	_, err := suite.service.PreviewSchedule(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
