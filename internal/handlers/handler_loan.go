package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
	"github.com/Caqil/iprofit-admin-sub008/internal/middleware"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// loanHandler handles HTTP requests related to loans and repayments.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{
		loanService: ls,
	}
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", middleware.RequirePermission(domain.PermLoansManage), h.createLoan)
		loans.GET("", middleware.RequirePermission(domain.PermLoansView), h.listLoans)
		loans.POST("/calculate-emi", middleware.RequirePermission(domain.PermLoansView), h.calculateEMI)
		loans.GET("/:loanID", middleware.RequirePermission(domain.PermLoansView), h.getLoan)
		loans.POST("/:loanID/approve", middleware.RequirePermission(domain.PermLoansManage), h.approveLoan)
		loans.POST("/:loanID/reject", middleware.RequirePermission(domain.PermLoansManage), h.rejectLoan)
		loans.POST("/:loanID/default", middleware.RequirePermission(domain.PermLoansManage), h.markDefaulted)
		loans.POST("/:loanID/repayment", middleware.RequirePermission(domain.PermLoansManage), h.recordRepayment)
		loans.GET("/:loanID/repayment", middleware.RequirePermission(domain.PermLoansView), h.getRepaymentSchedule)
		loans.GET("/:loanID/payments", middleware.RequirePermission(domain.PermLoansView), h.listPayments)
	}
}

// loanIDParam validates the path parameter before any lookup happens, so a
// malformed id is a 400, never a 404.
func loanIDParam(c *gin.Context) (string, bool) {
	loanID := c.Param("loanID")
	if !objectid.IsValid(loanID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid loan ID format"})
		return "", false
	}
	return loanID, true
}

// createLoan godoc
// @Summary Create a loan
// @Description Creates a loan in Pending state. The EMI is computed from the terms; the schedule is generated at approval.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid terms"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating loan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create loan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create loan"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Description Retrieves a page of loans, newest first, optionally filtered by status.
// @Tags loans
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Param status query string false "Filter by loan status"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to list loans", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list loans"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getLoan godoc
// @Summary Get a loan
// @Description Retrieves a loan with its repayment schedule.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Malformed loan ID"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID, ok := loanIDParam(c)
	if !ok {
		return
	}

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
		} else {
			logger.Error("Failed to get loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// approveLoan godoc
// @Summary Approve a loan
// @Description Approves a pending loan and generates its repayment schedule.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	h.transition(c, h.loanService.ApproveLoan)
}

// rejectLoan godoc
// @Summary Reject a loan
// @Description Rejects a pending loan.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/reject [post]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	h.transition(c, h.loanService.RejectLoan)
}

// markDefaulted godoc
// @Summary Mark a loan defaulted
// @Description Declares a repayable loan defaulted. This is terminal.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not repayable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/default [post]
func (h *loanHandler) markDefaulted(c *gin.Context) {
	h.transition(c, h.loanService.MarkDefaulted)
}

func (h *loanHandler) transition(c *gin.Context, op func(ctx context.Context, loanID string, actorUserID string) (*domain.Loan, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID, ok := loanIDParam(c)
	if !ok {
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	loan, err := op(c.Request.Context(), loanID, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to transition loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// recordRepayment godoc
// @Summary Record a repayment
// @Description Records a payment against a loan. Amounts allocate to the oldest unpaid installments first; any remainder is credited to the loan aggregates.
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Param payment body dto.RecordRepaymentRequest true "Payment details"
// @Success 200 {object} dto.RepaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or malformed loan ID"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 409 {object} ErrorResponse "Loan not repayable, amount exceeds balance, or concurrent update"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/repayment [post]
func (h *loanHandler) recordRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID, ok := loanIDParam(c)
	if !ok {
		return
	}

	var req dto.RecordRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	loan, payment, err := h.loanService.RecordRepayment(c.Request.Context(), loanID, req, actorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to record repayment", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record repayment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.RepaymentResponse{
		Amount:          payment.Amount,
		TransactionID:   payment.PaymentID,
		RemainingAmount: loan.RemainingAmount,
		LoanStatus:      string(loan.Status),
	})
}

// getRepaymentSchedule godoc
// @Summary Get the repayment schedule
// @Description Retrieves the loan's schedule with its derived summary. Overdue standing is computed from due dates at read time.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} ErrorResponse "Malformed loan ID"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/repayment [get]
func (h *loanHandler) getRepaymentSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID, ok := loanIDParam(c)
	if !ok {
		return
	}

	schedule, summary, err := h.loanService.GetRepaymentSchedule(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
		} else {
			logger.Error("Failed to get repayment schedule", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ScheduleResponse{
		Schedule: dto.ToInstallmentResponses(schedule),
		Summary:  dto.ToScheduleSummaryResponse(*summary),
	})
}

// listPayments godoc
// @Summary List payments of a loan
// @Description Retrieves the immutable payment records of a loan, oldest first.
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID (24 hex characters)"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} ErrorResponse "Malformed loan ID"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/payments [get]
func (h *loanHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID, ok := loanIDParam(c)
	if !ok {
		return
	}

	payments, err := h.loanService.ListPayments(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
		} else {
			logger.Error("Failed to list payments", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve payments"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: dto.ToPaymentResponses(payments)})
}

// calculateEMI godoc
// @Summary Preview an EMI schedule
// @Description Computes the EMI and full amortization breakdown for the given terms without persisting anything.
// @Tags loans
// @Accept json
// @Produce json
// @Param terms body dto.CalculateEMIRequest true "Loan terms"
// @Success 200 {object} dto.EMIPreviewResponse
// @Failure 400 {object} ErrorResponse "Invalid terms"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/calculate-emi [post]
func (h *loanHandler) calculateEMI(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CalculateEMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	preview, err := h.loanService.PreviewSchedule(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to compute EMI preview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}
