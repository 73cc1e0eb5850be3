package handler

import (
	"context"
	"errors"
	"strconv"

	"bankledger/internal/config"
	"bankledger/internal/model"
	"bankledger/internal/repository"
	"bankledger/internal/service"
	"bankledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// The handler depends on these narrow interfaces rather than the concrete
// services so tests can stand in mocks.

type AccountManager interface {
	OpenAccount(ctx context.Context, customerID int64, initialDeposit int64) (int64, error)
	GetBalance(ctx context.Context, accountID int64) (int64, error)
	ListAccounts(ctx context.Context, customerID int64) ([]*model.Account, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
}

type TransferExecutor interface {
	ExecuteTransfer(ctx context.Context, req *service.TransferRequest) (*service.TransferResult, error)
}

type HistoryProvider interface {
	GetHistory(ctx context.Context, accountID int64) ([]service.HistoryEntry, error)
}

// Handler bundles all HTTP endpoints and their service dependencies.
type Handler struct {
	accounts  AccountManager
	transfers TransferExecutor
	history   HistoryProvider
}

func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		accounts:  service.NewAccountService(db),
		transfers: service.NewTransferService(db, rdb, cfg),
		history:   service.NewHistoryService(db),
	}
}

// writeServiceError maps the business error kinds onto response codes. The
// boundary owns format errors (ParamError); everything here is a rule
// violation or an infrastructure failure reported by the core.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		response.BusinessError(c, response.CodeCustomerNotFound, err.Error())
	case errors.Is(err, repository.ErrAccountNotFound):
		response.BusinessError(c, response.CodeAccountNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		response.BusinessError(c, response.CodeInvalidAmount, err.Error())
	case errors.Is(err, service.ErrSelfTransfer):
		response.BusinessError(c, response.CodeSelfTransfer, err.Error())
	case errors.Is(err, repository.ErrInsufficientFunds):
		response.BusinessError(c, response.CodeInsufficientFunds, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		response.BusinessError(c, response.CodeStorageFailure, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// Customer endpoints
// ============================================================

// ListCustomers lists every customer.
// GET /api/v1/customer/list
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.accounts.ListCustomers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"customers": customers,
	})
}

// ListAccounts lists a customer's accounts with balances.
// GET /api/v1/customer/accounts?customer_id=xxx
func (h *Handler) ListAccounts(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid customer_id parameter")
		return
	}

	accounts, err := h.accounts.ListAccounts(c.Request.Context(), customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"accounts": accounts,
	})
}

// ============================================================
// Account endpoints
// ============================================================

// OpenAccountRequest creates an account with an initial deposit. The deposit
// is a plain integer on purpose: a zero or negative value must reach the
// service so it can answer with the business error, not a binding error.
type OpenAccountRequest struct {
	CustomerID     int64 `json:"customer_id" binding:"required"`
	InitialDeposit int64 `json:"initial_deposit"`
}

// OpenAccount opens a new account.
// POST /api/v1/account/open
func (h *Handler) OpenAccount(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	accountID, err := h.accounts.OpenAccount(c.Request.Context(), req.CustomerID, req.InitialDeposit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account_id": accountID,
	})
}

// GetBalance returns an account's current balance.
// GET /api/v1/account/balance?account_id=xxx
func (h *Handler) GetBalance(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("account_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid account_id parameter")
		return
	}

	balance, err := h.accounts.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account_id": accountID,
		"balance":    balance,
	})
}

// GetHistory returns an account's statement, oldest entry first.
// GET /api/v1/account/transactions?account_id=xxx
func (h *Handler) GetHistory(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Query("account_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid account_id parameter")
		return
	}

	entries, err := h.history.GetHistory(c.Request.Context(), accountID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transactions": entries,
	})
}

// ============================================================
// Transfer endpoints
// ============================================================

// ExecuteTransferRequest moves funds between two accounts. Amount carries no
// binding constraint: zero is a legal transfer and negative values are the
// service's InvalidAmount case, not a malformed request.
type ExecuteTransferRequest struct {
	FromID    int64  `json:"from_id" binding:"required"`
	ToID      int64  `json:"to_id" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	Amount    int64  `json:"amount"`
}

// ExecuteTransfer performs a transfer.
// POST /api/v1/transfer/execute
func (h *Handler) ExecuteTransfer(c *gin.Context) {
	var req ExecuteTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.transfers.ExecuteTransfer(c.Request.Context(), &service.TransferRequest{
		FromID:    req.FromID,
		ToID:      req.ToID,
		Reference: req.Reference,
		Amount:    req.Amount,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, result)
}
