package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/pkg/payment"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deposits below this amount are refused.
var MinDepositAmount = decimal.NewFromInt(10000)

type TransactionService struct {
	db              *gorm.DB
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
	stripe          *payment.StripeService
	email           Mailer
	log             *zap.Logger
}

func NewTransactionService(
	db *gorm.DB,
	transactionRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	stripeSvc *payment.StripeService,
	emailSvc Mailer,
	log *zap.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		stripe:          stripeSvc,
		email:           emailSvc,
		log:             log,
	}
}

// CreateDeposit records a not_paid transaction and, for the stripe payment
// method, opens a checkout session for it.
func (s *TransactionService) CreateDeposit(userID uint, req models.CreateTransactionRequest) (*models.Transaction, *models.CheckoutSession, error) {
	if req.Amount.LessThan(MinDepositAmount) {
		return nil, nil, fmt.Errorf("minimum deposit is %s: %w", MinDepositAmount, ErrInvalidState)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	txn := &models.Transaction{
		UserID:         userID,
		Amount:         req.Amount,
		Status:         models.TransactionNotPaid,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		Notes:          req.Notes,
	}
	if err := s.transactionRepo.Create(txn); err != nil {
		return nil, nil, err
	}

	var checkout *models.CheckoutSession
	if req.PaymentMethod == "stripe" {
		session, err := s.stripe.CreateDepositSession(user.Email, req.Amount, txn.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("create checkout session: %w", err)
		}
		txn.StripeSessionID = session.ID
		if err := s.transactionRepo.Save(txn); err != nil {
			return nil, nil, err
		}
		checkout = &models.CheckoutSession{ID: session.ID, URL: session.URL}
	} else {
		// Manual transfers go straight to pending for admin review.
		txn.Status = models.TransactionPending
		if err := s.transactionRepo.Save(txn); err != nil {
			return nil, nil, err
		}
	}

	s.log.Info("deposit created",
		zap.Uint("transaction_id", txn.ID),
		zap.Uint("user_id", userID),
		zap.String("amount", req.Amount.String()),
		zap.String("method", req.PaymentMethod),
	)
	return txn, checkout, nil
}

// HandleStripeWebhook moves a transaction from not_paid to pending when its
// checkout session completes. Events for unknown sessions are ignored.
func (s *TransactionService) HandleStripeWebhook(payload []byte, signature string) error {
	event, err := s.stripe.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("verify webhook: %w", ErrPermissionDenied)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	txn, err := s.transactionRepo.GetByStripeSessionID(session.ID)
	if err != nil {
		if id, ok := session.Metadata["transaction_id"]; ok {
			if parsed, perr := strconv.ParseUint(id, 10, 64); perr == nil {
				txn, err = s.transactionRepo.GetByID(uint(parsed))
			}
		}
		if err != nil {
			s.log.Warn("webhook for unknown session", zap.String("session_id", session.ID))
			return nil
		}
	}

	if txn.Status != models.TransactionNotPaid {
		return nil
	}

	txn.Status = models.TransactionPending
	if err := s.transactionRepo.Save(txn); err != nil {
		return err
	}

	s.log.Info("deposit payment confirmed", zap.Uint("transaction_id", txn.ID))
	return nil
}

// ReviewDeposit is the admin decision on a pending deposit. Approval credits
// the user's balance in the same database transaction that flips the status.
func (s *TransactionService) ReviewDeposit(transactionID uint, req models.ReviewTransactionRequest) (*models.Transaction, error) {
	var reviewed *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txnRepo := s.transactionRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		txn, err := txnRepo.GetByID(transactionID)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
		}
		if txn.Status != models.TransactionPending {
			return fmt.Errorf("transaction is %s, not pending: %w", txn.Status, ErrInvalidState)
		}

		switch req.Status {
		case models.TransactionApproved:
			user, err := userRepo.GetByID(txn.UserID)
			if err != nil {
				return fmt.Errorf("user %d: %w", txn.UserID, ErrNotFound)
			}
			user.Balance = user.Balance.Add(txn.Amount)
			if err := userRepo.Update(user); err != nil {
				return err
			}
			txn.Status = models.TransactionApproved
		case models.TransactionRejected:
			if req.RejectionReason == "" {
				return fmt.Errorf("rejection reason is required: %w", ErrInvalidState)
			}
			txn.Status = models.TransactionRejected
			txn.RejectionReason = req.RejectionReason
		default:
			return fmt.Errorf("status %q: %w", req.Status, ErrInvalidState)
		}

		if err := txnRepo.Save(txn); err != nil {
			return err
		}
		reviewed = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reviewed.Status == models.TransactionApproved {
		if user, err := s.userRepo.GetByID(reviewed.UserID); err == nil {
			if err := s.email.SendDepositApprovedEmail(user.Email, user.Name, reviewed.Amount.String()); err != nil {
				s.log.Warn("deposit email failed", zap.Uint("transaction_id", reviewed.ID), zap.Error(err))
			}
		}
	}

	s.log.Info("deposit reviewed",
		zap.Uint("transaction_id", reviewed.ID),
		zap.String("status", string(reviewed.Status)),
	)
	return reviewed, nil
}

func (s *TransactionService) GetUserTransactions(userID uint, status models.TransactionStatus, page, limit int) ([]models.Transaction, int64, error) {
	return s.transactionRepo.ListByUser(userID, status, page, limit)
}

func (s *TransactionService) GetAllTransactions(page, limit int) ([]models.Transaction, int64, error) {
	return s.transactionRepo.ListAll(page, limit)
}

func (s *TransactionService) GetTransaction(transactionID, userID uint, isAdmin bool) (*models.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
	}
	if !isAdmin && txn.UserID != userID {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrPermissionDenied)
	}
	return txn, nil
}
