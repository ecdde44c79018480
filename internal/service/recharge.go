package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
)

// Recharge service errors.
var (
	ErrInvalidAmount   = errors.New("recharge amount must be positive")
	ErrRequestNotFound = errors.New("recharge request not found")
	ErrAlreadyResolved = errors.New("recharge request already resolved")
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
)

// Recharges runs the top-up workflow: users submit requests, an admin
// approves or rejects them, and approvals credit the ledger. Requests
// resolve exactly once.
type Recharges struct {
	recharges *repository.Recharges
	users     *repository.Users
	txs       *repository.Transactions
	ledger    *Ledger
	userLock  *lock.UserLock
}

// NewRecharges creates a new Recharges service.
func NewRecharges(
	recharges *repository.Recharges,
	users *repository.Users,
	txs *repository.Transactions,
	ledger *Ledger,
	userLock *lock.UserLock,
) *Recharges {
	return &Recharges{recharges: recharges, users: users, txs: txs, ledger: ledger, userLock: userLock}
}

// Submit creates a pending request for the given amount.
func (s *Recharges) Submit(ctx context.Context, userID, username string, amount int64) (*model.RechargeRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	req := model.RechargeRequest{
		ID:        model.NextID(),
		UserID:    userID,
		Username:  username,
		Amount:    amount,
		Status:    model.RechargePending,
		CreatedAt: time.Now(),
	}
	if err := s.recharges.Append(ctx, req); err != nil {
		return nil, err
	}

	log.Info().Str("user", username).Int64("amount", amount).Int64("request_id", req.ID).Msg("recharge request submitted")
	return &req, nil
}

// Resolve approves or rejects a pending request. Approval credits the
// ledger with approvedAmount when provided, otherwise with the requested
// amount; when the two differ both are recorded on the request. Rejection
// has no ledger effect. A second resolution attempt fails with
// ErrAlreadyResolved.
func (s *Recharges) Resolve(ctx context.Context, id int64, decision string, approvedAmount *int64, processedBy string) (*model.RechargeRequest, error) {
	if decision != model.RechargeApproved && decision != model.RechargeRejected {
		return nil, ErrInvalidDecision
	}

	req, err := s.recharges.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRechargeNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.Status != model.RechargePending {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	req.Status = decision
	req.ProcessedAt = &now
	if processedBy == "" {
		processedBy = "管理员"
	}
	req.ProcessedBy = processedBy

	actual := req.Amount
	if decision == model.RechargeApproved && approvedAmount != nil {
		actual = *approvedAmount
	}
	if decision == model.RechargeApproved && actual != req.Amount {
		original := req.Amount
		req.ActualAmount = &actual
		req.OriginalAmount = &original
	}

	if err := s.recharges.Replace(ctx, *req); err != nil {
		return nil, err
	}

	if decision == model.RechargeApproved {
		err := s.userLock.WithLock(req.UserID, func() error {
			user, err := s.users.GetByID(ctx, req.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return ErrUserNotFound
				}
				return err
			}

			desc := fmt.Sprintf("充值申请批准 - 申请ID#%d", req.ID)
			if actual != req.Amount {
				desc = fmt.Sprintf("充值申请批准 - 申请ID#%d (原申请💓%d, 实际批准💓%d)", req.ID, req.Amount, actual)
			}
			relatedID := req.ID
			_, err = s.ledger.ApplyDelta(ctx, req.UserID, user.HeartValue+actual, desc, model.TxTypeRecharge, &relatedID)
			return err
		})
		if err != nil {
			return nil, err
		}
		log.Info().Int64("request_id", req.ID).Int64("amount", actual).Msg("recharge approved")
	} else {
		log.Info().Int64("request_id", req.ID).Msg("recharge rejected")
	}

	return req, nil
}

// Delete permanently removes a request and cascades deletion of its
// recharge transactions so the ledger holds no dangling references.
func (s *Recharges) Delete(ctx context.Context, id int64) error {
	if err := s.recharges.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRechargeNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	removed, err := s.txs.DeleteByRechargeRef(ctx, id)
	if err != nil {
		return err
	}
	if removed > 0 {
		log.Info().Int64("request_id", id).Int("transactions", removed).Msg("deleted recharge request and its transactions")
	}
	return nil
}

// List returns every request, newest first.
func (s *Recharges) List(ctx context.Context) ([]model.RechargeRequest, error) {
	return s.recharges.List(ctx)
}

// ListForUser returns the user's requests, newest first. Rejected
// requests stay visible as zero-effect history entries.
func (s *Recharges) ListForUser(ctx context.Context, userID string) ([]model.RechargeRequest, error) {
	return s.recharges.ListByUser(ctx, userID)
}
