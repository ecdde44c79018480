package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/menu"
	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
)

// dayFormat is the calendar-day key stored on discount records. Discount
// sets roll over on calendar-date change, not on a 24h window.
const dayFormat = "2006-01-02"

// Discount generates deterministic per-user, per-day discount sets and
// handles the paid reroll.
type Discount struct {
	discounts *repository.Discounts
	users     *repository.Users
	ledger    *Ledger
	userLock  *lock.UserLock

	rerollCost int64
	now        func() time.Time
}

// NewDiscount creates a new Discount service. now may be nil, in which
// case the wall clock is used.
func NewDiscount(
	discounts *repository.Discounts,
	users *repository.Users,
	ledger *Ledger,
	userLock *lock.UserLock,
	rerollCost int64,
	now func() time.Time,
) *Discount {
	if now == nil {
		now = time.Now
	}
	return &Discount{
		discounts:  discounts,
		users:      users,
		ledger:     ledger,
		userLock:   userLock,
		rerollCost: rerollCost,
		now:        now,
	}
}

// lcg is the seeded pseudorandom sequence behind discount generation:
// seed = (seed*9301 + 49297) mod 233280. Same seed, same sequence.
type lcg struct {
	seed int64
}

func (g *lcg) next() float64 {
	g.seed = (g.seed*9301 + 49297) % 233280
	return float64(g.seed) / 233280
}

// discountSeed derives the generator seed from the user id, the calendar
// day and a reroll nonce. The user component is the numeric suffix of the
// id (last 6 characters, default 1); the day component is the date's
// digits read as an integer, so consecutive days produce distinct seeds.
func discountSeed(userID, day string, nonce int) int64 {
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	userSeed, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || userSeed <= 0 {
		userSeed = 1
	}

	daySeed, err := strconv.ParseInt(strings.ReplaceAll(day, "-", ""), 10, 64)
	if err != nil {
		daySeed = int64(len(day))
	}

	return userSeed + daySeed + int64(nonce)
}

// Generate produces the deterministic discount set for (userID, day,
// nonce): 3-5 dishes drawn by seeded Fisher-Yates shuffle, each at 60%,
// 70% or 80% of its price.
func Generate(userID, day string, nonce int) []model.DiscountedItem {
	g := &lcg{seed: discountSeed(userID, day, nonce)}

	count := 3 + int(g.next()*3)

	dishes := menu.DiscountCandidates()
	for i := len(dishes) - 1; i > 0; i-- {
		j := int(g.next() * float64(i+1))
		dishes[i], dishes[j] = dishes[j], dishes[i]
	}

	items := make([]model.DiscountedItem, 0, count)
	for _, dish := range dishes[:count] {
		tier := 6 + int64(g.next()*3)
		discounted := dish.Price * tier / 10
		items = append(items, model.DiscountedItem{
			ID:              dish.ID,
			Name:            dish.Name,
			OriginalPrice:   dish.Price,
			DiscountedPrice: discounted,
			DiscountRate:    int(tier) * 10,
			SavedAmount:     dish.Price - discounted,
		})
	}
	return items
}

// GetOrCreate returns the user's discount record for today, generating a
// fresh one when none exists or the stored record belongs to an earlier
// day. Repeated same-day calls return the record unchanged.
func (s *Discount) GetOrCreate(ctx context.Context, userID string) (*model.UserDiscounts, error) {
	today := s.now().Format(dayFormat)

	rec, err := s.discounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.LastRefreshDate == today {
		return rec, nil
	}

	fresh := &model.UserDiscounts{
		DiscountedItems: Generate(userID, today, 0),
		LastRefreshDate: today,
	}
	if rec != nil {
		fresh.RefreshCount = rec.RefreshCount
	}
	if err := s.discounts.Put(ctx, userID, fresh, today); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Str("day", today).Msg("generated daily discounts")
	return fresh, nil
}

// Reroll regenerates the user's discount set for a fixed heart-value
// cost. The reroll nonce folds the incremented refresh count into the
// seed, so each reroll differs from the daily draw and from earlier
// rerolls on the same day.
func (s *Discount) Reroll(ctx context.Context, userID, username string) (*model.UserDiscounts, int64, error) {
	var (
		rec        *model.UserDiscounts
		newBalance int64
	)
	err := s.userLock.WithLock(userID, func() error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if err == repository.ErrUserNotFound {
				return ErrUserNotFound
			}
			return err
		}
		if user.HeartValue < s.rerollCost {
			return &InsufficientBalanceError{Required: s.rerollCost, Available: user.HeartValue}
		}

		current, err := s.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		today := s.now().Format(dayFormat)
		refreshed := s.now()
		count := current.RefreshCount + 1
		rec = &model.UserDiscounts{
			DiscountedItems: Generate(userID, today, count),
			LastRefreshDate: today,
			RefreshCount:    count,
			LastRefreshTime: &refreshed,
			LastRefreshBy:   username,
		}
		if err := s.discounts.Put(ctx, userID, rec, today); err != nil {
			return err
		}

		newBalance = user.HeartValue - s.rerollCost
		desc := fmt.Sprintf("刷新专属每日折扣 - 消费💓%d", s.rerollCost)
		_, err = s.ledger.ApplyDelta(ctx, userID, newBalance, desc, model.TxTypeOther, nil)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	log.Info().Str("user", username).Int64("cost", s.rerollCost).Msg("discounts rerolled")
	return rec, newBalance, nil
}
