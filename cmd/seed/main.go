// Command seed creates a verified admin and a demo wallet holder and
// prints an access token for each.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ofo/internal/config"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/utils"
	"ofo/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name         string
	phone        string
	email        string
	role         string
	securityCode string
	cash         int64
	point        int64
}

func main() {
	config.LoadEnv()
	log := sl.Setup(config.Env(), os.Stderr)

	adminPhone := os.Getenv("ADMIN_PHONE")
	adminCode := os.Getenv("ADMIN_SECURITY_CODE")
	if adminPhone == "" || adminCode == "" {
		log.Error("ADMIN_PHONE and ADMIN_SECURITY_CODE must be set in environment")
		os.Exit(1)
	}

	db, err := repositories.InitDB(repositories.LoadDBConfig())
	if err != nil {
		log.Error("failed to initialize database", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	users := repositories.NewUserRepository(db, nil, log)
	ledger := repositories.NewLedgerRepository(db)

	seeds := []seedUser{
		{
			name:         config.GetEnv("ADMIN_NAME", "OFO Admin"),
			phone:        adminPhone,
			email:        os.Getenv("ADMIN_EMAIL"),
			role:         "admin",
			securityCode: adminCode,
		},
		{
			name:         "Demo User",
			phone:        config.GetEnv("DEMO_PHONE", "+6281200000001"),
			role:         "user",
			securityCode: config.GetEnv("DEMO_SECURITY_CODE", "123456"),
			cash:         config.GetInt64Env("DEMO_CASH", 500000),
			point:        config.GetInt64Env("DEMO_POINT", 10000),
		},
	}

	for _, s := range seeds {
		user, created, err := ensureUser(context.Background(), users, s)
		if err != nil {
			log.Error("failed to seed user", sl.String("phone", s.phone), sl.Err(err))
			os.Exit(1)
		}
		if created {
			if err := openingBalance(context.Background(), ledger, user.UserID, s); err != nil {
				log.Error("failed to credit opening balance", sl.String("user_id", user.UserID), sl.Err(err))
				os.Exit(1)
			}
		}

		access, _, err := utils.GenerateTokens(utils.ClaimsFor(user))
		if err != nil {
			log.Error("failed to issue token", sl.String("user_id", user.UserID), sl.Err(err))
			os.Exit(1)
		}
		log.Info("seeded user", sl.String("user_id", user.UserID), sl.String("role", user.Role), slog.Int64("cash", s.cash))
		fmt.Printf("%s\t%s\t%s\n", user.Role, user.PhoneNumber, access)
	}
}

func ensureUser(ctx context.Context, users repositories.UserRepository, s seedUser) (*models.User, bool, error) {
	phone := validation.NormalizePhone(s.phone)

	existing, err := users.GetByPhone(ctx, phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.securityCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash security code: %w", err)
	}

	user := &models.User{
		FullName:     s.name,
		Email:        s.email,
		PhoneNumber:  phone,
		SecurityCode: string(hashed),
		Role:         s.role,
		IsVerified:   true,
		TokenVersion: 1,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// openingBalance credits the seed balances the same way a top-up does so
// the wallets start with a transaction and a history row.
func openingBalance(ctx context.Context, ledger repositories.LedgerRepository, userID string, s seedUser) error {
	return ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		for wallet, amount := range map[models.WalletType]int64{models.WalletCash: s.cash, models.WalletPoint: s.point} {
			if amount <= 0 {
				continue
			}
			balance, err := tx.ApplyDelta(ctx, userID, wallet, amount)
			if err != nil {
				return err
			}
			if err := tx.RecordTransaction(ctx, &models.Transaction{
				UserID:     userID,
				Amount:     amount,
				WalletType: wallet,
				Flow:       models.FlowIncoming,
				TargetType: models.TargetBank,
				Note:       "Opening balance",
			}); err != nil {
				return err
			}
			if _, err := tx.Snapshot(ctx, userID, wallet, balance); err != nil {
				return err
			}
		}
		return nil
	})
}
