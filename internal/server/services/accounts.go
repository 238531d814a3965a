package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/auth"
	"github.com/dmitrijs2005/together/internal/server/config"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/notify"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const activationCodeLength = 20

// dummyPassword is hashed once and verified against when a login names an
// unknown email, so both paths pay for one hash comparison.
const dummyPassword = "together-unknown-account"

type Registration struct {
	Email     string
	Nickname  string
	FirstName string
	LastName  string
	Password  string
}

// AccountService registers, activates and logs in accounts and toggles
// their enabled and locked flags.
type AccountService struct {
	db                 dbx.DB
	repomanager        repomanager.RepositoryManager
	tokens             *auth.TokenService
	hasher             auth.PasswordHasher
	notifier           notify.Notifier
	activationValidity time.Duration
	now                func() time.Time
	newCode            func() (string, error)
	dummyHash          func() string
}

func NewAccountService(db dbx.DB, m repomanager.RepositoryManager, tokens *auth.TokenService,
	hasher auth.PasswordHasher, notifier notify.Notifier, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                 db,
		repomanager:        m,
		tokens:             tokens,
		hasher:             hasher,
		notifier:           notifier,
		activationValidity: cfg.ActivationCodeValidityDuration,
		now:                time.Now,
		newCode: func() (string, error) {
			return common.MakeRandDigitString(activationCodeLength)
		},
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash(dummyPassword)
			return h
		}),
	}
}

// Register creates a disabled account with the USER role and sends it an
// activation code.
func (s *AccountService) Register(ctx context.Context, r Registration) (*models.Account, error) {
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        r.Email,
		Nickname:     r.Nickname,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: hash,
		Roles:        []string{common.DefaultRole},
		CreatedAt:    s.now(),
	}

	err = s.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)

		if _, err := accounts.GetByEmail(ctx, r.Email); err == nil {
			return common.ErrEmailTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if _, err := accounts.GetByNickname(ctx, r.Nickname); err == nil {
			return common.ErrNicknameTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if err := accounts.Save(ctx, account); err != nil {
			return err
		}
		return s.sendActivationCode(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) sendActivationCode(ctx context.Context, tx dbx.DBTX, account *models.Account) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	token := models.ActivationToken{AccountID: account.ID, Code: code, ExpiresAt: s.now().Add(s.activationValidity)}
	if err := s.repomanager.ActivationTokens(tx).Save(ctx, token); err != nil {
		return err
	}
	return s.notifier.SendActivationCode(ctx, *account, token.Code, token.ExpiresAt)
}

// Activate enables the account when code matches its pending activation
// code. An expired code is replaced by a fresh one, which is sent out, and
// the call fails with common.ErrTokenExpired.
func (s *AccountService) Activate(ctx context.Context, accountID, code string) error {
	expired := false

	err := s.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)
		tokens := s.repomanager.ActivationTokens(tx)

		account, err := lookup(accounts.GetByID(ctx, accountID))
		if err != nil {
			return err
		}
		if account.Enabled {
			return common.ErrAccountAlreadyEnabled
		}

		token, err := tokens.Get(ctx, accountID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if subtle.ConstantTimeCompare([]byte(token.Code), []byte(code)) != 1 {
			return common.ErrInvalidToken
		}

		if token.Expired(s.now()) {
			expired = true
			if err := tokens.Delete(ctx, accountID); err != nil {
				return err
			}
			return s.sendActivationCode(ctx, tx, account)
		}

		account.Enabled = true
		if err := accounts.Save(ctx, account); err != nil {
			return err
		}
		return tokens.Delete(ctx, accountID)
	})
	if err != nil {
		return err
	}
	if expired {
		return common.ErrTokenExpired
	}
	return nil
}

// Login checks the password of the account registered under email and
// issues a session token. Unknown accounts and wrong passwords both yield
// common.ErrBadCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash())
			return "", common.ErrBadCredentials
		}
		return "", err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil || !ok {
		return "", common.ErrBadCredentials
	}

	switch {
	case !account.Enabled:
		return "", common.ErrAccountDisabled
	case account.Locked:
		return "", common.ErrAccountLocked
	}

	return s.tokens.Issue(account.ID)
}

// SetLocked locks or unlocks the account.
func (s *AccountService) SetLocked(ctx context.Context, accountID string, locked bool) error {
	return s.update(ctx, accountID, func(a *models.Account) { a.Locked = locked })
}

// SetEnabled enables or disables the account.
func (s *AccountService) SetEnabled(ctx context.Context, accountID string, enabled bool) error {
	return s.update(ctx, accountID, func(a *models.Account) { a.Enabled = enabled })
}

func (s *AccountService) update(ctx context.Context, accountID string, change func(*models.Account)) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		accounts := s.repomanager.Accounts(tx)
		account, err := lookup(accounts.GetByID(ctx, accountID))
		if err != nil {
			return err
		}
		change(account)
		return accounts.Save(ctx, account)
	})
}
