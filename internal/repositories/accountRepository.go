package repositories

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"geoportal/internal/models"
	"geoportal/internal/utils"
)

var (
	ErrDuplicatePhone  = errors.New("phone number already registered")
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRepository is the flat-file credential store. The whole account set
// is rewritten on every mutation.
type AccountRepository interface {
	FindByPhone(phone string) *models.Account
	FindByEmail(email string) *models.Account
	Create(account *models.Account) error
	UpdatePassword(email, hashedPassword string) error
	Count() int
	Health() map[string]string
}

type fileAccountRepository struct {
	mu       sync.RWMutex
	path     string
	accounts map[string]*models.Account
}

// NewAccountRepository loads the account set from path. A missing or
// unparsable file starts the store empty; it never fails outward.
func NewAccountRepository(path string) AccountRepository {
	r := &fileAccountRepository{
		path:     path,
		accounts: make(map[string]*models.Account),
	}
	r.load()
	return r
}

func (r *fileAccountRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", r.path).Msg("Failed to read accounts file, starting empty")
		}
		return
	}
	if err := json.Unmarshal(data, &r.accounts); err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("Failed to parse accounts file, starting empty")
		r.accounts = make(map[string]*models.Account)
		return
	}
	log.Info().Int("accounts", len(r.accounts)).Str("path", r.path).Msg("Loaded account store")
}

// save rewrites the whole file. Failures are logged only; the calling
// mutation still reports success to its user.
func (r *fileAccountRepository) save() {
	data, err := json.MarshalIndent(r.accounts, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize account store")
		return
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("Failed to save account store")
	}
}

func (r *fileAccountRepository) FindByPhone(phone string) *models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accounts[phone]
}

func (r *fileAccountRepository) FindByEmail(email string) *models.Account {
	email = utils.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if utils.NormalizeEmail(a.Email) == email {
			return a
		}
	}
	return nil
}

func (r *fileAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.Phone]; exists {
		return ErrDuplicatePhone
	}
	r.accounts[account.Phone] = account
	r.save()
	return nil
}

func (r *fileAccountRepository) UpdatePassword(email, hashedPassword string) error {
	email = utils.NormalizeEmail(email)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if utils.NormalizeEmail(a.Email) == email {
			a.Password = hashedPassword
			r.save()
			return nil
		}
	}
	return ErrAccountNotFound
}

func (r *fileAccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *fileAccountRepository) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]string{
		"message":  "It's healthy",
		"accounts": strconv.Itoa(len(r.accounts)),
	}
}
