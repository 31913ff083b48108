package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"buziak_backend/internal/email"
	"buziak_backend/internal/geo"
	"buziak_backend/internal/models"
	"buziak_backend/internal/oauth"
	"buziak_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory репозитории: аргумент db игнорируется, сервисы прогоняются
// без настоящей БД.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
		if user.Phone != nil && existing.Phone != nil && *existing.Phone == *user.Phone {
			return repositories.ErrDuplicatePhone
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.EnsurePhotoSlots()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, emailAddr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == strings.ToLower(emailAddr) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByPhone(db *gorm.DB, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Phone != nil && *user.Phone == phone {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ResetToken == token && user.ResetTokenExp != nil && user.ResetTokenExp.After(time.Now()) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}

	for name, value := range fields {
		switch name {
		case "password_hash":
			user.PasswordHash = value.(string)
		case "reset_token":
			user.ResetToken = value.(string)
		case "reset_token_exp":
			if value == nil {
				user.ResetTokenExp = nil
			} else {
				exp := value.(time.Time)
				user.ResetTokenExp = &exp
			}
		case "is_blocked":
			user.IsBlocked = value.(bool)
		case "verified":
			user.Verified = value.(bool)
		case "verification_photo":
			user.VerificationPhoto = value.(string)
		default:
			return fmt.Errorf("fakeUserRepo: unexpected field %q", name)
		}
	}
	return nil
}

func (r *fakeUserRepo) FindAll(db *gorm.DB) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) FindForVerification(db *gorm.DB) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.User
	for _, user := range r.users {
		if user.VerificationPhoto != "" && !user.Verified {
			result = append(result, *user)
		}
	}
	return result, nil
}

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes map[string]models.ConfirmationCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]models.ConfirmationCode)}
}

func (r *fakeCodeRepo) Upsert(db *gorm.DB, code *models.ConfirmationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code.Email] = *code
	return nil
}

func (r *fakeCodeRepo) FindLive(db *gorm.DB, emailAddr string) (*models.ConfirmationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.codes[emailAddr]
	if !ok || !code.ExpiresAt.After(time.Now()) {
		return nil, repositories.ErrCodeNotFound
	}
	return &code, nil
}

func (r *fakeCodeRepo) Delete(db *gorm.DB, emailAddr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, emailAddr)
	return nil
}

func (r *fakeCodeRepo) Consume(db *gorm.DB, emailAddr, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.codes[emailAddr]
	if !ok || !record.ExpiresAt.After(time.Now()) {
		return repositories.ErrCodeNotFound
	}
	if record.Code != code {
		return repositories.ErrCodeMismatch
	}
	delete(r.codes, emailAddr)
	return nil
}

func (r *fakeCodeRepo) DeleteExpired(db *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for emailAddr, code := range r.codes {
		if !code.ExpiresAt.After(time.Now()) {
			delete(r.codes, emailAddr)
			deleted++
		}
	}
	return deleted, nil
}

// fakeEmailProvider записывает отправленное и умеет отказывать
type fakeEmailProvider struct {
	mu         sync.Mutex
	failSend   bool
	codes      map[string]string // email -> последний код
	resetLinks map[string]string // email -> последняя ссылка
}

func newFakeEmailProvider() *fakeEmailProvider {
	return &fakeEmailProvider{
		codes:      make(map[string]string),
		resetLinks: make(map[string]string),
	}
}

func (p *fakeEmailProvider) Send(msg *email.Email) error { return nil }

func (p *fakeEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return nil
}

func (p *fakeEmailProvider) SendConfirmationCode(to string, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	p.codes[to] = code
	return nil
}

func (p *fakeEmailProvider) SendPasswordResetLink(to string, resetLink string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	p.resetLinks[to] = resetLink
	return nil
}

// fakeStorage держит объекты в памяти
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *fakeStorage) GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + path + "?signed=1", nil
}

// fakeGoogle отдает заранее заданный userinfo
type fakeGoogle struct {
	info *oauth.UserInfo
	err  error
}

func (g *fakeGoogle) AuthURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (g *fakeGoogle) Exchange(ctx context.Context, code string) (*oauth.UserInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.info, nil
}

type fakeGeocoder struct {
	location *geo.Location
	err      error
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*geo.Location, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.location, nil
}
