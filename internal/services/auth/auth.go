// Package auth содержит бизнес-логику учётных записей: регистрацию, вход,
// смену и сброс пароля, обновление профиля.
//
// Пароль хэшируется только здесь, токены сессии выпускает jwt.Maker,
// токены сброса генерирует resettoken и доставляет почтовая очередь.
package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/password"
	"github.com/magabrotheeeer/lms-server/internal/lib/resettoken"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/mediahost"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/storage/repository"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id, fullName string, avatar models.Media) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)
}

// TokenMaker выпускает токен сессии.
type TokenMaker interface {
	GenerateToken(user *models.User) (string, error)
}

// MediaHost загружает и удаляет медиафайлы.
type MediaHost interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (models.Media, error)
	Destroy(ctx context.Context, publicID string) error
}

// Mailer ставит письмо в очередь отправки.
type Mailer interface {
	Publish(ctx context.Context, msg models.MailMessage) error
}

// Options параметры сервиса из конфига.
type Options struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
}

// Service реализует операции с учётными записями.
type Service struct {
	repo   Repository
	tokens TokenMaker
	media  MediaHost
	mailer Mailer
	opts   Options
	log    *slog.Logger
	now    func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, tokens TokenMaker, media MediaHost, mailer Mailer, opts Options, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		media:  media,
		mailer: mailer,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// RegisterInput данные регистрации.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Avatar   *multipart.FileHeader
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт пользователя с ролью USER и выпускает токен сессии.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	const op = "services.auth.Register"
	email := NormalizeEmail(in.Email)

	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", apperr.Conflict("User already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	var avatar models.Media
	if in.Avatar != nil {
		avatar, err = s.media.Upload(ctx, in.Avatar, mediahost.FolderAvatars)
		if err != nil {
			return nil, "", apperr.Gateway("File not uploaded, please try again", err)
		}
	}

	user, err := s.repo.CreateUser(ctx, models.User{
		FullName:     strings.ToLower(strings.TrimSpace(in.FullName)),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Avatar:       avatar,
	})
	if err != nil {
		s.destroyQuietly(ctx, avatar.PublicID)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", apperr.Conflict("User already exists")
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login проверяет пароль и выпускает токен сессии.
func (s *Service) Login(ctx context.Context, email, plain string) (*models.User, string, error) {
	const op = "services.auth.Login"
	mismatch := apperr.BadRequest("Email or password does not match")

	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", mismatch
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, "", mismatch
	}
	if err := password.CompareHash(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", mismatch
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// UserByID загружает пользователя для проверки сессии.
func (s *Service) UserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("services.auth.UserByID: %w", err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("services.auth.ListUsers: %w", err)
	}
	return users, nil
}

// ChangePassword меняет пароль после проверки старого.
func (s *Service) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	const op = "services.auth.ChangePassword"
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return apperr.BadRequest("Old password is incorrect")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	hash, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile меняет имя и аватар. Новый аватар загружается до удаления старого.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, fullName string, avatar *multipart.FileHeader) (*models.User, error) {
	const op = "services.auth.UpdateProfile"
	name := user.FullName
	if n := strings.TrimSpace(fullName); n != "" {
		name = strings.ToLower(n)
	}

	media := user.Avatar
	if avatar != nil {
		uploaded, err := s.media.Upload(ctx, avatar, mediahost.FolderAvatars)
		if err != nil {
			return nil, apperr.Gateway("File not uploaded, please try again", err)
		}
		media = uploaded
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, name, media); err != nil {
		if avatar != nil {
			s.destroyQuietly(ctx, media.PublicID)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if avatar != nil {
		s.destroyQuietly(ctx, user.Avatar.PublicID)
	}

	updated, err := s.repo.GetUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// ForgotPassword выпускает токен сброса и отправляет ссылку письмом.
// Если письмо не удалось поставить в очередь, токен гасится.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "services.auth.ForgotPassword"
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.BadRequest("Email not registered")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tok, err := resettoken.New(s.now(), s.opts.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetResetToken(ctx, user.ID, tok.Hash, tok.Expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	link := strings.TrimRight(s.opts.FrontendURL, "/") + "/reset-password/" + tok.Plain
	msg := models.MailMessage{
		To:      user.Email,
		Subject: "Reset Password",
		Body: fmt.Sprintf(`You can reset your password by clicking <a href="%s" target="_blank">Reset your password</a>.`+
			`<br/>If the above link does not work for some reason then copy paste this link in new tab %s.`+
			`<br/>If you have not requested this, kindly ignore.`, link, html.EscapeString(link)),
	}
	if err := s.mailer.Publish(ctx, msg); err != nil {
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error("failed to clear reset token", slog.String("op", op), sl.Err(clearErr))
		}
		return apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	s.log.Info("reset token issued", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword гасит токен сброса и записывает новый пароль.
func (s *Service) ResetPassword(ctx context.Context, plainToken, newPassword string) error {
	const op = "services.auth.ResetPassword"
	hash, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.repo.ConsumeResetToken(ctx, resettoken.Hash(plainToken), hash, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.BadRequest("Token is invalid or expired, please try again")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) destroyQuietly(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.media.Destroy(ctx, publicID); err != nil {
		s.log.Warn("failed to destroy media", slog.String("public_id", publicID), sl.Err(err))
	}
}
