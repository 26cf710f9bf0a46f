package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/metrics"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/utils"
	"github.com/meinhoongagan/senior-care-app/validation"
)

const otpTTL = 10 * time.Minute

// ProfileFields are the optional contact and provider fields shared by
// registration, profile updates and delegate management.
type ProfileFields struct {
	FirstName         *string `json:"firstName" validate:"omitempty,max=100"`
	LastName          *string `json:"lastName" validate:"omitempty,max=100"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	Address           *string `json:"address" validate:"omitempty,max=255"`
	City              *string `json:"city" validate:"omitempty,max=100"`
	State             *string `json:"state" validate:"omitempty,max=100"`
	ZipCode           *string `json:"zipCode" validate:"omitempty,max=20"`
	ProfileImage      *string `json:"profileImage" validate:"omitempty,max=500"`
	BusinessName      *string `json:"businessName" validate:"omitempty,max=200"`
	LicenseNumber     *string `json:"licenseNumber" validate:"omitempty,max=100"`
	ServiceType       *string `json:"serviceType" validate:"omitempty,max=100"`
	YearsOfExperience *int    `json:"yearsOfExperience" validate:"omitempty,gte=0,lte=80"`
	Description       *string `json:"description" validate:"omitempty,max=2000"`
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// apply copies the present fields onto u. Provider-only fields are ignored
// for other roles.
func (p ProfileFields) apply(u *models.User) {
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.State, p.State)
	set(&u.ZipCode, p.ZipCode)
	set(&u.ProfileImage, p.ProfileImage)

	if u.Role != models.RoleProvider {
		return
	}
	set(&u.BusinessName, p.BusinessName)
	set(&u.LicenseNumber, p.LicenseNumber)
	set(&u.ServiceType, p.ServiceType)
	set(&u.Description, p.Description)
	if p.YearsOfExperience != nil {
		years := *p.YearsOfExperience
		u.YearsOfExperience = &years
	}
}

type RegisterInput struct {
	Username string      `json:"username" validate:"required,min=3,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     models.Role `json:"role" validate:"required,oneof=CUSTOMER PROVIDER"`
	ProfileFields
}

type LoginResult struct {
	*utils.TokenPair
	User *models.User `json:"user"`
}

type AccountService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	tokens   *utils.TokenIssuer
	mailer   Mailer
	now      clock
}

func NewAccountService(users repository.UserRepository, bookings repository.BookingRepository, tokens *utils.TokenIssuer, mailer Mailer) *AccountService {
	return &AccountService{users: users, bookings: bookings, tokens: tokens, mailer: mailer, now: time.Now}
}

// Register creates a customer or provider account and mails a verification
// code. Failure to send the code undoes the registration.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	taken, err := s.users.IsTaken(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if taken {
		return nil, conflict("Username or email already exists")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	otp, err := utils.GenerateOTP()
	if err != nil {
		return nil, errors.Annotate(err, "failed to generate verification code")
	}
	expires := s.now().Add(otpTTL)

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Password:     hashed,
		Role:         in.Role,
		VettedStatus: models.VettedStatusNotVetted,
		OTP:          otp,
		OTPExpiresAt: &expires,
	}
	in.ProfileFields.apply(user)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("Username or email already exists")
		}
		return nil, errors.Trace(err)
	}

	if err := s.sendOTP(user); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			logging.Error().Err(delErr).Uint("user_id", user.ID).Msg("Failed to remove unverified user after mail failure")
		}
		return nil, err
	}

	logging.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

func (s *AccountService) sendOTP(user *models.User) error {
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your verification code is <strong>%s</strong>.</p>
		<p>The code expires in %d minutes.</p>
	`, user.FullName(), user.OTP, int(otpTTL.Minutes()))

	err := s.mailer.SendEmail(user.Email, "Verify your email", body)
	metrics.RecordEmail("otp", err)
	if err != nil {
		return errors.Annotate(err, "failed to send verification email")
	}
	return nil
}

// VerifyEmail checks the mailed code and marks the address verified.
func (s *AccountService) VerifyEmail(ctx context.Context, email, otp string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errors.NotFound) {
		return notFound("User not found")
	}
	if err != nil {
		return errors.Trace(err)
	}
	if user.EmailVerified {
		return badRequest("Email is already verified")
	}
	if user.OTP == "" || user.OTP != strings.TrimSpace(otp) {
		return badRequest("Invalid verification code")
	}
	if user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return badRequest("Verification code has expired")
	}

	user.EmailVerified = true
	user.OTP = ""
	user.OTPExpiresAt = nil
	return errors.Trace(s.users.Update(ctx, user))
}

// ResendOTP issues a fresh code for an unverified account.
func (s *AccountService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errors.NotFound) {
		return notFound("User not found")
	}
	if err != nil {
		return errors.Trace(err)
	}
	if user.EmailVerified {
		return badRequest("Email is already verified")
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return errors.Annotate(err, "failed to generate verification code")
	}
	expires := s.now().Add(otpTTL)
	user.OTP = otp
	user.OTPExpiresAt = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return errors.Trace(err)
	}
	return s.sendOTP(user)
}

// Login accepts a username or email.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.users.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if errors.Is(err, errors.NotFound) {
		return nil, unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorized("Invalid credentials")
	}
	if !user.EmailVerified {
		return nil, forbidden("Email address has not been verified")
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{TokenPair: pair, User: user}, nil
}

// Refresh trades a refresh token for a new access token carrying the user's current role.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return "", unauthorized("Invalid refresh token")
	}
	if err != nil {
		return "", errors.Trace(err)
	}
	token, err := s.tokens.AccessToken(user.ID, user.Role)
	return token, errors.Annotate(err, "failed to generate token")
}

func (s *AccountService) Profile(ctx context.Context, callerID uint) (*models.User, error) {
	return findUser(ctx, s.users, callerID, "User")
}

type UpdateProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	ProfileFields
}

func (s *AccountService) UpdateProfile(ctx context.Context, callerID uint, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	user, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return nil, err
	}

	if in.Email != nil && normalizeEmail(*in.Email) != user.Email {
		email := normalizeEmail(*in.Email)
		taken, err := s.users.IsTaken(ctx, "", email, user.ID)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if taken {
			return nil, conflict("Email is already in use")
		}
		user.Email = email
	}
	if in.Password != nil {
		if user.Password, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	in.ProfileFields.apply(user)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("Email is already in use")
		}
		return nil, errors.Trace(err)
	}
	return user, nil
}

// deleteUser enforces the deletion policy: admins are never deleted and
// nobody with a pending or confirmed booking is deleted. Delegates go with
// their parent, so their bookings count against the parent too.
func (s *AccountService) deleteUser(ctx context.Context, user *models.User) error {
	if user.Role == models.RoleAdmin {
		return forbidden("Admin accounts cannot be deleted")
	}
	ids := []uint{user.ID}
	if !user.IsDelegate() {
		delegates, err := s.users.ListDelegates(ctx, user.ID)
		if err != nil {
			return errors.Trace(err)
		}
		for _, d := range delegates {
			ids = append(ids, d.ID)
		}
	}

	var active int64
	for _, id := range ids {
		n, err := s.bookings.CountActiveForUser(ctx, id)
		if err != nil {
			return errors.Trace(err)
		}
		active += n
	}
	if active > 0 {
		return forbidden("Cannot delete account with %d active booking(s)", active)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return errors.Trace(err)
	}
	logging.Info().Uint("user_id", user.ID).Msg("User deleted")
	return nil
}

func (s *AccountService) DeleteSelf(ctx context.Context, callerID uint) error {
	user, err := findUser(ctx, s.users, callerID, "User")
	if err != nil {
		return err
	}
	return s.deleteUser(ctx, user)
}

func (s *AccountService) AdminDelete(ctx context.Context, adminID, targetID uint) error {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return err
	}
	target, err := findUser(ctx, s.users, targetID, "User")
	if err != nil {
		return err
	}
	return s.deleteUser(ctx, target)
}

func (s *AccountService) AdminList(ctx context.Context, adminID uint, filter models.UserFilter) ([]models.User, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, validation.NewFieldError("role", "role must be one of: CUSTOMER PROVIDER ADMIN")
	}
	if filter.VettedStatus != "" && !filter.VettedStatus.Valid() {
		return nil, validation.NewFieldError("vettedStatus", "vettedStatus must be one of: NOT_VETTED PENDING_REVIEW VETTED REJECTED")
	}
	users, err := s.users.List(ctx, filter)
	return users, errors.Trace(err)
}

type CreateAdminInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateAdmin is used from the command line; admins cannot self-register.
func (s *AccountService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.User, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)

	taken, err := s.users.IsTaken(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if taken {
		return nil, conflict("Username or email already exists")
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Username:      in.Username,
		Email:         in.Email,
		Password:      hashed,
		Role:          models.RoleAdmin,
		EmailVerified: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, errors.Trace(err)
	}
	return admin, nil
}
