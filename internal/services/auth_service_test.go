package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T, userRepo *fakeUserRepo) (AuthService, *captureMailer) {
	t.Helper()
	queue, mailer := newTestQueue(t)
	return NewAuthService(userRepo, queue, "test-secret", "http://localhost:3000", newTestLogger(t)), mailer
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Username:  "asha_rao",
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "Asha@Example.com",
		Password:  "Str0ng!Pass",
	}
}

func TestRegister(t *testing.T) {
	t.Run("citizen is active and verified immediately", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		service, _ := newAuthService(t, userRepo)

		response, err := service.Register(context.Background(), validRegisterRequest())
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}

		if response.User.Role != models.RoleCitizen {
			t.Errorf("Role = %q, want citizen default", response.User.Role)
		}
		if !response.User.IsVerified || !response.User.IsActive {
			t.Error("citizen should be verified and active on registration")
		}
		if response.User.Email != "asha@example.com" {
			t.Errorf("Email = %q, want normalized lowercase", response.User.Email)
		}
		if response.Tokens == nil || response.Tokens.AccessToken == "" {
			t.Error("no tokens issued")
		}

		// Stored credential must be a hash, never the raw password.
		stored, err := userRepo.GetByEmail(context.Background(), "asha@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if stored.Password == "Str0ng!Pass" || !strings.HasPrefix(stored.Password, "$2") {
			t.Error("password stored in the clear")
		}
	})

	t.Run("police waits for admin verification", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo())

		request := validRegisterRequest()
		request.Role = string(models.RolePolice)
		request.BadgeNumber = "PD-1187"
		request.Department = "Central"

		response, err := service.Register(context.Background(), request)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if response.User.IsVerified {
			t.Error("police account verified without admin action")
		}
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo())

		request := validRegisterRequest()
		request.Role = string(models.RoleAdmin)

		_, err := service.Register(context.Background(), request)
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeForbidden {
			t.Fatalf("Register() error = %v, want forbidden", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := newFakeUserRepo(&models.User{Email: "asha@example.com"})
		service, _ := newAuthService(t, userRepo)

		_, err := service.Register(context.Background(), validRegisterRequest())
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeConflict {
			t.Fatalf("Register() error = %v, want conflict", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo())

		request := validRegisterRequest()
		request.Password = "password"

		_, err := service.Register(context.Background(), request)
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeValidation {
			t.Fatalf("Register() error = %v, want validation error", err)
		}
	})
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	makeUser := func(active bool) *models.User {
		return &models.User{
			Email:    "asha@example.com",
			Password: string(hashed),
			Role:     models.RoleCitizen,
			IsActive: active,
		}
	}

	t.Run("valid credentials", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo(makeUser(true)))

		response, err := service.Login(context.Background(), &LoginRequest{Email: "asha@example.com", Password: "Str0ng!Pass"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if response.Tokens.AccessToken == "" || response.Tokens.RefreshToken == "" {
			t.Error("token pair incomplete")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo(makeUser(true)))

		_, err := service.Login(context.Background(), &LoginRequest{Email: "asha@example.com", Password: "wrong"})
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeUnauthorized {
			t.Fatalf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("unknown email indistinguishable from wrong password", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo())

		_, err := service.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "whatever1!"})
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeUnauthorized {
			t.Fatalf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		service, _ := newAuthService(t, newFakeUserRepo(makeUser(false)))

		_, err := service.Login(context.Background(), &LoginRequest{Email: "asha@example.com", Password: "Str0ng!Pass"})
		if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeForbidden {
			t.Fatalf("Login() error = %v, want forbidden", err)
		}
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("known email queues a reset mail", func(t *testing.T) {
		user := &models.User{Email: "asha@example.com", FirstName: "Asha", IsActive: true}
		service, mailer := newAuthService(t, newFakeUserRepo(user))

		if err := service.ForgotPassword(context.Background(), "asha@example.com"); err != nil {
			t.Fatalf("ForgotPassword() error = %v", err)
		}
		if !waitForDeliveries(mailer, 1, 2*time.Second) {
			t.Fatal("reset email never delivered")
		}
		if delivered := mailer.deliveries(); delivered[0].To != "asha@example.com" {
			t.Errorf("reset sent to %q", delivered[0].To)
		}
	})

	t.Run("unknown email stays silent", func(t *testing.T) {
		service, mailer := newAuthService(t, newFakeUserRepo())

		if err := service.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
			t.Fatalf("ForgotPassword() error = %v, want nil for unknown email", err)
		}

		time.Sleep(100 * time.Millisecond)
		if delivered := mailer.deliveries(); len(delivered) != 0 {
			t.Errorf("unknown email triggered %d deliveries", len(delivered))
		}
	})
}

func TestResetPasswordInvalidToken(t *testing.T) {
	service, _ := newAuthService(t, newFakeUserRepo())

	err := service.ResetPassword(context.Background(), &ResetPasswordRequest{Token: "expired-or-bogus", Password: "Str0ng!Pass"})
	if appErr := utils.AsAppError(err); err == nil || appErr.Code != utils.CodeValidation {
		t.Fatalf("ResetPassword() error = %v, want validation error for a bad token", err)
	}
}
