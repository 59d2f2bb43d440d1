package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	pair, err := GenerateTokenPair(userID, "police", "officer@example.com", "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q", pair.TokenType)
	}

	claims, err := ValidateToken(pair.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, userID.Hex())
	}
	if claims.Role != "police" {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.Email != "officer@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "citizen", "a@b.co", "secret-a")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := ValidateToken(pair.AccessToken, "secret-b"); err == nil {
		t.Error("ValidateToken() accepted a token signed with another secret")
	}
	if _, err := ValidateToken("not.a.token", "secret-a"); err == nil {
		t.Error("ValidateToken() accepted garbage")
	}
}

func TestRefreshAccessToken(t *testing.T) {
	userID := primitive.NewObjectID()
	pair, err := GenerateTokenPair(userID, "citizen", "a@b.co", "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	fresh, err := RefreshAccessToken(pair.RefreshToken, "test-secret")
	if err != nil {
		t.Fatalf("RefreshAccessToken() error = %v", err)
	}

	claims, err := ValidateToken(fresh.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID.Hex() || claims.Role != "citizen" {
		t.Errorf("refreshed claims = %+v, want original identity", claims)
	}
}
