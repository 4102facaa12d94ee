package common

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key")

func mintToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func validClaims(userID string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func TestVerify_MissingHeaderIsAnonymous(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")

	user, failure := verifier.Verify("")

	assert.Empty(t, user.ID)
	assert.Nil(t, failure, "missing header must not be a classified failure")
}

func TestVerify_MalformedHeaderIsAnonymous(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")

	for _, header := range []string{
		"Bearer",
		"Bearer ",
		"Basic dXNlcjpwYXNz",
		"Token abc.def.ghi",
	} {
		user, failure := verifier.Verify(header)
		assert.Empty(t, user.ID, "header %q", header)
		assert.Nil(t, failure, "header %q must fall back to anonymous", header)
	}
}

func TestVerify_ValidToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, validClaims("user-42"))

	user, failure := verifier.Verify("Bearer " + token)

	require.Nil(t, failure)
	assert.Equal(t, "user-42", user.ID)
}

func TestVerify_LowercaseSchemeAccepted(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, validClaims("user-42"))

	user, failure := verifier.Verify("bearer " + token)

	require.Nil(t, failure)
	assert.Equal(t, "user-42", user.ID)
}

func TestVerify_SubjectFallback(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-77",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, failure := verifier.Verify("Bearer " + token)

	require.Nil(t, failure)
	assert.Equal(t, "user-77", user.ID)
}

func TestVerify_ExpiredTokenIsClassified(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-42",
		// 検証側のリーウェイ(30秒)を超えて過去にする
		"exp": time.Now().Add(-2 * time.Minute).Unix(),
	})

	user, failure := verifier.Verify("Bearer " + token)

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureExpired, failure.Kind)
}

func TestVerify_BadSignatureIsInvalid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, []byte("other-secret"), jwt.SigningMethodHS256, validClaims("user-42"))

	user, failure := verifier.Verify("Bearer " + token)

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureInvalid, failure.Kind)
}

func TestVerify_WrongSigningMethodIsInvalid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS512, validClaims("user-42"))

	user, failure := verifier.Verify("Bearer " + token)

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureInvalid, failure.Kind)
}

func TestVerify_MissingSubjectIsInvalid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, failure := verifier.Verify("Bearer " + token)

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureInvalid, failure.Kind)
}

func TestVerify_GarbageTokenIsInvalid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")

	user, failure := verifier.Verify("Bearer not.a.token")

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureInvalid, failure.Kind)
}

func TestVerify_IssuerMismatchIsInvalid(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "sondago-auth", "")
	claims := validClaims("user-42")
	claims["iss"] = "someone-else"
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, claims)

	user, failure := verifier.Verify("Bearer " + token)

	assert.Empty(t, user.ID)
	require.NotNil(t, failure)
	assert.Equal(t, AuthFailureInvalid, failure.Kind)
}

func TestVerify_IssuerMatch(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "sondago-auth", "")
	claims := validClaims("user-42")
	claims["iss"] = "sondago-auth"
	token := mintToken(t, testSecret, jwt.SigningMethodHS256, claims)

	user, failure := verifier.Verify("Bearer " + token)

	require.Nil(t, failure)
	assert.Equal(t, "user-42", user.ID)
}
