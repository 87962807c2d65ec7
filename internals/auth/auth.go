package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidSignUp      = errors.New("user name, mail id and password are required")
)

// Users is the part of the ledger that keeps user records.
type Users interface {
	RegisterUser(ctx context.Context, u ledger.User) error
	GetUser(id string) (*ledger.User, bool)
}

type AuthService struct {
	KV     kvstore.KVStore
	Users  Users
	clock  clock.Clock
	secret []byte
	ttl    time.Duration
	admins map[string]bool
}

func New(kv kvstore.KVStore, users Users, clk clock.Clock, secret string, ttl time.Duration, admins []string) *AuthService {
	a := &AuthService{
		KV:     kv,
		Users:  users,
		clock:  clk,
		secret: []byte(secret),
		ttl:    ttl,
		admins: make(map[string]bool, len(admins)),
	}
	for _, m := range admins {
		a.admins[normalizeMail(m)] = true
	}
	return a
}

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

func credentialsKey(mail string) string {
	return "credentials_" + normalizeMail(mail)
}

func sessionKey(userID string) string {
	return "session_token_" + userID
}

func (a *AuthService) SignUp(ctx context.Context, signUpDetails SignUpRequestBody) (*ledger.User, error) {
	mailID := normalizeMail(signUpDetails.MailID)
	if signUpDetails.UserName == "" || mailID == "" || signUpDetails.Password == "" {
		return nil, ErrInvalidSignUp
	}

	// Validate the mail_id if user already exists
	_, err := a.KV.Get(ctx, credentialsKey(mailID))
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(signUpDetails.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := ledger.User{
		ID:      uuid.NewString(),
		Name:    signUpDetails.UserName,
		Email:   mailID,
		IsAdmin: a.admins[mailID],
	}

	creds, err := json.Marshal(Credentials{UserID: user.ID, MailID: mailID, PasswordHash: string(hash)})
	if err != nil {
		return nil, err
	}
	if err := a.KV.Set(ctx, credentialsKey(mailID), creds); err != nil {
		return nil, err
	}

	if err := a.Users.RegisterUser(ctx, user); err != nil {
		// drop the credentials so the mail id can sign up again
		if delErr := a.KV.Delete(ctx, credentialsKey(mailID)); delErr != nil {
			log.Printf("Error removing credentials for %s: %v", mailID, delErr)
		}
		return nil, err
	}
	return &user, nil
}

// Login function
func (a *AuthService) Login(ctx context.Context, loginDetails LoginRequestBody) (string, *ledger.User, error) {
	raw, err := a.KV.Get(ctx, credentialsKey(loginDetails.MailID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return "", nil, fmt.Errorf("error decoding credentials: %w", err)
	}

	// Verify the password
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(loginDetails.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, ok := a.Users.GetUser(creds.UserID)
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	// Insert the token into the KV store {List of tokens for a user: Multiple devices}
	if err := a.KV.RPush(ctx, sessionKey(user.ID), token); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (a *AuthService) GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     a.clock.Now().Add(a.ttl).Unix(),
	})

	return token.SignedString(a.secret)
}

func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Extract user_id from token claims
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userID, ok := claims["user_id"].(string); ok && userID != "" {
			return userID, nil
		}
	}

	return "", ErrInvalidToken
}

// RevokeToken drops the token from the user's whitelist. Even if someone gets
// this token, it will be invalid after this.
func (a *AuthService) RevokeToken(ctx context.Context, userID string, tokenString string) error {
	return a.KV.LRem(ctx, sessionKey(userID), 1, tokenString)
}

func (a *AuthService) CheckIfTokenIsWhiteListed(ctx context.Context, userID string, tokenString string) bool {
	tokens, err := a.KV.LRange(ctx, sessionKey(userID), 0, -1)
	if err != nil {
		return false
	}

	for _, t := range tokens {
		if t == tokenString {
			return true
		}
	}

	return false
}

// Authenticate validates the token and checks it is still whitelisted.
func (a *AuthService) Authenticate(ctx context.Context, tokenString string) (string, error) {
	userID, err := a.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if !a.CheckIfTokenIsWhiteListed(ctx, userID, tokenString) {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (a *AuthService) Logout(ctx context.Context, userID string, tokenString string) error {
	return a.RevokeToken(ctx, userID, tokenString)
}
