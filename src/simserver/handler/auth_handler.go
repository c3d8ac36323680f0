package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/SteveDok22/TradeSim-Pro/src/auth"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

type userStore interface {
	Create(ctx context.Context, user *smodel.User) error
	FindByUsername(ctx context.Context, username string) (*smodel.User, error)
	FindByID(ctx context.Context, id uint) (*smodel.User, error)
	UpdateBalance(ctx context.Context, userID uint, balance decimal.Decimal) error
}

type tokenStore interface {
	Issue(ctx context.Context, userID uint, accessTTL, refreshTTL time.Duration) (*smodel.SessionToken, error)
	Refresh(ctx context.Context, refreshToken string, accessTTL time.Duration) (*smodel.SessionToken, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type openTradeCloser interface {
	CloseAllByUser(ctx context.Context, userID uint, closedAt time.Time) error
}

// AuthHandler serves registration, login and account endpoints.
type AuthHandler struct {
	Users           userStore
	Tokens          tokenStore
	Trades          openTradeCloser
	StartingBalance decimal.Decimal
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Username == "":
		writeError(w, http.StatusBadRequest, "username is required")
		return
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	case len(req.Password) < 8:
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case req.Password != req.Password2:
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	existing, err := h.Users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user := &smodel.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   string(hash),
		AccountBalance: h.StartingBalance,
		TradingTier:    "BASIC",
	}
	if err := h.Users.Create(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := h.Tokens.Issue(r.Context(), user.ID, h.AccessTTL, h.RefreshTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithField("username", user.Username).Info("user registered")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    newUserView(user),
		"tokens":  tokenView{Access: token.AccessToken, Refresh: token.RefreshToken},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.Tokens.Issue(r.Context(), user.ID, h.AccessTTL, h.RefreshTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    newUserView(user),
		"tokens":  tokenView{Access: token.AccessToken, Refresh: token.RefreshToken},
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.Tokens.Refresh(r.Context(), req.Refresh, h.AccessTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if token == nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access": token.AccessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Tokens.Revoke(r.Context(), req.Refresh); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (h *AuthHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account_balance": user.AccountBalance,
		"trading_tier":    user.TradingTier,
	})
}

// ResetBalance closes every open position and restores the starting balance.
func (h *AuthHandler) ResetBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Trades.CloseAllByUser(r.Context(), user.ID, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if err := h.Users.UpdateBalance(r.Context(), user.ID, h.StartingBalance); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithField("username", user.Username).Info("balance reset")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Balance reset",
		"old_balance": user.AccountBalance,
		"new_balance": h.StartingBalance,
	})
}
