package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"verdura/db"
	"verdura/middleware"
	"verdura/models"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// Admin tokens live longer than a typical session token so the dashboard
// survives a working day.
const adminTokenTTL = 10 * time.Hour

type Handler struct {
	DB   *db.Mongo
	Auth *middleware.Auth
}

func NewHandler(m *db.Mongo, a *middleware.Auth) *Handler {
	return &Handler{DB: m, Auth: a}
}

// HashPassword hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

// CheckPassword compares a bcrypt hash with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminLogin verifies admin credentials and issues a bearer token. Unknown
// username and wrong password produce the same response on purpose.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.AdminLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var admin models.Admin
	err := h.DB.Admins.FindOne(r.Context(), bson.M{"username": input.Username}).Decode(&admin)
	if err != nil || !CheckPassword(admin.PasswordHash, input.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokenString, err := h.Auth.GenerateToken(admin.AdminID, admin.Username, adminTokenTTL)
	if err != nil {
		logrus.WithError(err).Error("failed to sign admin token")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"access_token": tokenString,
		"token_type":   "bearer",
	})
}

// UserLogin checks customer credentials. Customers get no token; the order
// lookup endpoint re-verifies the password on every call.
func (h *Handler) UserLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, ok := h.VerifyUser(r.Context(), input.Email, input.Password)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Authentication successful",
		"user_id": user.UserID,
	})
}

// VerifyUser looks up a customer by email and checks the password. The false
// return carries no detail about which part failed.
func (h *Handler) VerifyUser(ctx context.Context, email, password string) (*models.User, bool) {
	var user models.User
	if err := h.DB.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, false
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, false
	}
	return &user, true
}
