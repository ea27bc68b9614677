package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"campus-forum/internal/managers"
	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	CheckUser(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	Validator       *utils.Validator
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MailManager:     *mailManager,
		Validator:       utils.GetValidator(),
	}
}

const resetTokenLifetime = time.Hour

// RegisterUser registers a new user account with the default user role.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	// Decode the request body into the registration request struct
	registrationRequest := &schemas.RegistrationRequest{}
	if err := utils.DecodeAndValidateBody(c, registrationRequest); err != nil {
		return
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Check if the username or email is taken
	if err = checkUsernameEmailTaken(c, tx, registrationRequest.Username, registrationRequest.Email); err != nil {
		return
	}

	// The deliverability check needs outbound DNS, so it only runs in production
	if os.Getenv("ENVIRONMENT") == "production" && !handler.Validator.VerifyEmail(registrationRequest.Email) {
		err = errors.New("email not deliverable")
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Insert the user into the database
	userId := uuid.New()
	queryString := "INSERT INTO users (user_id, username, firstname, lastname, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err = tx.Exec(c, queryString, userId, registrationRequest.Username, registrationRequest.Firstname,
		registrationRequest.Lastname, registrationRequest.Email, hashedPassword, string(schemas.RoleUser), time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	userDto := &schemas.UserDTO{
		UserId:   userId,
		Username: registrationRequest.Username,
		Email:    registrationRequest.Email,
	}

	// Send success response
	utils.WriteAndLogResponse(c, userDto, http.StatusCreated)
}

// LoginUser logs in the user by username or email and returns a signed token.
// Unknown identifiers and wrong passwords produce the same response so the
// endpoint does not reveal which accounts exist.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	// Decode the request body into the login request struct
	loginRequest := &schemas.LoginRequest{}
	if err := utils.DecodeAndValidateBody(c, loginRequest); err != nil {
		return
	}

	// Look up the user by email or username depending on the identifier shape
	queryString := "SELECT user_id, username, password_hash, role FROM users WHERE username = $1"
	if strings.Contains(loginRequest.Identifier, "@") {
		queryString = "SELECT user_id, username, password_hash, role FROM users WHERE email = $1"
	}

	var userId uuid.UUID
	var username, passwordHash, role string
	row := handler.DatabaseManager.GetPool().QueryRow(c, queryString, loginRequest.Identifier)
	if err := row.Scan(&userId, &username, &passwordHash, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Check if the password is correct
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	// Generate a token for the user
	token, err := handler.JWTManager.GenerateJWT(userId.String(), username, schemas.ParseRole(role))
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tokenDto := &schemas.TokenDTO{
		Token:    token,
		UserId:   userId,
		Username: username,
		Role:     schemas.ParseRole(role),
	}

	// Send success response
	utils.WriteAndLogResponse(c, tokenDto, http.StatusOK)
}

// CheckUser returns the identity the auth gate attached to the request. The
// client uses it to verify a stored token is still accepted.
func (handler *UserHandler) CheckUser(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}

	userId, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	identityDto := &schemas.IdentityDTO{
		UserId:   userId,
		Username: username,
		Role:     schemas.ParseRole(role),
	}

	utils.WriteAndLogResponse(c, identityDto, http.StatusOK)
}

// ForgotPassword issues a single-use password reset token and mails the reset
// link to the user. The response is identical whether or not the email belongs
// to an account, so the endpoint cannot be used for account enumeration.
func (handler *UserHandler) ForgotPassword(c *gin.Context) {
	// Decode the request body into the forgot password request struct
	forgotPasswordRequest := &schemas.ForgotPasswordRequest{}
	if err := utils.DecodeAndValidateBody(c, forgotPasswordRequest); err != nil {
		return
	}

	messageDto := &schemas.MessageDTO{
		Message: "If that email is registered, a password reset link has been sent.",
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Look up the user by email
	var userId uuid.UUID
	var username string
	queryString := "SELECT user_id, username FROM users WHERE email = $1"
	row := tx.QueryRow(c, queryString, forgotPasswordRequest.Email)
	if err = row.Scan(&userId, &username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown email, return the generic response without issuing a token
			if err = utils.CommitTransaction(c, tx); err != nil {
				return
			}
			utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Generate the reset secret. Only its hash is stored, the raw secret
	// leaves the server exclusively inside the mailed link.
	resetSecret, err := generateResetSecret()
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}
	tokenHash := hashResetSecret(resetSecret)

	// A new request supersedes any previously issued token
	queryString = "DELETE FROM password_reset_tokens WHERE user_id = $1"
	if _, err = tx.Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "INSERT INTO password_reset_tokens (token_id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)"
	if _, err = tx.Exec(c, queryString, uuid.New(), userId, tokenHash, time.Now().Add(resetTokenLifetime)); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Delivery is best effort, a mail failure never changes the response.
	// The goroutine outlives the request, so it gets a detached context copy.
	resetLink := fmt.Sprintf("%s/reset-password/%s", utils.ClientBaseURL(), resetSecret)
	email := forgotPasswordRequest.Email
	logCtx := c.Copy()
	go func() {
		if mailErr := handler.MailManager.SendPasswordResetMail(email, username, resetLink); mailErr != nil {
			utils.LogMessageWithFieldsAndError(logCtx, "error", "Error sending password reset mail", mailErr)
		}
	}()

	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// ResetPassword redeems a reset token and sets the new password. Unknown,
// already used and expired tokens all yield the same error response.
func (handler *UserHandler) ResetPassword(c *gin.Context) {
	// Decode the request body into the reset password request struct
	resetPasswordRequest := &schemas.ResetPasswordRequest{}
	if err := utils.DecodeAndValidateBody(c, resetPasswordRequest); err != nil {
		return
	}

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Look up the token by the hash of the presented secret
	var tokenId, userId uuid.UUID
	var expiresAt pgtype.Timestamptz
	queryString := "SELECT token_id, user_id, expires_at FROM password_reset_tokens WHERE token_hash = $1"
	row := tx.QueryRow(c, queryString, hashResetSecret(resetPasswordRequest.Token))
	if err = row.Scan(&tokenId, &userId, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidResetToken, http.StatusUnauthorized, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Expired tokens are deleted on detection and rejected like unknown ones
	if time.Now().After(expiresAt.Time) {
		queryString = "DELETE FROM password_reset_tokens WHERE token_id = $1"
		if _, err = tx.Exec(c, queryString, tokenId); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}

		utils.WriteAndLogError(c, schemas.InvalidResetToken, http.StatusUnauthorized, errors.New("reset token expired"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(resetPasswordRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Update the user's password in the database
	queryString = "UPDATE users SET password_hash = $1 WHERE user_id = $2"
	if _, err = tx.Exec(c, queryString, hashedPassword, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// The token is single use
	queryString = "DELETE FROM password_reset_tokens WHERE token_id = $1"
	if _, err = tx.Exec(c, queryString, tokenId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Password has been reset successfully."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// checkUsernameEmailTaken checks if the username or email is taken.
func checkUsernameEmailTaken(c *gin.Context, tx pgx.Tx, username, email string) error {
	queryString := "SELECT username, email FROM users WHERE username = $1 OR email = $2"
	rows, err := tx.Query(c, queryString, username, email)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		var foundUsername string
		var foundEmail string

		if err := rows.Scan(&foundUsername, &foundEmail); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return err
		}

		customErr := schemas.EmailTaken
		if foundUsername == username {
			customErr = schemas.UsernameTaken
		}

		err = errors.New("username or email taken")
		utils.WriteAndLogError(c, customErr, http.StatusBadRequest, err)
		return err
	}

	return nil
}

// generateResetSecret returns a fresh random reset secret as hex.
func generateResetSecret() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}

	return hex.EncodeToString(secret), nil
}

// hashResetSecret hashes a reset secret for storage and lookup.
func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
