package services

import (
	cryptorand "crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"

	"github.com/spacebrain/backend/internal/models"
	"github.com/spacebrain/backend/internal/store"
)

// UserService covers user management: the user list, phone numbers,
// credentials and the login check.
type UserService struct {
	store     *store.Store
	validator *ValidationHelper
}

// UpdateUserRequest carries the decoded path segments of a user update.
type UpdateUserRequest struct {
	ID        int    `validate:"required,gt=0"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Member    bool
}

// UpdatePhoneNumberRequest carries the decoded path segments of a phone
// number update.
type UpdatePhoneNumberRequest struct {
	ID        int    `validate:"required,gt=0"`
	UserID    int    `validate:"required,gt=0"`
	Number    string `validate:"required,max=32"`
	Cellphone bool
}

// SetCredentialRequest carries the decoded path segments of a password
// update.
type SetCredentialRequest struct {
	UserID   int    `validate:"required,gt=0"`
	Username string `validate:"required,max=100"`
	Password string `validate:"required,min=6"`
}

func NewUserService(st *store.Store) *UserService {
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)

	return &UserService{
		store:     st,
		validator: NewValidationHelper(),
	}
}

// All returns every user record.
func (s *UserService) All(w http.ResponseWriter, r *http.Request) {
	log.Printf("[USER] Returning all users")

	users, err := s.store.Users()
	if err != nil {
		log.Printf("[USER] Failed to fetch users: %v", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]models.User{"users": users})
}

// PhoneNumbers returns the phone numbers of one user.
func (s *UserService) PhoneNumbers(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return
	}

	log.Printf("[USER] Returning phone numbers for user %d", id)

	numbers, err := s.store.PhoneNumbers(id)
	if err != nil {
		log.Printf("[USER] Failed to fetch phone numbers for user %d: %v", id, err)
		http.Error(w, "Failed to fetch phone numbers", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]models.PhoneNumber{"phonenumbers": numbers})
}

// Update applies new name and membership data to an existing user.
func (s *UserService) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	var err error

	if req.ID, err = intParam(r, "id"); err != nil {
		SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return
	}
	first, err1 := textParam(r, "first")
	last, err2 := textParam(r, "last")
	if err1 != nil || err2 != nil {
		SendErrorResponse(w, "Invalid path segment encoding", http.StatusBadRequest, nil)
		return
	}
	req.FirstName, req.LastName = first, last
	if req.Member, err = flagParam(r, "member"); err != nil {
		SendErrorResponse(w, "Invalid member flag, expected true or false", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	log.Printf("[USER] Updating user %d: %s %s, member=%t", req.ID, req.FirstName, req.LastName, req.Member)

	if err := s.store.UpdateUser(req.ID, req.FirstName, req.LastName, req.Member); err != nil {
		log.Printf("[USER] Failed to update user %d: %v", req.ID, err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// Delete removes a user. Deleting an already-deleted id answers True as
// well.
func (s *UserService) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return
	}

	log.Printf("[USER] Deleting user %d", id)

	if err := s.store.DeleteUser(id); err != nil {
		log.Printf("[USER] Failed to delete user %d: %v", id, err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// UpdatePhoneNumber applies new data to an existing phone number row.
func (s *UserService) UpdatePhoneNumber(w http.ResponseWriter, r *http.Request) {
	var req UpdatePhoneNumberRequest
	var err error

	if req.ID, err = intParam(r, "id"); err != nil {
		SendErrorResponse(w, "Invalid phone number id", http.StatusBadRequest, nil)
		return
	}
	if req.UserID, err = intParam(r, "userId"); err != nil {
		SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return
	}
	if req.Number, err = textParam(r, "number"); err != nil {
		SendErrorResponse(w, "Invalid path segment encoding", http.StatusBadRequest, nil)
		return
	}
	if req.Cellphone, err = flagParam(r, "cellphone"); err != nil {
		SendErrorResponse(w, "Invalid cellphone flag, expected true or false", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	log.Printf("[USER] Updating phone number %d for user %d", req.ID, req.UserID)

	if err := s.store.UpdatePhoneNumber(req.ID, req.UserID, req.Number, req.Cellphone); err != nil {
		log.Printf("[USER] Failed to update phone number %d: %v", req.ID, err)
		http.Error(w, "Failed to update phone number", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// DeletePhoneNumber removes a phone number row.
func (s *UserService) DeletePhoneNumber(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		SendErrorResponse(w, "Invalid phone number id", http.StatusBadRequest, nil)
		return
	}

	log.Printf("[USER] Deleting phone number %d", id)

	if err := s.store.DeletePhoneNumber(id); err != nil {
		log.Printf("[USER] Failed to delete phone number %d: %v", id, err)
		http.Error(w, "Failed to delete phone number", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// SetCredential stores a username and password for a user. The password
// is hashed before it reaches the store; only the hash is persisted.
func (s *UserService) SetCredential(w http.ResponseWriter, r *http.Request) {
	var req SetCredentialRequest
	var err error

	if req.UserID, err = intParam(r, "id"); err != nil {
		SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return
	}
	username, err1 := textParam(r, "username")
	password, err2 := textParam(r, "password")
	if err1 != nil || err2 != nil {
		SendErrorResponse(w, "Invalid path segment encoding", http.StatusBadRequest, nil)
		return
	}
	req.Username, req.Password = username, password

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	log.Printf("[USER] Setting credential for user %d, username %s", req.UserID, req.Username)

	hash, err := hashPassword(req.Password)
	if err != nil {
		log.Printf("[USER] Password hashing failed for user %d: %v", req.UserID, err)
		http.Error(w, "Failed to set credential", http.StatusInternalServerError)
		return
	}

	if err := s.store.SetCredential(req.UserID, req.Username, hash); err != nil {
		log.Printf("[USER] Failed to store credential for user %d: %v", req.UserID, err)
		http.Error(w, "Failed to set credential", http.StatusInternalServerError)
		return
	}

	writeBool(w, true)
}

// Login checks a username/password pair and answers the legacy True or
// False literal. A mismatch is a normal False outcome, never an error
// status.
func (s *UserService) Login(w http.ResponseWriter, r *http.Request) {
	username, err1 := textParam(r, "username")
	password, err2 := textParam(r, "password")
	if err1 != nil || err2 != nil {
		SendErrorResponse(w, "Invalid path segment encoding", http.StatusBadRequest, nil)
		return
	}

	log.Printf("[USER] Login check for username %s", username)

	hash, err := s.store.CredentialHash(username)
	if errors.Is(err, store.ErrNotFound) {
		writeBool(w, false)
		return
	}
	if err != nil {
		log.Printf("[USER] Failed to fetch credential for %s: %v", username, err)
		http.Error(w, "Failed to check credential", http.StatusInternalServerError)
		return
	}

	writeBool(w, verifyPassword(password, hash))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return string(hash) == string(computedHash)
}
