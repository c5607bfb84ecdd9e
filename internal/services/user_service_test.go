package services

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/spacebrain/backend/internal/models"
	"github.com/spacebrain/backend/internal/store"
)

func userTestRouter(service *UserService) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/brain/user/all", service.All)
	r.Get("/brain/user/{id}/phonenumbers", service.PhoneNumbers)
	r.Get("/brain/user/update/{id}/{first}/{last}/{member}", service.Update)
	r.Get("/brain/user/delete/{id}", service.Delete)
	r.Get("/brain/user/updatephonenumber/{id}/{userId}/{number}/{cellphone}", service.UpdatePhoneNumber)
	r.Get("/brain/user/deletephonenumber/{id}", service.DeletePhoneNumber)
	r.Get("/brain/user/{id}/updatepassword/{username}/{password}", service.SetCredential)
	r.Get("/brain/login/{username}/{password}", service.Login)
	return r
}

func TestUserService_All(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewUserService(store.New(db))
	router := userTestRouter(service)

	mock.ExpectQuery("SELECT id, first_name, last_name, member FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "member"}).
			AddRow(1, "John", "Doe", true))

	req := httptest.NewRequest("GET", "/brain/user/all", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string][]models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["users"], 1)
	assert.Equal(t, "John", response["users"][0].FirstName)
	assert.True(t, response["users"][0].Member)
}

func TestUserService_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewUserService(store.New(db))
	router := userTestRouter(service)

	t.Run("percent-encoded names decode before storage", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET first_name").
			WithArgs(1, "Jean Pierre", "van der Berg", true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest("GET", "/brain/user/update/1/Jean%20Pierre/van%20der%20Berg/true", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})

	t.Run("member flag must be a literal boolean", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/brain/user/update/1/John/Doe/yes", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric id is a client error", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/brain/user/update/abc/John/Doe/true", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserService_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewUserService(store.New(db))
	router := userTestRouter(service)

	t.Run("delete answers True even when already gone", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		req := httptest.NewRequest("GET", "/brain/user/delete/7", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WithArgs(7).
			WillReturnError(assert.AnError)

		req := httptest.NewRequest("GET", "/brain/user/delete/7", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUserService_PhoneNumbers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewUserService(store.New(db))
	router := userTestRouter(service)

	t.Run("lists numbers for a user", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, number, cellphone").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "number", "cellphone"}).
				AddRow(5, 1, "+31612345678", true))

		req := httptest.NewRequest("GET", "/brain/user/1/phonenumbers", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string][]models.PhoneNumber
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["phonenumbers"], 1)
		assert.Equal(t, "+31612345678", response["phonenumbers"][0].Number)
	})

	t.Run("update decodes the number segment", func(t *testing.T) {
		mock.ExpectExec("UPDATE phone_numbers SET user_id").
			WithArgs(5, 1, "+31612345678", true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest("GET", "/brain/user/updatephonenumber/5/1/%2B31612345678/true", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})

	t.Run("delete phone number", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM phone_numbers").
			WithArgs(5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest("GET", "/brain/user/deletephonenumber/5", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})
}

func TestUserService_Credentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewUserService(store.New(db))
	router := userTestRouter(service)

	t.Run("set credential stores a hash, not the password", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO credentials").
			WithArgs(1, "jdoe", hashNotEqual("secret123")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest("GET", "/brain/user/1/updatepassword/jdoe/secret123", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})

	t.Run("login matches the stored hash", func(t *testing.T) {
		hash, err := hashPassword("secret123")
		assert.NoError(t, err)

		mock.ExpectQuery("SELECT password_hash FROM credentials").
			WithArgs("jdoe").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(hash))

		req := httptest.NewRequest("GET", "/brain/login/jdoe/secret123", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "True", w.Body.String())
	})

	t.Run("wrong password answers False with 200", func(t *testing.T) {
		hash, err := hashPassword("secret123")
		assert.NoError(t, err)

		mock.ExpectQuery("SELECT password_hash FROM credentials").
			WithArgs("jdoe").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(hash))

		req := httptest.NewRequest("GET", "/brain/login/jdoe/wrongpass", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "False", w.Body.String())
	})

	t.Run("unknown username answers False", func(t *testing.T) {
		mock.ExpectQuery("SELECT password_hash FROM credentials").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash"}))

		req := httptest.NewRequest("GET", "/brain/login/nobody/whatever", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "False", w.Body.String())
	})
}

func TestPasswordHashing(t *testing.T) {
	viper.Set("argon2.salt_length", 16)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 64*1024)
	viper.Set("argon2.threads", 4)
	viper.Set("argon2.key_length", 32)

	password := "testpassword"

	hashed, err := hashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotContains(t, hashed, password)

	assert.True(t, verifyPassword(password, hashed))
	assert.False(t, verifyPassword("wrongpassword", hashed))

	// Changing the password invalidates the old one immediately.
	rehashed, err := hashPassword("newpassword")
	assert.NoError(t, err)
	assert.True(t, verifyPassword("newpassword", rehashed))
	assert.False(t, verifyPassword(password, rehashed))
}

// hashNotEqual matches any string argument except the given plaintext.
type hashNotEqual string

func (h hashNotEqual) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s != "" && s != string(h)
}
