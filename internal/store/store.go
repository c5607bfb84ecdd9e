package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spacebrain/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the single access point to the relational store. Every method
// performs exactly one round-trip; connectivity failures are returned to
// the caller and are fatal for the operation in flight.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The handle is injected, never held
// as package state.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GsmNumbers returns the full allow-list of GSM numbers permitted to
// trigger the gate opener.
func (s *Store) GsmNumbers() ([]string, error) {
	return s.stringColumn(`SELECT number FROM gsm_numbers ORDER BY number`)
}

// BadgeNumbers returns the full allow-list of badge numbers permitted to
// unlock the door.
func (s *Store) BadgeNumbers() ([]string, error) {
	return s.stringColumn(`SELECT number FROM badge_numbers ORDER BY number`)
}

func (s *Store) stringColumn(query string) ([]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query allow-list: %w", err)
	}
	defer rows.Close()

	numbers := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// Logs returns log entries with timestamps in [from, to], ordered by
// insertion.
func (s *Store) Logs(from, to time.Time) ([]models.LogEntry, error) {
	rows, err := s.db.Query(`
        SELECT id, ts, system, attribute, message
        FROM logs
        WHERE ts >= $1 AND ts <= $2
        ORDER BY id
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.System, &e.Attribute, &e.Message); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddLog appends a log entry. The timestamp is assigned here, at write
// time, so entries stay monotonic with insertion order.
func (s *Store) AddLog(system, attribute, message string) error {
	_, err := s.db.Exec(`
        INSERT INTO logs (ts, system, attribute, message)
        VALUES (NOW(), $1, $2, $3)
    `, system, attribute, message)
	return err
}

// Users returns all user records.
func (s *Store) Users() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT id, first_name, last_name, member FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Member); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PhoneNumbers returns the phone numbers belonging to a user.
func (s *Store) PhoneNumbers(userID int) ([]models.PhoneNumber, error) {
	rows, err := s.db.Query(`
        SELECT id, user_id, number, cellphone
        FROM phone_numbers
        WHERE user_id = $1
        ORDER BY id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query phone numbers: %w", err)
	}
	defer rows.Close()

	numbers := []models.PhoneNumber{}
	for rows.Next() {
		var p models.PhoneNumber
		if err := rows.Scan(&p.ID, &p.UserID, &p.Number, &p.Cellphone); err != nil {
			return nil, err
		}
		numbers = append(numbers, p)
	}
	return numbers, rows.Err()
}

// UpdateUser updates the row matching id. Updating an id that does not
// exist affects zero rows and is not an error; the store never inserts a
// caller-chosen identifier.
func (s *Store) UpdateUser(id int, firstName, lastName string, member bool) error {
	_, err := s.db.Exec(`
        UPDATE users SET first_name = $2, last_name = $3, member = $4
        WHERE id = $1
    `, id, firstName, lastName, member)
	return err
}

// DeleteUser removes a user. Deleting an id that no longer exists is a
// no-op.
func (s *Store) DeleteUser(id int) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

// UpdatePhoneNumber updates the phone number row matching id.
func (s *Store) UpdatePhoneNumber(id, userID int, number string, cellphone bool) error {
	_, err := s.db.Exec(`
        UPDATE phone_numbers SET user_id = $2, number = $3, cellphone = $4
        WHERE id = $1
    `, id, userID, number, cellphone)
	return err
}

// DeletePhoneNumber removes a phone number. Idempotent like DeleteUser.
func (s *Store) DeletePhoneNumber(id int) error {
	_, err := s.db.Exec(`DELETE FROM phone_numbers WHERE id = $1`, id)
	return err
}

// SetCredential stores the username and password hash for a user,
// replacing any previous credential immediately.
func (s *Store) SetCredential(userID int, username, passwordHash string) error {
	_, err := s.db.Exec(`
        INSERT INTO credentials (user_id, username, password_hash)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET username = $2, password_hash = $3
    `, userID, username, passwordHash)
	return err
}

// CredentialHash returns the stored password hash for a username, or
// ErrNotFound when no credential exists.
func (s *Store) CredentialHash(username string) (string, error) {
	var hash string
	err := s.db.QueryRow(
		`SELECT password_hash FROM credentials WHERE username = $1`, username,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query credential: %w", err)
	}
	return hash, nil
}

// SaveBankTransaction persists one imported bank statement row.
func (s *Store) SaveBankTransaction(tx models.BankTransaction) error {
	_, err := s.db.Exec(`
        INSERT INTO bank_transactions
        (valuta_date, reference, type, amount, currency, date, source_account, name, message1, message2, batch_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, tx.ValutaDate, tx.Reference, tx.Type, tx.Amount, tx.Currency,
		tx.Date, tx.SourceAccount, tx.Name, tx.Message1, tx.Message2, tx.BatchID)
	return err
}
