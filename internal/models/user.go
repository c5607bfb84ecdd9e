package models

// User is a member record managed through the admin endpoints.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Member    bool   `json:"member"`
}

// PhoneNumber belongs to a user. Cellphone distinguishes mobile numbers
// from landlines.
type PhoneNumber struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Number    string `json:"number"`
	Cellphone bool   `json:"cellphone"`
}
