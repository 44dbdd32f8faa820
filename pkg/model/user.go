package model

// User is a wallet account holder as returned by the gateway.
type User struct {
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Names    string `json:"names"`
}

// Credentials are the inputs to the login operation.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration holds the fields required to create a wallet account.
type Registration struct {
	Names    string `json:"names"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthData is the payload returned by a successful login.
type AuthData struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
