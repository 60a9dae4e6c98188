package domain

type UserProfile struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	StoreID     int64  `json:"storeId"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phoneNumber"`
}

// Session is the bearer token issued by the backend together with the profile
// of the user it belongs to. The token is opaque to the console.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// ConsoleUser is an account as listed on the user administration page.
type ConsoleUser struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	StoreID     int64  `json:"storeId"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
