package auth

// Credentials are stored as JSON under credentials_<mail id>.
type Credentials struct {
	UserID       string `json:"user_id"`
	MailID       string `json:"mail_id"`
	PasswordHash string `json:"password_hash"`
}

type LoginRequestBody struct {
	Password string `json:"password"`
	MailID   string `json:"mail_id"`
}

type SignUpRequestBody struct {
	UserName string `json:"user_name"`
	MailID   string `json:"mail_id"`
	Password string `json:"password"`
}
