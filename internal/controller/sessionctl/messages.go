package sessionctl

const (
	msgLoginSuccess    = "Login successful!"
	msgLoginFailed     = "Login failed"
	msgRegisterSuccess = "Registration successful! You can log in now."
	msgRegisterFailed  = "Registration failed"
	msgLinkCreated     = "Link created!"
	msgCreateFailed    = "Failed to create link"
	msgDeleteFailed    = "Failed to delete link"
	msgNetworkError    = "Network error"
	msgSessionExpired  = "Session expired. Please log in again."
)
