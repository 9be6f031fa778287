package ui

var authErrorMessages = map[string]string{
	"Configuration":        "There is a problem with the server configuration.",
	"AccessDenied":         "You do not have permission to sign in.",
	"Verification":         "The verification token has expired or has already been used.",
	"AccountDisabled":      "Your account has been disabled. Please contact support.",
	"AuthenticationFailed": "Authentication failed. Please try again.",
}

const defaultAuthErrorMessage = "An error occurred during authentication. Please try again."

// AuthErrorMessage maps an error code from the sign-in flow to a message.
// Unknown codes get the generic message.
func AuthErrorMessage(code string) string {
	if msg, ok := authErrorMessages[code]; ok {
		return msg
	}
	return defaultAuthErrorMessage
}
