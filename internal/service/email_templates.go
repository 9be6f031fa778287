package service

import (
	"fmt"

	"github.com/templui/portfolio/internal/model"
)

func welcomeEmailTemplate(name, signInURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for creating an account. You can sign in any time here:
%s

Best,
%s`, name, signInURL, appName)

	return subject, body
}

func contactEmailTemplate(msg model.ContactMessage, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] New message from %s", appName, msg.Name)
	body := fmt.Sprintf(`Name: %s
Email: %s

%s`, msg.Name, msg.Email, msg.Message)

	return subject, body
}
