package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/glimora/glimora-backend-go/config"
)

const brandName = "Glimora Beauty Glow"

// SendOTPEmail delivers a password-reset code to the given address. Plain
// text only; the storefront owns anything prettier.
func SendOTPEmail(to, firstName, otp string) error {
	from := config.GetEnv("EMAIL_USER", "")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your OTP for Password Reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s! Your one-time passcode is %s. It's valid for 10 minutes. If you didn't request this, ignore this email. — %s",
		firstName, otp, brandName,
	))

	d := gomail.NewDialer(
		config.GetEnv("SMTP_HOST", "smtp.gmail.com"),
		config.GetEnvInt("SMTP_PORT", 587),
		from,
		config.GetEnv("APP_PASSWORD", ""),
	)

	return d.DialAndSend(m)
}
