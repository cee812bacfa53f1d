package utils

import (
	"fmt"
	"log"

	"planpractice/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends a transactional email via SendGrid. When no API key is
// configured the message is logged and dropped so local setups keep working.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendgridAPIKey == "" {
		log.Printf("SendGrid not configured, skipping email to %s: %s", toEmail, subject)
		return nil
	}

	from := sgmail.NewEmail(cfg.EmailFromName, cfg.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(cfg.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPIssuedEmail notifies the teacher of a freshly generated quiz code
func SendOTPIssuedEmail(toName, toEmail, quizTitle, code string, expiryMinutes int) {
	subject := "Quiz access code for " + quizTitle
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Quiz Access Code</h2>
					<p style="font-size: 16px; color: #555555;">A new access code was generated for <strong>%s</strong>:</p>
					<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
					<p style="font-size: 14px; color: #999999; text-align: center;">The code expires in %d minutes. Share it with your students to let them take the quiz.</p>
				</div>
			</body>
		</html>
	`, quizTitle, code, expiryMinutes)

	go SendEmail(toName, toEmail, subject, body)
}

// SendPaymentReceiptEmail confirms a successful coin purchase
func SendPaymentReceiptEmail(toName, toEmail, packageName string, coins uint, orderCode int64) {
	subject := "Payment received - " + packageName
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Payment Successful</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your purchase of the <strong>%s</strong> package is complete. <strong>%d coins</strong> have been added to your balance.</p>
					<p style="font-size: 14px; color: #999999;">Order code: %d</p>
				</div>
			</body>
		</html>
	`, toName, packageName, coins, orderCode)

	go SendEmail(toName, toEmail, subject, body)
}
