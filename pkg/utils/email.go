package utils

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailConfig holds the SMTP account used for driver emails
type EmailConfig struct {
	From     string
	Password string
	Host     string
	Port     string
	BaseURL  string
}

// EmailConfigFromEnv reads EMAIL_FROM, EMAIL_PASSWORD, SMTP_HOST, SMTP_PORT and BASE_URL.
func EmailConfigFromEnv() EmailConfig {
	return EmailConfig{
		From:     os.Getenv("EMAIL_FROM"),
		Password: os.Getenv("EMAIL_PASSWORD"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		BaseURL:  os.Getenv("BASE_URL"),
	}
}

func (c EmailConfig) Enabled() bool {
	return c.From != "" && c.Password != "" && c.Host != "" && c.Port != ""
}

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1e3a8a; margin: 0;">%s</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>Mensagem automática, por favor não responda a este email.</p>
		</div>
	</div>
</body>
</html>
`

// Mailer sends transactional emails to drivers on behalf of the fleet operator.
type Mailer struct {
	cfg  EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg EmailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Enabled reports whether SMTP settings are present. A nil Mailer is disabled.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Enabled()
}

func (m *Mailer) sendEmail(to []string, companyName, subject, body string) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("email configuration not set")
	}

	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", companyName, m.cfg.From)},
		{"To", strings.Join(to, ",")},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var message strings.Builder
	for _, h := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	message.WriteString("\r\n" + body)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, to, []byte(message.String())); err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendPaymentPaidEmail tells a driver that their payout for period was transferred.
func (m *Mailer) SendPaymentPaidEmail(driverEmail, driverName, period string, net float64, companyName string) error {
	subject := fmt.Sprintf("Pagamento Efetuado - %s", period)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Pagamento Efetuado</h1>
					<p>Olá %s,</p>
					<p>O seu pagamento referente ao período <strong>%s</strong> foi processado.</p>
					<p>Valor líquido: <strong>€%.2f</strong></p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/driver" style="background-color: #1e3a8a; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Ver Painel</a>
					</div>
					<p>Cumprimentos,<br>%s</p>
				</div>`+emailFooter,
		html.EscapeString(companyName), html.EscapeString(driverName), html.EscapeString(period), net, m.cfg.BaseURL, html.EscapeString(companyName))

	return m.sendEmail([]string{driverEmail}, companyName, subject, body)
}

// SendRentalApprovedEmail confirms a vehicle rental and its weekly charge.
func (m *Mailer) SendRentalApprovedEmail(driverEmail, driverName, plate string, weeklyCost float64, companyName string) error {
	subject := fmt.Sprintf("Aluguel Aprovado - Viatura %s", plate)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Aluguel Aprovado</h1>
					<p>Olá %s,</p>
					<p>O seu pedido de aluguel da viatura <strong>%s</strong> foi aprovado.</p>
					<p>Será descontado semanalmente o valor de <strong>€%.2f</strong> nos seus pagamentos.</p>
					<p>Cumprimentos,<br>%s</p>
				</div>`+emailFooter,
		html.EscapeString(companyName), html.EscapeString(driverName), html.EscapeString(plate), weeklyCost, html.EscapeString(companyName))

	return m.sendEmail([]string{driverEmail}, companyName, subject, body)
}
