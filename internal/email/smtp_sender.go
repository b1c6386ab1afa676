package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender envía correos transaccionales vía SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
	baseURL  string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool, baseURL string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		useTLS:   useTLS,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *SMTPSender) SendVerificationEmail(_ context.Context, toEmail, name, token string) error {
	link := s.baseURL + "/verify/" + token
	body := fmt.Sprintf(
		"Hola %s, gracias por registrarte en WorkIN.\n"+
			"Para activar tu cuenta abre el siguiente enlace:\n\n%s\n\n"+
			"Si no solicitaste esta cuenta, puedes ignorar este correo.\n",
		name, link,
	)
	return s.send(toEmail, "Verifica tu cuenta en WorkIN", body)
}

func (s *SMTPSender) SendPasswordResetEmail(_ context.Context, toEmail, name, token string) error {
	link := s.baseURL + "/password-reset/" + token
	body := fmt.Sprintf(
		"Hola %s, recibimos una solicitud para restablecer tu contraseña.\n"+
			"El enlace vence en una hora:\n\n%s\n\n"+
			"Si no fuiste tú, ignora este correo y tu contraseña seguirá siendo la misma.\n",
		name, link,
	)
	return s.send(toEmail, "Restablece tu contraseña - WorkIN", body)
}

func (s *SMTPSender) SendEmailChangeEmail(_ context.Context, toEmail, name, token string) error {
	link := s.baseURL + "/profile/confirm-email/" + token
	body := fmt.Sprintf(
		"Hola %s, has solicitado cambiar tu correo electrónico en WorkIN.\n"+
			"Para confirmar el cambio abre el siguiente enlace:\n\n%s\n\n"+
			"Si no solicitaste este cambio, ignora este correo.\n",
		name, link,
	)
	return s.send(toEmail, "Confirma tu nuevo correo electrónico - WorkIN", body)
}

func (s *SMTPSender) send(toEmail, subject, body string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}

	msg := buildMessage(s.from, s.fromName, toEmail, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.useTLS {
		conn, err := tls.Dial("tcp", addr, &tls.Config{
			ServerName: s.host,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.host)
		if err != nil {
			return err
		}
		defer client.Quit()

		if auth != nil {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
		if err := client.Mail(s.from); err != nil {
			return err
		}
		if err := client.Rcpt(toEmail); err != nil {
			return err
		}
		writer, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := writer.Write([]byte(msg)); err != nil {
			_ = writer.Close()
			return err
		}
		return writer.Close()
	}

	return smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(msg))
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
