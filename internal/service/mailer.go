package service

// Mailer sends the transactional emails the services trigger. Satisfied by
// email.EmailService; tests plug in a no-op.
type Mailer interface {
	SendWelcomeEmail(to, name string) error
	SendDepositApprovedEmail(to, name, amount string) error
}
