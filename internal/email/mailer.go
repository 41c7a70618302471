package email

// Message is a single outbound email. Body is HTML.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer is the outbound email capability the services depend on.
type Mailer interface {
	Send(msg *Message) error
}
