package email

// Message is a rendered outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Sender delivers outbound email. The core never blocks on delivery;
// the reminder worker is the only producer.
type Sender interface {
	Send(msg Message) error
}
