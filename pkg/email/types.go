package email

// Kind names the template a message was built from. It travels as the
// X-TFG-Kind header so bounces and logs can be grouped.
type Kind string

const (
	KindWelcome     Kind = "welcome"
	KindStaffInvite Kind = "staff_invite"
)

// Message is a single-recipient transactional mail.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string
}
