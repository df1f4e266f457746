package notify

import "fmt"

// Render produces the subject and body for a message. Each kind has its own
// template; the moderation reason is echoed for the private and suspended
// app transitions.
func Render(msg Message) (subject, body string) {
	switch msg.Kind {
	case KindDeveloperRequestApproved:
		subject = "Your developer request has been approved"
		body = fmt.Sprintf("Hi %s, your request to become a developer has been approved. You can now publish apps.", msg.RecipientName)
	case KindDeveloperRequestRejected:
		subject = "Your developer request has been rejected"
		body = fmt.Sprintf("Hi %s, your request to become a developer has been rejected.", msg.RecipientName)
		if msg.Reason != "" {
			body += fmt.Sprintf(" Reason: %s", msg.Reason)
		}
	case KindAppPublished:
		subject = fmt.Sprintf("%q is now published", msg.AppName)
		body = fmt.Sprintf("Hi %s, your app %q has been published and is visible to all users.", msg.RecipientName, msg.AppName)
	case KindAppPrivate:
		subject = fmt.Sprintf("%q has been set to private", msg.AppName)
		body = fmt.Sprintf("Hi %s, your app %q is no longer publicly visible.", msg.RecipientName, msg.AppName)
		if msg.Reason != "" {
			body += fmt.Sprintf(" Reason: %s", msg.Reason)
		}
	case KindAppSuspended:
		subject = fmt.Sprintf("%q has been suspended", msg.AppName)
		body = fmt.Sprintf("Hi %s, your app %q has been suspended by the moderation team.", msg.RecipientName, msg.AppName)
		if msg.Reason != "" {
			body += fmt.Sprintf(" Reason: %s", msg.Reason)
		}
	case KindAppArchived:
		subject = fmt.Sprintf("%q has been archived", msg.AppName)
		body = fmt.Sprintf("Hi %s, your app %q has been archived and is no longer listed.", msg.RecipientName, msg.AppName)
	default:
		subject = "Notification"
		body = fmt.Sprintf("Hi %s, there is an update on your account.", msg.RecipientName)
	}
	return subject, body
}
