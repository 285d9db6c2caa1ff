package email

import (
	"fmt"
	"html"
	"strings"
)

// WelcomeEmailData carries what the welcome mail needs after signup.
type WelcomeEmailData struct {
	FullName string
	Email    string
	GymName  string
	GymSlug  string
	// Owner selects the gym-owner variant.
	Owner   bool
	AppName string
	BaseURL string
	// Domain is the platform suffix tenant sites hang off.
	Domain string
}

// StaffInviteEmailData carries what the staff invitation mail needs.
type StaffInviteEmailData struct {
	FullName  string
	Email     string
	GymName   string
	Role      string
	InvitedBy string
	AppName   string
	BaseURL   string
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// BuildWelcomeEmail creates the message sent right after signup.
func BuildWelcomeEmail(data WelcomeEmailData) Message {
	appName := orDefault(data.AppName, "TechForGyms")
	name := orDefault(data.FullName, "there")
	base := strings.TrimRight(data.BaseURL, "/")

	var subject, lead, cta, link string
	if data.Owner {
		subject = fmt.Sprintf("Welcome to %s, %s is live", appName, data.GymName)
		lead = fmt.Sprintf("Your gym %s is set up.", data.GymName)
		if data.Domain != "" && data.GymSlug != "" {
			lead += fmt.Sprintf(" Its public site is at https://%s.%s", data.GymSlug, data.Domain)
		}
		cta = "Open your dashboard"
		link = base + "/owner"
	} else {
		subject = fmt.Sprintf("Welcome to %s", orDefault(data.GymName, appName))
		lead = "Your membership account is ready."
		cta = "Go to your member area"
		link = base + "/member"
	}

	textBody := fmt.Sprintf(`Hi %s,

%s

%s: %s

Thanks,
The %s Team`, name, lead, cta, link, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #16a34a;">Hi %s,</h2>
    <p>%s</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #16a34a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">%s</a>
    </p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(lead), html.EscapeString(link), cta, html.EscapeString(appName))

	return Message{
		Kind:    KindWelcome,
		To:      data.Email,
		Subject: subject,
		Text:    textBody,
		HTML:    htmlBody,
	}
}

// BuildStaffInviteEmail tells an existing account it was added to a gym's staff.
func BuildStaffInviteEmail(data StaffInviteEmailData) Message {
	appName := orDefault(data.AppName, "TechForGyms")
	name := orDefault(data.FullName, "there")
	role := strings.ReplaceAll(strings.TrimPrefix(data.Role, "gym_"), "_", " ")
	link := strings.TrimRight(data.BaseURL, "/") + "/owner"

	subject := fmt.Sprintf("You've joined %s on %s", data.GymName, appName)
	textBody := fmt.Sprintf(`Hi %s,

%s added you to %s as %s.

Sign in to get started: %s

Thanks,
The %s Team`, name, orDefault(data.InvitedBy, "A gym owner"), data.GymName, role, link, appName)

	return Message{
		Kind:    KindStaffInvite,
		To:      data.Email,
		Subject: subject,
		Text:    textBody,
	}
}
