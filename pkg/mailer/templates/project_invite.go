package templates

import (
	"errors"
	"net/url"
	"strings"
)

var (
	errProjectNameRequired = errors.New("project name is required")
	errInviteURLRequired   = errors.New("invite URL is required")
	errInviteURLAbsolute   = errors.New("invite URL must be absolute")
	errRoleRequired        = errors.New("role is required")
)

type ProjectInviteContext struct {
	ProjectName string
	Role        string
	InviteURL   string
}

// ProjectInviteTemplate renders the invitation email carrying the deep link
// that encodes the project, invite code, email, and role.
func ProjectInviteTemplate() (*TypedTemplate[ProjectInviteContext], error) {
	htmlTmpl := `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Project Invitation</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f3f4f6;">
	<div style="max-width: 600px; margin: 40px auto; padding: 24px; background-color: #ffffff; border: 1px solid #e5e7eb; border-radius: 8px;">
		<h2>You're Invited to Collaborate on "{{.ProjectName}}"</h2>
		<p>You've been invited to collaborate on the project "{{.ProjectName}}" as a {{.Role}} on Viewtuber.</p>
		<p>Click the button below to accept the invitation and get started:</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.InviteURL}}" style="background-color: #2563eb; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; font-weight: 600; display: inline-block;">
				Join Project
			</a>
		</div>
		<p>Or copy and paste this link into your browser:</p>
		<p style="word-break: break-all; color: #2563eb;">{{.InviteURL}}</p>
		<p style="color: #6b7280;">If you didn't expect this invitation, feel free to ignore this email.</p>
	</div>
</body>
</html>
`

	textTmpl := `
Project Invitation

You've been invited to collaborate on the project "{{.ProjectName}}" as a {{.Role}} on Viewtuber.

Accept the invitation by visiting this link:

{{.InviteURL}}

If you didn't expect this invitation, feel free to ignore this email.
`

	parser := func(context ProjectInviteContext) (ProjectInviteContext, error) {
		context.ProjectName = strings.TrimSpace(context.ProjectName)
		context.Role = strings.TrimSpace(context.Role)
		context.InviteURL = strings.TrimSpace(context.InviteURL)

		if context.ProjectName == "" {
			return context, errProjectNameRequired
		}
		if context.Role == "" {
			return context, errRoleRequired
		}
		if context.InviteURL == "" {
			return context, errInviteURLRequired
		}

		parsed, err := url.Parse(context.InviteURL)
		if err != nil || !parsed.IsAbs() {
			return context, errInviteURLAbsolute
		}

		return context, nil
	}

	return NewTemplate("project_invite", htmlTmpl, textTmpl, parser)
}
