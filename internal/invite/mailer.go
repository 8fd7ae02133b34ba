package invite

import (
	"fmt"

	"viewtuber/pkg/mailer"
	"viewtuber/pkg/mailer/providers"
	"viewtuber/pkg/mailer/templates"
)

// EmailNotifier sends invitation and submission emails through the shared
// email service.
type EmailNotifier struct {
	service            *mailer.EmailService
	inviteTemplate     *templates.TypedTemplate[templates.ProjectInviteContext]
	submissionTemplate *templates.TypedTemplate[templates.EditorSubmissionContext]
}

func NewEmailNotifier(service *mailer.EmailService) (*EmailNotifier, error) {
	inviteTemplate, err := templates.ProjectInviteTemplate()
	if err != nil {
		return nil, err
	}

	submissionTemplate, err := templates.EditorSubmissionTemplate()
	if err != nil {
		return nil, err
	}

	return &EmailNotifier{
		service:            service,
		inviteTemplate:     inviteTemplate,
		submissionTemplate: submissionTemplate,
	}, nil
}

func (n *EmailNotifier) SendProjectInvite(email, projectName, role, inviteURL string) error {
	_, err := mailer.SendWithTemplate(n.service, n.inviteTemplate, templates.ProjectInviteContext{
		ProjectName: projectName,
		Role:        role,
		InviteURL:   inviteURL,
	}, &providers.EmailData{
		To:      []string{email},
		Subject: fmt.Sprintf("You're invited to collaborate on %q", projectName),
	})
	return err
}

func (n *EmailNotifier) SendEditorSubmission(ownerEmail, projectName, editorName string) error {
	_, err := mailer.SendWithTemplate(n.service, n.submissionTemplate, templates.EditorSubmissionContext{
		ProjectName: projectName,
		EditorName:  editorName,
	}, &providers.EmailData{
		To:      []string{ownerEmail},
		Subject: fmt.Sprintf("%s: Editor has submitted their work", projectName),
	})
	return err
}
