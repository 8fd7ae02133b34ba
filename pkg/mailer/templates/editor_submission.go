package templates

import (
	"errors"
	"strings"
)

var errEditorNameRequired = errors.New("editor name is required")

type EditorSubmissionContext struct {
	ProjectName string
	EditorName  string
}

// EditorSubmissionTemplate notifies the project owner that an editor has
// submitted an edited cut for review.
func EditorSubmissionTemplate() (*TypedTemplate[EditorSubmissionContext], error) {
	htmlTmpl := `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>New Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>New Submission Alert</h2>
		<p>Hello,</p>
		<p>{{.EditorName}} has submitted their edited video for project "{{.ProjectName}}".</p>
		<p>You can now review their work in the project dashboard.</p>
	</div>
</body>
</html>
`

	textTmpl := `
New Submission Alert

{{.EditorName}} has submitted their edited video for project "{{.ProjectName}}".

You can now review their work in the project dashboard.
`

	parser := func(context EditorSubmissionContext) (EditorSubmissionContext, error) {
		context.ProjectName = strings.TrimSpace(context.ProjectName)
		context.EditorName = strings.TrimSpace(context.EditorName)

		if context.ProjectName == "" {
			return context, errProjectNameRequired
		}
		if context.EditorName == "" {
			return context, errEditorNameRequired
		}

		return context, nil
	}

	return NewTemplate("editor_submission", htmlTmpl, textTmpl, parser)
}
