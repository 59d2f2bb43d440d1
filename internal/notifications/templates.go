package notifications

import (
	"fmt"
	"html/template"
	"strings"

	"crimewatch/internal/models"
)

const firConfirmationSubject = "FIR Request Confirmation - Crime Report Submitted"
const passwordResetSubject = "Password Reset Request - CrimeWatch"

var firConfirmationTmpl = template.Must(template.New("fir_confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #1e40af; color: white; padding: 20px; text-align: center;">
      <h1>CrimeWatch</h1>
      <h2>FIR Request Confirmation</h2>
    </div>
    <div style="background: #f8fafc; padding: 30px;">
      <p>Dear {{.UserName}},</p>
      <p>Thank you for reporting a crime and requesting an FIR (First Information Report).
         Your report has been successfully submitted and is currently under review.</p>
      <div style="background: white; padding: 20px; border-left: 4px solid #1e40af;">
        <h3>Crime Report Details</h3>
        <p><strong>Report ID:</strong> {{.ReportID}}</p>
        <p><strong>Title:</strong> {{.Title}}</p>
        <p><strong>Category:</strong> {{.Category}}</p>
        <p><strong>Severity:</strong> {{.Severity}}</p>
        <p><strong>Location:</strong> {{.Address}}</p>
        <p><strong>Date &amp; Time:</strong> {{.DateTime}}</p>
        <p><strong>FIR Status:</strong> PENDING REVIEW</p>
      </div>
      <p>You will receive another email once your FIR is approved. Visit your
         nearest police station with a valid government ID and any supporting
         documents to complete the filing.</p>
      <p>Thank you for helping keep our community safe.</p>
    </div>
    <div style="text-align: center; color: #6b7280; font-size: 14px; margin-top: 30px;">
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #1e40af; color: white; padding: 20px; text-align: center;">
      <h1>CrimeWatch</h1>
      <h2>Password Reset Request</h2>
    </div>
    <div style="background: #f8fafc; padding: 30px;">
      <p>Dear {{.UserName}},</p>
      <p>We received a request to reset the password for your CrimeWatch account.</p>
      <div style="text-align: center;">
        <a href="{{.ResetURL}}" style="display: inline-block; padding: 12px 24px; background: #1e40af; color: white; text-decoration: none;">Reset Password</a>
      </div>
      <p>This link expires in 1 hour. If you did not request a password reset,
         please ignore this email; your password will not change until the link
         above is used.</p>
      <p>If the button does not work, copy this link into your browser:</p>
      <p style="word-break: break-all; color: #1e40af;">{{.ResetURL}}</p>
    </div>
    <div style="text-align: center; color: #6b7280; font-size: 14px; margin-top: 30px;">
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`))

// Render produces the subject and HTML body for a task. Unknown kinds are an
// error so the queue can discard them without retrying.
func Render(task *models.NotificationTask) (subject, body string, err error) {
	var buf strings.Builder

	switch task.Kind {
	case models.NotificationFIRConfirmation:
		data := map[string]interface{}{
			"UserName": task.UserName,
			"ReportID": task.Payload["report_id"],
			"Title":    task.Payload["title"],
			"Category": task.Payload["category"],
			"Severity": task.Payload["severity"],
			"Address":  task.Payload["address"],
			"DateTime": task.Payload["date_time"],
		}
		if err := firConfirmationTmpl.Execute(&buf, data); err != nil {
			return "", "", err
		}
		return firConfirmationSubject, buf.String(), nil

	case models.NotificationPasswordReset:
		data := map[string]interface{}{
			"UserName": task.UserName,
			"ResetURL": task.Payload["reset_url"],
		}
		if err := passwordResetTmpl.Execute(&buf, data); err != nil {
			return "", "", err
		}
		return passwordResetSubject, buf.String(), nil

	default:
		return "", "", fmt.Errorf("unknown notification kind: %s", task.Kind)
	}
}
