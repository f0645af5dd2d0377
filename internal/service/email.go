package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"gearshare-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) sendEmail(ctx context.Context, to, subject, plainText, htmlContent string) error {
	// No API key means a dev environment; log instead of calling out.
	if s.apiKey == "" {
		logger.InfoContext(ctx, "Email sending skipped (no API key)", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error {
	subject := fmt.Sprintf("New Booking Request: %s", equipmentName)
	plainText := fmt.Sprintf("%s wants to rent your %s. Review the request to approve or decline.", renterName, equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>New Booking Request</h2>
			<p><strong>%s</strong> has requested to rent your <strong>%s</strong>.</p>
			<p>Review the request in the app to approve or decline.</p>
		</body></html>`, renterName, equipmentName)
	return s.sendEmail(ctx, ownerEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error {
	subject := fmt.Sprintf("Booking Approved: %s", equipmentName)
	plainText := fmt.Sprintf("%s approved your booking for %s. Complete payment to confirm.", ownerName, equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Booking Approved</h2>
			<p><strong>%s</strong> approved your booking for <strong>%s</strong>.</p>
			<p>Complete payment in the app to confirm your rental.</p>
		</body></html>`, ownerName, equipmentName)
	return s.sendEmail(ctx, renterEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingDeclineNotification(ctx context.Context, renterEmail, equipmentName, ownerName string) error {
	subject := fmt.Sprintf("Booking Declined: %s", equipmentName)
	plainText := fmt.Sprintf("%s declined your booking request for %s.", ownerName, equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Booking Declined</h2>
			<p><strong>%s</strong> declined your booking request for <strong>%s</strong>.</p>
		</body></html>`, ownerName, equipmentName)
	return s.sendEmail(ctx, renterEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string, refundAmount decimal.Decimal) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", equipmentName)
	refundLine := ""
	if refundAmount.Sign() > 0 {
		refundLine = fmt.Sprintf(" A refund of $%s is on its way.", refundAmount.StringFixed(2))
	}
	plainText := fmt.Sprintf("The booking for %s was cancelled. Reason: %s.%s", equipmentName, reason, refundLine)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Booking Cancelled</h2>
			<p>The booking for <strong>%s</strong> was cancelled.</p>
			<p>Reason: %s</p>
			<p>%s</p>
		</body></html>`, equipmentName, reason, refundLine)
	return s.sendEmail(ctx, email, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string) error {
	subject := fmt.Sprintf("Rental Completed: %s", equipmentName)
	plainText := fmt.Sprintf("As %s, your rental of %s is complete. Leave a review for your counterparty.", role, equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Rental Completed</h2>
			<p>Your rental of <strong>%s</strong> is complete.</p>
			<p>Leave a review for your counterparty in the app.</p>
		</body></html>`, equipmentName)
	return s.sendEmail(ctx, email, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendDepositReleaseNotification(ctx context.Context, renterEmail, equipmentName string, amount decimal.Decimal) error {
	subject := fmt.Sprintf("Deposit Released: %s", equipmentName)
	plainText := fmt.Sprintf("Your $%s security deposit for %s has been released.", amount.StringFixed(2), equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Deposit Released</h2>
			<p>Your <strong>$%s</strong> security deposit for <strong>%s</strong> has been released.</p>
		</body></html>`, amount.StringFixed(2), equipmentName)
	return s.sendEmail(ctx, renterEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCost decimal.Decimal) error {
	subject := fmt.Sprintf("Damage Claim Filed: %s", equipmentName)
	plainText := fmt.Sprintf("The owner filed a damage claim of $%s against your rental of %s. Your deposit is on hold pending resolution.",
		estimatedCost.StringFixed(2), equipmentName)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Damage Claim Filed</h2>
			<p>The owner filed a damage claim of <strong>$%s</strong> against your rental of <strong>%s</strong>.</p>
			<p>Your security deposit is on hold pending resolution.</p>
		</body></html>`, estimatedCost.StringFixed(2), equipmentName)
	return s.sendEmail(ctx, renterEmail, subject, plainText, htmlContent)
}
