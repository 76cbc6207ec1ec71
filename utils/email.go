// utils/email.go
package utils

import (
	"fmt"
	"strings"

	"go-marketplace/models"

	"github.com/keighl/postmark"
)

// EmailService sends order receipts using Postmark. A service built without
// an API token is disabled: every send is a silent no-op so environments
// without email still run.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance.
func NewEmailService(apiToken, sender string) *EmailService {
	if apiToken == "" {
		return &EmailService{}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// Enabled reports whether a Postmark client is configured.
func (es *EmailService) Enabled() bool {
	return es.client != nil
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if !es.Enabled() {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmation sends an order confirmation to the buyer.
func (es *EmailService) SendOrderConfirmation(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>%s<br>Total Amount: <strong>$%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		orderLinesHTML(order),
		order.Amount,
		order.PaymentMethod,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendPaymentConfirmation tells the buyer their payment settled.
func (es *EmailService) SendPaymentConfirmation(toEmail string, order models.Order) error {
	subject := "Payment Received"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>We have received your payment of <strong>$%.2f</strong> for order %s. Your order is on its way.<br><br>Thank you for shopping with us!",
		order.Amount,
		order.ID.Hex(),
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

func orderLinesHTML(order models.Order) string {
	var b strings.Builder
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%s (%s) × %d — $%.2f<br>", line.Name, line.Size, line.Quantity, line.Subtotal())
	}
	return b.String()
}
