package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// All transactional mail bodies are rendered here so the workflows only
// deal in recipient/subject/body triples.

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
  <div style="max-width: 600px; background-color: #ffffff; padding: 20px; border-radius: 8px;">
    <h2 style="color: #4f46e5;">Welcome to Rentoora.com!</h2>
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>Your account has been created successfully.</p>
    <div style="padding: 16px; background-color: #f4daed; border-left: 4px solid #4f46e5;">
      <p><strong>Your Account ID:</strong> {{.AccountID}}</p>
      <p><strong>Your Password:</strong> {{.Password}}</p>
    </div>
    <p>Please change your password after your first login.</p>
    <p>Best regards,<br>The Rentoora Team</p>
  </div>
</div>`))

var bookingOwnerTmpl = template.Must(template.New("bookingOwner").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
  <div style="max-width: 600px; background-color: #ffffff; padding: 20px; border-radius: 8px;">
    <h2 style="color: #4CAF50;">Dear {{.OwnerName}},</h2>
    <p>Congratulations! Your rental post of <strong>{{.PostType}}</strong> has been booked by {{.BookerName}}.</p>
    <div style="padding: 16px; background-color: #f4daed; border-left: 4px solid #4f46e5;">
      <ul style="list-style: none; color: #4b5563;">
        <li><strong>Booking ID:</strong> {{.OrderID}}</li>
        <li><strong>Booked By:</strong> {{.BookerName}}</li>
        <li><strong>Account ID:</strong> {{.BookerAccountID}}</li>
        <li><strong>Price:</strong> Rs.{{.Price}}</li>
        <li><strong>Mode of Payment:</strong> {{.PaymentMethod}}</li>
        <li><strong>Location:</strong> {{.Location}}</li>
      </ul>
    </div>
    <p>Your rental post status has been updated to "Booked".</p>
    <p>Best regards,<br>The Rentoora Team</p>
  </div>
</div>`))

var bookingBookerTmpl = template.Must(template.New("bookingBooker").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
  <div style="max-width: 600px; background-color: #ffffff; padding: 20px; border-radius: 8px;">
    <h2 style="color: #4CAF50;">Dear {{.BookerName}},</h2>
    <p>Thank you for your booking! Your rental of <strong>{{.PostType}}</strong> has been confirmed.</p>
    <div style="padding: 16px; background-color: #f4daed; border-left: 4px solid #4f46e5;">
      <ul style="list-style: none; color: #4b5563;">
        <li><strong>Booking ID:</strong> {{.OrderID}}</li>
        <li><strong>Price:</strong> Rs.{{.Price}}</li>
        <li><strong>Payment Method:</strong> {{.PaymentMethod}}</li>
        <li><strong>Location:</strong> {{.Location}}</li>
      </ul>
    </div>
    <p>Best regards,<br>The Rentoora Team</p>
  </div>
</div>`))

var cancelTmpl = template.Must(template.New("cancel").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; padding: 20px;">
  <div style="max-width: 600px; background-color: #ffffff; padding: 20px; border-radius: 8px;">
    <h2 style="color: #2c3e50;">Dear {{.Name}},</h2>
    <p>The order for the rental post <strong style="color: #e74c3c;">{{.PostType}}</strong> has been canceled by {{.CanceledBy}}.</p>
    <div style="padding: 16px; background-color: #f4daed; border-left: 4px solid #4f46e5;">
      <p><strong>Order ID:</strong> {{.OrderID}}</p>
      <p><strong>Canceled By:</strong> {{.CanceledBy}}</p>
      <p><strong>Canceled On:</strong> {{.CanceledOn}}</p>
    </div>
    <p>If you have any questions or concerns, please contact us.</p>
    <p>Best regards,<br>The Rentoora Team</p>
  </div>
</div>`))

var otpTmpl = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; border: 1px solid #eaeaea; border-radius: 10px; padding: 20px;">
  <h2 style="color: #4A90E2;">From Rentoora,</h2>
  <p>To reset your password, please use the OTP below.</p>
  <div style="padding: 16px; background-color: #f4daed; border-left: 4px solid #4f46e5;">
    <h3 style="font-size: 24px; color: #D9534F;">Your OTP: <span style="color: #4A90E2;">{{.OTP}}</span></h3>
    <p style="color: #888;">This OTP is valid for <strong>10 minutes</strong>.</p>
  </div>
  <p>If you didn't request this, please ignore this email.</p>
</div>`))

var resetConfirmTmpl = template.Must(template.New("resetConfirm").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; padding: 20px; border: 1px solid #eaeaea; border-radius: 10px;">
  <h2 style="color: #4A90E2;">Password Reset Confirmation</h2>
  <p>Hello <strong>{{.Name}}</strong>,</p>
  <p>Your password has been successfully reset. You can now log in with your new password.</p>
  <p style="color: #888;">If you did not request this password reset, please contact us immediately.</p>
</div>`))

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and data is plain struct fields; an execute
		// error here is a programming bug.
		panic(fmt.Sprintf("notify: render %s: %v", t.Name(), err))
	}
	return buf.String()
}

func RenderWelcome(name, accountID, password string) (subject, body string) {
	return "Welcome to Rentoora.com - Your Account Details",
		render(welcomeTmpl, struct{ Name, AccountID, Password string }{name, accountID, password})
}

type BookingMail struct {
	OwnerName       string
	BookerName      string
	BookerAccountID string
	OrderID         string
	PostType        string
	Price           string
	PaymentMethod   string
	Location        string
}

func RenderBookingOwner(m BookingMail) (subject, body string) {
	return "Your Rental Post Has Been Booked - Rentoora", render(bookingOwnerTmpl, m)
}

func RenderBookingBooker(m BookingMail) (subject, body string) {
	return "Booking Confirmation - Rentoora", render(bookingBookerTmpl, m)
}

type CancelMail struct {
	Name       string
	PostType   string
	OrderID    string
	CanceledBy string
	CanceledOn string
}

func RenderCancelOwner(m CancelMail) (subject, body string) {
	return "Order Cancellation Notification - Rentoora", render(cancelTmpl, m)
}

func RenderCancelBooker(m CancelMail) (subject, body string) {
	return "Your Order Has Been Canceled - Rentoora", render(cancelTmpl, m)
}

func RenderOTP(otp string) (subject, body string) {
	return "Password Reset OTP", render(otpTmpl, struct{ OTP string }{otp})
}

func RenderResetConfirmation(name string) (subject, body string) {
	return "Password Reset Successful", render(resetConfirmTmpl, struct{ Name string }{name})
}

func FormatCanceledOn(t time.Time) string { return t.Format("2 Jan 2006 15:04 MST") }
