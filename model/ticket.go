package model

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "In Progress"
	TicketClosed     TicketStatus = "Closed"
)

type SupportTicket struct {
	ID           int64        `json:"id"`
	ClientID     int64        `json:"clientId"`
	TicketNumber string       `json:"ticketNumber"`
	IssueType    string       `json:"issueType"`
	Message      string       `json:"message"`
	Status       TicketStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type CreateTicketReq struct {
	IssueType string `json:"issueType" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type UpdateTicketReq struct {
	IssueType string       `json:"issueType"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status" validate:"omitempty,oneof=Open 'In Progress' Closed"`
}
