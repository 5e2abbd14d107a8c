package dto

import "time"

// RecurringRequest is the optional recurring sub-record of a donation
type RecurringRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=monthly quarterly yearly"`
}

// CreateDonationRequest is the donation submission payload
type CreateDonationRequest struct {
	DonorName     string            `json:"donorName" binding:"required,min=2,max=100"`
	DonorEmail    string            `json:"donorEmail" binding:"required,email"`
	DonorPhone    string            `json:"donorPhone" binding:"omitempty,max=20"`
	DonorAddress  string            `json:"donorAddress" binding:"omitempty,max=500"`
	IsAnonymous   bool              `json:"isAnonymous"`
	Amount        float64           `json:"amount" binding:"required,gt=0"`
	Currency      string            `json:"currency" binding:"omitempty,len=3"`
	ProcessingFee float64           `json:"processingFee" binding:"omitempty,gte=0"`
	DonationType  string            `json:"donationType" binding:"omitempty,oneof=general education health disaster-relief corpus"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Designation   string            `json:"designation" binding:"omitempty,max=200"`
	TransactionID string            `json:"transactionId"`
	DonationDate  *time.Time        `json:"donationDate"`
	PaymentStatus string            `json:"paymentStatus" binding:"omitempty,oneof=pending completed failed refunded cancelled"`
	TaxDeductible bool              `json:"taxDeductible"`
	Recurring     *RecurringRequest `json:"recurring"`
}

// UpdateDonationStatusRequest is the caller-asserted status transition.
// ExpectedStatus guards the update against concurrent changes.
type UpdateDonationStatusRequest struct {
	PaymentStatus  string `json:"paymentStatus" binding:"required,oneof=pending completed failed refunded cancelled"`
	ExpectedStatus string `json:"expectedStatus" binding:"required,oneof=pending completed failed refunded cancelled"`
}

// DonationListFilters are the supported list query parameters
type DonationListFilters struct {
	Status     string
	Type       string
	FiscalYear int
}
