package models

import (
	"time"
)

// PaymentStatus represents the settlement state of a donation
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// IsValidPaymentStatus reports whether the given status is known
func IsValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// DonationType classifies the purpose of a donation
type DonationType string

const (
	DonationGeneral   DonationType = "general"
	DonationEducation DonationType = "education"
	DonationHealth    DonationType = "health"
	DonationDisaster  DonationType = "disaster-relief"
	DonationCorpus    DonationType = "corpus"
)

// RecurringDetails holds the optional recurring sub-record of a donation
type RecurringDetails struct {
	Frequency string     `json:"frequency" db:"recurring_frequency"` // monthly, quarterly, yearly
	NextDate  *time.Time `json:"nextDate,omitempty" db:"recurring_next_date"`
	IsActive  bool       `json:"isActive" db:"recurring_is_active"`
}

// Donation defines the donation model based on the 'donations' table
type Donation struct {
	ID               int64             `json:"id" db:"id" example:"1"`
	DonorName        string            `json:"donorName" db:"donor_name" example:"Ravi Iyer"`
	DonorEmail       string            `json:"donorEmail" db:"donor_email" example:"ravi@example.org"`
	DonorPhone       string            `json:"donorPhone,omitempty" db:"donor_phone"`
	DonorAddress     string            `json:"donorAddress,omitempty" db:"donor_address"`
	IsAnonymous      bool              `json:"isAnonymous" db:"is_anonymous"`
	Amount           float64           `json:"amount" db:"amount" example:"2500"`
	Currency         string            `json:"currency" db:"currency" example:"INR"`
	ProcessingFee    float64           `json:"processingFee" db:"processing_fee"`
	NetAmount        float64           `json:"netAmount" db:"net_amount"` // always amount - processingFee
	DonationType     DonationType      `json:"donationType" db:"donation_type" example:"general"`
	PaymentMethod    string            `json:"paymentMethod" db:"payment_method" example:"upi"`
	Designation      string            `json:"designation,omitempty" db:"designation"`
	TransactionID    string            `json:"transactionId" db:"transaction_id"`
	DonationDate     time.Time         `json:"donationDate" db:"donation_date"`
	FiscalYear       int               `json:"fiscalYear" db:"fiscal_year"`
	Quarter          int               `json:"quarter" db:"quarter"`
	Month            int               `json:"month" db:"month"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus" db:"payment_status" example:"pending"`
	TaxDeductible    bool              `json:"taxDeductible" db:"tax_deductible"`
	TaxReceiptNumber string            `json:"taxReceiptNumber,omitempty" db:"tax_receipt_number"`
	TaxReceiptSent   bool              `json:"taxReceiptSent" db:"tax_receipt_sent"`
	CertificateSent  bool              `json:"certificateSent" db:"certificate_sent"`
	ThankYouSent     bool              `json:"thankYouEmailSent" db:"thank_you_sent"`
	Recurring        *RecurringDetails `json:"recurring,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" db:"updated_at"`
}

// DonationStats aggregates donation totals for the stats summary endpoint
type DonationStats struct {
	TotalDonations int64              `json:"totalDonations"`
	TotalAmount    float64            `json:"totalAmount"`
	TotalNetAmount float64            `json:"totalNetAmount"`
	ByStatus       map[string]int64   `json:"byStatus"`
	ByType         map[string]float64 `json:"byType"`
}
