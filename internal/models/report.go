package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportCategory string
type ReportSeverity string
type ReportStatus string
type FIRStatus string
type FIRAction string
type VerificationStatus string
type ReportPriority string

const (
	CategoryTheft        ReportCategory = "theft"
	CategoryAssault      ReportCategory = "assault"
	CategoryVandalism    ReportCategory = "vandalism"
	CategoryFraud        ReportCategory = "fraud"
	CategoryBurglary     ReportCategory = "burglary"
	CategoryVehicleTheft ReportCategory = "vehicle_theft"
	CategoryHarassment   ReportCategory = "harassment"
	CategoryDrugRelated  ReportCategory = "drug_related"
	CategoryOther        ReportCategory = "other"

	SeverityLow      ReportSeverity = "low"
	SeverityMedium   ReportSeverity = "medium"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"

	StatusPending            ReportStatus = "pending"
	StatusUnderInvestigation ReportStatus = "under_investigation"
	StatusResolved           ReportStatus = "resolved"
	StatusClosed             ReportStatus = "closed"
	StatusFalseReport        ReportStatus = "false_report"

	FIRNotRequested FIRStatus = "not_requested"
	FIRPending      FIRStatus = "pending"
	FIRApproved     FIRStatus = "approved"
	FIRRejected     FIRStatus = "rejected"

	FIRActionApprove FIRAction = "approve"
	FIRActionReject  FIRAction = "reject"

	VerificationUnverified  VerificationStatus = "unverified"
	VerificationVerified    VerificationStatus = "verified"
	VerificationFalseReport VerificationStatus = "false_report"

	PriorityLow    ReportPriority = "low"
	PriorityNormal ReportPriority = "normal"
	PriorityHigh   ReportPriority = "high"
	PriorityUrgent ReportPriority = "urgent"
)

func (c ReportCategory) Valid() bool {
	switch c {
	case CategoryTheft, CategoryAssault, CategoryVandalism, CategoryFraud,
		CategoryBurglary, CategoryVehicleTheft, CategoryHarassment,
		CategoryDrugRelated, CategoryOther:
		return true
	}
	return false
}

func (s ReportSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderInvestigation, StatusResolved,
		StatusClosed, StatusFalseReport:
		return true
	}
	return false
}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationUnverified, VerificationVerified, VerificationFalseReport:
		return true
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" bson:"lng" validate:"min=-180,max=180"`
}

type Location struct {
	Address     string      `json:"address" bson:"address" validate:"required"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates" validate:"required"`
	City        string      `json:"city,omitempty" bson:"city,omitempty"`
	State       string      `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode     string      `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
}

type EvidenceFile struct {
	URL        string    `json:"url" bson:"url"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

type Evidence struct {
	Photos    []EvidenceFile `json:"photos" bson:"photos"`
	Videos    []EvidenceFile `json:"videos" bson:"videos"`
	Documents []EvidenceFile `json:"documents" bson:"documents"`
}

type PoliceNote struct {
	Officer   primitive.ObjectID `json:"officer" bson:"officer"`
	Note      string             `json:"note" bson:"note"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type Witness struct {
	Name      string `json:"name" bson:"name"`
	Contact   string `json:"contact,omitempty" bson:"contact,omitempty"`
	Statement string `json:"statement" bson:"statement"`
}

type EstimatedLoss struct {
	Amount   float64 `json:"amount" bson:"amount"`
	Currency string  `json:"currency" bson:"currency"`
}

type Report struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Reporter        primitive.ObjectID  `json:"reporter" bson:"reporter"`
	Title           string              `json:"title" bson:"title" validate:"required,min=5,max=200"`
	Description     string              `json:"description" bson:"description" validate:"required,min=10,max=1000"`
	Category        ReportCategory      `json:"category" bson:"category" validate:"required"`
	Severity        ReportSeverity      `json:"severity" bson:"severity" validate:"required"`
	Location        Location            `json:"location" bson:"location" validate:"required"`
	DateTime        time.Time           `json:"date_time" bson:"date_time" validate:"required"`
	IsAnonymous     bool                `json:"is_anonymous" bson:"is_anonymous"`
	FIRRequested    bool                `json:"fir_requested" bson:"fir_requested"`
	FIRStatus       FIRStatus           `json:"fir_status" bson:"fir_status"`
	FIRNumber       string              `json:"fir_number,omitempty" bson:"fir_number,omitempty"`
	FIRApprovedAt   *time.Time          `json:"fir_approved_at,omitempty" bson:"fir_approved_at,omitempty"`
	FIRApprovedBy   *primitive.ObjectID `json:"fir_approved_by,omitempty" bson:"fir_approved_by,omitempty"`
	Evidence        Evidence            `json:"evidence" bson:"evidence"`
	Status          ReportStatus        `json:"status" bson:"status"`
	AssignedOfficer *primitive.ObjectID `json:"assigned_officer,omitempty" bson:"assigned_officer,omitempty"`
	PoliceNotes     []PoliceNote        `json:"police_notes" bson:"police_notes"`
	Verification    VerificationStatus  `json:"verification_status" bson:"verification_status"`
	VerifiedBy      *primitive.ObjectID `json:"verified_by,omitempty" bson:"verified_by,omitempty"`
	VerifiedAt      *time.Time          `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
	Tags            []string            `json:"tags" bson:"tags"`
	Priority        ReportPriority      `json:"priority" bson:"priority"`
	EstimatedLoss   *EstimatedLoss      `json:"estimated_loss,omitempty" bson:"estimated_loss,omitempty"`
	Witnesses       []Witness           `json:"witnesses" bson:"witnesses"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// ErrFIRNotRequested is returned when an FIR decision is attempted on a
// report whose reporter never asked for one.
var ErrFIRNotRequested = fmt.Errorf("fir was not requested for this report")

// UpdateStatus applies the new status and touches UpdatedAt. Any status may
// follow any other, including re-setting the current one; the open transition
// policy is intentional. A police note is appended only when both an acting
// officer and a note are supplied.
func (r *Report) UpdateStatus(status ReportStatus, officerID primitive.ObjectID, note string) {
	r.Status = status
	r.UpdatedAt = time.Now()

	if !officerID.IsZero() && note != "" {
		r.PoliceNotes = append(r.PoliceNotes, PoliceNote{
			Officer:   officerID,
			Note:      note,
			Timestamp: time.Now(),
		})
	}
}

// AssignOfficer records the assigned officer. The caller is responsible for
// having verified the officer's role; see AdminService.AssignOfficer.
func (r *Report) AssignOfficer(officerID primitive.ObjectID) {
	r.AssignedOfficer = &officerID
	r.UpdatedAt = time.Now()
}

// UpdateFIR applies an approve/reject decision. Approval keeps an already
// assigned FIR number, otherwise uses the supplied one, otherwise generates
// a timestamp-based fallback. Rejection clears all approval fields.
func (r *Report) UpdateFIR(action FIRAction, firNumber string, adminID primitive.ObjectID, note string) error {
	if r.FIRStatus == FIRNotRequested {
		return ErrFIRNotRequested
	}

	now := time.Now()
	switch action {
	case FIRActionApprove:
		r.FIRStatus = FIRApproved
		if firNumber != "" {
			r.FIRNumber = firNumber
		} else if r.FIRNumber == "" {
			r.FIRNumber = GenerateFIRNumber()
		}
		r.FIRApprovedAt = &now
		r.FIRApprovedBy = &adminID
	case FIRActionReject:
		r.FIRStatus = FIRRejected
		r.FIRNumber = ""
		r.FIRApprovedAt = nil
		r.FIRApprovedBy = nil
	default:
		return fmt.Errorf("unknown fir action: %s", action)
	}

	if note != "" {
		r.PoliceNotes = append(r.PoliceNotes, PoliceNote{
			Officer:   adminID,
			Note:      note,
			Timestamp: now,
		})
	}

	r.UpdatedAt = now
	return nil
}

// Verify records the admin verification decision. Verification state is
// independent of both Status and FIRStatus.
func (r *Report) Verify(status VerificationStatus, verifierID primitive.ObjectID) {
	now := time.Now()
	r.Verification = status
	r.VerifiedBy = &verifierID
	r.VerifiedAt = &now
	r.UpdatedAt = now
}

// GenerateFIRNumber builds the fallback FIR number used when approval comes
// without an explicit number. Timestamp-based, not guaranteed unique under
// concurrent approvals.
func GenerateFIRNumber() string {
	return fmt.Sprintf("FIR-%d", time.Now().UnixMilli())
}
