package handler

import (
	"time"

	"github.com/skillforge-lms/internal/domain/activity"
	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/enrollment"
	"github.com/skillforge-lms/internal/domain/user"
)

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse carries the authenticated user and their session token
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// CreateCourseRequest represents a request to publish a new course
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price" binding:"min=0"`
	Currency    string `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	InstructorID    string `json:"instructor_id"`
	Price           int64  `json:"price"`
	Currency        string `json:"currency"`
	EnrollmentCount int64  `json:"enrollment_count"`
	TotalRevenue    int64  `json:"total_revenue"`
	Published       bool   `json:"published"`
	CreatedAt       string `json:"created_at"`
}

// CreateCheckoutRequest represents a request to start a hosted checkout
type CreateCheckoutRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// VerifyPaymentRequest asks the platform to confirm a checkout session
// directly with the payment provider.
type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	CourseID  string `json:"course_id" binding:"required,uuid"`
}

// PaymentSuccessRequest is the success-callback payload. SessionID is
// optional; when present the session is re-verified with the provider
// instead of trusting the asserted payment facts.
type PaymentSuccessRequest struct {
	CourseID  string `json:"course_id" binding:"required,uuid"`
	PaymentID string `json:"payment_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"min=0"`
	SessionID string `json:"session_id,omitempty"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	CourseID          string `json:"course_id"`
	AmountPaid        int64  `json:"amount_paid"`
	PaymentID         string `json:"payment_id"`
	Status            string `json:"payment_status"`
	Progress          int    `json:"progress"`
	CertificateIssued bool   `json:"certificate_issued"`
	EnrolledAt        string `json:"enrolled_at"`
}

// EnrollmentResultResponse wraps an enrollment produced by reconciliation
// together with the post-payment redirect target.
type EnrollmentResultResponse struct {
	Enrollment  EnrollmentResponse `json:"enrollment"`
	RedirectURL string             `json:"redirect_url,omitempty"`
}

// ActivityResponse represents one audit record in API responses
type ActivityResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	UserName      string            `json:"user_name"`
	UserEmail     string            `json:"user_email"`
	Action        string            `json:"action"`
	Type          string            `json:"type"`
	CourseID      string            `json:"course_id"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     string            `json:"timestamp"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toCourseResponse(c *course.Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID.String(),
		Title:           c.Title,
		Description:     c.Description,
		InstructorID:    c.InstructorID.String(),
		Price:           c.Price,
		Currency:        c.Currency,
		EnrollmentCount: c.EnrollmentCount,
		TotalRevenue:    c.TotalRevenue,
		Published:       c.Published,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

func toActivityResponse(r *activity.Record) ActivityResponse {
	return ActivityResponse{
		ID:            r.ID.String(),
		UserID:        r.UserID.String(),
		UserName:      r.UserName,
		UserEmail:     r.UserEmail,
		Action:        r.Action,
		Type:          r.Type,
		CourseID:      r.CourseID.String(),
		Metadata:      r.Metadata,
		CorrelationID: r.CorrelationID,
		Timestamp:     r.Timestamp.Format(time.RFC3339),
	}
}

func toEnrollmentResponse(e *enrollment.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:                e.ID.String(),
		UserID:            e.UserID.String(),
		CourseID:          e.CourseID.String(),
		AmountPaid:        e.AmountPaid,
		PaymentID:         e.PaymentID,
		Status:            string(e.Status),
		Progress:          e.Progress,
		CertificateIssued: e.CertificateIssued,
		EnrolledAt:        e.EnrolledAt.Format(time.RFC3339),
	}
}
