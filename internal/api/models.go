package api

import "annotate-web/internal/domain/roles"

// User es lo que devuelve /auth/login y /auth/register; se persiste tal cual
// en la sesión (incluye el token).
type User struct {
	UserID int64      `json:"userId"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   roles.Role `json:"role"`
	TeamID *int64     `json:"teamId,omitempty"`
	Token  string     `json:"token,omitempty"`
}

// UserSummary: creator de un video, miembros de equipo, perfiles.
type UserSummary struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Role       roles.Role `json:"role,omitempty"`
	VideoCount int        `json:"videoCount,omitempty"`
}

type Video struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	VideoURL           string       `json:"videoUrl"`
	ThumbnailURL       string       `json:"thumbnailUrl,omitempty"`
	DurationSeconds    int          `json:"durationSeconds"`
	IsPublished        bool         `json:"isPublished"`
	Creator            *UserSummary `json:"creator,omitempty"`
	CreatedAt          *LocalTime   `json:"createdAt,omitempty"`
	AccessCode         string       `json:"accessCode,omitempty"`
	RequiresAccessCode bool         `json:"requiresAccessCode,omitempty"`
	Feedbacks          []Feedback   `json:"feedbacks,omitempty"`
}

// CreatorID: 0 si el backend no mandó creator.
func (v Video) CreatorID() int64 {
	if v.Creator == nil {
		return 0
	}
	return v.Creator.ID
}

type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "PENDING"
	FeedbackInProgress FeedbackStatus = "IN_PROGRESS"
	FeedbackAccepted   FeedbackStatus = "ACCEPTED"
	FeedbackRejected   FeedbackStatus = "REJECTED"
)

func FeedbackStatuses() []FeedbackStatus {
	return []FeedbackStatus{FeedbackPending, FeedbackInProgress, FeedbackAccepted, FeedbackRejected}
}

func (s FeedbackStatus) Valid() bool {
	for _, v := range FeedbackStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

type Feedback struct {
	ID               int64          `json:"id"`
	VideoID          int64          `json:"videoId,omitempty"`
	Comment          string         `json:"comment"`
	TimestampSeconds int            `json:"timestampSeconds"`
	Status           FeedbackStatus `json:"status,omitempty"`
	ReviewerName     string         `json:"reviewerName,omitempty"`
	Viewer           *UserSummary   `json:"viewer,omitempty"`
	CreatedAt        *LocalTime     `json:"createdAt,omitempty"`
}

// Author: quien dejó el comentario, según lo que mande el backend.
func (f Feedback) Author() string {
	if f.ReviewerName != "" {
		return f.ReviewerName
	}
	if f.Viewer != nil {
		return f.Viewer.Name
	}
	return ""
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestDenied   RequestStatus = "DENIED"
)

// AccessRequest es a la vez la solicitud de acceso y la fila de permiso
// (grant) que el creator puede suspender / revocar / restaurar.
type AccessRequest struct {
	ID              int64         `json:"id"`
	VideoID         int64         `json:"videoId"`
	VideoTitle      string        `json:"videoTitle,omitempty"`
	ViewerID        int64         `json:"viewerId,omitempty"`
	ViewerName      string        `json:"viewerName,omitempty"`
	Status          RequestStatus `json:"status"`
	RequestReason   string        `json:"requestReason,omitempty"`
	ResponseMessage string        `json:"responseMessage,omitempty"`
	RequestedAt     *LocalTime    `json:"requestedAt,omitempty"`
	RespondedAt     *LocalTime    `json:"respondedAt,omitempty"`
	Revoked         bool          `json:"revoked"`
	SuspendedUntil  *LocalTime    `json:"suspendedUntil,omitempty"`
}

// Grant: misma forma que AccessRequest, vista desde el lado del creator.
type Grant = AccessRequest

type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Requests

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     roles.Role `json:"role"`
	TeamID   *int64     `json:"teamId,omitempty"`
}

type FeedbackRequest struct {
	VideoID          int64  `json:"videoId"`
	Comment          string `json:"comment"`
	TimestampSeconds int    `json:"timestampSeconds"`
}

type AccessRequestInput struct {
	VideoID       int64  `json:"videoId"`
	RequestReason string `json:"requestReason"`
}

type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type messageBody struct {
	Message *string `json:"message"`
}

type suspendBody struct {
	SuspendedUntil LocalTime `json:"suspendedUntil"`
}

type codeBody struct {
	Code string `json:"code"`
}

type accessCheck struct {
	HasAccess bool `json:"hasAccess"`
}

type accessCodeResponse struct {
	AccessCode string `json:"accessCode"`
}

type redeemResponse struct {
	Success bool `json:"success"`
}

// optional: "" => null (el backend distingue mensaje ausente).
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
