package access

import "annotate-web/internal/api"

// State es lo que puede hacer un usuario frente a un video.
type State string

const (
	StateOwner           State = "OWNER"
	StateHasAccess       State = "HAS_ACCESS"
	StateRequestPending  State = "REQUEST_PENDING"
	StateRequestResolved State = "REQUEST_RESOLVED"
	StateNoRequest       State = "NO_REQUEST"
)

// Decision: estado reconciliado + la solicitud que lo originó (si hay).
type Decision struct {
	State   State              `json:"state"`
	Request *api.AccessRequest `json:"request,omitempty"`
}

// Locked: el player no se muestra.
func (d Decision) Locked() bool {
	return d.State != StateOwner && d.State != StateHasAccess
}

func (d Decision) CanModerate() bool { return d.State == StateOwner }

// CanComment: dueño y viewers con acceso pueden dejar feedback.
func (d Decision) CanComment() bool { return !d.Locked() }

// Status: status crudo de la solicitud (APPROVED/DENIED/PENDING) o "".
func (d Decision) Status() api.RequestStatus {
	if d.Request == nil {
		return ""
	}
	return d.Request.Status
}

func (d Decision) ResponseMessage() string {
	if d.Request == nil {
		return ""
	}
	return d.Request.ResponseMessage
}

// GrantStatus es el status que se muestra para un permiso.
type GrantStatus string

const (
	StatusPermanentlyRevoked GrantStatus = "PERMANENTLY_REVOKED"
	StatusTempSuspended      GrantStatus = "TEMP_SUSPENDED"
)

// GrantView: permiso + status derivado, listo para la vista.
type GrantView struct {
	api.Grant
	DisplayStatus GrantStatus `json:"displayStatus"`
	CanRestore    bool        `json:"canRestore"`
}

// Overview: todo lo que muestra la página de solicitudes de acceso.
type Overview struct {
	Pending    []api.AccessRequest
	Approved   []api.AccessRequest
	MyRequests []api.AccessRequest
}
