package appointments

import "pet-hotel-api/internal/ports/auth"

// Transition es una acción sobre el ciclo de vida de la reserva.
type Transition string

const (
	TransitionAccept   Transition = "accept"
	TransitionReject   Transition = "reject"
	TransitionCancel   Transition = "cancel"
	TransitionCheckIn  Transition = "check_in"
	TransitionCheckOut Transition = "check_out"
)

// transitionRoles concentra rol -> transiciones permitidas en una sola tabla,
// en vez de re-derivar la regla en cada handler.
// Cancel además admite al customer dueño de la reserva (ver Allowed).
var transitionRoles = map[Transition][]auth.Role{
	TransitionAccept:   {auth.RoleAdmin, auth.RoleStaff, auth.RoleVeterinarian},
	TransitionReject:   {auth.RoleAdmin, auth.RoleStaff, auth.RoleVeterinarian},
	TransitionCancel:   {auth.RoleAdmin, auth.RoleStaff, auth.RoleVeterinarian, auth.RoleCustomer},
	TransitionCheckIn:  {auth.RoleAdmin, auth.RoleStaff},
	TransitionCheckOut: {auth.RoleAdmin, auth.RoleStaff},
}

// Allowed evalúa la política una sola vez por request.
// Para customers, cancel exige ownership (claims.UserID == a.CustomerID).
func Allowed(t Transition, claims auth.Claims, a Appointment) bool {
	roleOK := false
	for _, role := range transitionRoles[t] {
		if claims.Role == role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		return false
	}
	if claims.Role == auth.RoleCustomer {
		return t == TransitionCancel && a.CustomerID == claims.UserID
	}
	return true
}
