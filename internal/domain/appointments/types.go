package appointments

// Status define el ciclo de vida de una reserva.
// @Enum pending, accepted, rejected, cancelled, checked_in, checked_out
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// transitions es la tabla de transiciones válidas.
// pending -> accepted|rejected|cancelled
// accepted -> checked_in|cancelled
// checked_in -> checked_out|cancelled
// rejected, cancelled y checked_out son terminales.
var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut, StatusCancelled},
}

// CanTransition valida una transición contra la tabla.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ValidStatus valida un status recibido por query/body.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}
