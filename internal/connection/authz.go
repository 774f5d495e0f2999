package connection

import id "carelink/pkg/domain"

// Capability is a single guarded action against a connection. Authorization
// is a function of who is acting AND how the connection originated, so the
// rules live here in one table instead of scattered across call sites.
type Capability string

const (
	CapView         Capability = "view"
	CapAccept       Capability = "accept"
	CapDecline      Capability = "decline"
	CapReconsider   Capability = "reconsider"
	CapArchive      Capability = "archive"
	CapHide         Capability = "hide"
	CapReport       Capability = "report"
	CapPropose      Capability = "propose"
	CapRespond      Capability = "respond"
	CapUpdateIntent Capability = "update_intent"
	CapMessage      Capability = "message"
	CapNextStep     Capability = "next_step"
)

// Can resolves whether the acting profile may perform the capability on the
// connection. It never consults status; state checks belong to the state
// machine and the negotiation protocol.
func Can(actor id.ProfileID, c *Connection, capability Capability) bool {
	if !c.IsParticipant(actor) {
		return false
	}

	switch capability {
	case CapAccept, CapDecline, CapReconsider:
		// Response rights always sit with the recipient. For a
		// provider-initiated interest this is the care-seeker; the sending
		// provider never gains them.
		return actor == c.ToProfileID

	case CapView:
		// Provider-initiated interest inverts view rights too: the sender
		// has no read access to the record it seeded.
		if c.Origin() == FlowProviderInterest {
			return actor == c.ToProfileID
		}
		return true

	case CapUpdateIntent:
		// The structured intake belongs to the care-seeker side.
		return actor == c.SeekerProfileID()

	case CapArchive, CapHide, CapReport, CapPropose, CapRespond, CapMessage, CapNextStep:
		return true

	default:
		return false
	}
}
