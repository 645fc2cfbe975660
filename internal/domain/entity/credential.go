// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxCardIDLength is the maximum length of an RFID card identifier,
// matching the 64-character limit of the card reader wedge.
const MaxCardIDLength = 64

// Credential is the stored binding between a user and their RFID card,
// PIN and authentication policy flags. The user record itself is owned
// by the external user directory; only the authentication material lives here.
type Credential struct {
	UserID             uuid.UUID // Stable identifier of the user in the external directory.
	Name               string    // Display name, echoed in the identity snapshot on success.
	Login              string    // Login identifier, echoed in the identity snapshot on success.
	CardID             string    // RFID card identifier. Empty means RFID is not configured for this user.
	PIN                string    // Opaque secret compared by exact equality only. Empty means no PIN is set.
	RequiresRFID       bool      // The user may not authenticate at a terminal without presenting a card.
	RequirePINWithCard bool      // A correct PIN is mandatory in addition to the card match, iff a PIN is set.
	UpdatedAt          time.Time // Timestamp of the last modification to this credential.
}

// HasCard reports whether an RFID card is configured for this credential.
func (c *Credential) HasCard() bool {
	return c.CardID != ""
}

// PINEnforced reports whether a PIN must accompany the card for this
// credential. A credential that demands the combination but has no PIN
// set authenticates on the card alone.
func (c *Credential) PINEnforced() bool {
	return c.RequirePINWithCard && c.PIN != ""
}

// Identity is the verified identity snapshot returned on a successful
// authentication. The stored PIN is included so the calling terminal can
// cache it for subsequent local re-validation without another round trip.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Login  string    `json:"login"`
	CardID string    `json:"card_id"`
	PIN    string    `json:"pin,omitempty"`
}

// RfidUser is the listing projection of a credential that participates in
// RFID authentication: a non-empty card id and the requires-RFID flag set.
type RfidUser struct {
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	CardID             string    `json:"card_id"`
	RequirePINWithCard bool      `json:"require_pin_with_card"`
}
