package model

// Contact info source tags.  The cache keeps track of where a value came
// from so that a manual edit is never silently overwritten by a later
// api-sourced load.
const (
	ContactSourceAPI    = "api"
	ContactSourceManual = "manual"
)

// ContactInfo is the user contact block attached to a booking draft and
// cached between sessions.
//
// Fields:
//  Name   – full name of the ticket holder.
//  Email  – contact email, ticket confirmation is sent here.
//  Phone  – contact phone number.
//  Source – "api" when loaded from the account profile, "manual" when
//           typed by the user on the contact screen.
type ContactInfo struct {
	Name   string // full name
	Email  string // contact email
	Phone  string // contact phone
	Source string // "api" or "manual"
}
