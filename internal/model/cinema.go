package model

// Cinema identifies a theatre venue as served by the catalog backend.
// The backend sometimes returns a cinema as a bare identifier string and
// sometimes as a populated object; both forms are normalized into this
// struct at the data-access boundary before entering the flow core.
//
// Fields:
//  ID   – backend identifier of the cinema.
//  Name – display name of the cinema.
type Cinema struct {
	ID   string // cinema identifier as issued by the backend
	Name string // display name
}

// Room is a screening room inside a cinema.  The seat catalog is fetched
// per room and does not change while a reservation session is active.
type Room struct {
	ID       string // room identifier
	Name     string // display name, e.g. "Room 3"
	CinemaID string // owning cinema
}
