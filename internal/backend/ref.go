package backend

import "encoding/json"

// Ref normalizes the backend's duck-typed reference fields.  Depending
// on the endpoint, a seat, room or cinema arrives either as a populated
// object or as a bare identifier string.  Ref accepts both forms at
// unmarshal time so that nothing past this package has to re-derive
// "is this an object or a string" at every call site.
type Ref struct {
	ID   string // identifier, from the bare string or the object's id field
	Name string // display name when the object form was sent, else ""
}

// refObject mirrors the object form.  The backend is inconsistent about
// its id key, so both `_id` and `id` are accepted, along with the usual
// name keys.
type refObject struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
}

// UnmarshalJSON accepts either a JSON string (the bare id form) or an
// object with id/name fields.  null yields a zero Ref.
func (r *Ref) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ref{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var obj refObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	id := obj.MongoID
	if id == "" {
		id = obj.ID
	}
	name := obj.Name
	if name == "" {
		name = obj.Title
	}
	*r = Ref{ID: id, Name: name}
	return nil
}

// MarshalJSON always emits the bare id form; outbound payloads reference
// entities by identifier only.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}
