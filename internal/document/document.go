// Package document defines the document kinds stored by tablekeep and the
// storage paths they live under. The types here carry no behavior beyond
// JSON shape; validation lives in internal/rules.
package document

// Kind names a document schema and its authorization profile.
type Kind string

const (
	KindLibraryItem Kind = "libraryItem"
	KindTournament  Kind = "tournament"
	KindGameSession Kind = "gameSession"
)

// Role is an actor's permission level on a shared document. Roles are stored
// as a flat identifier→role mapping on the document, never as a hierarchy.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// KnownRole reports whether r is a role that can appear in memberRoles.
func KnownRole(r Role) bool {
	return r == RoleOwner || r == RoleEditor || r == RoleViewer
}

// Document is implemented by every document kind the engine evaluates.
type Document interface {
	DocumentKind() Kind
}
