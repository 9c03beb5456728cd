package rules

import "github.com/tablekeep/tablekeep/internal/document"

// ResolveTournamentRole resolves the actor's effective role on a tournament.
// The declared owner always resolves to owner, even when the memberRoles
// entry is missing; unknown actors and unknown role values resolve to none.
func ResolveTournamentRole(t *document.Tournament, actorID string) document.Role {
	if actorID == "" || t == nil {
		return document.RoleNone
	}
	if t.OwnerID == actorID {
		return document.RoleOwner
	}
	if r, ok := t.MemberRoles[actorID]; ok && document.KnownRole(r) {
		return r
	}
	return document.RoleNone
}

// ResolveLibraryRole resolves the actor's role on a library item. The sole
// owner is the identity encoded in the path prefix; no other role exists.
func ResolveLibraryRole(path document.Path, actorID string) document.Role {
	if actorID != "" && actorID == path.OwnerID {
		return document.RoleOwner
	}
	return document.RoleNone
}
