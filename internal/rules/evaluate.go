package rules

import (
	"maps"
	"slices"

	"github.com/tablekeep/tablekeep/internal/document"
)

// Request is one candidate mutation for the engine to judge.
//
// Contract per operation: create carries only Incoming, update carries both
// snapshots, delete carries only Existing. Game-session requests must also
// carry the parent tournament snapshot, read at the same logical snapshot as
// Existing, since sessions inherit the tournament's access policy.
type Request struct {
	// ActorID is the authenticated actor's identity; empty means
	// unauthenticated. The engine never authenticates anyone itself.
	ActorID string

	Op   Operation
	Path document.Path

	Existing document.Document
	Incoming document.Document

	// Parent is the tournament a game session belongs to.
	Parent *document.Tournament
}

// Evaluate judges one candidate mutation. Authorization is decided before
// any schema work so an unauthorized actor never learns which field failed.
// The evaluation is deterministic and side-effect free.
func Evaluate(req Request) Decision {
	if req.ActorID == "" {
		return Unauthenticated()
	}
	if vs := checkContract(req); len(vs) > 0 {
		return Denied(vs)
	}

	switch req.Path.Kind {
	case document.KindLibraryItem:
		return evaluateLibraryItem(req)
	case document.KindTournament:
		return evaluateTournament(req)
	case document.KindGameSession:
		return evaluateGameSession(req)
	}
	return Denied([]Violation{violation(KindSchema, "path", "knownKind", string(req.Path.Kind))})
}

// checkContract verifies the snapshot presence rules for the operation and
// that supplied documents match the path's kind.
func checkContract(req Request) []Violation {
	var vs []Violation
	switch req.Op {
	case OpCreate:
		if req.Incoming == nil {
			vs = append(vs, violation(KindSchema, "incoming", "required", "create requires a candidate document"))
		}
		if req.Existing != nil {
			vs = append(vs, violation(KindSchema, "existing", "absent", "create cannot target an existing document"))
		}
	case OpUpdate:
		if req.Incoming == nil {
			vs = append(vs, violation(KindSchema, "incoming", "required", "update requires a candidate document"))
		}
		if req.Existing == nil {
			vs = append(vs, violation(KindSchema, "existing", "required", "update requires the stored document"))
		}
	case OpDelete:
		if req.Existing == nil {
			vs = append(vs, violation(KindSchema, "existing", "required", "delete requires the stored document"))
		}
	default:
		vs = append(vs, violation(KindSchema, "operation", "enumMember", string(req.Op)))
	}
	if req.Incoming != nil && req.Incoming.DocumentKind() != req.Path.Kind {
		vs = append(vs, violation(KindSchema, "incoming", "kindMatchesPath", string(req.Incoming.DocumentKind())))
	}
	if req.Existing != nil && req.Existing.DocumentKind() != req.Path.Kind {
		vs = append(vs, violation(KindSchema, "existing", "kindMatchesPath", string(req.Existing.DocumentKind())))
	}
	if req.Path.Kind == document.KindGameSession && req.Parent == nil {
		vs = append(vs, violation(KindSchema, "parent", "required", "game-session requests require the parent tournament"))
	}
	return vs
}

func evaluateLibraryItem(req Request) Decision {
	role := ResolveLibraryRole(req.Path, req.ActorID)
	if !roleAllows(document.KindLibraryItem, role, req.Op) {
		return Unauthorized()
	}
	if req.Op == OpDelete {
		return Allow()
	}

	in := req.Incoming.(*document.LibraryItem)
	var prior *document.LibraryItem
	if req.Existing != nil {
		prior = req.Existing.(*document.LibraryItem)
	}
	if vs := ValidateLibraryItem(in, prior, req.Path); len(vs) > 0 {
		return Denied(vs)
	}
	return Allow()
}

func evaluateTournament(req Request) Decision {
	var in, prior *document.Tournament
	if req.Incoming != nil {
		in = req.Incoming.(*document.Tournament)
	}
	if req.Existing != nil {
		prior = req.Existing.(*document.Tournament)
	}

	// Role comes from the stored document when there is one; on create the
	// candidate's own membership decides, which is why creation additionally
	// requires the actor to be the declared owner.
	var role document.Role
	switch req.Op {
	case OpCreate:
		role = ResolveTournamentRole(in, req.ActorID)
		if role == document.RoleOwner && in.OwnerID != req.ActorID {
			role = document.RoleNone
		}
	default:
		role = ResolveTournamentRole(prior, req.ActorID)
	}
	if !roleAllows(document.KindTournament, role, req.Op) {
		return Unauthorized()
	}
	// Membership is owner-only territory: an editor update must leave the
	// owner and member records exactly as stored.
	if req.Op == OpUpdate && role == document.RoleEditor && membershipChanged(in, prior) {
		return Unauthorized()
	}
	if req.Op == OpDelete {
		return Allow()
	}

	if vs := ValidateTournament(in, prior, req.Path); len(vs) > 0 {
		return Denied(vs)
	}
	return Allow()
}

func membershipChanged(in, prior *document.Tournament) bool {
	return in.OwnerID != prior.OwnerID ||
		!slices.Equal(in.MemberIDs, prior.MemberIDs) ||
		!maps.Equal(in.MemberRoles, prior.MemberRoles)
}

func evaluateGameSession(req Request) Decision {
	role := ResolveTournamentRole(req.Parent, req.ActorID)
	if !roleAllows(document.KindGameSession, role, req.Op) {
		return Unauthorized()
	}
	if req.Op == OpDelete {
		return Allow()
	}

	in := req.Incoming.(*document.GameSession)
	var prior *document.GameSession
	if req.Existing != nil {
		prior = req.Existing.(*document.GameSession)
	}
	if vs := ValidateGameSession(in, prior, req.Path, req.Parent); len(vs) > 0 {
		return Denied(vs)
	}
	return Allow()
}
