package rules

import "github.com/tablekeep/tablekeep/internal/document"

// Operation is a document mutation the engine can be asked to judge.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type policyRow struct {
	Kind document.Kind
	Role document.Role
	Op   Operation
}

// mutationPolicy is the canonical (kind, role, operation) allow table,
// independent of field content. Anything not listed is denied.
//
// Editors may work inside a tournament they are a member of (update the
// tournament, manage its game sessions) but may not delete the tournament;
// membership changes are additionally restricted to the owner in Evaluate.
var mutationPolicy = map[policyRow]bool{
	{document.KindLibraryItem, document.RoleOwner, OpCreate}: true,
	{document.KindLibraryItem, document.RoleOwner, OpUpdate}: true,
	{document.KindLibraryItem, document.RoleOwner, OpDelete}: true,

	{document.KindTournament, document.RoleOwner, OpCreate}:  true,
	{document.KindTournament, document.RoleOwner, OpUpdate}:  true,
	{document.KindTournament, document.RoleOwner, OpDelete}:  true,
	{document.KindTournament, document.RoleEditor, OpUpdate}: true,

	{document.KindGameSession, document.RoleOwner, OpCreate}:  true,
	{document.KindGameSession, document.RoleOwner, OpUpdate}:  true,
	{document.KindGameSession, document.RoleOwner, OpDelete}:  true,
	{document.KindGameSession, document.RoleEditor, OpCreate}: true,
	{document.KindGameSession, document.RoleEditor, OpUpdate}: true,
	{document.KindGameSession, document.RoleEditor, OpDelete}: true,
}

// roleAllows consults the policy table.
func roleAllows(kind document.Kind, role document.Role, op Operation) bool {
	return mutationPolicy[policyRow{Kind: kind, Role: role, Op: op}]
}
