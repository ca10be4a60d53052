package service

import "userhub/internal/domain/entity"

// Operation identifies one policed operation of the API surface.
type Operation string

const (
	OpViewAccount    Operation = "account.view"
	OpUpdateAccount  Operation = "account.update"
	OpDeleteAccount  Operation = "account.delete"
	OpBulkDelete     Operation = "account.bulk_delete"
	OpActivate       Operation = "account.activate"
	OpDeactivate     Operation = "account.deactivate"
	OpChangePassword Operation = "account.change_password"
	OpChangeRole     Operation = "account.change_role"
	OpUploadAvatar   Operation = "account.upload_avatar"
	OpVerifyEmail    Operation = "account.verify_email"
	OpListAccounts   Operation = "account.list"
	OpSearchAccounts Operation = "account.search"
	OpAdvancedSearch Operation = "account.advanced_search"
	OpViewStats      Operation = "account.stats"
	OpExportAccounts Operation = "account.export"
)

// selfScoped lists the operations an actor may perform on their own account
// regardless of role (the ownership escape).
var selfScoped = map[Operation]bool{
	OpViewAccount:    true,
	OpUpdateAccount:  true,
	OpChangePassword: true,
	OpUploadAvatar:   true,
	OpDeactivate:     true,
}

// moderatorOps lists the operations granted to moderators on top of the
// self-scoped set.
var moderatorOps = map[Operation]bool{
	OpListAccounts:   true,
	OpSearchAccounts: true,
	OpAdvancedSearch: true,
}

// Authorize is the pure authorization decision function. It maps the
// caller's role and identity against the operation and its target and
// returns whether the operation is permitted. It has no side effects and
// consults no store.
//
// ADMIN is permitted everything. Self-scoped operations are permitted when
// the caller is the target, independent of role. MODERATOR additionally
// gets list and search. Everything else is denied.
func Authorize(role entity.Role, callerID uint64, op Operation, targetID uint64) bool {
	if role == entity.RoleAdmin {
		return true
	}
	if selfScoped[op] && callerID != 0 && callerID == targetID {
		return true
	}
	if role == entity.RoleModerator && moderatorOps[op] {
		return true
	}

	return false
}
