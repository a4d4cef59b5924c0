// Package rbac содержит модель ролей модуля приёма датасетов и
// отображение групп Keycloak на роли.
package rbac

// Роли модуля. Роль admin включает все права роли readonly.
const (
	RoleReadonly = "readonly"
	RoleAdmin    = "admin"
)

// roleWeight задаёт порядок ролей: большее значение — больше прав.
var roleWeight = map[string]int{
	RoleReadonly: 1,
	RoleAdmin:    2,
}

// IsValidRole сообщает, известна ли роль модулю.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

// HighestRole возвращает самую сильную роль из списка.
// Неизвестные роли игнорируются. Если ни одной известной роли нет,
// возвращается пустая строка.
func HighestRole(roles []string) string {
	best := ""
	bestWeight := 0
	for _, r := range roles {
		if w, ok := roleWeight[r]; ok && w > bestWeight {
			best = r
			bestWeight = w
		}
	}
	return best
}

// MapGroupsToRole отображает группы пользователя из токена на роль модуля.
// adminGroups и readonlyGroups — настроенные списки групп Keycloak.
// Членство в административной группе побеждает.
func MapGroupsToRole(groups, adminGroups, readonlyGroups []string) string {
	adminSet := toSet(adminGroups)
	readonlySet := toSet(readonlyGroups)

	role := ""
	for _, g := range groups {
		if adminSet[g] {
			return RoleAdmin
		}
		if readonlySet[g] {
			role = RoleReadonly
		}
	}
	return role
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
