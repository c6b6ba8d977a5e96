package auth

import "strings"

// Role 内置角色
type Role string

const (
	RoleSystemAdmin  Role = "system_admin"  // 系统管理员
	RoleProjectChief Role = "project_chief" // 项目主管(JefeProyecto)
	RoleCrewLeader   Role = "crew_leader"   // 班组长(LiderCuadrilla)
	RoleWorker       Role = "worker"        // 普通工人(Trabajador)
)

// Permission 内置权限
type Permission string

const (
	PermProjectCreate   Permission = "project:create"
	PermProjectUpdate   Permission = "project:update"
	PermProjectFinalize Permission = "project:finalize"
	PermProjectView     Permission = "project:view"

	PermCrewCreate   Permission = "crew:create"
	PermCrewUpdate   Permission = "crew:update"
	PermCrewDissolve Permission = "crew:dissolve"
	PermCrewView     Permission = "crew:view"

	PermWorkerCreate Permission = "worker:create"
	PermWorkerUpdate Permission = "worker:update"
	PermWorkerState  Permission = "worker:state"
	PermWorkerView   Permission = "worker:view"

	PermChatArchive     Permission = "chat:archive"
	PermChatViewArchive Permission = "chat:view_archive"

	PermRequestResolve Permission = "request:resolve"
	PermIncidentAck    Permission = "incident:ack"

	PermResourceManage Permission = "resource:manage"
)

// RolePermissions 每个角色拥有的权限集合
var RolePermissions = map[Role][]Permission{
	RoleSystemAdmin: {
		"*",
	},
	RoleProjectChief: {
		"project:*",
		"crew:*",
		"worker:*",
		"chat:*",
		"request:*",
		"incident:*",
		"resource:*",
	},
	RoleCrewLeader: {
		"crew:view",
		"worker:view",
		"chat:archive",
		"chat:view_archive",
		"request:resolve",
		"incident:ack",
		"resource:manage",
	},
	RoleWorker: {
		"crew:view",
	},
}

// Allow 判断一组角色是否包含所需权限，支持通配符
func Allow(roles []string, need Permission) bool {
	permissions := collectPermissions(roles)

	return len(permissions) > 0 && allow(permissions, need)
}

func collectPermissions(roles []string) []Permission {
	perms := make([]Permission, 0)
	for _, r := range roles {
		if ps, ok := RolePermissions[Role(r)]; ok {
			perms = append(perms, ps...)
		}
	}
	return perms
}

func allow(have []Permission, need Permission) bool {
	reqParts := strings.Split(string(need), ":")

	for _, p := range have {
		if p == need || p == "*" {
			return true
		}

		allParts := strings.Split(string(p), ":")

		matched := true
		for i := 0; i < len(allParts); i++ {
			if allParts[i] == "*" {
				// * 匹配剩余所有段
				return true
			}
			if i >= len(reqParts) || allParts[i] != reqParts[i] {
				matched = false
				break
			}
		}

		if matched && len(allParts) == len(reqParts) {
			return true
		}
	}
	return false
}
