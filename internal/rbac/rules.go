package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"assessment:view",
		"question:view",
		"question:answer",
		"feedback:view-own",
		"grade:view",
	},
	"mentor": {
		"assessment:create",
		"assessment:view",
		"assessment:view-answers",
		"question:view",
		"response:list",
		"feedback:create",
		"grade:release",
		"grade:view",
	},
	"admin": {
		"*", // everything
	},
}
